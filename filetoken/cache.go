package filetoken

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/viant/authsession/metrics"
	"github.com/viant/authsession/storage"
	"github.com/viant/authsession/token"
	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"
)

const (
	// DefaultStorageKey is the storage key of the cached token.
	DefaultStorageKey = "hz_superuser_file_token"
	// DefaultMargin is how long before its expiry a token is already refreshed.
	DefaultMargin = 10 * time.Second

	flightKey = "fileToken"
)

// Issuer issues a new file token.
type Issuer interface {
	GetToken(ctx context.Context) (string, error)
}

// Cache is a single-flight, expiry aware file token cache.
type Cache struct {
	storage storage.Storage
	issuer  Issuer
	lookup  Lookup
	key     string
	margin  time.Duration
	flight  singleflight.Group
	metrics *metrics.Metrics
	logger  zerolog.Logger
	now     func() time.Time
}

// Get returns a token valid for at least the safety margin, or "" when files
// of collectionID do not need one. An empty collectionID always needs a token.
func (c *Cache) Get(ctx context.Context, collectionID string) (string, error) {
	if !c.needToken(collectionID) {
		c.metrics.FileToken("skip")
		return "", nil
	}
	entry, err := c.load(ctx)
	if err != nil {
		return "", err
	}
	if c.valid(entry) {
		c.metrics.FileToken("hit")
		return entry.AccessToken, nil
	}

	// the flight outlives a cancelled caller; other waiters still get the result
	flightCtx := context.WithoutCancel(ctx)
	result := c.flight.DoChan(flightKey, func() (any, error) {
		return c.refresh(flightCtx)
	})
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-result:
		if res.Err != nil {
			c.metrics.FileToken("error")
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

// Invalidate drops the cached token.
func (c *Cache) Invalidate(ctx context.Context) error {
	return c.storage.Remove(ctx, c.key)
}

func (c *Cache) needToken(collectionID string) bool {
	if collectionID == "" || c.lookup == nil {
		return true
	}
	if protected, ok := c.lookup.Protected(collectionID); ok {
		return protected
	}
	return true
}

func (c *Cache) refresh(ctx context.Context) (string, error) {
	// a flight that finished just before this one may already have stored a token
	entry, err := c.load(ctx)
	if err != nil {
		return "", err
	}
	if c.valid(entry) {
		return entry.AccessToken, nil
	}
	if entry != nil {
		if err = c.storage.Remove(ctx, c.key); err != nil {
			return "", fmt.Errorf("failed to remove expiring file token: %w", err)
		}
	}
	c.metrics.FileToken("fetch")
	accessToken, err := c.issuer.GetToken(ctx)
	if err != nil {
		c.logger.Debug().Err(err).Msg("file token request failed")
		return "", err
	}
	entry = &oauth2.Token{AccessToken: accessToken}
	if expiry, ok := token.Expiry(accessToken); ok {
		entry.Expiry = expiry
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return "", fmt.Errorf("failed to encode file token: %w", err)
	}
	if err = c.storage.Set(ctx, c.key, string(data)); err != nil {
		return "", fmt.Errorf("failed to store file token: %w", err)
	}
	c.logger.Debug().Time("expiry", entry.Expiry).Msg("file token refreshed")
	return accessToken, nil
}

func (c *Cache) load(ctx context.Context) (*oauth2.Token, error) {
	value, ok, err := c.storage.Get(ctx, c.key)
	if err != nil {
		return nil, fmt.Errorf("failed to read file token: %w", err)
	}
	if !ok || value == "" {
		return nil, nil
	}
	entry := &oauth2.Token{}
	if strings.HasPrefix(value, "{") {
		if err = json.Unmarshal([]byte(value), entry); err != nil {
			c.logger.Warn().Err(err).Msg("ignoring malformed file token entry")
		}
		return entry, nil
	}
	// raw token as written by older clients
	entry.AccessToken = value
	if expiry, ok := token.Expiry(value); ok {
		entry.Expiry = expiry
	}
	return entry, nil
}

func (c *Cache) valid(entry *oauth2.Token) bool {
	if entry == nil || entry.AccessToken == "" {
		return false
	}
	if entry.Expiry.IsZero() {
		return !token.IsExpired(entry.AccessToken, c.margin)
	}
	return entry.Expiry.Add(-c.margin).After(c.now())
}

// Option represents cache option
type Option func(c *Cache)

// WithStorageKey sets the storage key
func WithStorageKey(key string) Option {
	return func(c *Cache) {
		if key != "" {
			c.key = key
		}
	}
}

// WithMargin sets the safety margin before expiry
func WithMargin(margin time.Duration) Option {
	return func(c *Cache) {
		c.margin = margin
	}
}

// WithLookup sets the protected collection lookup
func WithLookup(lookup Lookup) Option {
	return func(c *Cache) {
		c.lookup = lookup
	}
}

// WithMetrics sets metrics
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Cache) {
		c.metrics = m
	}
}

// WithLogger sets logger
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Cache) {
		c.logger = logger
	}
}

// New creates a cache storing tokens issued by issuer in storage.
func New(storage storage.Storage, issuer Issuer, options ...Option) *Cache {
	ret := &Cache{
		storage: storage,
		issuer:  issuer,
		key:     DefaultStorageKey,
		margin:  DefaultMargin,
		logger:  zerolog.Nop(),
		now:     time.Now,
	}
	for _, opt := range options {
		opt(ret)
	}
	return ret
}
