package authsession

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/viant/authsession/apierror"
	"github.com/viant/authsession/authstore"
	"github.com/viant/authsession/bootstrap"
	"github.com/viant/authsession/client"
	"github.com/viant/authsession/filetoken"
	"github.com/viant/authsession/metrics"
	"github.com/viant/authsession/storage"
	"github.com/viant/authsession/superuser"
	"github.com/viant/authsession/ui"
)

// App wires the session components of one process. It is the single owner of
// the superuser projection; create one per process and Close it on exit.
type App struct {
	Options    *Options
	Logger     zerolog.Logger
	Registry   *prometheus.Registry
	Metrics    *metrics.Metrics
	Storage    storage.Storage
	Client     *client.Client
	Superuser  *superuser.Projector
	Store      *authstore.AppStore
	Router     *ui.Router
	Toasts     *ui.Toasts
	FormErrors *ui.FormErrors
	Errors     *apierror.Dispatcher
	Protected  *filetoken.ProtectedCollections
	FileTokens *filetoken.Cache
	Bootstrap  *bootstrap.Service
	redis      *redis.Client
}

// Start runs the startup session refresh.
func (a *App) Start(ctx context.Context) error {
	return a.Bootstrap.Run(ctx)
}

// Logout clears the session and optionally redirects to the login route.
func (a *App) Logout(redirect bool) error {
	return a.Errors.Logout(redirect)
}

// HandleError dispatches an API error.
func (a *App) HandleError(err error, notify bool, defaultMessage string) error {
	return a.Errors.Handle(err, notify, defaultMessage)
}

// FileToken returns a token for protected files of collectionID.
func (a *App) FileToken(ctx context.Context, collectionID string) (string, error) {
	return a.FileTokens.Get(ctx, collectionID)
}

// FileURL returns the download URL of a record file, with a token when the
// collection has protected files.
func (a *App) FileURL(ctx context.Context, record client.Record, filename string) (string, error) {
	fileToken, err := a.FileTokens.Get(ctx, record.CollectionID())
	if err != nil {
		return "", err
	}
	return a.Client.Files().URL(record, filename, fileToken), nil
}

// RefreshProtectedCollections reloads which collections have protected files.
func (a *App) RefreshProtectedCollections(ctx context.Context) error {
	return a.Protected.Refresh(ctx, a.Client.Collections())
}

// Close releases storage connections.
func (a *App) Close() error {
	if a.Client != nil {
		a.Client.CancelAllRequests()
	}
	if a.redis != nil {
		return a.redis.Close()
	}
	return nil
}

func newStorage(options *Options) (storage.Storage, *redis.Client, error) {
	if options.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: options.RedisAddr})
		return storage.NewRedis(rdb, options.RedisPrefix), rdb, nil
	}
	switch URL := strings.TrimSpace(options.StorageURL); URL {
	case "", "mem":
		return storage.NewMemory(nil), nil, nil
	default:
		if _, err := url.Parse(URL); err != nil {
			return nil, nil, fmt.Errorf("invalid storage url %v: %w", URL, err)
		}
		return storage.NewAFS(URL), nil, nil
	}
}

// New creates an App; logger may be zerolog.Nop().
func New(ctx context.Context, options *Options, logger zerolog.Logger) (*App, error) {
	if options == nil {
		return nil, errors.New("options were nil")
	}
	options.Init()
	if err := options.Validate(); err != nil {
		return nil, err
	}
	ret := &App{Options: options, Logger: logger, Registry: prometheus.NewRegistry()}
	ret.Metrics = metrics.New(ret.Registry)

	var err error
	if ret.Storage, ret.redis, err = newStorage(options); err != nil {
		return nil, err
	}
	base, err := authstore.NewLocalStore(ctx, ret.Storage,
		authstore.WithStorageKey(options.AuthStorageKey),
		authstore.WithLogger(logger))
	if err != nil {
		_ = ret.Close()
		return nil, err
	}
	ret.Superuser = superuser.New()
	ret.Store = authstore.NewAppStore(base, ret.Superuser)
	ret.Client = client.New(options.BaseURL,
		client.WithAuthStore(ret.Store),
		client.WithTimeout(options.Timeout()),
		client.WithLang(options.Lang),
		client.WithLogger(logger))

	ret.Router = ui.NewRouter(ui.RootRoute, logger)
	ret.Toasts = ui.NewToasts(logger)
	ret.FormErrors = &ui.FormErrors{}
	ret.Errors = apierror.New(ret.Client, ret.Store, ret.Router, ret.Toasts, ret.FormErrors,
		apierror.WithMetrics(ret.Metrics),
		apierror.WithLogger(logger))

	ret.Protected = filetoken.NewProtectedCollections()
	ret.FileTokens = filetoken.New(ret.Storage, ret.Client.Files(),
		filetoken.WithStorageKey(options.FileTokenKey),
		filetoken.WithMargin(options.FileTokenMargin()),
		filetoken.WithLookup(ret.Protected),
		filetoken.WithMetrics(ret.Metrics),
		filetoken.WithLogger(logger))
	ret.Bootstrap = bootstrap.New(ret.Store, ret.Client,
		bootstrap.WithMetrics(ret.Metrics),
		bootstrap.WithLogger(logger))
	return ret, nil
}
