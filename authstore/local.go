package authstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/viant/authsession/client"
	"github.com/viant/authsession/storage"
	"github.com/viant/authsession/token"
)

// DefaultStorageKey is the storage key of the persisted session.
const DefaultStorageKey = "__hz_superuser_auth__"

// ErrInvalidRecord is reported when the persisted session cannot be decoded.
var ErrInvalidRecord = errors.New("invalid persisted session")

// ChangeListener is notified after the session changed.
type ChangeListener func(token string, record client.Record)

// Session is the persisted token/record pair.
type Session struct {
	Token  string        `json:"token"`
	Record client.Record `json:"record"`
}

// LocalStore keeps the session in durable storage under a single key.
type LocalStore struct {
	mu        sync.RWMutex
	storage   storage.Storage
	key       string
	session   Session
	logger    zerolog.Logger
	nextID    int
	listeners map[int]ChangeListener
}

// Option represents LocalStore option
type Option func(s *LocalStore)

// WithStorageKey sets the storage key
func WithStorageKey(key string) Option {
	return func(s *LocalStore) {
		if key != "" {
			s.key = key
		}
	}
}

// WithLogger sets logger
func WithLogger(logger zerolog.Logger) Option {
	return func(s *LocalStore) {
		s.logger = logger
	}
}

func (s *LocalStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.Token
}

func (s *LocalStore) Record() client.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.Record.Clone()
}

// IsValid reports whether a well-formed, non expired token is stored.
func (s *LocalStore) IsValid() bool {
	return !token.IsExpired(s.Token(), 0)
}

// Save persists token and record as one document; in-memory state changes
// only after the write succeeded.
func (s *LocalStore) Save(token string, record client.Record) error {
	if token == "" && record == nil {
		return s.Clear()
	}
	session := Session{Token: token, Record: record.Clone()}
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	s.mu.Lock()
	if err = s.storage.Set(context.Background(), s.key, string(data)); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to persist session: %w", err)
	}
	s.session = session
	listeners := s.snapshotListeners()
	s.mu.Unlock()
	s.notify(listeners, session)
	return nil
}

// Clear removes the persisted session.
func (s *LocalStore) Clear() error {
	s.mu.Lock()
	if err := s.storage.Remove(context.Background(), s.key); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to remove session: %w", err)
	}
	s.session = Session{}
	listeners := s.snapshotListeners()
	s.mu.Unlock()
	s.notify(listeners, Session{})
	return nil
}

// OnChange registers listener; the returned function removes it.
func (s *LocalStore) OnChange(listener ChangeListener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = listener
	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

func (s *LocalStore) snapshotListeners() []ChangeListener {
	ret := make([]ChangeListener, 0, len(s.listeners))
	for _, listener := range s.listeners {
		ret = append(ret, listener)
	}
	return ret
}

func (s *LocalStore) notify(listeners []ChangeListener, session Session) {
	for _, listener := range listeners {
		listener(session.Token, session.Record.Clone())
	}
}

func (s *LocalStore) load(ctx context.Context) error {
	data, ok, err := s.storage.Get(ctx, s.key)
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}
	if !ok || data == "" {
		return nil
	}
	var session Session
	if err = json.Unmarshal([]byte(data), &session); err != nil {
		s.logger.Warn().Err(fmt.Errorf("%w: %v", ErrInvalidRecord, err)).Str("key", s.key).Msg("ignoring persisted session")
		return nil
	}
	s.session = session
	return nil
}

// NewLocalStore creates a store and loads the session persisted in storage.
// Only a storage read failure is returned; a malformed document is logged
// and treated as no session.
func NewLocalStore(ctx context.Context, storage storage.Storage, options ...Option) (*LocalStore, error) {
	ret := &LocalStore{
		storage:   storage,
		key:       DefaultStorageKey,
		logger:    zerolog.Nop(),
		listeners: map[int]ChangeListener{},
	}
	for _, opt := range options {
		opt(ret)
	}
	if err := ret.load(ctx); err != nil {
		return nil, err
	}
	return ret, nil
}
