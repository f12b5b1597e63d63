package authstore

import (
	"sync"
	"sync/atomic"

	"github.com/viant/authsession/client"
	"github.com/viant/authsession/internal/collection"
	"github.com/viant/authsession/superuser"
)

// AppStore publishes the superuser projection after every session change.
// Its listeners run once both the session and the projection are updated.
type AppStore struct {
	mu        sync.Mutex
	base      client.AuthStore
	sink      superuser.Sink
	listeners *collection.SyncMap[int, ChangeListener]
	nextID    atomic.Int64
}

func (s *AppStore) Token() string         { return s.base.Token() }
func (s *AppStore) Record() client.Record { return s.base.Record() }
func (s *AppStore) IsValid() bool         { return s.base.IsValid() }

// OnChange registers listener; the returned function removes it.
func (s *AppStore) OnChange(listener ChangeListener) func() {
	id := int(s.nextID.Add(1))
	s.listeners.Put(id, listener)
	return func() {
		s.listeners.Delete(id)
	}
}

// Save persists the session, then publishes record when it is a superuser
// and clears the projection otherwise. On a storage failure neither the
// session nor the projection change.
func (s *AppStore) Save(token string, record client.Record) error {
	s.mu.Lock()
	if err := s.base.Save(token, record); err != nil {
		s.mu.Unlock()
		return err
	}
	s.publish(record)
	token, record = s.base.Token(), s.base.Record()
	s.mu.Unlock()
	s.notify(token, record)
	return nil
}

// Clear removes the session and the projection.
func (s *AppStore) Clear() error {
	s.mu.Lock()
	if err := s.base.Clear(); err != nil {
		s.mu.Unlock()
		return err
	}
	s.sink.SetSuperuser(nil)
	s.mu.Unlock()
	s.notify("", nil)
	return nil
}

func (s *AppStore) notify(token string, record client.Record) {
	s.listeners.Range(func(_ int, listener ChangeListener) bool {
		listener(token, record.Clone())
		return true
	})
}

func (s *AppStore) publish(record client.Record) {
	if isSuperuser(record) {
		s.sink.SetSuperuser(record)
		return
	}
	s.sink.SetSuperuser(nil)
}

func isSuperuser(record client.Record) bool {
	return record != nil && record.CollectionName() == superuser.CollectionName
}

// NewAppStore wraps base and seeds sink with the session already stored.
func NewAppStore(base client.AuthStore, sink superuser.Sink) *AppStore {
	ret := &AppStore{base: base, sink: sink, listeners: collection.NewSyncMap[int, ChangeListener]()}
	ret.publish(base.Record())
	return ret
}
