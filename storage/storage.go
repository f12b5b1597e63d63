package storage

import (
	"context"
	"sync"
)

// Storage is a pluggable string key/value persistence layer.
type Storage interface {
	// Get returns the value stored under key, ok is false when the key is missing.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
	// Remove deletes key; removing a missing key is not an error.
	Remove(ctx context.Context, key string) error
}

type memoryStorage struct {
	mu     sync.RWMutex
	values map[string]string
}

func (m *memoryStorage) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.values[key]
	return value, ok, nil
}

func (m *memoryStorage) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *memoryStorage) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

// NewMemory creates an in-memory storage, optionally seeded with values.
func NewMemory(seed map[string]string) Storage {
	ret := &memoryStorage{values: map[string]string{}}
	for k, v := range seed {
		ret.values[k] = v
	}
	return ret
}
