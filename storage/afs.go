package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"sync"

	"github.com/viant/afs"
	aurl "github.com/viant/afs/url"
)

// AFSStorage keeps every key in its own object under a base URL.
type AFSStorage struct {
	mu      sync.Mutex
	baseURL string
	fs      afs.Service
}

func (s *AFSStorage) keyURL(key string) string {
	return aurl.Join(s.baseURL, url.PathEscape(key))
}

func (s *AFSStorage) Get(ctx context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	URL := s.keyURL(key)
	ok, err := s.fs.Exists(ctx, URL)
	if err != nil {
		return "", false, fmt.Errorf("failed to check %v: %w", URL, err)
	}
	if !ok {
		return "", false, nil
	}
	data, err := s.fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return "", false, fmt.Errorf("failed to read %v: %w", URL, err)
	}
	return string(data), true, nil
}

func (s *AFSStorage) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	URL := s.keyURL(key)
	if err := s.fs.Upload(ctx, URL, 0o600, bytes.NewReader([]byte(value))); err != nil {
		return fmt.Errorf("failed to write %v: %w", URL, err)
	}
	return nil
}

func (s *AFSStorage) Remove(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	URL := s.keyURL(key)
	ok, err := s.fs.Exists(ctx, URL)
	if err != nil || !ok {
		return err
	}
	if err = s.fs.Delete(ctx, URL); err != nil {
		return fmt.Errorf("failed to delete %v: %w", URL, err)
	}
	return nil
}

// NewAFS creates a Storage persisting keys under baseURL, e.g. a local
// directory or file:///var/lib/app/session.
func NewAFS(baseURL string) *AFSStorage {
	return &AFSStorage{baseURL: baseURL, fs: afs.New()}
}
