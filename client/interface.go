package client

import "context"

// AuthStore holds the session the client authenticates with.
type AuthStore interface {
	Token() string
	Record() Record
	IsValid() bool
	Save(token string, record Record) error
	Clear() error
}

// Interface defines the client operations consumed by the session components
type Interface interface {
	// Send executes a request, decoding a successful JSON response into out
	Send(ctx context.Context, method, path string, body, out any) error

	// Collection returns record operations of a collection
	Collection(nameOrID string) *RecordService

	// Files returns file operations
	Files() *FileService

	// CancelAllRequests cancels every in-flight request
	CancelAllRequests()

	// CancelRequest cancels the in-flight request registered under key
	CancelRequest(key string)
}

var _ Interface = (*Client)(nil)

type nopAuthStore struct{}

func (nopAuthStore) Token() string             { return "" }
func (nopAuthStore) Record() Record            { return nil }
func (nopAuthStore) IsValid() bool             { return false }
func (nopAuthStore) Save(string, Record) error { return nil }
func (nopAuthStore) Clear() error              { return nil }
