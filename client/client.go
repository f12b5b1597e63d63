package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/viant/authsession/internal/collection"
)

type pendingRequest struct {
	cancel context.CancelFunc
}

// Client executes API requests on behalf of the current session.
type Client struct {
	baseURL    string
	authStore  AuthStore
	httpClient *http.Client
	timeout    time.Duration
	lang       string
	logger     zerolog.Logger
	pending    *collection.SyncMap[string, *pendingRequest]
}

// AuthStore returns the store the client authenticates with.
func (c *Client) AuthStore() AuthStore {
	return c.authStore
}

// BaseURL returns the API base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// BuildURL joins path with the base URL.
func (c *Client) BuildURL(path string) string {
	return strings.TrimRight(c.baseURL, "/") + "/" + strings.TrimLeft(path, "/")
}

// Collection returns record operations of a collection
func (c *Client) Collection(nameOrID string) *RecordService {
	return &RecordService{client: c, collection: nameOrID}
}

// Files returns file operations
func (c *Client) Files() *FileService {
	return &FileService{client: c}
}

// Collections returns collection schema operations
func (c *Client) Collections() *CollectionService {
	return &CollectionService{client: c}
}

// CancelAllRequests cancels every in-flight request.
func (c *Client) CancelAllRequests() {
	pending := c.pending.Drain()
	for _, request := range pending {
		request.cancel()
	}
	if len(pending) > 0 {
		c.logger.Debug().Int("count", len(pending)).Msg("cancelled pending requests")
	}
}

// CancelRequest cancels the in-flight request registered under key.
func (c *Client) CancelRequest(key string) {
	if request, ok := c.pending.Take(key); ok {
		request.cancel()
	}
}

// Pending returns the number of in-flight requests.
func (c *Client) Pending() int {
	return c.pending.Len()
}

// Send executes a request, decoding a successful JSON response into out.
// Any failure is returned as *Error.
func (c *Client) Send(ctx context.Context, method, path string, body, out any) error {
	URL := c.BuildURL(path)
	key := requestKey(ctx)
	if key == "" {
		key = uuid.NewString()
	} else {
		c.CancelRequest(key)
	}
	reqCtx, cancel := context.WithCancel(ctx)
	pending := &pendingRequest{cancel: cancel}
	c.pending.Put(key, pending)
	defer func() {
		c.pending.DeleteFunc(key, func(p *pendingRequest) bool { return p == pending })
		cancel()
	}()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &Error{URL: URL, Err: fmt.Errorf("failed to encode request body: %w", err)}
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(reqCtx, method, URL, reader)
	if err != nil {
		return &Error{URL: URL, Err: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.lang != "" {
		req.Header.Set("Accept-Language", c.lang)
	}
	if token := c.authStore.Token(); token != "" {
		req.Header.Set("Authorization", token)
	}

	c.logger.Debug().Str("method", method).Str("url", URL).Str("key", key).Msg("sending request")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return newAbortError(URL, err)
		}
		return &Error{URL: URL, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return newAbortError(URL, err)
		}
		return &Error{URL: URL, Status: resp.StatusCode, Err: err}
	}
	if resp.StatusCode >= http.StatusBadRequest {
		response := map[string]any{}
		if len(data) > 0 {
			_ = json.Unmarshal(data, &response)
		}
		return &Error{URL: URL, Status: resp.StatusCode, Response: response}
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err = json.Unmarshal(data, out); err != nil {
		return &Error{URL: URL, Status: resp.StatusCode, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return nil
}

// New creates a client for the API at baseURL.
func New(baseURL string, options ...Option) *Client {
	ret := &Client{
		baseURL:   baseURL,
		authStore: nopAuthStore{},
		logger:    zerolog.Nop(),
		lang:      "en-US",
		pending:   collection.NewSyncMap[string, *pendingRequest](),
	}
	for _, opt := range options {
		opt(ret)
	}
	if ret.httpClient == nil {
		ret.httpClient = &http.Client{Timeout: ret.timeout}
	}
	return ret
}
