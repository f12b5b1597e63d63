package client

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Option represents option
type Option func(c *Client)

// WithAuthStore sets the store used to read the session token and save auth results
func WithAuthStore(store AuthStore) Option {
	return func(c *Client) {
		c.authStore = store
	}
}

// WithHTTPClient sets http client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeout sets the http client timeout
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithLang sets Accept-Language header value
func WithLang(lang string) Option {
	return func(c *Client) {
		c.lang = lang
	}
}

// WithLogger sets logger
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}
