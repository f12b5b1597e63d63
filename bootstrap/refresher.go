// Package bootstrap refreshes a stored session once at process start.
package bootstrap

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/viant/authsession/client"
	"github.com/viant/authsession/internal/conv"
	"github.com/viant/authsession/metrics"
	"github.com/viant/authsession/superuser"
)

// Refresher is the subset of the API client used to refresh a session.
type Refresher interface {
	Collection(nameOrID string) *client.RecordService
}

// Service refreshes the stored session at startup.
type Service struct {
	store   client.AuthStore
	client  Refresher
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

// Run refreshes the stored session when it is still valid. A refresh rejected
// with 401 or 403 clears the session; any other failure only logs a warning.
// The returned error is the failure to clear the session.
func (s *Service) Run(ctx context.Context) error {
	if !s.store.IsValid() {
		s.metrics.Bootstrap("skipped")
		return nil
	}
	name := s.store.Record().CollectionName()
	if name == "" {
		name = superuser.CollectionName
	}
	_, err := s.client.Collection(name).AuthRefresh(ctx)
	if err == nil {
		s.metrics.Bootstrap("refreshed")
		return nil
	}
	s.logger.Warn().Err(err).Str("collection", name).Msg("failed to refresh the existing auth token")
	if !isRejected(err) {
		s.metrics.Bootstrap("kept")
		return nil
	}
	s.metrics.Bootstrap("cleared")
	return s.store.Clear()
}

func isRejected(err error) bool {
	var apiErr *client.Error
	if !errors.As(err, &apiErr) || apiErr == nil {
		return false
	}
	status := int(conv.AsInt32(apiErr.Status))
	return status == 401 || status == 403
}

// Option represents service option
type Option func(s *Service)

// WithMetrics sets metrics
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithLogger sets logger
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// New creates a bootstrap service
func New(store client.AuthStore, api Refresher, options ...Option) *Service {
	ret := &Service{store: store, client: api, logger: zerolog.Nop()}
	for _, opt := range options {
		opt(ret)
	}
	return ret
}
