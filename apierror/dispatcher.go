// Package apierror maps failed API calls to session lifecycle actions.
//
// Dispatcher.Handle notifies the user, publishes form field errors and, for
// 401 and 403 responses, cancels in-flight requests and either logs the
// session out or sends the user back to the application root.
package apierror

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/viant/authsession/metrics"
	"github.com/viant/authsession/ui"
)

// Canceller cancels every in-flight API request.
type Canceller interface {
	CancelAllRequests()
}

// SessionClearer removes the stored session.
type SessionClearer interface {
	Clear() error
}

// Dispatcher performs the side effects of API errors.
type Dispatcher struct {
	canceller  Canceller
	session    SessionClearer
	navigator  ui.Navigator
	notifier   ui.Notifier
	formErrors ui.FormErrorSink
	metrics    *metrics.Metrics
	logger     zerolog.Logger
}

// Option represents dispatcher option
type Option func(d *Dispatcher)

// WithMetrics sets metrics
func WithMetrics(m *metrics.Metrics) Option {
	return func(d *Dispatcher) {
		d.metrics = m
	}
}

// WithLogger sets logger
func WithLogger(logger zerolog.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

// Handle processes err; with notify an error toast shows the error message or
// defaultMessage. The returned error is only the failure to clear the session
// after a 401.
func (d *Dispatcher) Handle(err error, notify bool, defaultMessage string) error {
	classified := Classify(err, defaultMessage)
	if classified == nil || classified.IsAbort {
		return nil
	}
	d.metrics.DispatchedError(classified.Class())
	d.logger.Debug().Err(err).Int("status", classified.Status).Str("class", classified.Class()).Msg("handling api error")

	if notify && classified.Message != "" {
		d.notifier.AddErrorToast(classified.Message)
	}
	if len(classified.FieldErrors) > 0 {
		d.formErrors.SetErrors(classified.FieldErrors)
	}

	switch classified.Status {
	case 401:
		d.canceller.CancelAllRequests()
		return d.Logout(true)
	case 403:
		d.canceller.CancelAllRequests()
		d.navigator.Replace(ui.RootRoute)
	}
	return nil
}

// HandleDefault is Handle with notification and no default message.
func (d *Dispatcher) HandleDefault(err error) error {
	return d.Handle(err, true, "")
}

// Logout clears the session and optionally redirects to the login route.
func (d *Dispatcher) Logout(redirect bool) error {
	if err := d.session.Clear(); err != nil {
		return fmt.Errorf("failed to logout: %w", err)
	}
	if redirect {
		d.navigator.Replace(ui.LoginRoute)
	}
	return nil
}

// New creates a dispatcher
func New(canceller Canceller, session SessionClearer, navigator ui.Navigator, notifier ui.Notifier, formErrors ui.FormErrorSink, options ...Option) *Dispatcher {
	ret := &Dispatcher{
		canceller:  canceller,
		session:    session,
		navigator:  navigator,
		notifier:   notifier,
		formErrors: formErrors,
		logger:     zerolog.Nop(),
	}
	for _, opt := range options {
		opt(ret)
	}
	return ret
}
