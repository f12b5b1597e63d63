// Package ui provides in-memory implementations of the user interface
// collaborators the session components talk to: a router, a toast queue and
// the current form errors.
package ui

import (
	"sync"

	"github.com/rs/zerolog"
)

const (
	// LoginRoute is where unauthenticated users are sent.
	LoginRoute = "/login"
	// RootRoute is the application root.
	RootRoute = "/"
)

// Navigator replaces the current route.
type Navigator interface {
	Replace(route string)
}

// Notifier displays error notifications.
type Notifier interface {
	AddErrorToast(message string)
}

// FormErrorSink publishes field level validation errors.
type FormErrorSink interface {
	SetErrors(errors map[string]any)
}

// Router records the current route and its history.
type Router struct {
	mu      sync.RWMutex
	current string
	history []string
	logger  zerolog.Logger
}

func (r *Router) Replace(route string) {
	r.mu.Lock()
	r.current = route
	r.history = append(r.history, route)
	r.mu.Unlock()
	r.logger.Debug().Str("route", route).Msg("route replaced")
}

func (r *Router) Current() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

func (r *Router) History() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.history...)
}

// NewRouter creates a router positioned at initial.
func NewRouter(initial string, logger zerolog.Logger) *Router {
	return &Router{current: initial, logger: logger}
}

// Toast is a single notification.
type Toast struct {
	Type    string
	Message string
}

// Toasts keeps notifications until they are drained.
type Toasts struct {
	mu     sync.Mutex
	items  []Toast
	logger zerolog.Logger
}

func (t *Toasts) AddErrorToast(message string) {
	t.mu.Lock()
	t.items = append(t.items, Toast{Type: "error", Message: message})
	t.mu.Unlock()
	t.logger.Error().Msg(message)
}

// Drain returns and removes the pending toasts.
func (t *Toasts) Drain() []Toast {
	t.mu.Lock()
	defer t.mu.Unlock()
	ret := t.items
	t.items = nil
	return ret
}

func NewToasts(logger zerolog.Logger) *Toasts {
	return &Toasts{logger: logger}
}

// FormErrors holds the field errors of the current form.
type FormErrors struct {
	mu     sync.RWMutex
	errors map[string]any
}

func (f *FormErrors) SetErrors(errors map[string]any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errors = errors
}

func (f *FormErrors) Errors() map[string]any {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.errors
}

// Reset removes all field errors.
func (f *FormErrors) Reset() {
	f.SetErrors(nil)
}
