// Package superuser holds the process-wide projection of the currently
// authenticated superuser.
//
// The projection is written only by the auth store when the session changes;
// everything else reads it or subscribes to it.
package superuser

import (
	"sync"

	"github.com/viant/authsession/client"
)

// CollectionName is the collection of superuser records.
const CollectionName = "_superusers"

// Sink receives the superuser record, or nil when there is none.
type Sink interface {
	SetSuperuser(record client.Record)
}

// Listener is notified with the current superuser.
type Listener func(record client.Record)

// Projector is an observable holding the current superuser record.
type Projector struct {
	mu        sync.RWMutex
	current   client.Record
	nextID    int
	listeners map[int]Listener
}

// Get returns a copy of the current superuser, nil when nobody is signed in.
func (p *Projector) Get() client.Record {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.current.Clone()
}

// IsSet reports whether a superuser is signed in.
func (p *Projector) IsSet() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.current != nil
}

// Subscribe calls listener with the current value and on every change. The
// returned function removes the listener.
func (p *Projector) Subscribe(listener Listener) func() {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.listeners[id] = listener
	current := p.current.Clone()
	p.mu.Unlock()

	listener(current)
	return func() {
		p.mu.Lock()
		delete(p.listeners, id)
		p.mu.Unlock()
	}
}

// SetSuperuser replaces the projection and notifies listeners before returning.
func (p *Projector) SetSuperuser(record client.Record) {
	p.mu.Lock()
	p.current = record.Clone()
	listeners := make([]Listener, 0, len(p.listeners))
	for _, listener := range p.listeners {
		listeners = append(listeners, listener)
	}
	p.mu.Unlock()

	for _, listener := range listeners {
		listener(record.Clone())
	}
}

// New creates an empty projector.
func New() *Projector {
	return &Projector{listeners: map[int]Listener{}}
}
