package tracker

import (
	"sync"

	"github.com/mwdirectory/mwtrack-go/models"
)

// SignalBus is an in-process auth signal channel. The tracker subscribes
// at initialization; the auth endpoint publishes state changes into it.
type SignalBus struct {
	mu        sync.Mutex
	listeners []func(user *models.AuthUser)
}

// NewSignalBus creates an empty bus.
func NewSignalBus() *SignalBus {
	return &SignalBus{}
}

// Subscribe registers a listener for the lifetime of the bus.
func (b *SignalBus) Subscribe(fn func(user *models.AuthUser)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners = append(b.listeners, fn)
}

// Publish delivers an auth state change to every listener in
// registration order. A nil user means signed out.
func (b *SignalBus) Publish(user *models.AuthUser) {
	b.mu.Lock()
	listeners := make([]func(user *models.AuthUser), len(b.listeners))
	copy(listeners, b.listeners)
	b.mu.Unlock()

	for _, fn := range listeners {
		fn(user)
	}
}
