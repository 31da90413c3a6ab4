// Package session holds the owned session-state object for the
// process. It replaces ambient global auth state: the provider is
// constructed once at the composition root and injected into
// everything that needs the current identity.
package session

import (
	"sync"

	"github.com/uni-mart/unimart-backend/internal/auth"
)

// State is the snapshot published to observers. Resolving is true
// until the identity provider has reported for the first time,
// success or null.
type State struct {
	Identity  *auth.Identity
	Resolving bool
}

// Observer receives state snapshots. Observers run synchronously on
// the resolving goroutine and must not block.
type Observer func(State)

// CancelFunc removes an observer. Safe to call more than once; only
// the first call releases the registration.
type CancelFunc func()

// Provider tracks the current authenticated identity.
type Provider struct {
	mu        sync.Mutex
	identity  *auth.Identity
	resolving bool

	nextID    int
	observers map[int]Observer
}

func NewProvider() *Provider {
	return &Provider{
		resolving: true,
		observers: make(map[int]Observer),
	}
}

// Current returns the identity and whether the first resolution is
// still outstanding.
func (p *Provider) Current() (*auth.Identity, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.identity, p.resolving
}

// Resolve records a notification from the identity provider. The
// first call, identity or nil, ends the resolving phase; later calls
// update the identity without touching it.
func (p *Provider) Resolve(identity *auth.Identity) {
	p.mu.Lock()
	p.identity = identity
	p.resolving = false
	state := State{Identity: identity, Resolving: false}
	observers := make([]Observer, 0, len(p.observers))
	for _, fn := range p.observers {
		observers = append(observers, fn)
	}
	p.mu.Unlock()

	// Publish outside the lock so an observer may re-enter the provider.
	for _, fn := range observers {
		fn(state)
	}
}

// Clear drops the current identity (sign-out). Equivalent to
// Resolve(nil) once the provider has resolved.
func (p *Provider) Clear() {
	p.Resolve(nil)
}

// Subscribe registers an observer and immediately delivers the
// current state to it. The returned cancel is idempotent.
func (p *Provider) Subscribe(fn Observer) CancelFunc {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.observers[id] = fn
	state := State{Identity: p.identity, Resolving: p.resolving}
	p.mu.Unlock()

	fn(state)

	var once sync.Once
	return func() {
		once.Do(func() {
			p.mu.Lock()
			delete(p.observers, id)
			p.mu.Unlock()
		})
	}
}
