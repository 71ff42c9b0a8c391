package identity

import (
	"context"
	"sync"
)

// DevProvider is an in-process identity provider for development and tests.
// Sign-ins are driven through the Emit methods instead of a hosted flow;
// delivery order matches emission order.
type DevProvider struct {
	mu          sync.Mutex
	nextID      int
	subscribers map[int]func(*RawSession)
	pending     *RawSession
	last        *RawSession
}

func NewDevProvider() *DevProvider {
	return &DevProvider{subscribers: make(map[int]func(*RawSession))}
}

// SetPendingRedirectResult stages a payload to be returned by the next
// CompletePendingRedirectSignIn call, simulating a redirect sign-in that
// finished before the process started.
func (p *DevProvider) SetPendingRedirectResult(raw *RawSession) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pending = raw
}

func (p *DevProvider) Subscribe(onChange func(*RawSession)) func() {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := p.nextID
	p.nextID++
	p.subscribers[id] = onChange
	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.subscribers, id)
	}
}

func (p *DevProvider) CompletePendingRedirectSignIn(_ context.Context) (*RawSession, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	pending := p.pending
	p.pending = nil
	if pending != nil {
		p.last = pending
	}
	return pending, nil
}

func (p *DevProvider) SignOut(_ context.Context) error {
	p.EmitSignOut()
	return nil
}

// EmitSignIn delivers a sign-in event to all subscribers.
func (p *DevProvider) EmitSignIn(raw *RawSession) {
	p.mu.Lock()
	p.last = raw
	subs := p.snapshot()
	p.mu.Unlock()
	for _, fn := range subs {
		fn(raw)
	}
}

// EmitSignOut delivers a signed-out event to all subscribers.
func (p *DevProvider) EmitSignOut() {
	p.mu.Lock()
	p.last = nil
	subs := p.snapshot()
	p.mu.Unlock()
	for _, fn := range subs {
		fn(nil)
	}
}

// snapshot copies the subscriber list so callbacks run without holding the lock.
// Callers must hold p.mu.
func (p *DevProvider) snapshot() []func(*RawSession) {
	subs := make([]func(*RawSession), 0, len(p.subscribers))
	for _, fn := range p.subscribers {
		subs = append(subs, fn)
	}
	return subs
}
