package web

import (
	"context"
	"sync"
	"time"

	"github.com/doeshing/medilogic/internal/application/intake"
	"github.com/doeshing/medilogic/internal/domain"
	"github.com/doeshing/medilogic/internal/ports"
)

// ControllerFactory builds the controller of a new session around its
// storage and page view.
type ControllerFactory func(storage ports.SessionStorage, view *View) *intake.Controller

// Session is one browser session: a page view and the controller driving it.
type Session struct {
	ID         string
	Controller *intake.Controller
	View       *View

	lastSeen time.Time
}

// Registry keeps the live sessions of the web front end.
type Registry struct {
	backend ports.SessionBackend
	factory ControllerFactory
	vocab   domain.Vocabulary
	ttl     time.Duration
	now     func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewRegistry creates a registry whose sessions store history in backend.
func NewRegistry(backend ports.SessionBackend, vocab domain.Vocabulary, ttl time.Duration, factory ControllerFactory) *Registry {
	return &Registry{
		backend:  backend,
		factory:  factory,
		vocab:    vocab,
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

// Get returns the session for id, creating it on first use. Every call reloads
// the history panel from storage, which also keeps the stored session alive
// for as long as the browser keeps using it.
func (r *Registry) Get(ctx context.Context, id string) *Session {
	r.mu.Lock()
	sess, ok := r.sessions[id]
	if ok {
		sess.lastSeen = r.now()
	} else {
		view := NewView(r.vocab)
		sess = &Session{
			ID:         id,
			Controller: r.factory(r.backend.Open(id), view),
			View:       view,
			lastSeen:   r.now(),
		}
		r.sessions[id] = sess
	}
	r.mu.Unlock()

	sess.Controller.RefreshHistory(ctx)
	return sess
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep drops sessions idle for longer than the TTL and returns how many
// were removed.
func (r *Registry) Sweep() int {
	if r.ttl <= 0 {
		return 0
	}
	cutoff := r.now().Add(-r.ttl)

	r.mu.Lock()
	removed := 0
	for id, sess := range r.sessions {
		if sess.lastSeen.Before(cutoff) {
			delete(r.sessions, id)
			removed++
		}
	}
	r.mu.Unlock()

	switch backend := r.backend.(type) {
	case interface{ Sweep() int }:
		backend.Sweep()
	case interface{ Prune(context.Context) error }:
		_ = backend.Prune(context.Background())
	}
	return removed
}

// RunSweeper calls Sweep every interval until ctx is done.
func (r *Registry) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep()
		}
	}
}
