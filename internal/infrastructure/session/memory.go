package session

import (
	"context"
	"sync"
	"time"

	"github.com/doeshing/medilogic/internal/domain"
	"github.com/doeshing/medilogic/internal/ports"
)

// MemoryBackend keeps session storage in process memory. A session whose
// items have not been touched for ttl is dropped.
type MemoryBackend struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	sessions map[string]*memorySession
}

type memorySession struct {
	items   map[string][]byte
	touched time.Time
}

// NewMemoryBackend creates an in-process backend.
func NewMemoryBackend(ttl time.Duration) *MemoryBackend {
	return &MemoryBackend{
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]*memorySession),
	}
}

func (b *MemoryBackend) Name() string {
	return domain.SessionBackendMemory
}

// Open returns storage bound to sessionID.
func (b *MemoryBackend) Open(sessionID string) ports.SessionStorage {
	return &memoryStorage{backend: b, sessionID: sessionID}
}

func (b *MemoryBackend) Ping(context.Context) error {
	return nil
}

func (b *MemoryBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sessions = make(map[string]*memorySession)
	return nil
}

// Sweep drops expired sessions and returns how many were removed.
func (b *MemoryBackend) Sweep() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	now := b.now()
	removed := 0
	for id, sess := range b.sessions {
		if b.expired(sess, now) {
			delete(b.sessions, id)
			removed++
		}
	}
	return removed
}

func (b *MemoryBackend) expired(sess *memorySession, now time.Time) bool {
	return b.ttl > 0 && now.Sub(sess.touched) > b.ttl
}

// session returns the live session for id; create controls whether a missing
// one is allocated. Callers hold b.mu.
func (b *MemoryBackend) session(id string, create bool) *memorySession {
	now := b.now()
	sess, ok := b.sessions[id]
	if ok && b.expired(sess, now) {
		delete(b.sessions, id)
		ok = false
	}
	if !ok {
		if !create {
			return nil
		}
		sess = &memorySession{items: make(map[string][]byte)}
		b.sessions[id] = sess
	}
	sess.touched = now
	return sess
}

type memoryStorage struct {
	backend   *MemoryBackend
	sessionID string
}

func (s *memoryStorage) GetItem(_ context.Context, key string) ([]byte, error) {
	s.backend.mu.Lock()
	defer s.backend.mu.Unlock()
	sess := s.backend.session(s.sessionID, false)
	if sess == nil {
		return nil, nil
	}
	value, ok := sess.items[key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), value...), nil
}

func (s *memoryStorage) SetItem(_ context.Context, key string, value []byte) error {
	s.backend.mu.Lock()
	defer s.backend.mu.Unlock()
	s.backend.session(s.sessionID, true).items[key] = append([]byte(nil), value...)
	return nil
}

func (s *memoryStorage) RemoveItem(_ context.Context, key string) error {
	s.backend.mu.Lock()
	defer s.backend.mu.Unlock()
	if sess := s.backend.session(s.sessionID, false); sess != nil {
		delete(sess.items, key)
	}
	return nil
}

var _ ports.SessionBackend = (*MemoryBackend)(nil)
