package history

import (
	"context"
	"encoding/json"
	"time"

	"github.com/doeshing/medilogic/internal/domain"
	"github.com/doeshing/medilogic/internal/ports"
)

// Store keeps the newest-first analysis history of one session as a JSON
// array under domain.HistoryStorageKey. Reads are best-effort: missing or
// corrupt data reads as an empty history.
type Store struct {
	storage ports.SessionStorage
	limit   int
	now     func() time.Time
}

// Option customizes a Store.
type Option func(*Store)

// WithLimit overrides the entry cap.
func WithLimit(limit int) Option {
	return func(s *Store) {
		if limit > 0 {
			s.limit = limit
		}
	}
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore binds a history store to one session's storage.
func NewStore(storage ports.SessionStorage, opts ...Option) *Store {
	store := &Store{
		storage: storage,
		limit:   domain.HistoryLimit,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

// Save prepends a freshly stamped entry and truncates to the limit.
func (s *Store) Save(ctx context.Context, input domain.AnalysisRequest, output []domain.AnalysisResultRow) error {
	entry := domain.HistoryEntry{
		Timestamp: s.now().UTC(),
		Input:     input.Clone(),
		Output:    domain.CloneRows(output),
	}
	entries := append([]domain.HistoryEntry{entry}, s.List(ctx)...)
	if len(entries) > s.limit {
		entries = entries[:s.limit]
	}

	data, err := json.Marshal(entries)
	if err != nil {
		return &domain.PersistenceError{Op: "encode", Err: err}
	}
	if err := s.storage.SetItem(ctx, domain.HistoryStorageKey, data); err != nil {
		return &domain.PersistenceError{Op: "write", Err: err}
	}
	return nil
}

// List returns the stored entries, newest first.
func (s *Store) List(ctx context.Context) []domain.HistoryEntry {
	data, err := s.storage.GetItem(ctx, domain.HistoryStorageKey)
	if err != nil || len(data) == 0 {
		return []domain.HistoryEntry{}
	}
	var entries []domain.HistoryEntry
	if err := json.Unmarshal(data, &entries); err != nil || entries == nil {
		return []domain.HistoryEntry{}
	}
	if len(entries) > s.limit {
		entries = entries[:s.limit]
	}
	return entries
}

// Get returns entry index, or false when index is out of range.
func (s *Store) Get(ctx context.Context, index int) (domain.HistoryEntry, bool) {
	entries := s.List(ctx)
	if index < 0 || index >= len(entries) {
		return domain.HistoryEntry{}, false
	}
	return entries[index].Clone(), true
}

// Clear removes every entry.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.storage.RemoveItem(ctx, domain.HistoryStorageKey); err != nil {
		return &domain.PersistenceError{Op: "clear", Err: err}
	}
	return nil
}

var _ ports.HistoryRepository = (*Store)(nil)
