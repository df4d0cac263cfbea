package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/doeshing/medilogic/internal/domain"
	"github.com/doeshing/medilogic/internal/ports"
)

// timestampLayout is fixed width so stored timestamps compare lexically.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteBackend persists session items in a SQLite database so terminal
// sessions survive between invocations until their TTL runs out.
type SQLiteBackend struct {
	db   *sql.DB
	path string
	ttl  time.Duration
	now  func() time.Time
	mu   sync.Mutex
}

// NewSQLiteBackend creates (or opens) the database at path.
func NewSQLiteBackend(path string, ttl time.Duration) (*SQLiteBackend, error) {
	if err := os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	backend := &SQLiteBackend{db: db, path: path, ttl: ttl, now: time.Now}
	if err := backend.init(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init session database %s: %w", path, err)
	}
	if err := backend.Prune(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return backend, nil
}

func (b *SQLiteBackend) init() error {
	_, err := b.db.Exec(`CREATE TABLE IF NOT EXISTS session_items (
		session_id TEXT NOT NULL,
		key TEXT NOT NULL,
		value BLOB,
		updated_at TEXT NOT NULL,
		PRIMARY KEY (session_id, key)
	);`)
	return err
}

func (b *SQLiteBackend) Name() string {
	return domain.SessionBackendSQLite
}

// Path returns the sqlite database path.
func (b *SQLiteBackend) Path() string {
	return b.path
}

func (b *SQLiteBackend) Open(sessionID string) ports.SessionStorage {
	return &sqliteStorage{backend: b, sessionID: sessionID}
}

func (b *SQLiteBackend) Ping(ctx context.Context) error {
	return b.db.PingContext(ctx)
}

func (b *SQLiteBackend) Close() error {
	return b.db.Close()
}

// Prune deletes items older than the TTL.
func (b *SQLiteBackend) Prune(ctx context.Context) error {
	if b.ttl <= 0 {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	cutoff := b.now().Add(-b.ttl).UTC().Format(timestampLayout)
	_, err := b.db.ExecContext(ctx, "DELETE FROM session_items WHERE updated_at < ?", cutoff)
	return err
}

type sqliteStorage struct {
	backend   *SQLiteBackend
	sessionID string
}

func (s *sqliteStorage) GetItem(ctx context.Context, key string) ([]byte, error) {
	s.backend.mu.Lock()
	defer s.backend.mu.Unlock()

	var (
		value     []byte
		updatedAt string
	)
	err := s.backend.db.QueryRowContext(ctx,
		"SELECT value, updated_at FROM session_items WHERE session_id = ? AND key = ?",
		s.sessionID, key,
	).Scan(&value, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if s.backend.ttl > 0 {
		now := s.backend.now()
		if t, err := time.Parse(timestampLayout, updatedAt); err == nil && now.Sub(t) > s.backend.ttl {
			_, err := s.backend.db.ExecContext(ctx,
				"DELETE FROM session_items WHERE session_id = ? AND key = ?", s.sessionID, key)
			return nil, err
		}
		// Reads slide the TTL like the memory and redis backends.
		if _, err := s.backend.db.ExecContext(ctx,
			"UPDATE session_items SET updated_at = ? WHERE session_id = ? AND key = ?",
			now.UTC().Format(timestampLayout), s.sessionID, key); err != nil {
			return nil, err
		}
	}
	return value, nil
}

func (s *sqliteStorage) SetItem(ctx context.Context, key string, value []byte) error {
	s.backend.mu.Lock()
	defer s.backend.mu.Unlock()
	_, err := s.backend.db.ExecContext(ctx, `INSERT INTO session_items (session_id, key, value, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(session_id, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		s.sessionID, key, value, s.backend.now().UTC().Format(timestampLayout),
	)
	return err
}

func (s *sqliteStorage) RemoveItem(ctx context.Context, key string) error {
	s.backend.mu.Lock()
	defer s.backend.mu.Unlock()
	_, err := s.backend.db.ExecContext(ctx,
		"DELETE FROM session_items WHERE session_id = ? AND key = ?", s.sessionID, key)
	return err
}

var _ ports.SessionBackend = (*SQLiteBackend)(nil)
