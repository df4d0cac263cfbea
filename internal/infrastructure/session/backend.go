package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/doeshing/medilogic/internal/domain"
	"github.com/doeshing/medilogic/internal/pkg/filesystem"
	"github.com/doeshing/medilogic/internal/ports"
)

// Open builds the named backend from settings.
func Open(ctx context.Context, name string, settings domain.SessionSettings, ttl time.Duration) (ports.SessionBackend, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", domain.SessionBackendMemory:
		return NewMemoryBackend(ttl), nil
	case domain.SessionBackendRedis:
		return NewRedisBackend(ctx, settings.RedisAddr, settings.RedisPassword, settings.RedisDB, ttl)
	case domain.SessionBackendSQLite:
		return NewSQLiteBackend(filesystem.ExpandPath(settings.SQLitePath), ttl)
	default:
		return nil, fmt.Errorf("unknown session backend %q", name)
	}
}
