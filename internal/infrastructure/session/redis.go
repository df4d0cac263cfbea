package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/doeshing/medilogic/internal/domain"
	"github.com/doeshing/medilogic/internal/ports"
)

// RedisBackend stores session items as "session:<id>:<key>" with a sliding TTL.
type RedisBackend struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisBackend connects to redis and verifies the connection.
func NewRedisBackend(ctx context.Context, addr, password string, db int, ttl time.Duration) (*RedisBackend, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	return &RedisBackend{client: client, ttl: ttl}, nil
}

func (b *RedisBackend) Name() string {
	return domain.SessionBackendRedis
}

func (b *RedisBackend) Open(sessionID string) ports.SessionStorage {
	return &redisStorage{backend: b, sessionID: sessionID}
}

func (b *RedisBackend) Ping(ctx context.Context) error {
	return b.client.Ping(ctx).Err()
}

func (b *RedisBackend) Close() error {
	return b.client.Close()
}

type redisStorage struct {
	backend   *RedisBackend
	sessionID string
}

func (s *redisStorage) key(key string) string {
	return "session:" + s.sessionID + ":" + key
}

func (s *redisStorage) GetItem(ctx context.Context, key string) ([]byte, error) {
	value, err := s.backend.client.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if s.backend.ttl > 0 {
		_ = s.backend.client.Expire(ctx, s.key(key), s.backend.ttl).Err()
	}
	return value, nil
}

func (s *redisStorage) SetItem(ctx context.Context, key string, value []byte) error {
	return s.backend.client.Set(ctx, s.key(key), value, s.backend.ttl).Err()
}

func (s *redisStorage) RemoveItem(ctx context.Context, key string) error {
	return s.backend.client.Del(ctx, s.key(key)).Err()
}

var _ ports.SessionBackend = (*RedisBackend)(nil)
