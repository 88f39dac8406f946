// Package cache persiste el set de eventos ya procesados en Redis,
// para que un reinicio no vuelva a notificar los mismos arbitrajes.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultTTL = 24 * time.Hour
	keyPrefix  = "surebet:seen:"
)

// Config contiene los parámetros de conexión.
type Config struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration // tiempo que un evento se recuerda (0 = 24h)
}

// RedisSeenStore implementa ports.SeenStore sobre claves con TTL.
//
// Key schema:
//
//	surebet:seen:{eventID} - "1", expira tras TTL
type RedisSeenStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisSeenStore conecta con Redis y verifica la conexión con un PING.
func NewRedisSeenStore(ctx context.Context, cfg Config) (*RedisSeenStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("cache.NewRedisSeenStore: ping %s: %w", cfg.Addr, err)
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &RedisSeenStore{rdb: rdb, ttl: ttl}, nil
}

func seenKey(id string) string { return keyPrefix + id }

// Seen implementa ports.SeenStore.
func (s *RedisSeenStore) Seen(ctx context.Context, eventID string) (bool, error) {
	n, err := s.rdb.Exists(ctx, seenKey(eventID)).Result()
	if err != nil {
		return false, fmt.Errorf("cache.Seen: %s: %w", eventID, err)
	}
	return n > 0, nil
}

// Mark implementa ports.SeenStore. Todas las claves se escriben en un pipeline.
func (s *RedisSeenStore) Mark(ctx context.Context, eventIDs ...string) error {
	if len(eventIDs) == 0 {
		return nil
	}
	pipe := s.rdb.Pipeline()
	for _, id := range eventIDs {
		pipe.Set(ctx, seenKey(id), "1", s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("cache.Mark: %d events: %w", len(eventIDs), err)
	}
	return nil
}

// Forget borra eventos del set.
func (s *RedisSeenStore) Forget(ctx context.Context, eventIDs ...string) error {
	if len(eventIDs) == 0 {
		return nil
	}
	keys := make([]string, len(eventIDs))
	for i, id := range eventIDs {
		keys[i] = seenKey(id)
	}
	if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("cache.Forget: %w", err)
	}
	return nil
}

// Close cierra la conexión.
func (s *RedisSeenStore) Close() error {
	return s.rdb.Close()
}
