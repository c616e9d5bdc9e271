// Package cache provides a Redis-backed snapshot store.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stwalsh4118/punsta/internal/logger"
	"github.com/stwalsh4118/punsta/internal/persistence"
)

// Config holds Redis connection settings
type Config struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// SnapshotStore keeps serialized game states as plain Redis string values
type SnapshotStore struct {
	client *redis.Client
}

// NewSnapshotStore connects to Redis and verifies the connection with a ping
func NewSnapshotStore(cfg Config) (*SnapshotStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     4,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Log.Info().
		Str("addr", client.Options().Addr).
		Int("db", cfg.DB).
		Msg("Redis connected")

	return &SnapshotStore{client: client}, nil
}

// NewSnapshotStoreFromClient wraps an existing client
func NewSnapshotStoreFromClient(client *redis.Client) *SnapshotStore {
	return &SnapshotStore{client: client}
}

// Get returns the payload stored under key
func (s *SnapshotStore) Get(ctx context.Context, key string) ([]byte, error) {
	payload, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", persistence.ErrSnapshotNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}
	return payload, nil
}

// Put overwrites the payload stored under key with no expiry
func (s *SnapshotStore) Put(ctx context.Context, key string, payload []byte) error {
	if err := s.client.Set(ctx, key, payload, 0).Err(); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// Delete removes the snapshot stored under key
func (s *SnapshotStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool
func (s *SnapshotStore) Close() error {
	return s.client.Close()
}

// Health pings the Redis server
func (s *SnapshotStore) Health(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}
