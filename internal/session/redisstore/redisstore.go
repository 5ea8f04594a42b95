package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix = "plantcare:session:"
	opTimeout = 3 * time.Second
)

// Store keeps session flags in Redis. Flags have no TTL; they live until
// cleared.
type Store struct {
	client *redis.Client
}

func New(addr, password string) *Store {
	return &Store{client: redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})}
}

func flagKey(scope, key string) string {
	return keyPrefix + scope + ":" + key
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to ping redis: %w", err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, scope, key string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	val, err := s.client.Get(ctx, flagKey(scope, key)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to get flag: %w", err)
	}
	return val == "true", nil
}

func (s *Store) Set(ctx context.Context, scope, key string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	if err := s.client.Set(ctx, flagKey(scope, key), "true", 0).Err(); err != nil {
		return fmt.Errorf("failed to set flag: %w", err)
	}
	return nil
}

func (s *Store) Clear(ctx context.Context, scope, key string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	if err := s.client.Del(ctx, flagKey(scope, key)).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("failed to clear flag: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.client.Close()
}
