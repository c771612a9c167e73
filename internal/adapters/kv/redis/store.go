package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/bnema/punini-cli/internal/domain"
	"github.com/bnema/punini-cli/internal/ports"
	goredis "github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces every key written by the store.
const DefaultPrefix = "punini:"

// Config holds configuration for the Redis-backed store
type Config struct {
	// Redis client
	RedisClient *goredis.Client
	// Prefix is prepended to every key; empty means DefaultPrefix
	Prefix string
}

// Store implements ports.KeyValueStore on plain Redis strings
type Store struct {
	client *goredis.Client
	prefix string
}

var _ ports.KeyValueStore = (*Store)(nil)

// NewStore creates a Redis-backed store and checks the connection
func NewStore(ctx context.Context, cfg *Config) (*Store, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}

	if err := cfg.RedisClient.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	prefix := cfg.Prefix
	if prefix == "" {
		prefix = DefaultPrefix
	}

	return &Store{client: cfg.RedisClient, prefix: prefix}, nil
}

// Get returns the value stored under key
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	value, err := s.client.Get(ctx, s.prefix+key).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return "", fmt.Errorf("redis key %q: %w", key, domain.ErrKeyNotFound)
		}
		return "", fmt.Errorf("failed to get key %q: %w", key, err)
	}

	return value, nil
}

// Set stores value under key with no expiration
func (s *Store) Set(ctx context.Context, key string, value string) error {
	if err := s.client.Set(ctx, s.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("failed to set key %q: %w", key, err)
	}

	return nil
}

// Delete removes key; a missing key is not an error
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("failed to delete key %q: %w", key, err)
	}

	return nil
}
