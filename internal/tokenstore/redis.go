package tokenstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is a Backend on top of a go-redis client. Keys are namespaced with prefix.
type Redis struct {
	client redis.UniversalClient
	prefix string
}

// NewRedis wraps client. The client is owned by the caller unless Close is called.
func NewRedis(client redis.UniversalClient, prefix string) (*Redis, error) {
	if client == nil {
		return nil, ErrNilClient
	}

	return &Redis{client: client, prefix: prefix}, nil
}

func (r *Redis) key(key string) string {
	if r.prefix == "" {
		return key
	}

	return r.prefix + ":" + key
}

// Get returns the value stored under key.
func (r *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("redis get token: %w", err)
	}

	return val, nil
}

// Set stores val under key with ttl.
func (r *Redis) Set(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	if err := r.client.Set(ctx, r.key(key), val, ttl).Err(); err != nil {
		return fmt.Errorf("redis set token: %w", err)
	}

	return nil
}

// Delete removes key.
func (r *Redis) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		return fmt.Errorf("redis delete token: %w", err)
	}

	return nil
}

// Close closes the underlying client.
func (r *Redis) Close() error {
	return r.client.Close()
}
