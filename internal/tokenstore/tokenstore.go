// Package tokenstore persists the RelaOne bearer token between requests and restarts.
//
// A TokenStore holds exactly one token under the fixed key Key. Stores are built by
// scoping a Backend (memory, file, gorm, redis or any gofiber storage driver) to one
// browser session, so many sessions can share a backend without seeing each
// other's token.
package tokenstore

import (
	"context"
	"time"
)

// Key is the fixed name the bearer token is stored under.
const Key = "authToken"

// TokenStore reads and writes the persisted bearer token.
// Get on a missing token returns "" and a nil error. Set replaces unconditionally.
// Clear removes the token and is a no-op when none is stored.
type TokenStore interface {
	Get(ctx context.Context) (string, error)
	Set(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// Backend is a key/value store with optional expiry.
// Get returns nil, nil for missing or expired keys; a zero ttl means no expiry.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// scoped is a TokenStore living under one key of a Backend.
type scoped struct {
	backend Backend
	key     string
	ttl     time.Duration
}

// Scoped returns the TokenStore for scope inside backend.
// Tokens written through it expire after ttl (zero keeps them until cleared).
func Scoped(backend Backend, scope string, ttl time.Duration) TokenStore {
	return &scoped{
		backend: backend,
		key:     ScopedKey(scope),
		ttl:     ttl,
	}
}

// ScopedKey returns the backend key used for scope.
func ScopedKey(scope string) string {
	if scope == "" {
		return Key
	}

	return scope + ":" + Key
}

func (s *scoped) Get(ctx context.Context) (string, error) {
	val, err := s.backend.Get(ctx, s.key)
	if err != nil {
		return "", err
	}

	return string(val), nil
}

func (s *scoped) Set(ctx context.Context, token string) error {
	if token == "" {
		return s.Clear(ctx)
	}

	return s.backend.Set(ctx, s.key, []byte(token), s.ttl)
}

func (s *scoped) Clear(ctx context.Context) error {
	return s.backend.Delete(ctx, s.key)
}
