package tokenstore

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	val       []byte
	expiresAt time.Time
}

// Memory is an in-process Backend. Nothing survives a restart.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemory creates an empty in-memory backend.
func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// Get returns a copy of the value stored under key.
func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.entries[key]
	if !ok {
		return nil, nil
	}

	if !e.expiresAt.IsZero() && !m.now().Before(e.expiresAt) {
		return nil, nil
	}

	out := make([]byte, len(e.val))
	copy(out, e.val)

	return out, nil
}

// Set stores a copy of val under key.
func (m *Memory) Set(_ context.Context, key string, val []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := memoryEntry{val: make([]byte, len(val))}
	copy(e.val, val)

	if ttl > 0 {
		e.expiresAt = m.now().Add(ttl)
	}

	m.entries[key] = e

	return nil
}

// Delete removes key.
func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, key)

	return nil
}

// Len returns the number of stored keys, expired ones included.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.entries)
}

// Close implements Backend.
func (m *Memory) Close() error { return nil }
