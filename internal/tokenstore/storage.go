package tokenstore

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// storageBackend adapts a gofiber storage driver. The drivers take no context,
// so ctx is ignored.
type storageBackend struct {
	storage fiber.Storage
}

// FromStorage turns a gofiber storage driver (mysql, postgres, ...) into a Backend.
func FromStorage(storage fiber.Storage) (Backend, error) {
	if storage == nil {
		return nil, ErrNilClient
	}

	return &storageBackend{storage: storage}, nil
}

func (s *storageBackend) Get(_ context.Context, key string) ([]byte, error) {
	val, err := s.storage.Get(key)
	if err != nil {
		return nil, err
	}

	if len(val) == 0 {
		return nil, nil
	}

	return val, nil
}

func (s *storageBackend) Set(_ context.Context, key string, val []byte, ttl time.Duration) error {
	return s.storage.Set(key, val, ttl)
}

func (s *storageBackend) Delete(_ context.Context, key string) error {
	return s.storage.Delete(key)
}

func (s *storageBackend) Close() error {
	return s.storage.Close()
}
