package tokenstore

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/relaone/relaone-web/internal/db/controller/token"
	"github.com/relaone/relaone-web/internal/db/models"
)

// Gorm is a Backend storing tokens in the persisted_tokens table.
type Gorm struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGorm wraps db and migrates the token table.
func NewGorm(db *gorm.DB) (*Gorm, error) {
	if db == nil {
		return nil, ErrNilClient
	}

	if err := db.AutoMigrate(&models.PersistedToken{}); err != nil {
		return nil, err
	}

	return &Gorm{db: db, now: time.Now}, nil
}

// Get returns the value stored under key.
func (g *Gorm) Get(ctx context.Context, key string) ([]byte, error) {
	t, err := token.Get(g.db.WithContext(ctx), key, g.now())
	if errors.Is(err, token.ErrTokenNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return t.Value, nil
}

// Set stores val under key.
func (g *Gorm) Set(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	var expiresAt *time.Time

	if ttl > 0 {
		exp := g.now().Add(ttl)
		expiresAt = &exp
	}

	_, err := token.Set(g.db.WithContext(ctx), key, val, expiresAt)

	return err
}

// Delete removes key.
func (g *Gorm) Delete(ctx context.Context, key string) error {
	return token.Delete(g.db.WithContext(ctx), key)
}

// Purge removes expired tokens.
func (g *Gorm) Purge(ctx context.Context) (int64, error) {
	return token.PurgeExpired(g.db.WithContext(ctx), g.now())
}

// Close closes the underlying connection pool.
func (g *Gorm) Close() error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}
