// Package token provides CRUD operations for persisted bearer tokens.
package token

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/relaone/relaone-web/internal/db/models"
)

const (
	keyQueryPattern = "token_key = ?"
)

var (
	// ErrTokenNotFound is returned when no live token is stored under a key.
	ErrTokenNotFound = errors.New("token not found")
	// ErrTokenKeyEmpty is returned when a key is empty.
	ErrTokenKeyEmpty = errors.New("token key cannot be empty")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Get retrieves the token stored under key. Expired rows are reported as not found.
func Get(db *gorm.DB, key string, now time.Time) (*models.PersistedToken, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if key == "" {
		return nil, ErrTokenKeyEmpty
	}

	var token models.PersistedToken
	result := db.Where(keyQueryPattern, key).First(&token)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTokenNotFound
		}
		return nil, result.Error
	}

	if token.Expired(now) {
		return nil, ErrTokenNotFound
	}

	return &token, nil
}

// Set creates or replaces the token stored under key (upsert).
// A nil expiresAt keeps the token until it is deleted.
func Set(db *gorm.DB, key string, value []byte, expiresAt *time.Time) (*models.PersistedToken, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if key == "" {
		return nil, ErrTokenKeyEmpty
	}

	token := &models.PersistedToken{
		TokenKey:  key,
		Value:     value,
		ExpiresAt: expiresAt,
		UpdatedAt: time.Now(),
	}

	result := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "token_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "expires_at", "updated_at"}),
	}).Create(token)
	if result.Error != nil {
		return nil, result.Error
	}

	return token, nil
}

// Delete removes the token stored under key. Deleting a missing key is not an error.
func Delete(db *gorm.DB, key string) error {
	if db == nil {
		return ErrDBNil
	}
	if key == "" {
		return ErrTokenKeyEmpty
	}

	return db.Where(keyQueryPattern, key).Delete(&models.PersistedToken{}).Error
}

// PurgeExpired deletes every token that expired before now and returns how many
// rows were removed.
func PurgeExpired(db *gorm.DB, now time.Time) (int64, error) {
	if db == nil {
		return 0, ErrDBNil
	}

	result := db.Where("expires_at IS NOT NULL AND expires_at <= ?", now).Delete(&models.PersistedToken{})

	return result.RowsAffected, result.Error
}
