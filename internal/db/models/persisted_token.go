// Package models contains database model definitions.
package models

import "time"

// PersistedToken is one stored bearer token, keyed by its scoped token key.
type PersistedToken struct {
	ID        uint64 `gorm:"primaryKey"`
	TokenKey  string `gorm:"uniqueIndex;size:191;not null"`
	Value     []byte
	ExpiresAt *time.Time
	UpdatedAt time.Time
}

// TableName pins the table name.
func (PersistedToken) TableName() string {
	return "persisted_tokens"
}

// Expired reports whether the token is past its expiry at now.
func (p *PersistedToken) Expired(now time.Time) bool {
	return p.ExpiresAt != nil && !now.Before(*p.ExpiresAt)
}
