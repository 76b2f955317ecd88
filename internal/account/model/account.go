package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleState       = "state"
	RoleCounty      = "county"
	RoleTract       = "tract"
	RoleCoordinator = "coordinator"
)

type Account struct {
	ID                uuid.UUID `gorm:"type:text;primaryKey" json:"id"`
	Email             string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash      string    `gorm:"not null" json:"-"`
	MustResetPassword bool      `json:"mustResetPassword"`
	Role              string    `gorm:"default:coordinator" json:"role"`
	Countyfp          *string   `json:"countyfp"`
	Tractid           *string   `json:"tractid"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// PasswordResetCode is a single-use 6-digit code mailed for the
// forgot-password flow. Several rows may exist per email; the most recent
// unused, unexpired row is authoritative.
type PasswordResetCode struct {
	ID        uuid.UUID `gorm:"type:text;primaryKey"`
	Email     string    `gorm:"index"`
	Code      string
	ExpiresAt time.Time
	Used      bool
	CreatedAt time.Time
}
