package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is the closed set of permission classes a user can hold.
type Role string

const (
	RoleGeneral Role = "general"
	RoleAdmin   Role = "admin"
)

// IsValid reports whether the role is one of the known values.
func (r Role) IsValid() bool {
	switch r {
	case RoleGeneral, RoleAdmin:
		return true
	}
	return false
}

// IsAdmin reports whether the role grants administrative access.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

type User struct {
	ID           uuid.UUID      `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"not null" json:"-"`
	Role         Role           `gorm:"type:varchar(16);not null;default:'general'" json:"role"`
}

// APIConsumption tracks the consumable token balance and request counter
// for a single user. The row is created in the same transaction as the
// user row and shares its lifecycle.
type APIConsumption struct {
	ID           uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID       uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex" json:"user_id"`
	Tokens       int       `gorm:"not null;check:tokens >= 0" json:"tokens"`
	HTTPRequests int64     `gorm:"not null;default:0" json:"http_requests"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (APIConsumption) TableName() string {
	return "api_consumptions"
}
