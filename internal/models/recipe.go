package models

import (
	"time"

	"github.com/google/uuid"
)

// FavoriteRecipe is a recipe a user chose to keep. Ingredients and
// directions are stored as JSON-encoded arrays so the stored record
// round-trips through the Recipe shape exactly as it was submitted.
type FavoriteRecipe struct {
	ID          uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID      uuid.UUID `gorm:"type:varchar(36);not null;index" json:"user_id"`
	Title       string    `gorm:"not null" json:"title"`
	Ingredients string    `gorm:"type:text;not null" json:"-"`
	Directions  string    `gorm:"type:text;not null" json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (FavoriteRecipe) TableName() string {
	return "favorite_recipes"
}
