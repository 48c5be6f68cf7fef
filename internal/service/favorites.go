package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mealmancer/server/internal/models"
)

// Recipe is the structured shape a favorite round-trips through:
// what the user submits is exactly what a later listing returns.
type Recipe struct {
	ID          uuid.UUID    `json:"recipeId,omitempty"`
	Title       string       `json:"title"`
	Ingredients SectionValue `json:"ingredients"`
	Directions  SectionValue `json:"directions"`
}

// FavoriteService stores and retrieves a user's saved recipes.
type FavoriteService struct {
	db *gorm.DB
}

func NewFavoriteService(db *gorm.DB) *FavoriteService {
	return &FavoriteService{db: db}
}

// Add saves a recipe for the user. Ingredients and directions are
// JSON-encoded so decode returns the submitted value unchanged.
func (s *FavoriteService) Add(ctx context.Context, userID uuid.UUID, recipe Recipe) (*models.FavoriteRecipe, error) {
	ingredients, err := json.Marshal(recipe.Ingredients)
	if err != nil {
		return nil, fmt.Errorf("failed to encode ingredients: %w", err)
	}
	directions, err := json.Marshal(recipe.Directions)
	if err != nil {
		return nil, fmt.Errorf("failed to encode directions: %w", err)
	}

	fav := models.FavoriteRecipe{
		ID:          uuid.New(),
		UserID:      userID,
		Title:       recipe.Title,
		Ingredients: string(ingredients),
		Directions:  string(directions),
	}
	if err := s.db.WithContext(ctx).Create(&fav).Error; err != nil {
		return nil, fmt.Errorf("failed to save favorite: %w", err)
	}
	return &fav, nil
}

// List returns the user's favorites decoded back into the Recipe shape.
func (s *FavoriteService) List(ctx context.Context, userID uuid.UUID) ([]Recipe, error) {
	var rows []models.FavoriteRecipe
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}

	recipes := make([]Recipe, 0, len(rows))
	for _, row := range rows {
		recipe := Recipe{ID: row.ID, Title: row.Title}
		if err := json.Unmarshal([]byte(row.Ingredients), &recipe.Ingredients); err != nil {
			return nil, fmt.Errorf("failed to decode ingredients for %s: %w", row.ID, err)
		}
		if err := json.Unmarshal([]byte(row.Directions), &recipe.Directions); err != nil {
			return nil, fmt.Errorf("failed to decode directions for %s: %w", row.ID, err)
		}
		recipes = append(recipes, recipe)
	}
	return recipes, nil
}

// Delete removes one favorite. Scoped to the owning user so a user can
// never delete another user's recipes.
func (s *FavoriteService) Delete(ctx context.Context, userID, recipeID uuid.UUID) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", recipeID, userID).
		Delete(&models.FavoriteRecipe{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete favorite: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
