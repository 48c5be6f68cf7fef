package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/mealmancer/server/internal/models"
)

// StartingTokens is the consumable balance granted to every new user.
const StartingTokens = 20

// SessionClaims are the identity claims carried by a session token.
// They are derived at issue time and never persisted server side.
type SessionClaims struct {
	UserID uuid.UUID   `json:"uid"`
	Email  string      `json:"email"`
	Role   models.Role `json:"role"`
	jwt.RegisteredClaims
}

// AuthService owns user identity: signup, login, and the session token
// codec. The signing method is pinned to HS256 on both ends.
type AuthService struct {
	db              *gorm.DB
	jwtSecret       []byte
	sessionDuration time.Duration
}

func NewAuthService(db *gorm.DB, jwtSecret string, sessionDuration time.Duration) *AuthService {
	return &AuthService{
		db:              db,
		jwtSecret:       []byte(jwtSecret),
		sessionDuration: sessionDuration,
	}
}

// Register creates a user with the starting token quota. The user row and
// its consumption row are created in one transaction so neither can exist
// without the other. Duplicate detection rides on the unique email index
// rather than a lookup first, so two concurrent signups of the same email
// cannot both pass a check before either inserts.
func (s *AuthService) Register(ctx context.Context, email, password string) (*models.User, *models.APIConsumption, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hashed),
		Role:         models.RoleGeneral,
	}
	consumption := models.APIConsumption{
		ID:     uuid.New(),
		UserID: user.ID,
		Tokens: StartingTokens,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		return tx.Create(&consumption).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, nil, ErrEmailUsed
		}
		return nil, nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &user, &consumption, nil
}

// Login verifies the credentials and returns the user with their current
// consumption record. The bcrypt compare runs even though the error is
// indistinguishable to the caller; unknown email and wrong password both
// map to ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, *models.APIConsumption, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	var consumption models.APIConsumption
	if err := s.db.WithContext(ctx).Where("user_id = ?", user.ID).First(&consumption).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to load consumption: %w", err)
	}

	return &user, &consumption, nil
}

// GenerateToken issues a signed session token for the user.
func (s *AuthService) GenerateToken(user *models.User) (string, time.Time, error) {
	now := time.Now().UTC()
	expiresAt := now.Add(s.sessionDuration)

	claims := SessionClaims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ValidateToken checks signature and expiry and returns the claims.
// Only HS256 is accepted; tokens signed with any other method fail
// regardless of their header.
func (s *AuthService) ValidateToken(tokenString string) (*SessionClaims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	token, err := parser.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	if !claims.Role.IsValid() {
		return nil, errors.New("unknown role in token")
	}
	return claims, nil
}

// SessionDuration reports how long issued sessions remain valid.
func (s *AuthService) SessionDuration() time.Duration {
	return s.sessionDuration
}

// ListUsers returns every user joined with their consumption counters,
// for the admin collection endpoint.
func (s *AuthService) ListUsers(ctx context.Context) ([]UserOverview, error) {
	var rows []UserOverview
	err := s.db.WithContext(ctx).
		Model(&models.User{}).
		Select("users.id, users.email, api_consumptions.tokens, api_consumptions.http_requests").
		Joins("LEFT JOIN api_consumptions ON api_consumptions.user_id = users.id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return rows, nil
}

// DeleteUser removes a user together with their consumption row and
// favorites. Deleting an unknown id returns ErrNotFound.
func (s *AuthService) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Unscoped().Where("id = ?", userID).Delete(&models.User{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.APIConsumption{}).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ?", userID).Delete(&models.FavoriteRecipe{}).Error
	})
}

// UserOverview is one row of the admin user listing.
type UserOverview struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Tokens       int       `json:"tokens"`
	HTTPRequests int64     `json:"httpRequests"`
}
