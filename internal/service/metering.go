package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/mealmancer/server/internal/models"
)

// MeteringService enforces the per-user consumable token balance and the
// per-user request counter. Every balance mutation is a single guarded
// UPDATE so concurrent requests can never drive the balance negative.
type MeteringService struct {
	db *gorm.DB
}

func NewMeteringService(db *gorm.DB) *MeteringService {
	return &MeteringService{db: db}
}

// Balance returns the current consumption record for a user.
func (s *MeteringService) Balance(ctx context.Context, userID uuid.UUID) (*models.APIConsumption, error) {
	var consumption models.APIConsumption
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&consumption).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read balance: %w", err)
	}
	return &consumption, nil
}

// ReserveToken atomically takes one token from the user's balance.
// The check and the decrement are a single conditional UPDATE: zero rows
// affected means the balance was already empty and ErrOutOfTokens is
// returned without any state change.
func (s *MeteringService) ReserveToken(ctx context.Context, userID uuid.UUID) error {
	res := s.db.WithContext(ctx).
		Model(&models.APIConsumption{}).
		Where("user_id = ? AND tokens > 0", userID).
		UpdateColumn("tokens", gorm.Expr("tokens - 1"))
	if res.Error != nil {
		return fmt.Errorf("failed to reserve token: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrOutOfTokens
	}
	return nil
}

// RefundToken returns a previously reserved token. Called when the
// upstream generation fails after a reservation so the user is never
// charged for a failed call.
func (s *MeteringService) RefundToken(ctx context.Context, userID uuid.UUID) error {
	res := s.db.WithContext(ctx).
		Model(&models.APIConsumption{}).
		Where("user_id = ?", userID).
		UpdateColumn("tokens", gorm.Expr("tokens + 1"))
	if res.Error != nil {
		return fmt.Errorf("failed to refund token: %w", res.Error)
	}
	return nil
}

// IncrementUsage bumps the user's request counter. Fire and forget:
// failures are logged and never surfaced to the request path.
func (s *MeteringService) IncrementUsage(userID uuid.UUID) {
	res := s.db.
		Model(&models.APIConsumption{}).
		Where("user_id = ?", userID).
		UpdateColumn("http_requests", gorm.Expr("http_requests + 1"))
	if res.Error != nil {
		logrus.WithError(res.Error).WithField("user_id", userID).Warn("failed to increment usage counter")
	}
}

// SetBalance is the admin override that replaces a user's token balance
// with an absolute value.
func (s *MeteringService) SetBalance(ctx context.Context, userID uuid.UUID, tokens int) error {
	if tokens < 0 {
		return fmt.Errorf("token balance must not be negative")
	}
	res := s.db.WithContext(ctx).
		Model(&models.APIConsumption{}).
		Where("user_id = ?", userID).
		UpdateColumn("tokens", tokens)
	if res.Error != nil {
		return fmt.Errorf("failed to set balance: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
