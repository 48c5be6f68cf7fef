package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mealmancer/server/internal/models"
)

// StatsService keeps the running request count per (method, endpoint)
// pair. Insert and increment are a single upsert keyed on the pair, so
// two concurrent first observations still produce exactly one row.
type StatsService struct {
	db *gorm.DB
}

func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{db: db}
}

// RecordCall counts one request against the (method, endpoint) pair.
func (s *StatsService) RecordCall(ctx context.Context, method, endpoint string) error {
	stat := models.APICallStat{
		Method:   method,
		Endpoint: endpoint,
		Requests: 1,
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "method"}, {Name: "endpoint"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"requests": gorm.Expr("api_call_stats.requests + 1"),
		}),
	}).Create(&stat).Error
	if err != nil {
		return fmt.Errorf("failed to record call: %w", err)
	}
	return nil
}

// RecordCallAsync records a call without blocking the caller. Failures
// are logged and dropped; analytics must never delay a client response.
func (s *StatsService) RecordCallAsync(method, endpoint string) {
	go func() {
		if err := s.RecordCall(context.Background(), method, endpoint); err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"method":   method,
				"endpoint": endpoint,
			}).Warn("failed to record api call")
		}
	}()
}

// List returns all call stats for the admin surface.
func (s *StatsService) List(ctx context.Context) ([]models.APICallStat, error) {
	var stats []models.APICallStat
	if err := s.db.WithContext(ctx).Order("method, endpoint").Find(&stats).Error; err != nil {
		return nil, fmt.Errorf("failed to list call stats: %w", err)
	}
	return stats, nil
}
