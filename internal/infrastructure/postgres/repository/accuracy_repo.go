package repository

import (
	"context"
	"fmt"

	"github.com/LavaJover/shvark-payout-forecast/internal/domain"
	"github.com/LavaJover/shvark-payout-forecast/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-payout-forecast/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultAccuracyRepository struct {
	db *gorm.DB
}

func NewDefaultAccuracyRepository(db *gorm.DB) *DefaultAccuracyRepository {
	return &DefaultAccuracyRepository{db: db}
}

// ListRecent returns the latest limit entries of the account, newest first.
func (r *DefaultAccuracyRepository) ListRecent(ctx context.Context, accountID string, limit int) ([]domain.AccuracyLogEntry, error) {
	var logModels []models.AccuracyLogModel
	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("logged_at DESC").
		Limit(limit).
		Find(&logModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list accuracy entries: %w", err)
	}

	entries := make([]domain.AccuracyLogEntry, len(logModels))
	for i := range logModels {
		entries[i] = mappers.ToDomainAccuracy(&logModels[i])
	}
	return entries, nil
}
