package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/LavaJover/shvark-payout-forecast/internal/domain"
	"github.com/LavaJover/shvark-payout-forecast/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-payout-forecast/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultEventRepository struct {
	db *gorm.DB
}

func NewDefaultEventRepository(db *gorm.DB) *DefaultEventRepository {
	return &DefaultEventRepository{db: db}
}

// ListRawEvents returns the account's events with a timestamp in [from, to),
// plus events with no timestamp so the normalizer can count them as malformed.
func (r *DefaultEventRepository) ListRawEvents(ctx context.Context, accountID string, from, to time.Time) ([]domain.RawEvent, error) {
	var eventModels []models.FinancialEventModel
	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Where("(occurred_at >= ? AND occurred_at < ?) OR occurred_at IS NULL", from, to).
		Order("id ASC").
		Find(&eventModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	events := make([]domain.RawEvent, len(eventModels))
	for i := range eventModels {
		events[i] = mappers.ToDomainEvent(&eventModels[i])
	}
	return events, nil
}
