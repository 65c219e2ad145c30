package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/LavaJover/shvark-payout-forecast/internal/domain"
	"github.com/LavaJover/shvark-payout-forecast/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-payout-forecast/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultAccountRepository struct {
	db *gorm.DB
}

func NewDefaultAccountRepository(db *gorm.DB) *DefaultAccountRepository {
	return &DefaultAccountRepository{db: db}
}

func (r *DefaultAccountRepository) GetSettings(ctx context.Context, accountID string) (*domain.AccountSettings, error) {
	var settingsModel models.AccountSettingsModel
	err := r.db.WithContext(ctx).Where("account_id = ?", accountID).First(&settingsModel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account settings: %w", err)
	}

	var weightModel models.ForecastWeightModel
	err = r.db.WithContext(ctx).Where("account_id = ?", accountID).First(&weightModel).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return mappers.ToDomainSettings(&settingsModel, nil), nil
	case err != nil:
		return nil, fmt.Errorf("failed to get forecast weights: %w", err)
	}
	return mappers.ToDomainSettings(&settingsModel, &weightModel), nil
}

// SaveSettings creates or replaces the account's settings row. Weights are
// stored separately through the transactional repository.
func (r *DefaultAccountRepository) SaveSettings(ctx context.Context, s *domain.AccountSettings) error {
	return r.db.WithContext(ctx).Save(mappers.ToGORMSettings(s)).Error
}

func (r *DefaultAccountRepository) ListAccountIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&models.AccountSettingsModel{}).
		Order("account_id ASC").
		Pluck("account_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return ids, nil
}
