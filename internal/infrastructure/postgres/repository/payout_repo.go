package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/LavaJover/shvark-payout-forecast/internal/domain"
	"github.com/LavaJover/shvark-payout-forecast/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-payout-forecast/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefaultPayoutRepository struct {
	db *gorm.DB
}

func NewDefaultPayoutRepository(db *gorm.DB) *DefaultPayoutRepository {
	return &DefaultPayoutRepository{db: db}
}

// ListPayouts returns payouts ordered by date. Zero From/To leave that side
// of the range open.
func (r *DefaultPayoutRepository) ListPayouts(ctx context.Context, filter domain.PayoutFilter) ([]domain.PayoutRecord, error) {
	query := r.db.WithContext(ctx).Model(&models.PayoutRecordModel{}).
		Where("account_id = ?", filter.AccountID)
	if !filter.From.IsZero() {
		query = query.Where("payout_date >= ?", domain.Day(filter.From))
	}
	if !filter.To.IsZero() {
		query = query.Where("payout_date < ?", domain.Day(filter.To))
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = string(s)
		}
		query = query.Where("status IN ?", statuses)
	}

	var payoutModels []models.PayoutRecordModel
	if err := query.Order("payout_date ASC").Order("id ASC").Find(&payoutModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list payouts: %w", err)
	}

	payouts := make([]domain.PayoutRecord, len(payoutModels))
	for i := range payoutModels {
		payouts[i] = mappers.ToDomainPayout(&payoutModels[i])
	}
	return payouts, nil
}

func (r *DefaultPayoutRepository) GetPayoutByDate(ctx context.Context, accountID string, payoutDate time.Time) (*domain.PayoutRecord, error) {
	var payoutModel models.PayoutRecordModel
	err := r.db.WithContext(ctx).
		Where("account_id = ? AND payout_date = ?", accountID, domain.Day(payoutDate)).
		First(&payoutModel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	payout := mappers.ToDomainPayout(&payoutModel)
	return &payout, nil
}

func (r *DefaultPayoutRepository) BeginTx(ctx context.Context) (domain.PayoutTxRepository, error) {
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}
	return &payoutTxRepository{tx: tx}, nil
}

type payoutTxRepository struct {
	tx *gorm.DB
}

var payoutConflict = []clause.Column{{Name: "account_id"}, {Name: "payout_date"}}

func (r *payoutTxRepository) ReplaceForecasts(accountID string, from, to time.Time, records []domain.PayoutRecord) error {
	query := r.tx.Where("account_id = ? AND status = ?", accountID, string(domain.PayoutForecasted))
	if !from.IsZero() {
		query = query.Where("payout_date >= ?", domain.Day(from))
	}
	if !to.IsZero() {
		query = query.Where("payout_date < ?", domain.Day(to))
	}
	if err := query.Delete(&models.PayoutRecordModel{}).Error; err != nil {
		return fmt.Errorf("failed to delete forecasts: %w", err)
	}
	if len(records) == 0 {
		return nil
	}

	payoutModels := make([]*models.PayoutRecordModel, len(records))
	for i := range records {
		payoutModels[i] = mappers.ToGORMPayout(&records[i])
	}
	// A payout confirmed after the plan was built keeps its row.
	err := r.tx.Clauses(clause.OnConflict{Columns: payoutConflict, DoNothing: true}).
		CreateInBatches(payoutModels, 200).Error
	if err != nil {
		return fmt.Errorf("failed to insert forecasts: %w", err)
	}
	return nil
}

func (r *payoutTxRepository) UpsertPayout(record *domain.PayoutRecord) error {
	payoutModel := mappers.ToGORMPayout(record)
	predecessors := make([]string, 0, 3)
	for _, s := range record.Status.Predecessors() {
		predecessors = append(predecessors, string(s))
	}
	// The stored row is only overwritten while its status has not moved past
	// the new one.
	result := r.tx.Clauses(clause.OnConflict{
		Columns: payoutConflict,
		DoUpdates: clause.AssignmentColumns([]string{
			"total_amount", "status", "payout_type", "orders_total", "fees_total",
			"refunds_total", "horizon", "lower_bound", "upper_bound", "updated_at",
		}),
		Where: clause.Where{Exprs: []clause.Expression{
			clause.Expr{SQL: "payout_records.status IN ?", Vars: []interface{}{predecessors}},
		}},
	}).Create(payoutModel)
	if result.Error != nil {
		return fmt.Errorf("failed to upsert payout: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: payout %s on %s is past %s",
			domain.ErrStatusRegression, record.AccountID, domain.Day(record.PayoutDate).Format(time.DateOnly), record.Status)
	}
	return nil
}

func (r *payoutTxRepository) SaveWeights(cfg domain.ForecastWeightConfig) error {
	return r.tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "account_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"near_weight", "mid_weight", "far_weight", "updated_at"}),
	}).Create(mappers.ToGORMWeights(cfg)).Error
}

func (r *payoutTxRepository) AppendAccuracy(entry *domain.AccuracyLogEntry) error {
	return r.tx.Create(mappers.ToGORMAccuracy(entry)).Error
}

func (r *payoutTxRepository) Commit() error {
	return r.tx.Commit().Error
}

func (r *payoutTxRepository) Rollback() error {
	return r.tx.Rollback().Error
}
