package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/LavaJover/shvark-payout-forecast/internal/domain"
	publisher "github.com/LavaJover/shvark-payout-forecast/internal/infrastructure/kafka"
	payoutdto "github.com/LavaJover/shvark-payout-forecast/internal/usecase/dto/payout"
	"github.com/LavaJover/shvark-payout-forecast/internal/usecase/forecast"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	accuracyLogged     = "logged"
	accuracyZeroActual = "skipped_zero_actual"
	accuracyNoForecast = "skipped_no_forecast"
)

// MarkEstimated moves a forecasted record to estimated once the marketplace
// publishes a provisional amount.
func (uc *DefaultPayoutForecastUsecase) MarkEstimated(ctx context.Context, input *payoutdto.MarkEstimatedInput) (*domain.PayoutRecord, error) {
	record, err := uc.payoutRepo.GetPayoutByDate(ctx, input.AccountID, input.PayoutDate)
	if err != nil {
		return nil, err
	}
	if !record.Status.CanTransition(domain.PayoutEstimated) {
		return nil, fmt.Errorf("%w: %s -> %s", domain.ErrStatusRegression, record.Status, domain.PayoutEstimated)
	}
	if input.TotalAmount != nil {
		if input.TotalAmount.IsNegative() {
			return nil, &domain.InvalidConfigError{Field: "total_amount", Reason: "must not be negative"}
		}
		record.TotalAmount = *input.TotalAmount
	}
	now := uc.Now()
	record.Status = domain.PayoutEstimated
	record.UpdatedAt = now

	if err := uc.withTx(ctx, func(tx domain.PayoutTxRepository) error {
		return tx.UpsertPayout(record)
	}); err != nil {
		return nil, err
	}

	uc.metrics.RecordTransition(string(domain.PayoutEstimated))
	uc.publish(publisher.NewStatusEvent(*record, now))
	return record, nil
}

// ConfirmPayout stores the actual payout for a date and, when a forecast or
// estimate existed for it, appends an accuracy entry in the same transaction.
// Accuracy tracking never blocks the confirmation.
func (uc *DefaultPayoutForecastUsecase) ConfirmPayout(ctx context.Context, input *payoutdto.ConfirmPayoutInput) (*payoutdto.ConfirmPayoutOutput, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	payoutDate := domain.Day(input.PayoutDate)

	existing, err := uc.payoutRepo.GetPayoutByDate(ctx, input.AccountID, payoutDate)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	now := uc.Now()
	record := domain.PayoutRecord{
		AccountID:    input.AccountID,
		PayoutDate:   payoutDate,
		TotalAmount:  input.TotalAmount,
		Status:       domain.PayoutConfirmed,
		PayoutType:   input.PayoutType,
		OrdersTotal:  valueOrZero(input.OrdersTotal),
		FeesTotal:    valueOrZero(input.FeesTotal),
		RefundsTotal: valueOrZero(input.RefundsTotal),
		LowerBound:   input.TotalAmount,
		UpperBound:   input.TotalAmount,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	var prediction *domain.PayoutRecord
	if existing != nil {
		if !existing.Status.CanTransition(domain.PayoutConfirmed) {
			return nil, fmt.Errorf("%w: %s -> %s", domain.ErrStatusRegression, existing.Status, domain.PayoutConfirmed)
		}
		record.ID = existing.ID
		record.CreatedAt = existing.CreatedAt
		if record.PayoutType == "" {
			record.PayoutType = existing.PayoutType
		}
		if input.OrdersTotal == nil {
			record.OrdersTotal = existing.OrdersTotal
		}
		if input.FeesTotal == nil {
			record.FeesTotal = existing.FeesTotal
		}
		if input.RefundsTotal == nil {
			record.RefundsTotal = existing.RefundsTotal
		}
		prediction = forecast.LatestPrediction(input.AccountID, payoutDate, []domain.PayoutRecord{*existing})
	}
	if record.PayoutType == "" {
		record.PayoutType = domain.PayoutTypeSettlement
	}
	if record.ID == "" {
		record.ID = forecast.ForecastID(input.AccountID, payoutDate, record.PayoutType)
	}

	out := &payoutdto.ConfirmPayoutOutput{Record: record}
	accuracyResult := accuracyNoForecast
	if prediction != nil {
		entry, err := forecast.Track(record, *prediction, now)
		switch {
		case errors.Is(err, domain.ErrZeroActual):
			accuracyResult = accuracyZeroActual
			slog.Info("accuracy entry skipped, actual payout is zero",
				"account_id", input.AccountID,
				"payout_date", payoutDate,
			)
		case err != nil:
			return nil, err
		default:
			entry.ID = uuid.NewString()
			out.Accuracy = &entry
			accuracyResult = accuracyLogged
		}
	}

	err = uc.withTx(ctx, func(tx domain.PayoutTxRepository) error {
		if err := tx.UpsertPayout(&out.Record); err != nil {
			return fmt.Errorf("upsert payout: %w", err)
		}
		if out.Accuracy != nil {
			if err := tx.AppendAccuracy(out.Accuracy); err != nil {
				return fmt.Errorf("append accuracy entry: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.metrics.RecordTransition(string(domain.PayoutConfirmed))
	uc.metrics.RecordAccuracyEntry(accuracyResult)
	slog.Info("payout confirmed",
		"account_id", input.AccountID,
		"payout_date", payoutDate,
		"amount", out.Record.TotalAmount.String(),
		"accuracy", accuracyResult,
	)

	events := []publisher.ForecastEvent{publisher.NewStatusEvent(out.Record, now)}
	if out.Accuracy != nil {
		events = append(events, publisher.NewAccuracyEvent(*out.Accuracy))
		uc.refreshAccuracyGauge(ctx, input.AccountID)
	}
	uc.publish(events...)
	return out, nil
}

func (uc *DefaultPayoutForecastUsecase) refreshAccuracyGauge(ctx context.Context, accountID string) {
	acc, err := uc.GetAccuracy(ctx, accountID, 0)
	if err != nil {
		slog.Warn("failed to refresh accuracy gauge", "account_id", accountID, "error", err)
		return
	}
	if acc.Accuracy != nil {
		uc.metrics.SetAccuracy(accountID, acc.Accuracy.InexactFloat64())
	}
}

func valueOrZero(v *decimal.Decimal) decimal.Decimal {
	if v == nil {
		return decimal.Zero
	}
	return *v
}
