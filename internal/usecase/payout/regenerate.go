package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/LavaJover/shvark-payout-forecast/internal/config"
	"github.com/LavaJover/shvark-payout-forecast/internal/domain"
	publisher "github.com/LavaJover/shvark-payout-forecast/internal/infrastructure/kafka"
	"github.com/LavaJover/shvark-payout-forecast/internal/infrastructure/logger"
	payoutdto "github.com/LavaJover/shvark-payout-forecast/internal/usecase/dto/payout"
	"github.com/LavaJover/shvark-payout-forecast/internal/usecase/forecast"
	"github.com/jaevor/go-nanoid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	resultOK               = "ok"
	resultConflict         = "conflict"
	resultInsufficientData = "insufficient_data"
	resultInvalidConfig    = "invalid_config"
	resultError            = "error"
)

// RegenerateForecasts recomputes every forecasted record of the account for
// the horizon after AsOf and replaces the stored ones in one transaction.
func (uc *DefaultPayoutForecastUsecase) RegenerateForecasts(ctx context.Context, input *payoutdto.RegenerateInput) (*payoutdto.RegenerateOutput, error) {
	return uc.regenerate(ctx, input, nil)
}

// regenerate runs one forecast run. When weights is set it is validated,
// used for the run and stored in the same transaction as the forecasts.
func (uc *DefaultPayoutForecastUsecase) regenerate(ctx context.Context, input *payoutdto.RegenerateInput, weights *domain.ForecastWeightConfig) (*payoutdto.RegenerateOutput, error) {
	ctx, span := tracer.Start(ctx, "payout.RegenerateForecasts", trace.WithAttributes(
		attribute.String("account_id", input.AccountID),
		attribute.String("trigger", input.Trigger),
	))
	defer span.End()

	started := uc.Now()
	asOf := input.AsOf
	if asOf.IsZero() {
		asOf = started
	}
	defaults := uc.defaults.Get()
	engine := forecast.NewEngine(engineConfig(defaults))
	from, to := engine.Window(asOf)

	runID, err := newRunID()
	if err != nil {
		return nil, err
	}
	run := logger.ForecastRunLog{
		RunID:     runID,
		AccountID: input.AccountID,
		Trigger:   input.Trigger,
		RangeFrom: from,
		RangeTo:   to,
		StartedAt: started,
	}
	span.SetAttributes(attribute.String("run_id", runID))

	out, err := uc.runLocked(ctx, engine, defaults, input.AccountID, asOf, weights, &run)
	result := regenerationResult(err)
	run.Result = result
	run.FinishedAt = uc.Now()
	if err != nil {
		run.Error = err.Error()
		span.RecordError(err)
		span.SetStatus(codes.Error, result)
	}
	uc.metrics.RecordRegeneration(run.PayoutFrequency, result, run.FinishedAt.Sub(started).Seconds())
	uc.logRun(ctx, run)

	if err != nil {
		slog.Warn("forecast regeneration failed",
			"run_id", runID,
			"account_id", input.AccountID,
			"result", result,
			"error", err,
		)
		return nil, err
	}
	out.RunID = runID

	slog.Info("forecast regenerated",
		"run_id", runID,
		"account_id", input.AccountID,
		"trigger", input.Trigger,
		"records", len(out.Records),
		"skipped_events", out.SkippedEvents,
		"warnings", len(out.Warnings),
	)
	uc.publishRegenerated(out)
	return out, nil
}

func (uc *DefaultPayoutForecastUsecase) runLocked(
	ctx context.Context,
	engine *forecast.Engine,
	defaults config.ForecastDefaults,
	accountID string,
	asOf time.Time,
	weights *domain.ForecastWeightConfig,
	run *logger.ForecastRunLog,
) (*payoutdto.RegenerateOutput, error) {
	release, err := uc.locker.Acquire(ctx, accountID, run.RangeFrom, run.RangeTo)
	if err != nil {
		return nil, err
	}
	defer release()

	settings, err := uc.accountRepo.GetSettings(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("load settings of account %s: %w", accountID, err)
	}
	if weights != nil {
		if err := weights.Validate(); err != nil {
			return nil, err
		}
		settings.Weights = *weights
	}
	run.PayoutFrequency = string(settings.PayoutFrequency)
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	lookbackFrom := domain.Day(asOf).AddDate(0, 0, -defaults.LookbackDays)
	rawEvents, err := uc.eventRepo.ListRawEvents(ctx, accountID, lookbackFrom, run.RangeTo)
	if err != nil {
		return nil, fmt.Errorf("load events of account %s: %w", accountID, err)
	}
	history, err := uc.payoutRepo.ListPayouts(ctx, domain.PayoutFilter{
		AccountID: accountID,
		From:      lookbackFrom,
		To:        run.RangeTo,
	})
	if err != nil {
		return nil, fmt.Errorf("load payout history of account %s: %w", accountID, err)
	}

	plan, err := engine.Build(forecast.Inputs{
		Settings:  *settings,
		RawEvents: rawEvents,
		History:   history,
		AsOf:      asOf,
	})
	if err != nil {
		var insufficient *domain.InsufficientDataError
		if errors.As(err, &insufficient) {
			uc.metrics.RecordInsufficientData(string(settings.PayoutFrequency))
			// Weights are stored even when there is nothing to forecast yet;
			// forecasts made with the old weights are dropped.
			if weights != nil {
				if txErr := uc.withTx(ctx, func(tx domain.PayoutTxRepository) error {
					if err := tx.SaveWeights(*weights); err != nil {
						return fmt.Errorf("save weights: %w", err)
					}
					if err := tx.ReplaceForecasts(accountID, time.Time{}, time.Time{}, nil); err != nil {
						return fmt.Errorf("drop stale forecasts: %w", err)
					}
					return nil
				}); txErr != nil {
					return nil, txErr
				}
			}
		}
		return nil, err
	}

	// New weights invalidate every forecasted record of the account, not
	// only the ones inside the horizon.
	replaceFrom, replaceTo := plan.From, plan.To
	if weights != nil {
		replaceFrom, replaceTo = time.Time{}, time.Time{}
	}
	err = uc.withTx(ctx, func(tx domain.PayoutTxRepository) error {
		if weights != nil {
			if err := tx.SaveWeights(*weights); err != nil {
				return fmt.Errorf("save weights: %w", err)
			}
		}
		if err := tx.ReplaceForecasts(accountID, replaceFrom, replaceTo, plan.Records); err != nil {
			return fmt.Errorf("replace forecasts: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	run.RecordsWritten = len(plan.Records)
	run.SkippedEvents = plan.Skipped
	run.Warnings = strings.Join(plan.Warnings, "; ")

	uc.metrics.RecordMalformed(plan.Skipped)
	for _, r := range plan.Records {
		uc.metrics.RecordForecastWritten(string(r.PayoutType), string(r.Horizon))
	}
	if len(plan.Records) > 0 {
		uc.metrics.SetNextPayout(accountID, plan.Records[0].TotalAmount.InexactFloat64())
	}

	out := &payoutdto.RegenerateOutput{
		AccountID:     accountID,
		AsOf:          plan.AsOf,
		From:          plan.From,
		To:            plan.To,
		Records:       plan.Records,
		Periods:       plan.Periods,
		SkippedEvents: plan.Skipped,
		Warnings:      plan.Warnings,
	}
	for _, m := range plan.Malformed {
		out.Malformed = append(out.Malformed, m.Error())
	}
	return out, nil
}

func regenerationResult(err error) string {
	var (
		conflict     *domain.RegenerationConflictError
		insufficient *domain.InsufficientDataError
		invalid      *domain.InvalidConfigError
	)
	switch {
	case err == nil:
		return resultOK
	case errors.As(err, &conflict):
		return resultConflict
	case errors.As(err, &insufficient):
		return resultInsufficientData
	case errors.As(err, &invalid):
		return resultInvalidConfig
	default:
		return resultError
	}
}

func (uc *DefaultPayoutForecastUsecase) logRun(ctx context.Context, run logger.ForecastRunLog) {
	if run.Result == resultConflict {
		uc.metrics.RecordConflict()
	}
	if uc.runLogger == nil {
		return
	}
	if err := uc.runLogger.LogRun(context.WithoutCancel(ctx), run); err != nil {
		slog.Error("failed to write forecast run log", "run_id", run.RunID, "error", err)
	}
}

func (uc *DefaultPayoutForecastUsecase) publishRegenerated(out *payoutdto.RegenerateOutput) {
	ev := publisher.ForecastEvent{
		Type:       publisher.EventForecastRegenerated,
		AccountID:  out.AccountID,
		RunID:      out.RunID,
		From:       out.From.Format(time.DateOnly),
		To:         out.To.Format(time.DateOnly),
		Records:    len(out.Records),
		OccurredAt: uc.Now(),
	}
	if next := out.NextPayout(); next != nil {
		ev.NextPayout = &publisher.Payout{
			Date:   next.PayoutDate.Format(time.DateOnly),
			Amount: next.TotalAmount,
			Status: string(next.Status),
		}
	}
	uc.publish(ev)
}

// publish sends events in the background; failures are logged only.
func (uc *DefaultPayoutForecastUsecase) publish(events ...publisher.ForecastEvent) {
	if uc.publisher == nil || len(events) == 0 {
		return
	}
	go func(events []publisher.ForecastEvent) {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := publisher.PublishForecastEvents(ctx, uc.publisher, events, uc.PublishRetries); err != nil {
			slog.Error("failed to publish kafka forecast events", "type", events[0].Type, "account_id", events[0].AccountID, "error", err)
		}
	}(events)
}

func newRunID() (string, error) {
	idGenerator, err := nanoid.Standard(21)
	if err != nil {
		return "", err
	}
	return idGenerator(), nil
}
