package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/LavaJover/shvark-payout-forecast/internal/config"
	"github.com/LavaJover/shvark-payout-forecast/internal/domain"
	"github.com/LavaJover/shvark-payout-forecast/internal/infrastructure/logger"
	"github.com/LavaJover/shvark-payout-forecast/internal/infrastructure/metrics"
	"github.com/LavaJover/shvark-payout-forecast/internal/infrastructure/tracing"
	payoutdto "github.com/LavaJover/shvark-payout-forecast/internal/usecase/dto/payout"
	"github.com/LavaJover/shvark-payout-forecast/internal/usecase/forecast"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer(tracing.ServiceName + "/usecase")

type PayoutForecastUsecase interface {
	RegenerateForecasts(ctx context.Context, input *payoutdto.RegenerateInput) (*payoutdto.RegenerateOutput, error)
	ListForecasts(ctx context.Context, input *payoutdto.ListForecastsInput) ([]domain.PayoutRecord, error)

	GetWeights(ctx context.Context, accountID string) (*domain.ForecastWeightConfig, error)
	UpdateWeights(ctx context.Context, input *payoutdto.UpdateWeightsInput) (*payoutdto.UpdateWeightsOutput, error)

	MarkEstimated(ctx context.Context, input *payoutdto.MarkEstimatedInput) (*domain.PayoutRecord, error)
	ConfirmPayout(ctx context.Context, input *payoutdto.ConfirmPayoutInput) (*payoutdto.ConfirmPayoutOutput, error)
	GetAccuracy(ctx context.Context, accountID string, window int) (*payoutdto.AccuracyOutput, error)
}

type DefaultPayoutForecastUsecase struct {
	payoutRepo   domain.PayoutRepository
	accountRepo  domain.AccountRepository
	eventRepo    domain.EventRepository
	accuracyRepo domain.AccuracyRepository
	locker       domain.RegenerationLocker
	defaults     *config.DefaultsHolder
	publisher    domain.PublisherPort
	metrics      *metrics.ForecastMetrics
	runLogger    logger.RunLogger

	// Now is the clock; tests replace it.
	Now func() time.Time
	// PublishRetries bounds attempts per event batch.
	PublishRetries int
}

func NewDefaultPayoutForecastUsecase(
	payoutRepo domain.PayoutRepository,
	accountRepo domain.AccountRepository,
	eventRepo domain.EventRepository,
	accuracyRepo domain.AccuracyRepository,
	locker domain.RegenerationLocker,
	defaults *config.DefaultsHolder,
	publisher domain.PublisherPort,
	forecastMetrics *metrics.ForecastMetrics,
	runLogger logger.RunLogger,
) *DefaultPayoutForecastUsecase {
	return &DefaultPayoutForecastUsecase{
		payoutRepo:     payoutRepo,
		accountRepo:    accountRepo,
		eventRepo:      eventRepo,
		accuracyRepo:   accuracyRepo,
		locker:         locker,
		defaults:       defaults,
		publisher:      publisher,
		metrics:        forecastMetrics,
		runLogger:      runLogger,
		Now:            func() time.Time { return time.Now().UTC() },
		PublishRetries: 3,
	}
}

func engineConfig(d config.ForecastDefaults) forecast.EngineConfig {
	factor := d.ConfidenceFactor
	return forecast.EngineConfig{
		HorizonDays:      d.HorizonDays,
		TrailingPayouts:  d.TrailingPayouts,
		MinPayouts:       d.MinPayouts,
		TrendWindowDays:  d.TrendWindowDays,
		ConfidenceFactor: &factor,
	}
}

// withTx runs fn inside one payout transaction and commits when fn succeeds.
func (uc *DefaultPayoutForecastUsecase) withTx(ctx context.Context, fn func(tx domain.PayoutTxRepository) error) error {
	tx, err := uc.payoutRepo.BeginTx(ctx)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			if rbErr := tx.Rollback(); rbErr != nil {
				slog.Error("failed to rollback payout transaction", "error", rbErr)
			}
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
