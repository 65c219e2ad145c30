package usecase

import (
	"context"

	"github.com/LavaJover/shvark-payout-forecast/internal/domain"
	payoutdto "github.com/LavaJover/shvark-payout-forecast/internal/usecase/dto/payout"
	"github.com/LavaJover/shvark-payout-forecast/internal/usecase/forecast"
)

func (uc *DefaultPayoutForecastUsecase) ListForecasts(ctx context.Context, input *payoutdto.ListForecastsInput) ([]domain.PayoutRecord, error) {
	return uc.payoutRepo.ListPayouts(ctx, domain.PayoutFilter{
		AccountID: input.AccountID,
		From:      input.From,
		To:        input.To,
		Statuses:  input.Statuses,
	})
}

func (uc *DefaultPayoutForecastUsecase) GetWeights(ctx context.Context, accountID string) (*domain.ForecastWeightConfig, error) {
	settings, err := uc.accountRepo.GetSettings(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return &settings.Weights, nil
}

// GetAccuracy aggregates the latest window accuracy entries. A window of
// zero uses the configured default.
func (uc *DefaultPayoutForecastUsecase) GetAccuracy(ctx context.Context, accountID string, window int) (*payoutdto.AccuracyOutput, error) {
	if window <= 0 {
		window = uc.defaults.Get().AccuracyWindow
	}
	if window <= 0 {
		window = forecast.DefaultAccuracyWindow
	}
	entries, err := uc.accuracyRepo.ListRecent(ctx, accountID, window)
	if err != nil {
		return nil, err
	}
	out := &payoutdto.AccuracyOutput{AccountID: accountID, Window: window, Entries: len(entries)}
	if acc, ok := forecast.Aggregate(entries, window); ok {
		out.Accuracy = &acc
	}
	return out, nil
}
