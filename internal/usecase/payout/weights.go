package usecase

import (
	"context"
	"errors"

	"github.com/LavaJover/shvark-payout-forecast/internal/domain"
	payoutdto "github.com/LavaJover/shvark-payout-forecast/internal/usecase/dto/payout"
)

// UpdateWeights stores the account's horizon weights and regenerates its
// forecasts with them before returning. An account without enough payout
// history still gets its weights stored.
func (uc *DefaultPayoutForecastUsecase) UpdateWeights(ctx context.Context, input *payoutdto.UpdateWeightsInput) (*payoutdto.UpdateWeightsOutput, error) {
	weights := input.Config(uc.Now())
	if err := weights.Validate(); err != nil {
		return nil, err
	}

	regen, err := uc.regenerate(ctx, &payoutdto.RegenerateInput{
		AccountID: input.AccountID,
		AsOf:      input.AsOf,
		Trigger:   payoutdto.TriggerWeights,
	}, &weights)

	out := &payoutdto.UpdateWeightsOutput{Weights: weights, Regeneration: regen}
	var insufficient *domain.InsufficientDataError
	switch {
	case errors.As(err, &insufficient):
		out.Warnings = append(out.Warnings, insufficient.Error())
	case err != nil:
		return nil, err
	}
	return out, nil
}
