package payoutdto

import (
	"time"

	"github.com/LavaJover/shvark-payout-forecast/internal/domain"
	"github.com/shopspring/decimal"
)

type ListForecastsInput struct {
	AccountID string
	From      time.Time
	To        time.Time
	Statuses  []domain.PayoutStatus
}

type ConfirmPayoutInput struct {
	AccountID    string
	PayoutDate   time.Time
	TotalAmount  decimal.Decimal
	PayoutType   domain.PayoutType
	OrdersTotal  *decimal.Decimal
	FeesTotal    *decimal.Decimal
	RefundsTotal *decimal.Decimal
}

func (in *ConfirmPayoutInput) Validate() error {
	if in.AccountID == "" {
		return &domain.InvalidConfigError{Field: "account_id", Reason: "is required"}
	}
	if in.PayoutDate.IsZero() {
		return &domain.InvalidConfigError{Field: "payout_date", Reason: "is required"}
	}
	if in.TotalAmount.IsNegative() {
		return &domain.InvalidConfigError{Field: "total_amount", Reason: "must not be negative"}
	}
	switch in.PayoutType {
	case "", domain.PayoutTypeSettlement, domain.PayoutTypeDaily:
	default:
		return &domain.InvalidConfigError{Field: "payout_type", Reason: "unknown payout type " + string(in.PayoutType)}
	}
	return nil
}

type ConfirmPayoutOutput struct {
	Record domain.PayoutRecord
	// Accuracy is nil when there was no prediction to compare against or the
	// actual amount was zero.
	Accuracy *domain.AccuracyLogEntry
}

type MarkEstimatedInput struct {
	AccountID  string
	PayoutDate time.Time
	// TotalAmount replaces the forecast amount when set.
	TotalAmount *decimal.Decimal
}

type UpdateWeightsInput struct {
	AccountID string
	Near      int
	Mid       int
	Far       int
	AsOf      time.Time
}

func (in *UpdateWeightsInput) Config(at time.Time) domain.ForecastWeightConfig {
	return domain.ForecastWeightConfig{
		AccountID: in.AccountID,
		Weights: map[domain.Horizon]int{
			domain.HorizonNear: in.Near,
			domain.HorizonMid:  in.Mid,
			domain.HorizonFar:  in.Far,
		},
		UpdatedAt: at,
	}
}

type UpdateWeightsOutput struct {
	Weights domain.ForecastWeightConfig
	// Regeneration is nil when the account has too little history to forecast.
	Regeneration *RegenerateOutput
	Warnings     []string
}

type AccuracyOutput struct {
	AccountID string
	Window    int
	Entries   int
	// Accuracy is nil when no entries exist.
	Accuracy *decimal.Decimal
}
