package forecast

import (
	"time"

	"github.com/LavaJover/shvark-payout-forecast/internal/domain"
	"github.com/shopspring/decimal"
)

// Blender mixes the payout-history signal (A) and the transaction-trend
// signal (B) with the weight of the forecast's horizon.
type Blender struct {
	weights domain.ForecastWeightConfig
}

// NewBlender validates weights up front so a bad config aborts before any
// forecast is produced.
func NewBlender(weights domain.ForecastWeightConfig) (*Blender, error) {
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	return &Blender{weights: weights}, nil
}

// Blend returns a × w/100 + b × (100 - w)/100.
func (b *Blender) Blend(h domain.Horizon, a, trend decimal.Decimal) decimal.Decimal {
	return BlendWeighted(b.weights.PayoutHistoryWeight(h), a, trend)
}

// BlendAt picks the horizon from today and forecastDate and blends.
func (b *Blender) BlendAt(today, forecastDate time.Time, a, trend decimal.Decimal) (domain.Horizon, decimal.Decimal) {
	h := domain.HorizonFor(today, forecastDate)
	return h, b.Blend(h, a, trend)
}

func BlendWeighted(historyWeight int, a, trend decimal.Decimal) decimal.Decimal {
	w := decimal.NewFromInt(int64(historyWeight))
	return a.Mul(w).Div(hundred).
		Add(trend.Mul(hundred.Sub(w)).Div(hundred))
}

var hundred = decimal.NewFromInt(100)
