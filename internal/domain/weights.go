package domain

import (
	"fmt"
	"time"
)

type Horizon string

const (
	HorizonNear Horizon = "near"
	HorizonMid  Horizon = "mid"
	HorizonFar  Horizon = "far"
)

var Horizons = []Horizon{HorizonNear, HorizonMid, HorizonFar}

const (
	midHorizonStartDays = 30
	farHorizonStartDays = 60
)

// HorizonFor selects the horizon from the whole-day distance between today
// and the forecast date: [0,30) near, [30,60) mid, [60,∞) far.
// Dates in the past are treated as near.
func HorizonFor(today, forecastDate time.Time) Horizon {
	return HorizonForDays(DaysBetween(today, forecastDate))
}

func HorizonForDays(days int) Horizon {
	switch {
	case days >= farHorizonStartDays:
		return HorizonFar
	case days >= midHorizonStartDays:
		return HorizonMid
	default:
		return HorizonNear
	}
}

// ForecastWeightConfig holds the payout-history weight (0..100) per horizon.
// The transaction-trend weight is always the complement.
type ForecastWeightConfig struct {
	AccountID string
	Weights   map[Horizon]int
	UpdatedAt time.Time
}

func DefaultForecastWeights(accountID string) ForecastWeightConfig {
	return ForecastWeightConfig{
		AccountID: accountID,
		Weights: map[Horizon]int{
			HorizonNear: 75,
			HorizonMid:  50,
			HorizonFar:  25,
		},
	}
}

// Validate fails when a horizon is missing or a weight is outside [0,100].
func (c ForecastWeightConfig) Validate() error {
	for _, h := range Horizons {
		w, ok := c.Weights[h]
		if !ok {
			return &InvalidConfigError{Field: fmt.Sprintf("weights.%s", h), Reason: "payout history weight is missing"}
		}
		if w < 0 || w > 100 {
			return &InvalidConfigError{Field: fmt.Sprintf("weights.%s", h), Reason: fmt.Sprintf("weight %d is outside [0,100]", w)}
		}
	}
	for h := range c.Weights {
		if h != HorizonNear && h != HorizonMid && h != HorizonFar {
			return &InvalidConfigError{Field: "weights", Reason: fmt.Sprintf("unknown horizon %q", h)}
		}
	}
	return nil
}

func (c ForecastWeightConfig) PayoutHistoryWeight(h Horizon) int {
	return c.Weights[h]
}

func (c ForecastWeightConfig) TransactionTrendWeight(h Horizon) int {
	return 100 - c.Weights[h]
}

// Equal reports whether both configs carry the same weights.
func (c ForecastWeightConfig) Equal(other ForecastWeightConfig) bool {
	if len(c.Weights) != len(other.Weights) {
		return false
	}
	for h, w := range c.Weights {
		if ow, ok := other.Weights[h]; !ok || ow != w {
			return false
		}
	}
	return true
}
