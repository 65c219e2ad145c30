package forecast

import (
	"time"

	"github.com/LavaJover/shvark-payout-forecast/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	DefaultTrailingPayouts  = 30
	DefaultMinPayouts       = 3
	DefaultTrendWindowDays  = 30
	DefaultConfidenceFactor = 1.0
)

type DailyConfig struct {
	// TrailingPayouts is how many of the latest confirmed payouts feed the
	// base amount.
	TrailingPayouts int
	MinPayouts      int
	TrendWindowDays int
	// ConfidenceFactor scales the variation band. Nil means the default;
	// zero gives no band.
	ConfidenceFactor *float64
	Margin           domain.SafetyMargin
}

func (c DailyConfig) withDefaults() DailyConfig {
	if c.TrailingPayouts <= 0 {
		c.TrailingPayouts = DefaultTrailingPayouts
	}
	if c.MinPayouts <= 0 {
		c.MinPayouts = DefaultMinPayouts
	}
	if c.TrendWindowDays <= 0 {
		c.TrendWindowDays = DefaultTrendWindowDays
	}
	if c.ConfidenceFactor == nil || *c.ConfidenceFactor < 0 {
		factor := DefaultConfidenceFactor
		c.ConfidenceFactor = &factor
	}
	return c
}

// DailyEstimate is the statistical model's output for one account.
type DailyEstimate struct {
	AccountID      string
	AsOf           time.Time
	SampleSize     int
	BaseAmount     decimal.Decimal
	GrowthTrend    decimal.Decimal
	DailyVariation decimal.Decimal
	// RawForecast is base × (1 + growth), before the safety margin.
	RawForecast   decimal.Decimal
	FinalForecast decimal.Decimal
}

// DailyPoint is one day of a daily forecast with its uncertainty band.
type DailyPoint struct {
	Date     time.Time
	Raw      decimal.Decimal
	Adjusted decimal.Decimal
	Lower    decimal.Decimal
	Upper    decimal.Decimal
}

type DailyForecaster struct {
	cfg DailyConfig
}

func NewDailyForecaster(cfg DailyConfig) *DailyForecaster {
	return &DailyForecaster{cfg: cfg.withDefaults()}
}

// FinalForecast is base × (1 + growth) × (1 - margin).
func FinalForecast(base, growth decimal.Decimal, margin domain.SafetyMargin) decimal.Decimal {
	return margin.Apply(RawForecast(base, growth))
}

func RawForecast(base, growth decimal.Decimal) decimal.Decimal {
	return base.Mul(decimal.NewFromInt(1).Add(growth))
}

// Estimate derives base, growth and variation from the confirmed payouts in
// history dated before asOf. With fewer than MinPayouts confirmed payouts it
// returns *domain.InsufficientDataError instead of guessing.
func (f *DailyForecaster) Estimate(accountID string, history []domain.PayoutRecord, asOf time.Time) (DailyEstimate, error) {
	confirmed := confirmedSorted(history, asOf)
	if len(confirmed) < f.cfg.MinPayouts {
		return DailyEstimate{}, &domain.InsufficientDataError{
			AccountID: accountID,
			Required:  f.cfg.MinPayouts,
			Available: len(confirmed),
		}
	}

	recent := confirmed
	if len(recent) > f.cfg.TrailingPayouts {
		recent = recent[len(recent)-f.cfg.TrailingPayouts:]
	}
	base := Mean(amounts(recent))

	today := domain.Day(asOf)
	window := f.cfg.TrendWindowDays
	payoutDay := func(p domain.PayoutRecord) time.Time { return p.PayoutDate }
	payoutAmount := func(p domain.PayoutRecord) decimal.Decimal { return p.TotalAmount }
	last := sumInRange(confirmed, today.AddDate(0, 0, -window), today, payoutDay, payoutAmount)
	prev := sumInRange(confirmed, today.AddDate(0, 0, -2*window), today.AddDate(0, 0, -window), payoutDay, payoutAmount)
	growth := GrowthTrend(last, prev)

	variation := PopulationStdDev(amounts(confirmed)).Mul(decimal.NewFromFloat(*f.cfg.ConfidenceFactor))
	raw := RawForecast(base, growth)

	return DailyEstimate{
		AccountID:      accountID,
		AsOf:           today,
		SampleSize:     len(confirmed),
		BaseAmount:     base,
		GrowthTrend:    growth,
		DailyVariation: variation,
		RawForecast:    raw,
		FinalForecast:  f.cfg.Margin.Apply(raw),
	}, nil
}

// Forecast expands an estimate into one point per day for the next days days,
// starting the day after asOf.
func (f *DailyForecaster) Forecast(est DailyEstimate, days int) []DailyPoint {
	points := make([]DailyPoint, 0, days)
	for i := 1; i <= days; i++ {
		points = append(points, DailyPoint{
			Date:     est.AsOf.AddDate(0, 0, i),
			Raw:      est.RawForecast,
			Adjusted: est.FinalForecast,
			Lower:    Band(est.FinalForecast, est.DailyVariation, false),
			Upper:    Band(est.FinalForecast, est.DailyVariation, true),
		})
	}
	return points
}

// Band returns value ± variation, with the lower edge floored at zero.
func Band(value, variation decimal.Decimal, upper bool) decimal.Decimal {
	if upper {
		return value.Add(variation)
	}
	lower := value.Sub(variation)
	if lower.IsNegative() {
		return decimal.Zero
	}
	return lower
}
