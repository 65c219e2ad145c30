package forecast

import (
	"math"
	"sort"
	"time"

	"github.com/LavaJover/shvark-payout-forecast/internal/domain"
	"github.com/shopspring/decimal"
)

// Mean of values; zero for an empty slice.
func Mean(values []decimal.Decimal) decimal.Decimal {
	if len(values) == 0 {
		return decimal.Zero
	}
	return decimal.Sum(decimal.Zero, values...).Div(decimal.NewFromInt(int64(len(values))))
}

// PopulationStdDev is computed in float64; values are summed in slice order
// so equal inputs always give equal output.
func PopulationStdDev(values []decimal.Decimal) decimal.Decimal {
	if len(values) < 2 {
		return decimal.Zero
	}
	xs := make([]float64, len(values))
	var sum float64
	for i, v := range values {
		xs[i] = v.InexactFloat64()
		sum += xs[i]
	}
	mean := sum / float64(len(xs))
	var sq float64
	for _, x := range xs {
		d := x - mean
		sq += d * d
	}
	return decimal.NewFromFloat(math.Sqrt(sq / float64(len(xs))))
}

// GrowthTrend is (current - previous) / previous, or zero when previous is
// zero.
func GrowthTrend(current, previous decimal.Decimal) decimal.Decimal {
	if previous.IsZero() {
		return decimal.Zero
	}
	return current.Sub(previous).Div(previous)
}

// sumInRange adds amount(x) for every x whose day falls in [from, to).
func sumInRange[T any](items []T, from, to time.Time, day func(T) time.Time, amount func(T) decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		d := domain.Day(day(it))
		if !d.Before(from) && d.Before(to) {
			total = total.Add(amount(it))
		}
	}
	return total
}

// confirmedSorted returns the confirmed payouts dated before asOf, oldest
// first. Ties are broken by ID.
func confirmedSorted(history []domain.PayoutRecord, asOf time.Time) []domain.PayoutRecord {
	out := make([]domain.PayoutRecord, 0, len(history))
	cutoff := domain.Day(asOf)
	for _, p := range history {
		if p.Status != domain.PayoutConfirmed {
			continue
		}
		if !domain.Day(p.PayoutDate).Before(cutoff) {
			continue
		}
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].PayoutDate.Equal(out[j].PayoutDate) {
			return out[i].PayoutDate.Before(out[j].PayoutDate)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func amounts(records []domain.PayoutRecord) []decimal.Decimal {
	out := make([]decimal.Decimal, len(records))
	for i, r := range records {
		out[i] = r.TotalAmount
	}
	return out
}
