package forecast

import (
	"sort"
	"time"

	"github.com/LavaJover/shvark-payout-forecast/internal/domain"
	"github.com/shopspring/decimal"
)

const DefaultAccuracyWindow = 30

// DifferencePercentage is (actual - forecast) / actual × 100.
func DifferencePercentage(actual, forecast decimal.Decimal) (decimal.Decimal, error) {
	if actual.IsZero() {
		return decimal.Zero, domain.ErrZeroActual
	}
	return actual.Sub(forecast).Div(actual).Mul(hundred), nil
}

// LatestPrediction picks the most recently written forecasted or estimated
// record for the account on payoutDate.
func LatestPrediction(accountID string, payoutDate time.Time, records []domain.PayoutRecord) *domain.PayoutRecord {
	day := domain.Day(payoutDate)
	var best *domain.PayoutRecord
	for i := range records {
		r := &records[i]
		if r.AccountID != accountID || !domain.Day(r.PayoutDate).Equal(day) {
			continue
		}
		if r.Status != domain.PayoutForecasted && r.Status != domain.PayoutEstimated {
			continue
		}
		if best == nil || recordTime(*r).After(recordTime(*best)) {
			best = r
		}
	}
	return best
}

func recordTime(r domain.PayoutRecord) time.Time {
	if r.UpdatedAt.After(r.CreatedAt) {
		return r.UpdatedAt
	}
	return r.CreatedAt
}

// Track builds the accuracy entry for a confirmed payout against its
// prediction. The caller assigns the entry ID.
func Track(actual domain.PayoutRecord, prediction domain.PayoutRecord, at time.Time) (domain.AccuracyLogEntry, error) {
	diff, err := DifferencePercentage(actual.TotalAmount, prediction.TotalAmount)
	if err != nil {
		return domain.AccuracyLogEntry{}, err
	}
	return domain.AccuracyLogEntry{
		AccountID:            actual.AccountID,
		ForecastID:           prediction.ID,
		PayoutDate:           domain.Day(actual.PayoutDate),
		ActualAmount:         actual.TotalAmount,
		ForecastAmount:       prediction.TotalAmount,
		DifferencePercentage: diff,
		LoggedAt:             at,
	}, nil
}

// Aggregate returns 100 - mean(|diff|) over the latest window entries,
// clamped to [0,100]. ok is false when there are no entries.
func Aggregate(entries []domain.AccuracyLogEntry, window int) (accuracy decimal.Decimal, ok bool) {
	if len(entries) == 0 {
		return decimal.Zero, false
	}
	if window <= 0 {
		window = DefaultAccuracyWindow
	}
	sorted := make([]domain.AccuracyLogEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].LoggedAt.After(sorted[j].LoggedAt)
	})
	if len(sorted) > window {
		sorted = sorted[:window]
	}

	diffs := make([]decimal.Decimal, len(sorted))
	for i, e := range sorted {
		diffs[i] = e.DifferencePercentage.Abs()
	}
	acc := hundred.Sub(Mean(diffs))
	if acc.IsNegative() {
		return decimal.Zero, true
	}
	if acc.GreaterThan(hundred) {
		return hundred, true
	}
	return acc, true
}
