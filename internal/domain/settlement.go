package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SettlementPeriod is one fixed-cadence window of the bi-weekly model.
// A later forecast supersedes a period, it never mutates it.
type SettlementPeriod struct {
	StartDate   time.Time
	EndDate     time.Time
	EvaluatedAt time.Time

	EligibleAmount decimal.Decimal
	ReserveAmount  decimal.Decimal
	PriorBalance   decimal.Decimal
	Adjustments    decimal.Decimal

	// RawEstimate is eligible + prior + adjustments - reserve, before the
	// safety margin and unclamped.
	RawEstimate decimal.Decimal
	// PayoutEstimate is RawEstimate with the safety margin applied, unclamped.
	PayoutEstimate decimal.Decimal

	EligibleEvents int
	ReserveEvents  int
}

// DisplayEstimate is the payout estimate clamped at zero.
func (p SettlementPeriod) DisplayEstimate() decimal.Decimal {
	if p.PayoutEstimate.IsNegative() {
		return decimal.Zero
	}
	return p.PayoutEstimate
}

// CarryForward is the balance handed to the next window: a negative raw
// remainder carries over as a deficit, anything positive is paid out.
func (p SettlementPeriod) CarryForward() decimal.Decimal {
	if p.RawEstimate.IsNegative() {
		return p.RawEstimate
	}
	return decimal.Zero
}

// Contains reports whether day falls in [StartDate, EndDate).
func (p SettlementPeriod) Contains(day time.Time) bool {
	d := Day(day)
	return !d.Before(p.StartDate) && d.Before(p.EndDate)
}
