package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type PayoutStatus string

const (
	PayoutForecasted PayoutStatus = "forecasted"
	PayoutEstimated  PayoutStatus = "estimated"
	PayoutConfirmed  PayoutStatus = "confirmed"
)

var payoutStatusRank = map[PayoutStatus]int{
	PayoutForecasted: 0,
	PayoutEstimated:  1,
	PayoutConfirmed:  2,
}

// CanTransition reports whether a record may move from s to next.
// Status only moves forward: forecasted → estimated → confirmed.
func (s PayoutStatus) CanTransition(next PayoutStatus) bool {
	from, ok := payoutStatusRank[s]
	if !ok {
		return false
	}
	to, ok := payoutStatusRank[next]
	if !ok {
		return false
	}
	return to >= from
}

// Predecessors lists the statuses a record may hold before moving to s.
func (s PayoutStatus) Predecessors() []PayoutStatus {
	var out []PayoutStatus
	for _, from := range []PayoutStatus{PayoutForecasted, PayoutEstimated, PayoutConfirmed} {
		if from.CanTransition(s) {
			out = append(out, from)
		}
	}
	return out
}

func (s PayoutStatus) Valid() bool {
	_, ok := payoutStatusRank[s]
	return ok
}

type PayoutFrequency string

const (
	FrequencyBiWeekly PayoutFrequency = "biweekly"
	FrequencyDaily    PayoutFrequency = "daily"
)

type PayoutType string

const (
	PayoutTypeSettlement PayoutType = "settlement"
	PayoutTypeDaily      PayoutType = "daily"
)

type PayoutRecord struct {
	ID           string
	AccountID    string
	PayoutDate   time.Time
	TotalAmount  decimal.Decimal
	Status       PayoutStatus
	PayoutType   PayoutType
	OrdersTotal  decimal.Decimal
	FeesTotal    decimal.Decimal
	RefundsTotal decimal.Decimal

	// Forecast-only fields.
	Horizon    Horizon
	LowerBound decimal.Decimal
	UpperBound decimal.Decimal

	CreatedAt time.Time
	UpdatedAt time.Time
}
