package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type EventType string

const (
	EventOrder          EventType = "ORDER"
	EventRefund         EventType = "REFUND"
	EventReimbursement  EventType = "REIMBURSEMENT"
	EventServiceFee     EventType = "SERVICE_FEE"
	EventAdjustment     EventType = "ADJUSTMENT"
	EventGuaranteeClaim EventType = "GUARANTEE_CLAIM"
	EventChargeback     EventType = "CHARGEBACK"
	EventOther          EventType = "OTHER"
)

// IsCategorized reports whether events of this type get their own line in
// category breakdowns. Other still counts toward totals.
func (t EventType) IsCategorized() bool {
	return t != EventOther && t != ""
}

// RawEvent is a financial event as stored by the marketplace connector.
// Amounts are kept as the strings the connector received so that a missing
// value can be told apart from zero.
type RawEvent struct {
	ID              string
	AccountID       string
	MarketplaceType string
	Timestamp       *time.Time
	GrossAmount     *string
	Fees            *string
	ShippingCost    *string
	AdsCost         *string
	OrderID         *string
	DeliveryDate    *time.Time
}

// FinancialEvent is a normalized event. It is never mutated after normalization.
type FinancialEvent struct {
	ID           string
	AccountID    string
	Timestamp    time.Time
	Type         EventType
	GrossAmount  decimal.Decimal
	NetAmount    decimal.Decimal
	OrderID      *string
	DeliveryDate *time.Time
}

// AwaitingDelivery reports whether the event is an order whose goods have
// not been delivered. Such an order has no unlock date yet.
func (e FinancialEvent) AwaitingDelivery() bool {
	return e.Type == EventOrder && e.DeliveryDate == nil
}

// UnlockDate is the day the event's net amount becomes eligible for payout.
// Events other than orders that carry no delivery date unlock on their own
// timestamp, without the reserve lag. Callers must check AwaitingDelivery
// first; for an undelivered order the result is meaningless.
func (e FinancialEvent) UnlockDate(reserveLagDays int) time.Time {
	if e.DeliveryDate == nil {
		return Day(e.Timestamp)
	}
	return Day(*e.DeliveryDate).AddDate(0, 0, reserveLagDays)
}

// DeliveredBefore reports whether the event's goods were delivered on a day
// strictly before at. An order awaiting delivery never is.
func (e FinancialEvent) DeliveredBefore(at time.Time) bool {
	if e.AwaitingDelivery() {
		return false
	}
	if e.DeliveryDate == nil {
		return Day(e.Timestamp).Before(Day(at))
	}
	return Day(*e.DeliveryDate).Before(Day(at))
}

// Day truncates t to midnight UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of whole days from a to b.
func DaysBetween(a, b time.Time) int {
	return int(Day(b).Sub(Day(a)).Hours() / 24)
}
