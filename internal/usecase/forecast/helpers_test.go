package forecast_test

import (
	"fmt"
	"time"

	"github.com/LavaJover/shvark-payout-forecast/internal/domain"
	"github.com/shopspring/decimal"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func ptr[T any](v T) *T {
	return &v
}

func orderEvent(id string, delivered time.Time, net string) domain.FinancialEvent {
	return domain.FinancialEvent{
		ID:           id,
		AccountID:    "acc-1",
		Timestamp:    delivered.AddDate(0, 0, -2),
		Type:         domain.EventOrder,
		GrossAmount:  dec(net),
		NetAmount:    dec(net),
		DeliveryDate: ptr(delivered),
	}
}

func rawOrder(id string, delivered time.Time, gross string) domain.RawEvent {
	return domain.RawEvent{
		ID:              id,
		AccountID:       "acc-1",
		MarketplaceType: "Order",
		Timestamp:       ptr(delivered.AddDate(0, 0, -2)),
		GrossAmount:     ptr(gross),
		DeliveryDate:    ptr(delivered),
	}
}

func confirmed(accountID string, date time.Time, amount string) domain.PayoutRecord {
	return domain.PayoutRecord{
		ID:          fmt.Sprintf("%s-%s", accountID, date.Format(time.DateOnly)),
		AccountID:   accountID,
		PayoutDate:  date,
		TotalAmount: dec(amount),
		Status:      domain.PayoutConfirmed,
		PayoutType:  domain.PayoutTypeDaily,
	}
}

func assertDecimal(t interface {
	Helper()
	Errorf(string, ...any)
}, name string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(dec(want)) {
		t.Errorf("%s = %s, want %s", name, got, want)
	}
}
