package domain_test

import (
	"math/rand"
	"testing"
	"time"

	"github.com/LavaJover/shvark-payout-forecast/internal/domain"
)

func TestUnlockDateIsDeliveryPlusLag(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	base := time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 2000; i++ {
		delivery := base.Add(time.Duration(rng.Int63n(int64(6 * 365 * 24 * time.Hour))))
		lag := rng.Intn(60)
		ev := domain.FinancialEvent{
			ID:           "evt",
			Timestamp:    delivery.Add(-48 * time.Hour),
			Type:         domain.EventOrder,
			DeliveryDate: &delivery,
		}

		got := ev.UnlockDate(lag)
		want := domain.Day(delivery).AddDate(0, 0, lag)
		if !got.Equal(want) {
			t.Fatalf("delivery %s lag %d: unlock %s, want %s", delivery, lag, got, want)
		}
		if domain.DaysBetween(delivery, got) != lag {
			t.Fatalf("delivery %s lag %d: %d days apart", delivery, lag, domain.DaysBetween(delivery, got))
		}
	}
}

func TestUnlockDateWithoutDelivery(t *testing.T) {
	ts := time.Date(2025, time.May, 2, 18, 0, 0, 0, time.UTC)
	ev := domain.FinancialEvent{ID: "fee", Timestamp: ts, Type: domain.EventServiceFee}
	if got := ev.UnlockDate(7); !got.Equal(domain.Day(ts)) {
		t.Fatalf("unlock %s, want %s", got, domain.Day(ts))
	}
	if ev.AwaitingDelivery() {
		t.Fatal("fee reported as awaiting delivery")
	}
	if !ev.DeliveredBefore(ts.AddDate(0, 0, 1)) {
		t.Fatal("fee without delivery date should count from its timestamp")
	}
}

func TestOrderWithoutDeliveryIsAwaitingDelivery(t *testing.T) {
	ts := time.Date(2025, time.May, 2, 18, 0, 0, 0, time.UTC)
	ev := domain.FinancialEvent{ID: "ord", Timestamp: ts, Type: domain.EventOrder}
	if !ev.AwaitingDelivery() {
		t.Fatal("undelivered order not awaiting delivery")
	}
	if ev.DeliveredBefore(ts.AddDate(0, 1, 0)) {
		t.Fatal("undelivered order reported as delivered")
	}

	delivered := ts.AddDate(0, 0, 3)
	ev.DeliveryDate = &delivered
	if ev.AwaitingDelivery() {
		t.Fatal("delivered order still awaiting delivery")
	}
}
