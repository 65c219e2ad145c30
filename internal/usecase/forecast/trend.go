package forecast

import (
	"time"

	"github.com/LavaJover/shvark-payout-forecast/internal/domain"
	"github.com/shopspring/decimal"
)

type TrendConfig struct {
	ReserveLagDays int
	WindowDays     int
}

// TrendEstimate describes recent order velocity.
type TrendEstimate struct {
	DailyVelocity  decimal.Decimal
	OrderGrowth    decimal.Decimal
	ProjectedDaily decimal.Decimal
}

// TrendEstimator produces the transaction-trend signal from order events.
type TrendEstimator struct {
	cfg TrendConfig
}

func NewTrendEstimator(cfg TrendConfig) *TrendEstimator {
	if cfg.WindowDays <= 0 {
		cfg.WindowDays = DefaultTrendWindowDays
	}
	return &TrendEstimator{cfg: cfg}
}

func deliveryDay(ev domain.FinancialEvent) time.Time {
	if ev.DeliveryDate != nil {
		return *ev.DeliveryDate
	}
	return ev.Timestamp
}

// Estimate measures the mean daily net order amount over the trailing window
// before asOf and its growth against the window before that.
func (t *TrendEstimator) Estimate(events []domain.FinancialEvent, asOf time.Time) TrendEstimate {
	orders := make([]domain.FinancialEvent, 0, len(events))
	for _, ev := range events {
		if ev.Type == domain.EventOrder {
			orders = append(orders, ev)
		}
	}

	today := domain.Day(asOf)
	w := t.cfg.WindowDays
	net := func(ev domain.FinancialEvent) decimal.Decimal { return ev.NetAmount }
	last := sumInRange(orders, today.AddDate(0, 0, -w), today, deliveryDay, net)
	prev := sumInRange(orders, today.AddDate(0, 0, -2*w), today.AddDate(0, 0, -w), deliveryDay, net)

	velocity := last.Div(decimal.NewFromInt(int64(w)))
	growth := GrowthTrend(last, prev)
	return TrendEstimate{
		DailyVelocity:  velocity,
		OrderGrowth:    growth,
		ProjectedDaily: velocity.Mul(decimal.NewFromInt(1).Add(growth)),
	}
}

// Known sums the net amount of events delivered before asOf that unlock in
// [start, end). Adjustments are not unlocked funds and are left out.
func (t *TrendEstimator) Known(events []domain.FinancialEvent, start, end, asOf time.Time) decimal.Decimal {
	total := decimal.Zero
	for _, ev := range events {
		if ev.Type == domain.EventAdjustment || !ev.DeliveredBefore(asOf) {
			continue
		}
		u := ev.UnlockDate(t.cfg.ReserveLagDays)
		if !u.Before(start) && u.Before(end) {
			total = total.Add(ev.NetAmount)
		}
	}
	return total
}

// Projection adds the projected daily order amount for every unlock day in
// [start, end) whose orders are not delivered as of asOf.
func (t *TrendEstimator) Projection(est TrendEstimate, start, end, asOf time.Time) decimal.Decimal {
	today := domain.Day(asOf)
	days := 0
	for d := domain.Day(start); d.Before(domain.Day(end)); d = d.AddDate(0, 0, 1) {
		if !d.AddDate(0, 0, -t.cfg.ReserveLagDays).Before(today) {
			days++
		}
	}
	return est.ProjectedDaily.Mul(decimal.NewFromInt(int64(days)))
}

// Signal is the transaction-trend estimate for [start, end): known unlocking
// amounts plus the projection for orders that have not been delivered yet.
func (t *TrendEstimator) Signal(events []domain.FinancialEvent, est TrendEstimate, start, end, asOf time.Time) decimal.Decimal {
	return t.Known(events, start, end, asOf).Add(t.Projection(est, start, end, asOf))
}
