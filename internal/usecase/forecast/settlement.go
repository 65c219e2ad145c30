package forecast

import (
	"time"

	"github.com/LavaJover/shvark-payout-forecast/internal/domain"
	"github.com/shopspring/decimal"
)

type SettlementConfig struct {
	ReserveLagDays    int
	ReserveMultiplier decimal.Decimal
	CadenceDays       int
	// Anchor is the start of any one window.
	Anchor time.Time
	Margin domain.SafetyMargin
}

func SettlementConfigFrom(s domain.AccountSettings) SettlementConfig {
	return SettlementConfig{
		ReserveLagDays:    s.ReserveLagDays,
		ReserveMultiplier: s.ReserveMultiplier,
		CadenceDays:       s.CadenceDays,
		Anchor:            s.SettlementAnchor,
		Margin:            s.SafetyMargin,
	}
}

// Bucket says where an event lands for one window at one evaluation time.
type Bucket int

const (
	BucketNone Bucket = iota
	BucketEligible
	BucketReserve
	BucketAdjustment
)

type SettlementCalculator struct {
	cfg SettlementConfig
}

func NewSettlementCalculator(cfg SettlementConfig) *SettlementCalculator {
	if cfg.CadenceDays <= 0 {
		cfg.CadenceDays = domain.DefaultCadenceDays
	}
	cfg.Anchor = domain.Day(cfg.Anchor)
	return &SettlementCalculator{cfg: cfg}
}

// WindowAt returns the half-open window [start, end) that contains day.
func (c *SettlementCalculator) WindowAt(day time.Time) (start, end time.Time) {
	offset := domain.DaysBetween(c.cfg.Anchor, day)
	k := offset / c.cfg.CadenceDays
	if offset < 0 && offset%c.cfg.CadenceDays != 0 {
		k--
	}
	start = c.cfg.Anchor.AddDate(0, 0, k*c.cfg.CadenceDays)
	return start, start.AddDate(0, 0, c.cfg.CadenceDays)
}

// Classify places ev for the window [start, end) evaluated at evalAt.
// Eligible requires the unlock date inside the window and before evalAt;
// reserve requires delivery before evalAt and unlock at or after it, so an
// event can never be in both. Orders awaiting delivery are in neither.
func (c *SettlementCalculator) Classify(ev domain.FinancialEvent, start, end, evalAt time.Time) Bucket {
	if ev.AwaitingDelivery() {
		return BucketNone
	}
	if ev.Type == domain.EventAdjustment {
		ts := domain.Day(ev.Timestamp)
		if !ts.Before(start) && ts.Before(end) {
			return BucketAdjustment
		}
		return BucketNone
	}

	evalDay := domain.Day(evalAt)
	unlock := ev.UnlockDate(c.cfg.ReserveLagDays)
	if unlock.Before(evalDay) {
		if !unlock.Before(start) && unlock.Before(end) {
			return BucketEligible
		}
		return BucketNone
	}
	if ev.DeliveredBefore(evalDay) {
		return BucketReserve
	}
	return BucketNone
}

// Period aggregates events into the window [start, end) as seen at evalAt.
func (c *SettlementCalculator) Period(events []domain.FinancialEvent, start, end, evalAt time.Time, priorBalance decimal.Decimal) domain.SettlementPeriod {
	p := domain.SettlementPeriod{
		StartDate:      domain.Day(start),
		EndDate:        domain.Day(end),
		EvaluatedAt:    domain.Day(evalAt),
		EligibleAmount: decimal.Zero,
		ReserveAmount:  decimal.Zero,
		PriorBalance:   priorBalance,
		Adjustments:    decimal.Zero,
	}

	pending := decimal.Zero
	for _, ev := range events {
		switch c.Classify(ev, p.StartDate, p.EndDate, p.EvaluatedAt) {
		case BucketEligible:
			p.EligibleAmount = p.EligibleAmount.Add(ev.NetAmount)
			p.EligibleEvents++
		case BucketReserve:
			pending = pending.Add(ev.NetAmount)
			p.ReserveEvents++
		case BucketAdjustment:
			p.Adjustments = p.Adjustments.Add(ev.NetAmount)
		}
	}
	p.ReserveAmount = pending.Mul(c.cfg.ReserveMultiplier)

	return c.Statement(p)
}

// Statement fills the raw and margin-adjusted estimates of p:
//
//	payout = (eligible + prior + adjustments - reserve) × (1 - margin)
func (c *SettlementCalculator) Statement(p domain.SettlementPeriod) domain.SettlementPeriod {
	p.RawEstimate = p.EligibleAmount.
		Add(p.PriorBalance).
		Add(p.Adjustments).
		Sub(p.ReserveAmount)
	p.PayoutEstimate = c.cfg.Margin.Apply(p.RawEstimate)
	return p
}

// Project computes count consecutive windows starting with the one that
// contains from. Each window is evaluated at its own end date and receives
// the previous window's unadjusted carry-forward as prior balance, so the
// safety margin never compounds across periods.
func (c *SettlementCalculator) Project(events []domain.FinancialEvent, from time.Time, count int, openingBalance decimal.Decimal) []domain.SettlementPeriod {
	if count <= 0 {
		return nil
	}
	periods := make([]domain.SettlementPeriod, 0, count)
	start, end := c.WindowAt(from)
	prior := openingBalance
	for i := 0; i < count; i++ {
		p := c.Period(events, start, end, end, prior)
		periods = append(periods, p)
		prior = p.CarryForward()
		start, end = end, end.AddDate(0, 0, c.cfg.CadenceDays)
	}
	return periods
}
