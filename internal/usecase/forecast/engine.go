package forecast

import (
	"errors"
	"fmt"
	"time"

	"github.com/LavaJover/shvark-payout-forecast/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const DefaultHorizonDays = 90

// forecastNamespace seeds deterministic record IDs: the same account, date
// and payout type always map to the same ID.
var forecastNamespace = uuid.MustParse("6f1c2d0e-3b7a-4f59-9a51-8a3c64e0b7d2")

type EngineConfig struct {
	HorizonDays      int
	TrailingPayouts  int
	MinPayouts       int
	TrendWindowDays  int
	ConfidenceFactor *float64
}

// Inputs are everything one account's forecast depends on. The engine does
// no I/O; the caller loads these.
type Inputs struct {
	Settings  domain.AccountSettings
	RawEvents []domain.RawEvent
	// History holds the account's payout records of every status.
	History []domain.PayoutRecord
	AsOf    time.Time
}

// Plan is the computed forecast set for [From, To).
type Plan struct {
	AccountID string
	AsOf      time.Time
	From      time.Time
	To        time.Time

	Records []domain.PayoutRecord
	Periods []domain.SettlementPeriod
	Daily   *DailyEstimate
	Trend   TrendEstimate

	Skipped   int
	Malformed []*domain.MalformedEventError
	Warnings  []string
}

type Engine struct {
	cfg EngineConfig
}

func NewEngine(cfg EngineConfig) *Engine {
	if cfg.HorizonDays <= 0 {
		cfg.HorizonDays = DefaultHorizonDays
	}
	if cfg.TrendWindowDays <= 0 {
		cfg.TrendWindowDays = DefaultTrendWindowDays
	}
	return &Engine{cfg: cfg}
}

// Window returns the date range a plan built at asOf covers.
func (e *Engine) Window(asOf time.Time) (from, to time.Time) {
	today := domain.Day(asOf)
	return today.AddDate(0, 0, 1), today.AddDate(0, 0, e.cfg.HorizonDays+1)
}

// Build runs normalization, the model for the account's payout frequency,
// blending and the safety margin. Given equal inputs it returns equal plans.
func (e *Engine) Build(in Inputs) (*Plan, error) {
	s := in.Settings
	if err := s.Validate(); err != nil {
		return nil, err
	}
	blender, err := NewBlender(s.Weights)
	if err != nil {
		return nil, err
	}

	norm := NewNormalizer(NormalizerConfig{ReturnRate: s.ReturnRate, ChargebackRate: s.ChargebackRate})
	normalized := norm.NormalizeAll(in.RawEvents)

	from, to := e.Window(in.AsOf)
	plan := &Plan{
		AccountID: s.AccountID,
		AsOf:      domain.Day(in.AsOf),
		From:      from,
		To:        to,
		Skipped:   normalized.Skipped,
		Malformed: normalized.Errors,
	}

	trend := NewTrendEstimator(TrendConfig{ReserveLagDays: s.ReserveLagDays, WindowDays: e.cfg.TrendWindowDays})
	plan.Trend = trend.Estimate(normalized.Events, in.AsOf)

	daily := NewDailyForecaster(DailyConfig{
		TrailingPayouts:  e.cfg.TrailingPayouts,
		MinPayouts:       e.cfg.MinPayouts,
		TrendWindowDays:  e.cfg.TrendWindowDays,
		ConfidenceFactor: e.cfg.ConfidenceFactor,
		Margin:           s.SafetyMargin,
	})

	locked := lockedDates(in.History, from, to)

	switch s.PayoutFrequency {
	case domain.FrequencyDaily:
		err = e.buildDaily(plan, in, normalized.Events, daily, trend, blender, locked)
	case domain.FrequencyBiWeekly:
		err = e.buildBiWeekly(plan, in, normalized.Events, daily, trend, blender, locked)
	default:
		err = &domain.InvalidConfigError{Field: "payout_frequency", Reason: fmt.Sprintf("unknown frequency %q", s.PayoutFrequency)}
	}
	if err != nil {
		return nil, err
	}
	return plan, nil
}

func (e *Engine) buildDaily(plan *Plan, in Inputs, events []domain.FinancialEvent, daily *DailyForecaster, trend *TrendEstimator, blender *Blender, locked map[time.Time]bool) error {
	s := in.Settings
	est, err := daily.Estimate(s.AccountID, in.History, in.AsOf)
	if err != nil {
		return err
	}
	plan.Daily = &est

	for _, pt := range daily.Forecast(est, e.cfg.HorizonDays) {
		if locked[pt.Date] {
			continue
		}
		end := pt.Date.AddDate(0, 0, 1)
		b := trend.Signal(events, plan.Trend, pt.Date, end, in.AsOf)
		h, blended := blender.BlendAt(in.AsOf, pt.Date, est.RawForecast, b)
		adjusted := s.SafetyMargin.Apply(blended)

		rec := newForecastRecord(s.AccountID, pt.Date, domain.PayoutTypeDaily, h, adjusted, est.DailyVariation)
		fillBreakdown(&rec, events, s.ReserveLagDays, pt.Date, end, in.AsOf)
		plan.Records = append(plan.Records, rec)
	}
	return nil
}

func (e *Engine) buildBiWeekly(plan *Plan, in Inputs, events []domain.FinancialEvent, daily *DailyForecaster, trend *TrendEstimator, blender *Blender, locked map[time.Time]bool) error {
	s := in.Settings
	calc := NewSettlementCalculator(SettlementConfigFrom(s))

	// Start one window back so the current window inherits its carry-forward.
	start, end := calc.WindowAt(in.AsOf)
	needed := 0
	for d := end; d.Before(plan.To); d = d.AddDate(0, 0, s.CadenceDays) {
		needed++
	}
	periods := calc.Project(events, start.AddDate(0, 0, -s.CadenceDays), needed+1, decimal.Zero)[1:]

	est, err := daily.Estimate(s.AccountID, in.History, in.AsOf)
	historyAvailable := err == nil
	if err != nil {
		var insufficient *domain.InsufficientDataError
		if !errors.As(err, &insufficient) {
			return err
		}
		plan.Warnings = append(plan.Warnings, fmt.Sprintf("payout history signal unavailable (%v), using transaction trend only", err))
	} else {
		plan.Daily = &est
	}

	for _, p := range periods {
		payoutDate := p.EndDate
		if !payoutDate.Before(plan.To) {
			break
		}
		plan.Periods = append(plan.Periods, p)
		if payoutDate.Before(plan.From) || locked[payoutDate] {
			continue
		}

		b := p.RawEstimate.Add(trend.Projection(plan.Trend, p.StartDate, p.EndDate, in.AsOf))
		h := domain.HorizonFor(in.AsOf, payoutDate)
		blended := b
		variation := decimal.Zero
		if historyAvailable {
			blended = blender.Blend(h, est.RawForecast, b)
			variation = est.DailyVariation
		}
		adjusted := s.SafetyMargin.Apply(blended)

		rec := newForecastRecord(s.AccountID, payoutDate, domain.PayoutTypeSettlement, h, adjusted, variation)
		fillBreakdown(&rec, events, s.ReserveLagDays, p.StartDate, p.EndDate, in.AsOf)
		plan.Records = append(plan.Records, rec)
	}
	return nil
}

// lockedDates are days in [from, to) that already hold an estimated or
// confirmed record; forecasts never replace those.
func lockedDates(history []domain.PayoutRecord, from, to time.Time) map[time.Time]bool {
	locked := make(map[time.Time]bool)
	for _, r := range history {
		if r.Status == domain.PayoutForecasted {
			continue
		}
		d := domain.Day(r.PayoutDate)
		if !d.Before(from) && d.Before(to) {
			locked[d] = true
		}
	}
	return locked
}

func ForecastID(accountID string, date time.Time, payoutType domain.PayoutType) string {
	key := fmt.Sprintf("%s|%s|%s", accountID, domain.Day(date).Format(time.DateOnly), payoutType)
	return uuid.NewSHA1(forecastNamespace, []byte(key)).String()
}

func newForecastRecord(accountID string, date time.Time, payoutType domain.PayoutType, h domain.Horizon, amount, variation decimal.Decimal) domain.PayoutRecord {
	return domain.PayoutRecord{
		ID:          ForecastID(accountID, date, payoutType),
		AccountID:   accountID,
		PayoutDate:  domain.Day(date),
		TotalAmount: amount,
		Status:      domain.PayoutForecasted,
		PayoutType:  payoutType,
		Horizon:     h,
		LowerBound:  Band(amount, variation, false),
		UpperBound:  Band(amount, variation, true),
	}
}

// fillBreakdown splits the known amounts unlocking in [start, end) into
// orders, fees and refunds.
func fillBreakdown(rec *domain.PayoutRecord, events []domain.FinancialEvent, lag int, start, end, asOf time.Time) {
	rec.OrdersTotal, rec.FeesTotal, rec.RefundsTotal = decimal.Zero, decimal.Zero, decimal.Zero
	for _, ev := range events {
		if !ev.DeliveredBefore(asOf) {
			continue
		}
		u := ev.UnlockDate(lag)
		if u.Before(start) || !u.Before(end) {
			continue
		}
		switch ev.Type {
		case domain.EventOrder:
			rec.OrdersTotal = rec.OrdersTotal.Add(ev.NetAmount)
		case domain.EventServiceFee:
			rec.FeesTotal = rec.FeesTotal.Add(ev.NetAmount)
		case domain.EventRefund, domain.EventChargeback:
			rec.RefundsTotal = rec.RefundsTotal.Add(ev.NetAmount)
		}
	}
}
