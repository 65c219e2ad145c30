package response

import (
	"time"

	"github.com/LavaJover/shvark-payout-forecast/internal/domain"
	payoutdto "github.com/LavaJover/shvark-payout-forecast/internal/usecase/dto/payout"
	"github.com/shopspring/decimal"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
	Field string `json:"field,omitempty"`
}

type PayoutResponse struct {
	ID         string `json:"id"`
	PayoutDate string `json:"payout_date"`
	Status     string `json:"status"`
	PayoutType string `json:"payout_type"`
	Horizon    string `json:"horizon,omitempty"`
	// TotalAmount is never negative; a deficit is carried into the next
	// period instead.
	TotalAmount  decimal.Decimal `json:"total_amount"`
	LowerBound   decimal.Decimal `json:"lower_bound"`
	UpperBound   decimal.Decimal `json:"upper_bound"`
	OrdersTotal  decimal.Decimal `json:"orders_total"`
	FeesTotal    decimal.Decimal `json:"fees_total"`
	RefundsTotal decimal.Decimal `json:"refunds_total"`
}

func clampZero(v decimal.Decimal) decimal.Decimal {
	if v.IsNegative() {
		return decimal.Zero
	}
	return v
}

func NewPayoutResponse(r domain.PayoutRecord) PayoutResponse {
	return PayoutResponse{
		ID:           r.ID,
		PayoutDate:   r.PayoutDate.Format(time.DateOnly),
		Status:       string(r.Status),
		PayoutType:   string(r.PayoutType),
		Horizon:      string(r.Horizon),
		TotalAmount:  clampZero(r.TotalAmount),
		LowerBound:   clampZero(r.LowerBound),
		UpperBound:   clampZero(r.UpperBound),
		OrdersTotal:  r.OrdersTotal,
		FeesTotal:    r.FeesTotal,
		RefundsTotal: r.RefundsTotal,
	}
}

func NewPayoutResponses(records []domain.PayoutRecord) []PayoutResponse {
	out := make([]PayoutResponse, len(records))
	for i, r := range records {
		out[i] = NewPayoutResponse(r)
	}
	return out
}

type PeriodResponse struct {
	StartDate      string          `json:"start_date"`
	EndDate        string          `json:"end_date"`
	EligibleAmount decimal.Decimal `json:"eligible_amount"`
	ReserveAmount  decimal.Decimal `json:"reserve_amount"`
	PriorBalance   decimal.Decimal `json:"prior_balance"`
	Adjustments    decimal.Decimal `json:"adjustments"`
	PayoutEstimate decimal.Decimal `json:"payout_estimate"`
	CarryForward   decimal.Decimal `json:"carry_forward"`
	EligibleEvents int             `json:"eligible_events"`
	ReserveEvents  int             `json:"reserve_events"`
}

type RegenerateResponse struct {
	RunID         string           `json:"run_id"`
	AccountID     string           `json:"account_id"`
	AsOf          string           `json:"as_of"`
	From          string           `json:"from"`
	To            string           `json:"to"`
	Forecasts     []PayoutResponse `json:"forecasts"`
	Periods       []PeriodResponse `json:"periods,omitempty"`
	SkippedEvents int              `json:"skipped_events"`
	Malformed     []string         `json:"malformed,omitempty"`
	Warnings      []string         `json:"warnings,omitempty"`
}

func NewRegenerateResponse(out *payoutdto.RegenerateOutput) RegenerateResponse {
	resp := RegenerateResponse{
		RunID:         out.RunID,
		AccountID:     out.AccountID,
		AsOf:          out.AsOf.Format(time.DateOnly),
		From:          out.From.Format(time.DateOnly),
		To:            out.To.Format(time.DateOnly),
		Forecasts:     NewPayoutResponses(out.Records),
		SkippedEvents: out.SkippedEvents,
		Malformed:     out.Malformed,
		Warnings:      out.Warnings,
	}
	for _, p := range out.Periods {
		resp.Periods = append(resp.Periods, PeriodResponse{
			StartDate:      p.StartDate.Format(time.DateOnly),
			EndDate:        p.EndDate.Format(time.DateOnly),
			EligibleAmount: p.EligibleAmount,
			ReserveAmount:  p.ReserveAmount,
			PriorBalance:   p.PriorBalance,
			Adjustments:    p.Adjustments,
			PayoutEstimate: p.DisplayEstimate(),
			CarryForward:   p.CarryForward(),
			EligibleEvents: p.EligibleEvents,
			ReserveEvents:  p.ReserveEvents,
		})
	}
	return resp
}

type WeightsResponse struct {
	AccountID        string         `json:"account_id"`
	PayoutHistory    map[string]int `json:"payout_history"`
	TransactionTrend map[string]int `json:"transaction_trend"`
	UpdatedAt        *time.Time     `json:"updated_at,omitempty"`
}

func NewWeightsResponse(cfg domain.ForecastWeightConfig) WeightsResponse {
	resp := WeightsResponse{
		AccountID:        cfg.AccountID,
		PayoutHistory:    make(map[string]int, len(domain.Horizons)),
		TransactionTrend: make(map[string]int, len(domain.Horizons)),
	}
	for _, h := range domain.Horizons {
		resp.PayoutHistory[string(h)] = cfg.PayoutHistoryWeight(h)
		resp.TransactionTrend[string(h)] = cfg.TransactionTrendWeight(h)
	}
	if !cfg.UpdatedAt.IsZero() {
		resp.UpdatedAt = &cfg.UpdatedAt
	}
	return resp
}

type UpdateWeightsResponse struct {
	Weights      WeightsResponse     `json:"weights"`
	Regeneration *RegenerateResponse `json:"regeneration,omitempty"`
	Warnings     []string            `json:"warnings,omitempty"`
}

type AccuracyEntryResponse struct {
	ID                   string          `json:"id"`
	ForecastID           string          `json:"forecast_id"`
	PayoutDate           string          `json:"payout_date"`
	ActualAmount         decimal.Decimal `json:"actual_amount"`
	ForecastAmount       decimal.Decimal `json:"forecast_amount"`
	DifferencePercentage decimal.Decimal `json:"difference_percentage"`
}

type ConfirmPayoutResponse struct {
	Payout   PayoutResponse         `json:"payout"`
	Accuracy *AccuracyEntryResponse `json:"accuracy,omitempty"`
}

func NewConfirmPayoutResponse(out *payoutdto.ConfirmPayoutOutput) ConfirmPayoutResponse {
	resp := ConfirmPayoutResponse{Payout: NewPayoutResponse(out.Record)}
	if e := out.Accuracy; e != nil {
		resp.Accuracy = &AccuracyEntryResponse{
			ID:                   e.ID,
			ForecastID:           e.ForecastID,
			PayoutDate:           e.PayoutDate.Format(time.DateOnly),
			ActualAmount:         e.ActualAmount,
			ForecastAmount:       e.ForecastAmount,
			DifferencePercentage: e.DifferencePercentage.Round(4),
		}
	}
	return resp
}

type AccuracyResponse struct {
	AccountID string `json:"account_id"`
	Window    int    `json:"window"`
	Entries   int    `json:"entries"`
	// Accuracy is null until the first payout with a forecast is confirmed.
	Accuracy *decimal.Decimal `json:"accuracy"`
}

func NewAccuracyResponse(out *payoutdto.AccuracyOutput) AccuracyResponse {
	resp := AccuracyResponse{AccountID: out.AccountID, Window: out.Window, Entries: out.Entries}
	if out.Accuracy != nil {
		acc := out.Accuracy.Round(2)
		resp.Accuracy = &acc
	}
	return resp
}
