package publisher

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/LavaJover/shvark-payout-forecast/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	EventForecastRegenerated = "forecast.regenerated"
	EventAccuracyLogged      = "accuracy.logged"
	EventPayoutStatusChanged = "payout.status_changed"
)

// ForecastEvent is the payload published on forecast-events.
type ForecastEvent struct {
	Type       string    `json:"type"`
	AccountID  string    `json:"account_id"`
	RunID      string    `json:"run_id,omitempty"`
	From       string    `json:"from,omitempty"`
	To         string    `json:"to,omitempty"`
	Records    int       `json:"records,omitempty"`
	NextPayout *Payout   `json:"next_payout,omitempty"`
	Accuracy   *Accuracy `json:"accuracy,omitempty"`
	Status     string    `json:"status,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

type Payout struct {
	Date   string          `json:"date"`
	Amount decimal.Decimal `json:"amount"`
	Status string          `json:"status"`
}

type Accuracy struct {
	ForecastID           string          `json:"forecast_id"`
	PayoutDate           string          `json:"payout_date"`
	ActualAmount         decimal.Decimal `json:"actual_amount"`
	ForecastAmount       decimal.Decimal `json:"forecast_amount"`
	DifferencePercentage decimal.Decimal `json:"difference_percentage"`
}

func NewAccuracyEvent(e domain.AccuracyLogEntry) ForecastEvent {
	return ForecastEvent{
		Type:      EventAccuracyLogged,
		AccountID: e.AccountID,
		Accuracy: &Accuracy{
			ForecastID:           e.ForecastID,
			PayoutDate:           e.PayoutDate.Format(time.DateOnly),
			ActualAmount:         e.ActualAmount,
			ForecastAmount:       e.ForecastAmount,
			DifferencePercentage: e.DifferencePercentage,
		},
		OccurredAt: e.LoggedAt,
	}
}

func NewStatusEvent(r domain.PayoutRecord, at time.Time) ForecastEvent {
	return ForecastEvent{
		Type:      EventPayoutStatusChanged,
		AccountID: r.AccountID,
		Status:    string(r.Status),
		NextPayout: &Payout{
			Date:   r.PayoutDate.Format(time.DateOnly),
			Amount: r.TotalAmount,
			Status: string(r.Status),
		},
		OccurredAt: at,
	}
}

// PayoutConfirmedMessage is what the marketplace connector publishes on
// payout-confirmed once a settlement lands.
type PayoutConfirmedMessage struct {
	AccountID    string           `json:"account_id"`
	PayoutDate   string           `json:"payout_date"`
	TotalAmount  decimal.Decimal  `json:"total_amount"`
	PayoutType   string           `json:"payout_type"`
	OrdersTotal  *decimal.Decimal `json:"orders_total,omitempty"`
	FeesTotal    *decimal.Decimal `json:"fees_total,omitempty"`
	RefundsTotal *decimal.Decimal `json:"refunds_total,omitempty"`
}

// DecodePayoutConfirmed parses and checks one payout-confirmed message.
func DecodePayoutConfirmed(msg domain.Message) (PayoutConfirmedMessage, time.Time, error) {
	var m PayoutConfirmedMessage
	if err := json.Unmarshal(msg.Value, &m); err != nil {
		return m, time.Time{}, fmt.Errorf("decode payout-confirmed message: %w", err)
	}
	if strings.TrimSpace(m.AccountID) == "" {
		return m, time.Time{}, fmt.Errorf("payout-confirmed message without account_id")
	}
	date, err := time.Parse(time.DateOnly, m.PayoutDate)
	if err != nil {
		return m, time.Time{}, fmt.Errorf("payout-confirmed message: bad payout_date %q: %w", m.PayoutDate, err)
	}
	return m, date, nil
}
