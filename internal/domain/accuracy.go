package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccuracyLogEntry is append-only.
type AccuracyLogEntry struct {
	ID                   string
	AccountID            string
	ForecastID           string
	PayoutDate           time.Time
	ActualAmount         decimal.Decimal
	ForecastAmount       decimal.Decimal
	DifferencePercentage decimal.Decimal
	LoggedAt             time.Time
}
