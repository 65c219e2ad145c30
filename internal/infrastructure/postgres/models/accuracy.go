package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type AccuracyLogModel struct {
	ID                   string          `gorm:"primaryKey;size:36"`
	AccountID            string          `gorm:"size:64;not null;index:idx_accuracy_account_logged,priority:1"`
	ForecastID           string          `gorm:"size:36"`
	PayoutDate           time.Time       `gorm:"not null"`
	ActualAmount         decimal.Decimal `gorm:"type:numeric(20,4);not null"`
	ForecastAmount       decimal.Decimal `gorm:"type:numeric(20,4);not null"`
	DifferencePercentage decimal.Decimal `gorm:"type:numeric(12,6);not null"`
	LoggedAt             time.Time       `gorm:"not null;index:idx_accuracy_account_logged,priority:2"`
}

func (AccuracyLogModel) TableName() string {
	return "forecast_accuracy_logs"
}
