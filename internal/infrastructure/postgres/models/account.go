package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type AccountSettingsModel struct {
	AccountID         string          `gorm:"primaryKey;size:64"`
	PayoutFrequency   string          `gorm:"size:16;not null"`
	ReserveLagDays    int             `gorm:"not null"`
	ReserveMultiplier decimal.Decimal `gorm:"type:numeric(10,4);not null"`
	SafetyMargin      string          `gorm:"size:16;not null"`
	ReturnRate        decimal.Decimal `gorm:"type:numeric(10,6);not null"`
	ChargebackRate    decimal.Decimal `gorm:"type:numeric(10,6);not null"`
	SettlementAnchor  time.Time       `gorm:"not null"`
	CadenceDays       int             `gorm:"not null"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (AccountSettingsModel) TableName() string {
	return "account_settings"
}

type ForecastWeightModel struct {
	AccountID  string `gorm:"primaryKey;size:64"`
	NearWeight int    `gorm:"not null"`
	MidWeight  int    `gorm:"not null"`
	FarWeight  int    `gorm:"not null"`
	UpdatedAt  time.Time
}

func (ForecastWeightModel) TableName() string {
	return "forecast_weights"
}
