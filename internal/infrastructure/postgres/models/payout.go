package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type PayoutRecordModel struct {
	ID           string          `gorm:"primaryKey;size:36"`
	AccountID    string          `gorm:"size:64;not null;uniqueIndex:idx_payout_account_date,priority:1"`
	PayoutDate   time.Time       `gorm:"not null;uniqueIndex:idx_payout_account_date,priority:2"`
	TotalAmount  decimal.Decimal `gorm:"type:numeric(20,4);not null"`
	Status       string          `gorm:"size:16;not null;index"`
	PayoutType   string          `gorm:"size:16;not null"`
	OrdersTotal  decimal.Decimal `gorm:"type:numeric(20,4)"`
	FeesTotal    decimal.Decimal `gorm:"type:numeric(20,4)"`
	RefundsTotal decimal.Decimal `gorm:"type:numeric(20,4)"`
	Horizon      string          `gorm:"size:8"`
	LowerBound   decimal.Decimal `gorm:"type:numeric(20,4)"`
	UpperBound   decimal.Decimal `gorm:"type:numeric(20,4)"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (PayoutRecordModel) TableName() string {
	return "payout_records"
}
