package models

import "time"

// FinancialEventModel is written by the marketplace connector. Amounts are
// stored as the text the connector received.
type FinancialEventModel struct {
	ID              string     `gorm:"primaryKey;size:64"`
	AccountID       string     `gorm:"size:64;not null;index:idx_event_account_ts,priority:1"`
	MarketplaceType string     `gorm:"size:64"`
	Timestamp       *time.Time `gorm:"column:occurred_at;index:idx_event_account_ts,priority:2"`
	GrossAmount     *string
	Fees            *string
	ShippingCost    *string
	AdsCost         *string
	OrderID         *string `gorm:"size:64"`
	DeliveryDate    *time.Time
	IngestedAt      time.Time `gorm:"autoCreateTime"`
}

func (FinancialEventModel) TableName() string {
	return "financial_events"
}
