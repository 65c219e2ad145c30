package request

import "github.com/shopspring/decimal"

type ConfirmPayoutRequest struct {
	PayoutDate   string           `json:"payout_date" binding:"required"`
	TotalAmount  *decimal.Decimal `json:"total_amount" binding:"required"`
	PayoutType   string           `json:"payout_type"`
	OrdersTotal  *decimal.Decimal `json:"orders_total"`
	FeesTotal    *decimal.Decimal `json:"fees_total"`
	RefundsTotal *decimal.Decimal `json:"refunds_total"`
}

type MarkEstimatedRequest struct {
	PayoutDate  string           `json:"payout_date" binding:"required"`
	TotalAmount *decimal.Decimal `json:"total_amount"`
}
