package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const (
	DefaultReserveLagDays = 7
	DefaultCadenceDays    = 14
)

// AccountSettings is the account-level forecasting configuration supplied by
// the profile collaborator.
type AccountSettings struct {
	AccountID         string
	PayoutFrequency   PayoutFrequency
	ReserveLagDays    int
	ReserveMultiplier decimal.Decimal
	SafetyMargin      SafetyMargin
	Weights           ForecastWeightConfig

	// ReturnRate and ChargebackRate are historical account-level rates in
	// [0,1). The upstream feed has no per-order return linkage.
	ReturnRate     decimal.Decimal
	ChargebackRate decimal.Decimal

	// SettlementAnchor is the start of any one settlement window; the
	// others follow every CadenceDays.
	SettlementAnchor time.Time
	CadenceDays      int
}

// DefaultAccountSettings returns settings for an account with no stored row.
func DefaultAccountSettings(accountID string) AccountSettings {
	return AccountSettings{
		AccountID:         accountID,
		PayoutFrequency:   FrequencyBiWeekly,
		ReserveLagDays:    DefaultReserveLagDays,
		ReserveMultiplier: decimal.NewFromInt(1),
		SafetyMargin:      MarginModerate,
		Weights:           DefaultForecastWeights(accountID),
		ReturnRate:        decimal.Zero,
		ChargebackRate:    decimal.Zero,
		SettlementAnchor:  time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		CadenceDays:       DefaultCadenceDays,
	}
}

// Validate checks everything a forecast run depends on. Nothing may be
// written for an account whose settings fail validation.
func (s AccountSettings) Validate() error {
	if s.AccountID == "" {
		return &InvalidConfigError{Field: "account_id", Reason: "is required"}
	}
	switch s.PayoutFrequency {
	case FrequencyBiWeekly, FrequencyDaily:
	default:
		return &InvalidConfigError{Field: "payout_frequency", Reason: fmt.Sprintf("unknown frequency %q", s.PayoutFrequency)}
	}
	if s.ReserveLagDays < 0 {
		return &InvalidConfigError{Field: "reserve_lag_days", Reason: "must not be negative"}
	}
	if s.ReserveMultiplier.IsNegative() {
		return &InvalidConfigError{Field: "reserve_multiplier", Reason: "must not be negative"}
	}
	if !s.SafetyMargin.Valid() {
		return &InvalidConfigError{Field: "safety_margin", Reason: fmt.Sprintf("unknown tier %q", s.SafetyMargin)}
	}
	if err := validateRate("return_rate", s.ReturnRate); err != nil {
		return err
	}
	if err := validateRate("chargeback_rate", s.ChargebackRate); err != nil {
		return err
	}
	if s.PayoutFrequency == FrequencyBiWeekly && s.CadenceDays <= 0 {
		return &InvalidConfigError{Field: "cadence_days", Reason: "must be positive"}
	}
	return s.Weights.Validate()
}

func validateRate(field string, rate decimal.Decimal) error {
	if rate.IsNegative() || rate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return &InvalidConfigError{Field: field, Reason: "must be in [0,1)"}
	}
	return nil
}
