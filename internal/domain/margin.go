package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// SafetyMargin is the downside adjustment a seller picks for forecast output.
// It is applied at output time and never stored on the raw forecast.
type SafetyMargin string

const (
	MarginAggressive   SafetyMargin = "aggressive"
	MarginModerate     SafetyMargin = "moderate"
	MarginConservative SafetyMargin = "conservative"
)

var marginPercents = map[SafetyMargin]decimal.Decimal{
	MarginAggressive:   decimal.NewFromInt(3),
	MarginModerate:     decimal.NewFromInt(8),
	MarginConservative: decimal.NewFromInt(15),
}

var hundred = decimal.NewFromInt(100)

func ParseSafetyMargin(s string) (SafetyMargin, error) {
	m := SafetyMargin(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := marginPercents[m]; !ok {
		return "", &InvalidConfigError{Field: "safety_margin", Reason: fmt.Sprintf("unknown tier %q", s)}
	}
	return m, nil
}

func (m SafetyMargin) Valid() bool {
	_, ok := marginPercents[m]
	return ok
}

// Percent returns the margin as a whole percentage (8 for moderate).
func (m SafetyMargin) Percent() decimal.Decimal {
	return marginPercents[m]
}

// Fraction returns the margin as a fraction (0.08 for moderate).
func (m SafetyMargin) Fraction() decimal.Decimal {
	return m.Percent().Div(hundred)
}

// Multiplier is 1 - Fraction.
func (m SafetyMargin) Multiplier() decimal.Decimal {
	return decimal.NewFromInt(1).Sub(m.Fraction())
}

// Apply returns raw × (1 − margin).
func (m SafetyMargin) Apply(raw decimal.Decimal) decimal.Decimal {
	return raw.Mul(m.Multiplier())
}

// Revert recovers the raw value from an adjusted one.
func (m SafetyMargin) Revert(adjusted decimal.Decimal) decimal.Decimal {
	return adjusted.Div(m.Multiplier())
}
