package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrStatusRegression = errors.New("payout status cannot move backwards")
	ErrZeroActual       = errors.New("actual payout is zero, accuracy is undefined")
)

// MalformedEventError means a raw event could not be normalized. The event
// is dropped and counted; it is never coerced to zero.
type MalformedEventError struct {
	EventID string
	Field   string
	Reason  string
}

func (e *MalformedEventError) Error() string {
	return fmt.Sprintf("malformed event %s: %s %s", e.EventID, e.Field, e.Reason)
}

// InsufficientDataError means the statistical model declines to forecast.
// Callers must surface it distinctly from a zero forecast.
type InsufficientDataError struct {
	AccountID string
	Required  int
	Available int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient payout history for account %s: %d confirmed payouts, %d required",
		e.AccountID, e.Available, e.Required)
}

type InvalidConfigError struct {
	Field  string
	Reason string
}

func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid forecast config: %s %s", e.Field, e.Reason)
}

// RegenerationConflictError means another regeneration for the same account
// and range is running. The caller should retry later.
type RegenerationConflictError struct {
	AccountID string
	From      time.Time
	To        time.Time
}

func (e *RegenerationConflictError) Error() string {
	return fmt.Sprintf("forecast regeneration for account %s (%s..%s) already in progress, retry later",
		e.AccountID, e.From.Format(time.DateOnly), e.To.Format(time.DateOnly))
}
