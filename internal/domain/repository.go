package domain

import (
	"context"
	"time"
)

type EventRepository interface {
	ListRawEvents(ctx context.Context, accountID string, from, to time.Time) ([]RawEvent, error)
}

type PayoutFilter struct {
	AccountID string
	From      time.Time
	To        time.Time
	Statuses  []PayoutStatus
}

type PayoutRepository interface {
	ListPayouts(ctx context.Context, filter PayoutFilter) ([]PayoutRecord, error)
	GetPayoutByDate(ctx context.Context, accountID string, payoutDate time.Time) (*PayoutRecord, error)
	BeginTx(ctx context.Context) (PayoutTxRepository, error)
}

// PayoutTxRepository runs writes inside one database transaction.
type PayoutTxRepository interface {
	// ReplaceForecasts deletes every forecasted record of the account in
	// [from, to) and inserts records. A zero from or to leaves that side open.
	// Estimated and confirmed rows are left alone.
	ReplaceForecasts(accountID string, from, to time.Time, records []PayoutRecord) error
	// UpsertPayout writes the record unless the stored row for the same date
	// has a later status, in which case it returns ErrStatusRegression.
	UpsertPayout(record *PayoutRecord) error
	SaveWeights(cfg ForecastWeightConfig) error
	AppendAccuracy(entry *AccuracyLogEntry) error
	Commit() error
	Rollback() error
}

type AccountRepository interface {
	GetSettings(ctx context.Context, accountID string) (*AccountSettings, error)
	ListAccountIDs(ctx context.Context) ([]string, error)
}

type AccuracyRepository interface {
	ListRecent(ctx context.Context, accountID string, limit int) ([]AccuracyLogEntry, error)
}

// RegenerationLocker guards a single account/range against concurrent runs.
// Acquire returns a *RegenerationConflictError when the lock is held.
type RegenerationLocker interface {
	Acquire(ctx context.Context, accountID string, from, to time.Time) (release func(), err error)
}
