package payoutdto

import (
	"time"

	"github.com/LavaJover/shvark-payout-forecast/internal/domain"
)

const (
	TriggerAPI       = "api"
	TriggerScheduler = "scheduler"
	TriggerWeights   = "weights"
	TriggerConfirmed = "payout_confirmed"
)

type RegenerateInput struct {
	AccountID string
	// AsOf defaults to the current time.
	AsOf    time.Time
	Trigger string
}

type RegenerateOutput struct {
	RunID     string
	AccountID string
	AsOf      time.Time
	From      time.Time
	To        time.Time
	Records   []domain.PayoutRecord
	Periods   []domain.SettlementPeriod

	SkippedEvents int
	Malformed     []string
	Warnings      []string
}

// NextPayout returns the earliest forecast of the run, or nil.
func (o *RegenerateOutput) NextPayout() *domain.PayoutRecord {
	if o == nil || len(o.Records) == 0 {
		return nil
	}
	return &o.Records[0]
}
