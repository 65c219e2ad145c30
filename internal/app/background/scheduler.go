package background

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/LavaJover/shvark-payout-forecast/internal/config"
	"github.com/LavaJover/shvark-payout-forecast/internal/domain"
	"github.com/LavaJover/shvark-payout-forecast/internal/infrastructure/metrics"
	payoutdto "github.com/LavaJover/shvark-payout-forecast/internal/usecase/dto/payout"
	usecase "github.com/LavaJover/shvark-payout-forecast/internal/usecase/payout"
)

// RunSummary counts per-account outcomes of one scheduled run.
type RunSummary struct {
	Accounts     int
	Succeeded    int
	Conflicts    int
	Insufficient int
	Failed       int
}

// Scheduler regenerates every account's forecasts once a day.
type Scheduler struct {
	uc       usecase.PayoutForecastUsecase
	accounts domain.AccountRepository
	metrics  *metrics.ForecastMetrics
	cfg      config.Scheduler

	Now func() time.Time
}

func NewScheduler(uc usecase.PayoutForecastUsecase, accounts domain.AccountRepository, m *metrics.ForecastMetrics, cfg config.Scheduler) *Scheduler {
	return &Scheduler{
		uc:       uc,
		accounts: accounts,
		metrics:  m,
		cfg:      cfg,
		Now:      func() time.Time { return time.Now().UTC() },
	}
}

// nextRun returns the first occurrence of the HH:MM UTC time of day strictly
// after now.
func nextRun(now time.Time, runAt string) (time.Time, error) {
	at, err := time.Parse("15:04", runAt)
	if err != nil {
		return time.Time{}, fmt.Errorf("scheduler.run_at %q: %w", runAt, err)
	}
	now = now.UTC()
	next := time.Date(now.Year(), now.Month(), now.Day(), at.Hour(), at.Minute(), 0, 0, time.UTC)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next, nil
}

// Start blocks, running RunOnce at every configured time of day until ctx
// is done.
func (s *Scheduler) Start(ctx context.Context) error {
	for {
		next, err := nextRun(s.Now(), s.cfg.RunAt)
		if err != nil {
			return err
		}
		slog.Info("next scheduled forecast regeneration", "at", next)
		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce regenerates all accounts with bounded parallelism. One account's
// failure never stops the others.
func (s *Scheduler) RunOnce(ctx context.Context) RunSummary {
	started := time.Now()
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	ids, err := s.accounts.ListAccountIDs(ctx)
	if err != nil {
		slog.Error("scheduled regeneration: failed to list accounts", "error", err)
		return RunSummary{}
	}

	var (
		mu      sync.Mutex
		summary = RunSummary{Accounts: len(ids)}
		asOf    = s.Now()
	)
	pool := newWorkerPool(ctx, s.cfg.Workers, len(ids),
		func(ctx context.Context, accountID string) error {
			_, err := s.uc.RegenerateForecasts(ctx, &payoutdto.RegenerateInput{
				AccountID: accountID,
				AsOf:      asOf,
				Trigger:   payoutdto.TriggerScheduler,
			})
			return err
		},
		func(accountID string, err error) {
			result := classify(err)
			s.metrics.RecordScheduledAccount(result)
			mu.Lock()
			defer mu.Unlock()
			switch result {
			case "ok":
				summary.Succeeded++
			case "conflict":
				summary.Conflicts++
			case "insufficient_data":
				summary.Insufficient++
			default:
				summary.Failed++
				slog.Error("scheduled regeneration failed", "account_id", accountID, "error", err)
			}
		},
	)
	for _, id := range ids {
		if !pool.Submit(ctx, id) {
			break
		}
	}
	pool.Drain()

	s.metrics.ObserveScheduledRun(time.Since(started).Seconds())
	mu.Lock()
	defer mu.Unlock()
	slog.Info("scheduled regeneration finished",
		"accounts", summary.Accounts,
		"succeeded", summary.Succeeded,
		"conflicts", summary.Conflicts,
		"insufficient_data", summary.Insufficient,
		"failed", summary.Failed,
		"duration", time.Since(started),
	)
	return summary
}

func classify(err error) string {
	var (
		conflict     *domain.RegenerationConflictError
		insufficient *domain.InsufficientDataError
	)
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &conflict):
		return "conflict"
	case errors.As(err, &insufficient):
		return "insufficient_data"
	default:
		return "error"
	}
}
