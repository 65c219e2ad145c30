package usecase_test

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/LavaJover/shvark-payout-forecast/internal/domain"
	"github.com/LavaJover/shvark-payout-forecast/internal/infrastructure/logger"
)

func payoutKey(accountID string, date time.Time) string {
	return accountID + "|" + domain.Day(date).Format(time.DateOnly)
}

// fakeStore implements the payout, account, event and accuracy repositories
// over maps. Transactions stage writes and apply them on commit.
type fakeStore struct {
	mu       sync.Mutex
	payouts  map[string]domain.PayoutRecord
	settings map[string]domain.AccountSettings
	weights  map[string]domain.ForecastWeightConfig
	accuracy []domain.AccuracyLogEntry
	events   []domain.RawEvent

	failReplace error
	// beforeTx runs once, at the start of the next transaction.
	beforeTx  func()
	commits   int
	rollbacks int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		payouts:  make(map[string]domain.PayoutRecord),
		settings: make(map[string]domain.AccountSettings),
		weights:  make(map[string]domain.ForecastWeightConfig),
	}
}

func (s *fakeStore) put(r domain.PayoutRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payouts[payoutKey(r.AccountID, r.PayoutDate)] = r
}

func (s *fakeStore) all(accountID string) []domain.PayoutRecord {
	recs, _ := s.ListPayouts(context.Background(), domain.PayoutFilter{AccountID: accountID})
	return recs
}

func (s *fakeStore) ListPayouts(_ context.Context, f domain.PayoutFilter) ([]domain.PayoutRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.PayoutRecord
	for _, r := range s.payouts {
		if r.AccountID != f.AccountID {
			continue
		}
		if !f.From.IsZero() && r.PayoutDate.Before(domain.Day(f.From)) {
			continue
		}
		if !f.To.IsZero() && !r.PayoutDate.Before(domain.Day(f.To)) {
			continue
		}
		if len(f.Statuses) > 0 {
			match := false
			for _, st := range f.Statuses {
				match = match || st == r.Status
			}
			if !match {
				continue
			}
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PayoutDate.Before(out[j].PayoutDate) })
	return out, nil
}

func (s *fakeStore) GetPayoutByDate(_ context.Context, accountID string, date time.Time) (*domain.PayoutRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.payouts[payoutKey(accountID, date)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &r, nil
}

func (s *fakeStore) BeginTx(context.Context) (domain.PayoutTxRepository, error) {
	s.mu.Lock()
	hook := s.beforeTx
	s.beforeTx = nil
	s.mu.Unlock()
	if hook != nil {
		hook()
	}
	return &fakeTx{store: s}, nil
}

func (s *fakeStore) GetSettings(_ context.Context, accountID string) (*domain.AccountSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.settings[accountID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if w, ok := s.weights[accountID]; ok {
		st.Weights = w
	}
	return &st, nil
}

func (s *fakeStore) ListAccountIDs(context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.settings))
	for id := range s.settings {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *fakeStore) ListRawEvents(_ context.Context, accountID string, _, _ time.Time) ([]domain.RawEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.RawEvent
	for _, ev := range s.events {
		if ev.AccountID == accountID {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (s *fakeStore) ListRecent(_ context.Context, accountID string, limit int) ([]domain.AccuracyLogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.AccuracyLogEntry
	for _, e := range s.accuracy {
		if e.AccountID == accountID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LoggedAt.After(out[j].LoggedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeTx struct {
	store   *fakeStore
	pending []func(s *fakeStore)
}

func (tx *fakeTx) ReplaceForecasts(accountID string, from, to time.Time, records []domain.PayoutRecord) error {
	if tx.store.failReplace != nil {
		return tx.store.failReplace
	}
	recs := append([]domain.PayoutRecord(nil), records...)
	tx.pending = append(tx.pending, func(s *fakeStore) {
		for k, r := range s.payouts {
			if r.AccountID != accountID || r.Status != domain.PayoutForecasted {
				continue
			}
			if (!from.IsZero() && r.PayoutDate.Before(from)) || (!to.IsZero() && !r.PayoutDate.Before(to)) {
				continue
			}
			delete(s.payouts, k)
		}
		for _, r := range recs {
			k := payoutKey(r.AccountID, r.PayoutDate)
			if _, taken := s.payouts[k]; !taken {
				s.payouts[k] = r
			}
		}
	})
	return nil
}

func (tx *fakeTx) UpsertPayout(record *domain.PayoutRecord) error {
	r := *record
	tx.store.mu.Lock()
	stored, ok := tx.store.payouts[payoutKey(r.AccountID, r.PayoutDate)]
	tx.store.mu.Unlock()
	if ok && !stored.Status.CanTransition(r.Status) {
		return fmt.Errorf("%w: %s -> %s", domain.ErrStatusRegression, stored.Status, r.Status)
	}
	tx.pending = append(tx.pending, func(s *fakeStore) {
		s.payouts[payoutKey(r.AccountID, r.PayoutDate)] = r
	})
	return nil
}

func (tx *fakeTx) SaveWeights(cfg domain.ForecastWeightConfig) error {
	tx.pending = append(tx.pending, func(s *fakeStore) { s.weights[cfg.AccountID] = cfg })
	return nil
}

func (tx *fakeTx) AppendAccuracy(entry *domain.AccuracyLogEntry) error {
	e := *entry
	tx.pending = append(tx.pending, func(s *fakeStore) { s.accuracy = append(s.accuracy, e) })
	return nil
}

func (tx *fakeTx) Commit() error {
	tx.store.mu.Lock()
	defer tx.store.mu.Unlock()
	for _, fn := range tx.pending {
		fn(tx.store)
	}
	tx.pending = nil
	tx.store.commits++
	return nil
}

func (tx *fakeTx) Rollback() error {
	tx.store.mu.Lock()
	defer tx.store.mu.Unlock()
	tx.pending = nil
	tx.store.rollbacks++
	return nil
}

type recordingPublisher struct {
	msgs chan domain.Message
}

func newRecordingPublisher() *recordingPublisher {
	return &recordingPublisher{msgs: make(chan domain.Message, 64)}
}

func (p *recordingPublisher) Publish(_ context.Context, topic string, msgs ...domain.Message) error {
	if topic != domain.TopicForecastEvents {
		return fmt.Errorf("unexpected topic %s", topic)
	}
	for _, m := range msgs {
		p.msgs <- m
	}
	return nil
}

type fakeRunLogger struct {
	mu   sync.Mutex
	runs []logger.ForecastRunLog
}

func (l *fakeRunLogger) LogRun(_ context.Context, entry logger.ForecastRunLog) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.runs = append(l.runs, entry)
	return nil
}

func (l *fakeRunLogger) last() logger.ForecastRunLog {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.runs) == 0 {
		return logger.ForecastRunLog{}
	}
	return l.runs[len(l.runs)-1]
}
