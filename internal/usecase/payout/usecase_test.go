package usecase_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/LavaJover/shvark-payout-forecast/internal/config"
	"github.com/LavaJover/shvark-payout-forecast/internal/domain"
	publisher "github.com/LavaJover/shvark-payout-forecast/internal/infrastructure/kafka"
	"github.com/LavaJover/shvark-payout-forecast/internal/infrastructure/lock"
	"github.com/LavaJover/shvark-payout-forecast/internal/infrastructure/metrics"
	payoutdto "github.com/LavaJover/shvark-payout-forecast/internal/usecase/dto/payout"
	"github.com/LavaJover/shvark-payout-forecast/internal/usecase/forecast"
	usecase "github.com/LavaJover/shvark-payout-forecast/internal/usecase/payout"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
)

var asOf = time.Date(2025, time.June, 1, 18, 0, 0, 0, time.UTC)

func day(m time.Month, d int) time.Time {
	return time.Date(2025, m, d, 0, 0, 0, 0, time.UTC)
}

func ptr[T any](v T) *T { return &v }

type harness struct {
	uc      *usecase.DefaultPayoutForecastUsecase
	store   *fakeStore
	locker  *lock.MemoryLocker
	pub     *recordingPublisher
	runs    *fakeRunLogger
	metrics *metrics.ForecastMetrics
}

func newHarness(t *testing.T, freq domain.PayoutFrequency) *harness {
	t.Helper()
	store := newFakeStore()
	s := domain.DefaultAccountSettings("acc-1")
	s.PayoutFrequency = freq
	store.settings["acc-1"] = s
	for i, d := range []int{10, 20, 28} {
		store.events = append(store.events, domain.RawEvent{
			ID:              "o" + string(rune('1'+i)),
			AccountID:       "acc-1",
			MarketplaceType: "Order",
			Timestamp:       ptr(day(time.May, d-2)),
			DeliveryDate:    ptr(day(time.May, d)),
			GrossAmount:     ptr("1000"),
		})
	}

	h := &harness{
		store:   store,
		locker:  lock.NewMemoryLocker(),
		pub:     newRecordingPublisher(),
		runs:    &fakeRunLogger{},
		metrics: metrics.NewForecastMetricsWith(prometheus.NewRegistry()),
	}
	defaults := config.NewDefaultsHolder(config.ForecastDefaults{
		HorizonDays:      90,
		LookbackDays:     180,
		TrailingPayouts:  30,
		MinPayouts:       3,
		TrendWindowDays:  30,
		ConfidenceFactor: 1,
		AccuracyWindow:   30,
	})
	h.uc = usecase.NewDefaultPayoutForecastUsecase(store, store, store, store, h.locker, defaults, h.pub, h.metrics, h.runs)
	h.uc.Now = func() time.Time { return asOf }
	return h
}

func (h *harness) regenerate(t *testing.T) (*payoutdto.RegenerateOutput, error) {
	t.Helper()
	return h.uc.RegenerateForecasts(context.Background(), &payoutdto.RegenerateInput{
		AccountID: "acc-1",
		AsOf:      asOf,
		Trigger:   payoutdto.TriggerAPI,
	})
}

// waitEvent returns the next published event of the given type.
func (h *harness) waitEvent(t *testing.T, eventType string) publisher.ForecastEvent {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case m := <-h.pub.msgs:
			var ev publisher.ForecastEvent
			if err := json.Unmarshal(m.Value, &ev); err != nil {
				t.Fatalf("bad event payload: %v", err)
			}
			if ev.Type == eventType {
				if string(m.Key) != ev.AccountID {
					t.Errorf("message key %q, want account id", m.Key)
				}
				return ev
			}
		case <-timeout:
			t.Fatalf("no %s event published", eventType)
		}
	}
}

func TestRegenerateBiWeekly(t *testing.T) {
	h := newHarness(t, domain.FrequencyBiWeekly)

	out, err := h.regenerate(t)
	if err != nil {
		t.Fatalf("RegenerateForecasts: %v", err)
	}
	if out.RunID == "" {
		t.Error("run id is empty")
	}
	if !out.From.Equal(day(time.June, 2)) || !out.To.Equal(day(time.August, 31)) {
		t.Errorf("range = [%s, %s)", out.From, out.To)
	}
	if len(out.Records) != 7 {
		t.Fatalf("got %d records, want 7", len(out.Records))
	}
	if len(out.Warnings) != 1 {
		t.Errorf("warnings = %v, want the missing history warning", out.Warnings)
	}

	stored := h.store.all("acc-1")
	if len(stored) != 7 {
		t.Fatalf("stored %d records, want 7", len(stored))
	}
	for _, r := range stored {
		if r.Status != domain.PayoutForecasted {
			t.Errorf("stored %s with status %s", r.PayoutDate.Format(time.DateOnly), r.Status)
		}
	}

	run := h.runs.last()
	if run.RunID != out.RunID || run.Result != "ok" || run.RecordsWritten != 7 || run.PayoutFrequency != "biweekly" {
		t.Errorf("unexpected run log %+v", run)
	}
	if got := testutil.ToFloat64(h.metrics.RegenerationsTotal.WithLabelValues("biweekly", "ok")); got != 1 {
		t.Errorf("regenerations metric = %v, want 1", got)
	}

	ev := h.waitEvent(t, publisher.EventForecastRegenerated)
	if ev.RunID != out.RunID || ev.Records != 7 || ev.NextPayout == nil || ev.NextPayout.Date != "2025-06-02" {
		t.Errorf("unexpected event %+v", ev)
	}
}

func TestRegenerateIsIdempotent(t *testing.T) {
	h := newHarness(t, domain.FrequencyBiWeekly)

	if _, err := h.regenerate(t); err != nil {
		t.Fatal(err)
	}
	first := h.store.all("acc-1")
	if _, err := h.regenerate(t); err != nil {
		t.Fatal(err)
	}
	second := h.store.all("acc-1")

	if len(first) != len(second) {
		t.Fatalf("record count changed: %d -> %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID || !first[i].TotalAmount.Equal(second[i].TotalAmount) {
			t.Errorf("record %d changed: %+v -> %+v", i, first[i], second[i])
		}
	}
}

func TestRegenerateKeepsConfirmedPayouts(t *testing.T) {
	h := newHarness(t, domain.FrequencyBiWeekly)
	confirmed := domain.PayoutRecord{
		ID:          "actual-jun16",
		AccountID:   "acc-1",
		PayoutDate:  day(time.June, 16),
		TotalAmount: decimal.NewFromInt(4321),
		Status:      domain.PayoutConfirmed,
		PayoutType:  domain.PayoutTypeSettlement,
	}
	h.store.put(confirmed)

	out, err := h.regenerate(t)
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range out.Records {
		if r.PayoutDate.Equal(confirmed.PayoutDate) {
			t.Fatal("forecast produced for a confirmed date")
		}
	}

	got, err := h.store.GetPayoutByDate(context.Background(), "acc-1", confirmed.PayoutDate)
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != confirmed.ID || got.Status != domain.PayoutConfirmed || !got.TotalAmount.Equal(confirmed.TotalAmount) {
		t.Errorf("confirmed payout was touched: %+v", got)
	}
}

func TestRegenerateDailyWithoutHistory(t *testing.T) {
	h := newHarness(t, domain.FrequencyDaily)

	_, err := h.regenerate(t)
	var insufficient *domain.InsufficientDataError
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected InsufficientDataError, got %v", err)
	}
	if insufficient.Required != 3 || insufficient.Available != 0 {
		t.Errorf("unexpected error details %+v", insufficient)
	}
	if n := len(h.store.all("acc-1")); n != 0 {
		t.Errorf("%d records written without history", n)
	}
	if h.store.commits != 0 {
		t.Errorf("commits = %d, want 0", h.store.commits)
	}
	if run := h.runs.last(); run.Result != "insufficient_data" {
		t.Errorf("run result = %q", run.Result)
	}
	if got := testutil.ToFloat64(h.metrics.InsufficientDataTotal.WithLabelValues("daily")); got != 1 {
		t.Errorf("insufficient data metric = %v", got)
	}
}

func TestRegenerateConflict(t *testing.T) {
	h := newHarness(t, domain.FrequencyBiWeekly)
	release, err := h.locker.Acquire(context.Background(), "acc-1", day(time.June, 2), day(time.August, 31))
	if err != nil {
		t.Fatal(err)
	}

	_, err = h.regenerate(t)
	var conflict *domain.RegenerationConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected RegenerationConflictError, got %v", err)
	}
	if got := testutil.ToFloat64(h.metrics.RegenerationConflictsTotal); got != 1 {
		t.Errorf("conflict metric = %v", got)
	}

	release()
	if _, err := h.regenerate(t); err != nil {
		t.Fatalf("regeneration after release: %v", err)
	}
}

func TestRegenerateRejectsInvalidSettings(t *testing.T) {
	h := newHarness(t, domain.FrequencyBiWeekly)
	s := h.store.settings["acc-1"]
	s.ReturnRate = decimal.NewFromInt(2)
	h.store.settings["acc-1"] = s

	_, err := h.regenerate(t)
	var invalid *domain.InvalidConfigError
	if !errors.As(err, &invalid) || invalid.Field != "return_rate" {
		t.Fatalf("expected InvalidConfigError on return_rate, got %v", err)
	}
	if n := len(h.store.all("acc-1")); n != 0 {
		t.Errorf("%d records written for invalid settings", n)
	}
}

func TestRegenerateUnknownAccount(t *testing.T) {
	h := newHarness(t, domain.FrequencyBiWeekly)
	_, err := h.uc.RegenerateForecasts(context.Background(), &payoutdto.RegenerateInput{AccountID: "nobody", AsOf: asOf})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRegenerateRollsBackOnWriteFailure(t *testing.T) {
	h := newHarness(t, domain.FrequencyBiWeekly)
	h.store.put(domain.PayoutRecord{
		ID: "old", AccountID: "acc-1", PayoutDate: day(time.June, 2),
		TotalAmount: decimal.NewFromInt(1), Status: domain.PayoutForecasted,
	})
	h.store.failReplace = errors.New("disk full")

	if _, err := h.regenerate(t); err == nil {
		t.Fatal("expected an error")
	}
	if h.store.rollbacks != 1 || h.store.commits != 0 {
		t.Errorf("commits = %d, rollbacks = %d", h.store.commits, h.store.rollbacks)
	}
	all := h.store.all("acc-1")
	if len(all) != 1 || all[0].ID != "old" {
		t.Errorf("previous forecasts lost: %+v", all)
	}
}

func TestUpdateWeights(t *testing.T) {
	h := newHarness(t, domain.FrequencyBiWeekly)

	out, err := h.uc.UpdateWeights(context.Background(), &payoutdto.UpdateWeightsInput{
		AccountID: "acc-1", Near: 90, Mid: 40, Far: 0, AsOf: asOf,
	})
	if err != nil {
		t.Fatalf("UpdateWeights: %v", err)
	}
	if out.Regeneration == nil || len(out.Regeneration.Records) != 7 {
		t.Fatalf("forecasts were not regenerated: %+v", out.Regeneration)
	}

	w, err := h.uc.GetWeights(context.Background(), "acc-1")
	if err != nil {
		t.Fatal(err)
	}
	if w.Weights[domain.HorizonNear] != 90 || w.Weights[domain.HorizonMid] != 40 || w.Weights[domain.HorizonFar] != 0 {
		t.Errorf("weights = %v", w.Weights)
	}
	if run := h.runs.last(); run.Trigger != payoutdto.TriggerWeights {
		t.Errorf("run trigger = %q", run.Trigger)
	}
}

func TestUpdateWeightsReplacesEveryForecast(t *testing.T) {
	h := newHarness(t, domain.FrequencyBiWeekly)
	h.store.put(forecastOn(day(time.June, 1), 12345))
	h.store.put(forecastOn(day(time.October, 14), 777))
	actual := forecastOn(day(time.May, 19), 900)
	actual.Status = domain.PayoutConfirmed
	h.store.put(actual)

	out, err := h.uc.UpdateWeights(context.Background(), &payoutdto.UpdateWeightsInput{
		AccountID: "acc-1", Near: 0, Mid: 0, Far: 0, AsOf: asOf,
	})
	if err != nil {
		t.Fatalf("UpdateWeights: %v", err)
	}
	if out.Regeneration == nil {
		t.Fatal("forecasts were not regenerated")
	}

	fresh := make(map[string]bool)
	for _, r := range out.Regeneration.Records {
		fresh[r.ID] = true
	}
	for _, r := range h.store.all("acc-1") {
		date := r.PayoutDate.Format(time.DateOnly)
		switch {
		case r.Status == domain.PayoutConfirmed:
			if date != "2025-05-19" || !r.TotalAmount.Equal(decimal.NewFromInt(900)) {
				t.Errorf("confirmed payout changed: %+v", r)
			}
		case !fresh[r.ID]:
			t.Errorf("forecast on %s (amount %s) survived the weight change", date, r.TotalAmount)
		}
	}
	if _, err := h.store.GetPayoutByDate(context.Background(), "acc-1", day(time.May, 19)); err != nil {
		t.Errorf("confirmed payout lost: %v", err)
	}
}

func TestRegenerateKeepsForecastsOutsideHorizon(t *testing.T) {
	h := newHarness(t, domain.FrequencyBiWeekly)
	h.store.put(forecastOn(day(time.June, 1), 12345))

	if _, err := h.regenerate(t); err != nil {
		t.Fatal(err)
	}
	got, err := h.store.GetPayoutByDate(context.Background(), "acc-1", day(time.June, 1))
	if err != nil {
		t.Fatalf("forecast for today removed by a plain regeneration: %v", err)
	}
	if !got.TotalAmount.Equal(decimal.NewFromInt(12345)) {
		t.Errorf("amount = %s", got.TotalAmount)
	}
}

func TestUpdateWeightsRejectsOutOfRange(t *testing.T) {
	h := newHarness(t, domain.FrequencyBiWeekly)

	_, err := h.uc.UpdateWeights(context.Background(), &payoutdto.UpdateWeightsInput{AccountID: "acc-1", Near: 101, Mid: 50, Far: 25})
	var invalid *domain.InvalidConfigError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidConfigError, got %v", err)
	}
	if len(h.store.weights) != 0 || h.store.commits != 0 {
		t.Error("invalid weights were stored")
	}
}

func TestUpdateWeightsWithoutHistoryStillSaves(t *testing.T) {
	h := newHarness(t, domain.FrequencyDaily)

	out, err := h.uc.UpdateWeights(context.Background(), &payoutdto.UpdateWeightsInput{
		AccountID: "acc-1", Near: 60, Mid: 50, Far: 40, AsOf: asOf,
	})
	if err != nil {
		t.Fatalf("UpdateWeights: %v", err)
	}
	if out.Regeneration != nil || len(out.Warnings) != 1 {
		t.Errorf("expected a warning and no regeneration, got %+v", out)
	}
	if w := h.store.weights["acc-1"]; w.Weights[domain.HorizonNear] != 60 {
		t.Errorf("weights not stored: %+v", w)
	}
}

func TestUpdateWeightsWithoutHistoryDropsStaleForecasts(t *testing.T) {
	h := newHarness(t, domain.FrequencyDaily)
	h.store.put(forecastOn(day(time.June, 1), 12345))
	h.store.put(forecastOn(day(time.June, 5), 500))

	if _, err := h.uc.UpdateWeights(context.Background(), &payoutdto.UpdateWeightsInput{
		AccountID: "acc-1", Near: 60, Mid: 50, Far: 40, AsOf: asOf,
	}); err != nil {
		t.Fatalf("UpdateWeights: %v", err)
	}
	if left := h.store.all("acc-1"); len(left) != 0 {
		t.Errorf("forecasts made with the old weights remain: %+v", left)
	}
}

func forecastOn(date time.Time, amount int64) domain.PayoutRecord {
	return domain.PayoutRecord{
		ID:          forecast.ForecastID("acc-1", date, domain.PayoutTypeSettlement),
		AccountID:   "acc-1",
		PayoutDate:  date,
		TotalAmount: decimal.NewFromInt(amount),
		Status:      domain.PayoutForecasted,
		PayoutType:  domain.PayoutTypeSettlement,
		CreatedAt:   asOf.Add(-time.Hour),
	}
}

func TestConfirmPayoutLogsAccuracy(t *testing.T) {
	h := newHarness(t, domain.FrequencyBiWeekly)
	predicted := forecastOn(day(time.June, 16), 1000)
	h.store.put(predicted)

	out, err := h.uc.ConfirmPayout(context.Background(), &payoutdto.ConfirmPayoutInput{
		AccountID:   "acc-1",
		PayoutDate:  day(time.June, 16),
		TotalAmount: decimal.NewFromInt(1100),
	})
	if err != nil {
		t.Fatalf("ConfirmPayout: %v", err)
	}
	if out.Record.ID != predicted.ID || out.Record.Status != domain.PayoutConfirmed {
		t.Errorf("unexpected record %+v", out.Record)
	}
	if out.Accuracy == nil {
		t.Fatal("no accuracy entry")
	}
	want, _ := forecast.DifferencePercentage(decimal.NewFromInt(1100), decimal.NewFromInt(1000))
	if !out.Accuracy.DifferencePercentage.Equal(want) || out.Accuracy.ForecastID != predicted.ID {
		t.Errorf("accuracy entry = %+v", out.Accuracy)
	}
	if out.Accuracy.ID == "" {
		t.Error("accuracy entry has no id")
	}

	stored, _ := h.store.GetPayoutByDate(context.Background(), "acc-1", day(time.June, 16))
	if stored.Status != domain.PayoutConfirmed || !stored.TotalAmount.Equal(decimal.NewFromInt(1100)) {
		t.Errorf("stored payout = %+v", stored)
	}
	if len(h.store.accuracy) != 1 {
		t.Errorf("accuracy log has %d entries", len(h.store.accuracy))
	}
	h.waitEvent(t, publisher.EventAccuracyLogged)

	// Confirming again has no prediction left to compare against.
	again, err := h.uc.ConfirmPayout(context.Background(), &payoutdto.ConfirmPayoutInput{
		AccountID:   "acc-1",
		PayoutDate:  day(time.June, 16),
		TotalAmount: decimal.NewFromInt(1100),
	})
	if err != nil {
		t.Fatal(err)
	}
	if again.Accuracy != nil || len(h.store.accuracy) != 1 {
		t.Error("second confirmation logged accuracy again")
	}
}

func TestConfirmPayoutZeroActual(t *testing.T) {
	h := newHarness(t, domain.FrequencyBiWeekly)
	h.store.put(forecastOn(day(time.June, 16), 1000))

	out, err := h.uc.ConfirmPayout(context.Background(), &payoutdto.ConfirmPayoutInput{
		AccountID:   "acc-1",
		PayoutDate:  day(time.June, 16),
		TotalAmount: decimal.Zero,
	})
	if err != nil {
		t.Fatalf("ConfirmPayout: %v", err)
	}
	if out.Accuracy != nil || len(h.store.accuracy) != 0 {
		t.Error("accuracy logged for a zero payout")
	}
	if out.Record.Status != domain.PayoutConfirmed {
		t.Errorf("status = %s", out.Record.Status)
	}
}

func TestConfirmPayoutWithoutForecast(t *testing.T) {
	h := newHarness(t, domain.FrequencyBiWeekly)

	out, err := h.uc.ConfirmPayout(context.Background(), &payoutdto.ConfirmPayoutInput{
		AccountID:   "acc-1",
		PayoutDate:  day(time.May, 19),
		TotalAmount: decimal.NewFromInt(700),
		PayoutType:  domain.PayoutTypeDaily,
	})
	if err != nil {
		t.Fatal(err)
	}
	if out.Accuracy != nil {
		t.Error("accuracy logged without a forecast")
	}
	if out.Record.ID != forecast.ForecastID("acc-1", day(time.May, 19), domain.PayoutTypeDaily) {
		t.Errorf("record id = %s", out.Record.ID)
	}

	_, err = h.uc.ConfirmPayout(context.Background(), &payoutdto.ConfirmPayoutInput{
		AccountID:   "acc-1",
		PayoutDate:  day(time.May, 19),
		TotalAmount: decimal.NewFromInt(-1),
	})
	var invalid *domain.InvalidConfigError
	if !errors.As(err, &invalid) {
		t.Errorf("expected InvalidConfigError for a negative amount, got %v", err)
	}
}

func TestMarkEstimated(t *testing.T) {
	h := newHarness(t, domain.FrequencyBiWeekly)
	h.store.put(forecastOn(day(time.June, 16), 1000))
	ctx := context.Background()

	rec, err := h.uc.MarkEstimated(ctx, &payoutdto.MarkEstimatedInput{
		AccountID:   "acc-1",
		PayoutDate:  day(time.June, 16),
		TotalAmount: ptr(decimal.NewFromInt(1050)),
	})
	if err != nil {
		t.Fatalf("MarkEstimated: %v", err)
	}
	if rec.Status != domain.PayoutEstimated || !rec.TotalAmount.Equal(decimal.NewFromInt(1050)) {
		t.Errorf("record = %+v", rec)
	}

	if _, err := h.uc.ConfirmPayout(ctx, &payoutdto.ConfirmPayoutInput{
		AccountID: "acc-1", PayoutDate: day(time.June, 16), TotalAmount: decimal.NewFromInt(1050),
	}); err != nil {
		t.Fatal(err)
	}
	_, err = h.uc.MarkEstimated(ctx, &payoutdto.MarkEstimatedInput{AccountID: "acc-1", PayoutDate: day(time.June, 16)})
	if !errors.Is(err, domain.ErrStatusRegression) {
		t.Fatalf("expected ErrStatusRegression, got %v", err)
	}

	_, err = h.uc.MarkEstimated(ctx, &payoutdto.MarkEstimatedInput{AccountID: "acc-1", PayoutDate: day(time.July, 1)})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMarkEstimatedAfterConcurrentConfirmation(t *testing.T) {
	h := newHarness(t, domain.FrequencyBiWeekly)
	h.store.put(forecastOn(day(time.June, 16), 1000))
	// The payout is confirmed after MarkEstimated has read the forecast.
	h.store.beforeTx = func() {
		actual := forecastOn(day(time.June, 16), 2000)
		actual.Status = domain.PayoutConfirmed
		h.store.put(actual)
	}

	_, err := h.uc.MarkEstimated(context.Background(), &payoutdto.MarkEstimatedInput{
		AccountID:   "acc-1",
		PayoutDate:  day(time.June, 16),
		TotalAmount: ptr(decimal.NewFromInt(1050)),
	})
	if !errors.Is(err, domain.ErrStatusRegression) {
		t.Fatalf("expected ErrStatusRegression, got %v", err)
	}

	got, err := h.store.GetPayoutByDate(context.Background(), "acc-1", day(time.June, 16))
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != domain.PayoutConfirmed || !got.TotalAmount.Equal(decimal.NewFromInt(2000)) {
		t.Errorf("confirmed payout regressed: status %s amount %s", got.Status, got.TotalAmount)
	}
	if h.store.rollbacks == 0 {
		t.Error("transaction was not rolled back")
	}
}

func TestGetAccuracy(t *testing.T) {
	h := newHarness(t, domain.FrequencyBiWeekly)
	ctx := context.Background()

	out, err := h.uc.GetAccuracy(ctx, "acc-1", 0)
	if err != nil {
		t.Fatal(err)
	}
	if out.Accuracy != nil || out.Window != 30 {
		t.Errorf("empty log: %+v", out)
	}

	h.store.accuracy = []domain.AccuracyLogEntry{
		{ID: "a1", AccountID: "acc-1", DifferencePercentage: decimal.NewFromInt(10), LoggedAt: asOf.Add(-2 * time.Hour)},
		{ID: "a2", AccountID: "acc-1", DifferencePercentage: decimal.NewFromInt(-6), LoggedAt: asOf.Add(-time.Hour)},
		{ID: "a3", AccountID: "acc-2", DifferencePercentage: decimal.NewFromInt(50), LoggedAt: asOf},
	}
	out, err = h.uc.GetAccuracy(ctx, "acc-1", 0)
	if err != nil {
		t.Fatal(err)
	}
	if out.Accuracy == nil || !out.Accuracy.Equal(decimal.NewFromInt(92)) || out.Entries != 2 {
		t.Errorf("accuracy = %+v", out)
	}

	out, err = h.uc.GetAccuracy(ctx, "acc-1", 1)
	if err != nil {
		t.Fatal(err)
	}
	if out.Accuracy == nil || !out.Accuracy.Equal(decimal.NewFromInt(94)) {
		t.Errorf("window of one = %+v", out.Accuracy)
	}
}
