package forecast_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/LavaJover/shvark-payout-forecast/internal/domain"
	"github.com/LavaJover/shvark-payout-forecast/internal/usecase/forecast"
)

func engineInputs(freq domain.PayoutFrequency) forecast.Inputs {
	s := domain.DefaultAccountSettings("acc-1")
	s.PayoutFrequency = freq
	return forecast.Inputs{
		Settings: s,
		RawEvents: []domain.RawEvent{
			rawOrder("o1", day(2025, time.May, 10), "1000"),
			rawOrder("o2", day(2025, time.May, 20), "1000"),
			rawOrder("o3", day(2025, time.May, 28), "1000"),
			{ID: "broken", AccountID: "acc-1", MarketplaceType: "Order"},
		},
		AsOf: time.Date(2025, time.June, 1, 18, 45, 0, 0, time.UTC),
	}
}

func TestBuildBiWeeklyWithoutHistory(t *testing.T) {
	e := forecast.NewEngine(forecast.EngineConfig{})
	plan, err := e.Build(engineInputs(domain.FrequencyBiWeekly))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if !plan.From.Equal(day(2025, time.June, 2)) || !plan.To.Equal(day(2025, time.August, 31)) {
		t.Fatalf("window = [%s, %s)", plan.From, plan.To)
	}
	if plan.Skipped != 1 || len(plan.Malformed) != 1 {
		t.Errorf("skipped = %d, malformed = %d, want 1", plan.Skipped, len(plan.Malformed))
	}
	if len(plan.Warnings) != 1 {
		t.Errorf("warnings = %v, want one about missing history", plan.Warnings)
	}

	wantDates := []time.Time{
		day(2025, time.June, 2), day(2025, time.June, 16), day(2025, time.June, 30),
		day(2025, time.July, 14), day(2025, time.July, 28), day(2025, time.August, 11), day(2025, time.August, 25),
	}
	if len(plan.Records) != len(wantDates) {
		t.Fatalf("got %d records, want %d", len(plan.Records), len(wantDates))
	}
	for i, rec := range plan.Records {
		if !rec.PayoutDate.Equal(wantDates[i]) {
			t.Errorf("record %d date = %s, want %s", i, rec.PayoutDate.Format(time.DateOnly), wantDates[i].Format(time.DateOnly))
		}
		if rec.Status != domain.PayoutForecasted || rec.PayoutType != domain.PayoutTypeSettlement {
			t.Errorf("record %d: status %s type %s", i, rec.Status, rec.PayoutType)
		}
		if rec.ID != forecast.ForecastID("acc-1", rec.PayoutDate, domain.PayoutTypeSettlement) {
			t.Errorf("record %d id is not deterministic", i)
		}
	}
	if plan.Records[0].Horizon != domain.HorizonNear ||
		plan.Records[3].Horizon != domain.HorizonMid ||
		plan.Records[5].Horizon != domain.HorizonFar {
		t.Errorf("unexpected horizons %s %s %s", plan.Records[0].Horizon, plan.Records[3].Horizon, plan.Records[5].Horizon)
	}
}

func TestBuildIsIdempotent(t *testing.T) {
	for _, freq := range []domain.PayoutFrequency{domain.FrequencyBiWeekly, domain.FrequencyDaily} {
		t.Run(string(freq), func(t *testing.T) {
			in := engineInputs(freq)
			in.History = growingHistory("acc-1")
			e := forecast.NewEngine(forecast.EngineConfig{})

			first, err := e.Build(in)
			if err != nil {
				t.Fatalf("Build: %v", err)
			}
			second, err := e.Build(in)
			if err != nil {
				t.Fatalf("Build: %v", err)
			}
			if fmt.Sprint(first.Records) != fmt.Sprint(second.Records) {
				t.Fatal("regenerating with unchanged inputs produced different records")
			}
		})
	}
}

func TestBuildSkipsLockedDates(t *testing.T) {
	in := engineInputs(domain.FrequencyBiWeekly)
	locked := confirmed("acc-1", day(2025, time.June, 16), "4000")
	locked.Status = domain.PayoutEstimated
	in.History = append(growingHistory("acc-1"), locked)

	plan, err := forecast.NewEngine(forecast.EngineConfig{}).Build(in)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	for _, rec := range plan.Records {
		if rec.PayoutDate.Equal(locked.PayoutDate) {
			t.Fatal("forecast written over an estimated payout")
		}
	}
	if len(plan.Records) != 6 {
		t.Errorf("got %d records, want 6", len(plan.Records))
	}
}

func TestBuildDailyBlendsByHorizon(t *testing.T) {
	in := engineInputs(domain.FrequencyDaily)
	in.RawEvents = nil
	in.History = growingHistory("acc-1")

	plan, err := forecast.NewEngine(forecast.EngineConfig{}).Build(in)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(plan.Records) != forecast.DefaultHorizonDays {
		t.Fatalf("got %d records, want %d", len(plan.Records), forecast.DefaultHorizonDays)
	}
	// No events: the trend signal is zero and the record is A × w × 0.92.
	assertDecimal(t, "near", plan.Records[0].TotalAmount, "1983.75")
	assertDecimal(t, "mid", plan.Records[29].TotalAmount, "1322.5")
	assertDecimal(t, "far", plan.Records[59].TotalAmount, "661.25")
	if plan.Records[29].Horizon != domain.HorizonMid || plan.Records[59].Horizon != domain.HorizonFar {
		t.Errorf("unexpected horizons %s %s", plan.Records[29].Horizon, plan.Records[59].Horizon)
	}
}

func TestBuildDailyInsufficientHistory(t *testing.T) {
	in := engineInputs(domain.FrequencyDaily)
	in.History = growingHistory("acc-1")[:2]

	plan, err := forecast.NewEngine(forecast.EngineConfig{}).Build(in)
	var insufficient *domain.InsufficientDataError
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected InsufficientDataError, got %v", err)
	}
	if plan != nil {
		t.Error("expected no plan")
	}
}

func TestBuildRejectsInvalidSettings(t *testing.T) {
	in := engineInputs(domain.FrequencyBiWeekly)
	delete(in.Settings.Weights.Weights, domain.HorizonFar)

	_, err := forecast.NewEngine(forecast.EngineConfig{}).Build(in)
	var invalid *domain.InvalidConfigError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidConfigError, got %v", err)
	}
}
