package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ForecastMetrics holds every metric the forecast service exports.
type ForecastMetrics struct {
	// Regeneration runs
	RegenerationsTotal         *prometheus.CounterVec
	RegenerationDuration       *prometheus.HistogramVec
	RegenerationConflictsTotal prometheus.Counter
	InsufficientDataTotal      *prometheus.CounterVec

	// Produced forecasts
	ForecastRecordsWritten *prometheus.CounterVec
	ForecastAmountGauge    *prometheus.GaugeVec
	MalformedEventsTotal   prometheus.Counter

	// Payout lifecycle
	PayoutTransitionsTotal *prometheus.CounterVec

	// Accuracy
	AccuracyEntriesTotal *prometheus.CounterVec
	AccuracyPercent      *prometheus.GaugeVec

	// Nightly scheduler
	ScheduledAccountsTotal *prometheus.CounterVec
	ScheduledRunDuration   prometheus.Histogram
}

func NewForecastMetrics() *ForecastMetrics {
	return NewForecastMetricsWith(prometheus.DefaultRegisterer)
}

// NewForecastMetricsWith registers the metrics on reg.
func NewForecastMetricsWith(reg prometheus.Registerer) *ForecastMetrics {
	f := promauto.With(reg)
	return &ForecastMetrics{
		RegenerationsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "forecast_regenerations_total",
				Help: "Forecast regeneration runs by payout frequency and result",
			},
			[]string{"frequency", "result"},
		),
		RegenerationDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "forecast_regeneration_duration_seconds",
				Help:    "Duration of one account's forecast regeneration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"frequency"},
		),
		RegenerationConflictsTotal: f.NewCounter(
			prometheus.CounterOpts{
				Name: "forecast_regeneration_conflicts_total",
				Help: "Regenerations rejected because another run held the account lock",
			},
		),
		InsufficientDataTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "forecast_insufficient_data_total",
				Help: "Runs where the payout-history model declined to forecast",
			},
			[]string{"frequency"},
		),
		ForecastRecordsWritten: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "forecast_records_written_total",
				Help: "Forecasted payout records written",
			},
			[]string{"payout_type", "horizon"},
		),
		ForecastAmountGauge: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "forecast_next_payout_amount",
				Help: "Amount of the account's next forecasted payout",
			},
			[]string{"account_id"},
		),
		MalformedEventsTotal: f.NewCounter(
			prometheus.CounterOpts{
				Name: "forecast_malformed_events_total",
				Help: "Raw financial events dropped during normalization",
			},
		),
		PayoutTransitionsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "forecast_payout_transitions_total",
				Help: "Payout status transitions",
			},
			[]string{"to_status"},
		),
		AccuracyEntriesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "forecast_accuracy_entries_total",
				Help: "Accuracy tracking outcomes on payout confirmation",
			},
			[]string{"result"},
		),
		AccuracyPercent: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "forecast_accuracy_percent",
				Help: "Rolling forecast accuracy per account",
			},
			[]string{"account_id"},
		),
		ScheduledAccountsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "forecast_scheduled_accounts_total",
				Help: "Accounts processed by the nightly regeneration",
			},
			[]string{"result"},
		),
		ScheduledRunDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "forecast_scheduled_run_duration_seconds",
				Help:    "Duration of a full nightly regeneration",
				Buckets: []float64{1, 5, 15, 30, 60, 300, 900, 1800},
			},
		),
	}
}

func (m *ForecastMetrics) RecordRegeneration(frequency, result string, seconds float64) {
	if m == nil {
		return
	}
	m.RegenerationsTotal.WithLabelValues(frequency, result).Inc()
	m.RegenerationDuration.WithLabelValues(frequency).Observe(seconds)
}

func (m *ForecastMetrics) RecordConflict() {
	if m == nil {
		return
	}
	m.RegenerationConflictsTotal.Inc()
}

func (m *ForecastMetrics) RecordInsufficientData(frequency string) {
	if m == nil {
		return
	}
	m.InsufficientDataTotal.WithLabelValues(frequency).Inc()
}

func (m *ForecastMetrics) RecordForecastWritten(payoutType, horizon string) {
	if m == nil {
		return
	}
	m.ForecastRecordsWritten.WithLabelValues(payoutType, horizon).Inc()
}

func (m *ForecastMetrics) SetNextPayout(accountID string, amount float64) {
	if m == nil {
		return
	}
	m.ForecastAmountGauge.WithLabelValues(accountID).Set(amount)
}

func (m *ForecastMetrics) RecordMalformed(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.MalformedEventsTotal.Add(float64(n))
}

func (m *ForecastMetrics) RecordTransition(toStatus string) {
	if m == nil {
		return
	}
	m.PayoutTransitionsTotal.WithLabelValues(toStatus).Inc()
}

func (m *ForecastMetrics) RecordAccuracyEntry(result string) {
	if m == nil {
		return
	}
	m.AccuracyEntriesTotal.WithLabelValues(result).Inc()
}

func (m *ForecastMetrics) SetAccuracy(accountID string, percent float64) {
	if m == nil {
		return
	}
	m.AccuracyPercent.WithLabelValues(accountID).Set(percent)
}

func (m *ForecastMetrics) RecordScheduledAccount(result string) {
	if m == nil {
		return
	}
	m.ScheduledAccountsTotal.WithLabelValues(result).Inc()
}

func (m *ForecastMetrics) ObserveScheduledRun(seconds float64) {
	if m == nil {
		return
	}
	m.ScheduledRunDuration.Observe(seconds)
}
