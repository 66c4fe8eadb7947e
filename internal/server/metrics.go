package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/claude/reptracker/internal/calc"
	"github.com/claude/reptracker/internal/models"
)

// Metrics holds the prometheus collectors the server updates.
type Metrics struct {
	CounterRequests          *prometheus.CounterVec
	HistogramRequestDuration *prometheus.HistogramVec

	GaugeLastChange prometheus.Gauge

	// Set by RegisterLedger.
	GaugeTodayTotal prometheus.GaugeFunc
	GaugeDebt       prometheus.GaugeFunc
	GaugeLogEntries prometheus.GaugeFunc
}

const namespace = "reptracker"

// SetupRegistry returns a registry with build info, Go runtime and process
// collectors already registered.
func SetupRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewBuildInfoCollector(),
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		CounterRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "The total number of incoming requests",
		}, []string{"method", "status"}),
		HistogramRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Histogram of response time for requests in seconds",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"route", "method", "status_code"}),
		GaugeLastChange: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ledger_last_change_timestamp_seconds",
			Help:      "Unix time of the last change to the ledger",
		}),
	}
}

// RegisterLedger adds gauges that read the ledger at scrape time, so values
// that depend on the date roll over at midnight without a write.
func (m *Metrics) RegisterLedger(reg prometheus.Registerer, state func() models.AppState, today func() string) {
	factory := promauto.With(reg)

	m.GaugeTodayTotal = factory.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "today_reps",
		Help:      "Repetitions logged for the current day",
	}, func() float64 {
		return float64(calc.TotalForDate(state().Logs, today()))
	})
	m.GaugeDebt = factory.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "debt_reps",
		Help:      "Cumulative surplus (positive) or debt (negative) since the start date",
	}, func() float64 {
		s := state()
		return float64(calc.Debt(s.Logs, s.Settings.DailyGoal, s.Settings.StartDate, today()))
	})
	m.GaugeLogEntries = factory.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "log_entries",
		Help:      "Number of log entries in the ledger",
	}, func() float64 {
		return float64(len(state().Logs))
	})
}
