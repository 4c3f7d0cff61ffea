// Package metrics exposes decision statistics as Prometheus metrics.
package metrics

import (
	"math"

	"github.com/prometheus/client_golang/prometheus"

	dofperrors "github.com/five82/dofp/internal/errors"
)

// Metrics holds Prometheus counters and gauges for decision making.
type Metrics struct {
	registry             *prometheus.Registry
	decisionsTotal       *prometheus.CounterVec
	retransmissionsTotal prometheus.Counter
	infeasibleTotal      prometheus.Counter
	evaluatedTotal       prometheus.Counter
	errorsTotal          prometheus.Counter
	budgetSeconds        prometheus.Histogram
	terminalLevel        prometheus.Gauge
	terminalBitrate      prometheus.Gauge
	score                prometheus.Gauge
}

// New creates and registers Prometheus metrics on a private registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	decisionsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dofp_decisions_total",
		Help: "Total number of decisions, by budget mode",
	}, []string{"mode"})
	retransmissionsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dofp_retransmissions_total",
		Help: "Total number of buffered segments scheduled for re-fetch",
	})
	infeasibleTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dofp_infeasible_total",
		Help: "Total number of decisions where no level fit the budget",
	})
	evaluatedTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dofp_evaluated_configurations_total",
		Help: "Total number of candidate configurations scored",
	})
	errorsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dofp_errors_total",
		Help: "Total number of reported errors",
	})
	budgetSeconds := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "dofp_budget_seconds",
		Help:    "Download-time budget per decision",
		Buckets: []float64{1, 2, 4, 6, 8, 12, 16, 24},
	})
	terminalLevel := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "dofp_terminal_level",
		Help: "Quality level chosen for the most recent next segment",
	})
	terminalBitrate := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "dofp_terminal_bitrate",
		Help: "Bitrate of the most recent next segment",
	})
	score := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "dofp_score",
		Help: "Objective score of the most recent decision",
	})

	registry.MustRegister(
		decisionsTotal,
		retransmissionsTotal,
		infeasibleTotal,
		evaluatedTotal,
		errorsTotal,
		budgetSeconds,
		terminalLevel,
		terminalBitrate,
		score,
	)

	return &Metrics{
		registry:             registry,
		decisionsTotal:       decisionsTotal,
		retransmissionsTotal: retransmissionsTotal,
		infeasibleTotal:      infeasibleTotal,
		evaluatedTotal:       evaluatedTotal,
		errorsTotal:          errorsTotal,
		budgetSeconds:        budgetSeconds,
		terminalLevel:        terminalLevel,
		terminalBitrate:      terminalBitrate,
		score:                score,
	}
}

// IncDecisions increments the decision counter for a budget mode.
func (m *Metrics) IncDecisions(mode string) {
	m.decisionsTotal.WithLabelValues(mode).Inc()
}

// AddRetransmissions adds n scheduled re-fetches.
func (m *Metrics) AddRetransmissions(n int) {
	m.retransmissionsTotal.Add(float64(n))
}

// IncInfeasible increments the infeasible counter.
func (m *Metrics) IncInfeasible() {
	m.infeasibleTotal.Inc()
}

// AddEvaluated adds n scored configurations.
func (m *Metrics) AddEvaluated(n int) {
	m.evaluatedTotal.Add(float64(n))
}

// IncErrors increments the errors counter.
func (m *Metrics) IncErrors() {
	m.errorsTotal.Inc()
}

// ObserveBudget records a decision budget. Infinite budgets are skipped.
func (m *Metrics) ObserveBudget(seconds float64) {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return
	}
	m.budgetSeconds.Observe(seconds)
}

// SetTerminal sets the terminal level and bitrate gauges.
func (m *Metrics) SetTerminal(level int, bitrate float64) {
	m.terminalLevel.Set(float64(level))
	m.terminalBitrate.Set(bitrate)
}

// SetScore sets the score gauge.
func (m *Metrics) SetScore(v float64) {
	m.score.Set(v)
}

// WriteTextfile writes the current metrics to path in the text exposition
// format, suitable for the node exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return dofperrors.NewIOError("writing metrics textfile", err)
	}
	return nil
}
