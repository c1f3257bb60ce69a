// Package metrics records Prometheus metrics for extraction and
// normalization runs. A short-lived CLI cannot be scraped, so the CLI writes
// the registry to a node_exporter textfile when asked to.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/felixgeelhaar/toolwire/internal/envelope"
	"github.com/felixgeelhaar/toolwire/internal/eval"
	"github.com/felixgeelhaar/toolwire/internal/toolcall"
)

// Outcomes of a normalization.
const (
	OutcomeSuccess    = "success"
	OutcomeFailure    = "failure"
	OutcomeDiagnostic = "diagnostic"
)

// Metrics holds all Prometheus metrics for toolwire
type Metrics struct {
	// Normalizer metrics
	Normalizations    *prometheus.CounterVec
	NormalizeDuration *prometheus.HistogramVec
	InputBytes        *prometheus.HistogramVec

	// Tool-call extraction metrics
	Extractions  prometheus.Counter
	ToolCalls    *prometheus.CounterVec
	CallWarnings *prometheus.CounterVec

	// Quality gate metrics
	GateRuns   *prometheus.CounterVec
	GateChecks *prometheus.CounterVec

	// Error metrics (by error code from structured errors)
	Errors *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with all metrics registered
func NewMetrics(registry prometheus.Registerer) *Metrics {
	factory := promauto.With(registry)

	return &Metrics{
		Normalizations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "toolwire_normalizations_total",
				Help: "Total number of normalizer runs by kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
		NormalizeDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "toolwire_normalize_duration_seconds",
				Help:    "Normalizer run duration in seconds",
				Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
			},
			[]string{"kind"},
		),
		InputBytes: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "toolwire_normalize_input_bytes",
				Help:    "Size of raw tool output handed to a normalizer",
				Buckets: prometheus.ExponentialBuckets(256, 4, 8),
			},
			[]string{"kind"},
		),

		Extractions: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "toolwire_extractions_total",
				Help: "Total number of model responses scanned for tool calls",
			},
		),
		ToolCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "toolwire_tool_calls_total",
				Help: "Total number of extracted tool calls by encoding",
			},
			[]string{"encoding"},
		),
		CallWarnings: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "toolwire_tool_call_warnings_total",
				Help: "Total number of catalog warnings on extracted calls",
			},
			[]string{"tool"},
		),

		GateRuns: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "toolwire_gate_runs_total",
				Help: "Total number of quality gate evaluations",
			},
			[]string{"passed"},
		),
		GateChecks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "toolwire_gate_checks_total",
				Help: "Total number of quality gate checks by result",
			},
			[]string{"check", "result"},
		),

		Errors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "toolwire_errors_total",
				Help: "Total number of errors by error code",
			},
			[]string{"error_code", "command"},
		),
	}
}

// Outcome classifies a result header. A diagnostic wins over success.
func Outcome(s envelope.Status) string {
	switch {
	case s.HasDiagnostic():
		return OutcomeDiagnostic
	case s.Success:
		return OutcomeSuccess
	default:
		return OutcomeFailure
	}
}

// ObserveNormalize records one normalizer run.
func (m *Metrics) ObserveNormalize(kind string, inputBytes int, seconds float64, status envelope.Status) {
	m.Normalizations.WithLabelValues(kind, Outcome(status)).Inc()
	m.NormalizeDuration.WithLabelValues(kind).Observe(seconds)
	m.InputBytes.WithLabelValues(kind).Observe(float64(inputBytes))
}

// ObserveExtraction records the calls of one extraction.
func (m *Metrics) ObserveExtraction(x toolcall.Extraction) {
	m.Extractions.Inc()
	for _, c := range x.Calls {
		m.ToolCalls.WithLabelValues(string(c.Encoding)).Inc()
		if len(c.Warnings) > 0 {
			m.CallWarnings.WithLabelValues(c.Name).Add(float64(len(c.Warnings)))
		}
	}
}

// ObserveGate records a gate verdict and each of its checks.
func (m *Metrics) ObserveGate(r eval.GateReport) {
	passed := "false"
	if r.AllPassed {
		passed = "true"
	}
	m.GateRuns.WithLabelValues(passed).Inc()
	for _, c := range r.Checks {
		result := "failed"
		switch {
		case c.Skipped:
			result = "skipped"
		case c.Passed:
			result = "passed"
		}
		m.GateChecks.WithLabelValues(c.Name, result).Inc()
	}
}
