// Package middleware provides cross-cutting concerns for the election engine.
package middleware

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ahrav/go-ballot/internal/ports"
)

// Compile-time verification that PrometheusMetrics implements MetricsCollector.
var _ ports.MetricsCollector = (*PrometheusMetrics)(nil)

const unknownLabel = "unknown"

// PrometheusMetrics implements the MetricsCollector interface using Prometheus.
// It exposes rule run counts, tie-break frequency, rule latency, STV round
// distribution and profile size.
type PrometheusMetrics struct {
	ruleRuns         *prometheus.CounterVec
	tieBreaks        *prometheus.CounterVec
	ruleDuration     *prometheus.HistogramVec
	stvRounds        *prometheus.HistogramVec
	profileSize      *prometheus.GaugeVec
	operationCounter *prometheus.CounterVec
	valueHistogram   *prometheus.HistogramVec
	systemGauges     *prometheus.GaugeVec
}

// NewPrometheusMetrics creates a new PrometheusMetrics instance and registers
// all metrics with reg. A nil reg uses the global Prometheus registry.
func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &PrometheusMetrics{
		ruleRuns: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: ports.MetricRuleRuns,
				Help: "Total number of rule evaluations by outcome status.",
			},
			[]string{"rule", "method", "status"},
		),
		tieBreaks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: ports.MetricTieBreaks,
				Help: "Total number of outcomes settled by the tie-break voter.",
			},
			[]string{"rule", "method"},
		),
		ruleDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    ports.MetricRuleDuration,
				Help:    "Execution time of a single rule evaluation.",
				Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
			},
			[]string{"rule", "method"},
		),
		stvRounds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    ports.MetricSTVRounds,
				Help:    "Number of elimination rounds in an STV evaluation.",
				Buckets: prometheus.LinearBuckets(0, 1, 12),
			},
			[]string{"rule"},
		),
		profileSize: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: ports.MetricProfileSize,
				Help: "Number of candidates or voters in the evaluated profile.",
			},
			[]string{"election", "dimension"},
		),

		// Fallbacks for metrics without a dedicated series.
		operationCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "election_operations_total",
				Help: "Total number of other operations performed by the engine.",
			},
			[]string{"operation", "status"},
		),
		valueHistogram: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "election_values",
				Help:    "Distribution of other recorded values.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"metric"},
		),
		systemGauges: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "election_system_state",
				Help: "Current values of other engine gauges.",
			},
			[]string{"metric"},
		),
	}
}

// label returns labels[key], or "unknown" when it is missing or empty.
func label(labels map[string]string, key string) string {
	if v := labels[key]; v != "" {
		return v
	}
	return unknownLabel
}

// RecordLatency implements the MetricsCollector interface by recording
// rule execution latency in a Prometheus histogram.
func (pm *PrometheusMetrics) RecordLatency(
	operation string,
	duration time.Duration,
	labels map[string]string,
) {
	if operation != ports.MetricRuleDuration {
		pm.valueHistogram.WithLabelValues(operation).Observe(duration.Seconds())
		return
	}
	pm.ruleDuration.WithLabelValues(label(labels, "rule"), label(labels, "method")).
		Observe(duration.Seconds())
}

// RecordCounter implements the MetricsCollector interface by incrementing
// Prometheus counters.
func (pm *PrometheusMetrics) RecordCounter(
	metric string, value float64, labels map[string]string,
) {
	switch metric {
	case ports.MetricRuleRuns:
		pm.ruleRuns.WithLabelValues(
			label(labels, "rule"),
			label(labels, "method"),
			label(labels, "status"),
		).Add(value)
	case ports.MetricTieBreaks:
		pm.tieBreaks.WithLabelValues(label(labels, "rule"), label(labels, "method")).Add(value)
	default:
		status, ok := labels["status"]
		if !ok {
			status = "success"
		}
		pm.operationCounter.WithLabelValues(metric, status).Add(value)
	}
}

// RecordGauge implements the MetricsCollector interface by setting
// Prometheus gauge values.
func (pm *PrometheusMetrics) RecordGauge(
	metric string, value float64, labels map[string]string,
) {
	switch metric {
	case ports.MetricProfileSize:
		pm.profileSize.WithLabelValues(label(labels, "election"), label(labels, "dimension")).Set(value)
	default:
		pm.systemGauges.WithLabelValues(metric).Set(value)
	}
}

// RecordHistogram implements the MetricsCollector interface by recording
// values in a Prometheus histogram.
func (pm *PrometheusMetrics) RecordHistogram(
	metric string, value float64, labels map[string]string,
) {
	switch metric {
	case ports.MetricSTVRounds:
		pm.stvRounds.WithLabelValues(label(labels, "rule")).Observe(value)
	default:
		pm.valueHistogram.WithLabelValues(metric).Observe(value)
	}
}
