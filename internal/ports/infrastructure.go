package ports

import (
	"time"
)

// MetricsCollector defines the interface for collecting operational metrics.
// Implementations should integrate with observability platforms like
// Prometheus, OpenTelemetry, or custom monitoring solutions.
type MetricsCollector interface {
	// RecordLatency records the execution time of an operation.
	// The labels map provides additional context for the metric.
	RecordLatency(operation string, duration time.Duration, labels map[string]string)

	// RecordCounter increments a counter metric.
	// This is useful for tracking events like rule runs, failures and
	// tie-breaks.
	RecordCounter(metric string, value float64, labels map[string]string)

	// RecordGauge sets the current value of a gauge metric.
	// This is useful for tracking values like profile size.
	RecordGauge(metric string, value float64, labels map[string]string)

	// RecordHistogram records a value in a histogram.
	// This is useful for tracking distributions like elimination rounds.
	RecordHistogram(metric string, value float64, labels map[string]string)
}

// NoopMetrics is a MetricsCollector that discards everything.
type NoopMetrics struct{}

// RecordLatency implements MetricsCollector.
func (NoopMetrics) RecordLatency(string, time.Duration, map[string]string) {}

// RecordCounter implements MetricsCollector.
func (NoopMetrics) RecordCounter(string, float64, map[string]string) {}

// RecordGauge implements MetricsCollector.
func (NoopMetrics) RecordGauge(string, float64, map[string]string) {}

// RecordHistogram implements MetricsCollector.
func (NoopMetrics) RecordHistogram(string, float64, map[string]string) {}

// Metric names emitted by the application and middleware layers.
const (
	// MetricRuleRuns counts rule evaluations by rule, method and status.
	MetricRuleRuns = "election_rule_runs_total"
	// MetricTieBreaks counts outcomes that consulted the tie-break voter.
	MetricTieBreaks = "election_tie_breaks_total"
	// MetricRuleDuration is the latency operation name for a rule run.
	MetricRuleDuration = "election_rule_duration_seconds"
	// MetricSTVRounds records the number of elimination rounds per STV run.
	MetricSTVRounds = "election_stv_rounds"
	// MetricProfileSize reports the candidate and voter counts of the
	// profile being evaluated.
	MetricProfileSize = "election_profile_size"
)
