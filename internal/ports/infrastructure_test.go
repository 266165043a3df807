package ports

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNoopMetrics(t *testing.T) {
	var collector MetricsCollector = NoopMetrics{}

	assert.NotPanics(t, func() {
		collector.RecordLatency(MetricRuleDuration, time.Second, nil)
		collector.RecordCounter(MetricRuleRuns, 1, map[string]string{"status": "success"})
		collector.RecordGauge(MetricProfileSize, 6, nil)
		collector.RecordHistogram(MetricSTVRounds, 3, nil)
	})
}

func TestMetricNames(t *testing.T) {
	names := []string{
		MetricRuleRuns,
		MetricTieBreaks,
		MetricRuleDuration,
		MetricSTVRounds,
		MetricProfileSize,
	}

	seen := make(map[string]bool, len(names))
	for _, name := range names {
		assert.True(t, strings.HasPrefix(name, "election_"), "%s should carry the election_ prefix", name)
		assert.False(t, seen[name], "%s is declared twice", name)
		seen[name] = true
	}
	assert.True(t, strings.HasSuffix(MetricRuleRuns, "_total"))
	assert.True(t, strings.HasSuffix(MetricTieBreaks, "_total"))
	assert.True(t, strings.HasSuffix(MetricRuleDuration, "_seconds"))
}
