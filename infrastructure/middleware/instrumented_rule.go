package middleware

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ahrav/go-ballot/internal/domain"
	"github.com/ahrav/go-ballot/internal/ports"
)

var _ ports.Rule[string, string] = (*InstrumentedRule[string, string])(nil)

// InstrumentedRule decorates a rule with an OpenTelemetry span and metrics.
// It is stateless apart from its collaborators and safe for concurrent use.
// The wrapped rule's outcome and error are returned unchanged.
type InstrumentedRule[C, V comparable] struct {
	next    ports.Rule[C, V]
	metrics ports.MetricsCollector
}

// NewInstrumentedRule wraps next. A nil metrics collector discards metrics
// and only spans are produced.
func NewInstrumentedRule[C, V comparable](next ports.Rule[C, V], metrics ports.MetricsCollector) *InstrumentedRule[C, V] {
	if next == nil {
		panic("instrumented rule: next rule is required")
	}
	if metrics == nil {
		metrics = ports.NoopMetrics{}
	}
	return &InstrumentedRule[C, V]{next: next, metrics: metrics}
}

// Name returns the wrapped rule's name.
func (ir *InstrumentedRule[C, V]) Name() string { return ir.next.Name() }

// Method returns the wrapped rule's method.
func (ir *InstrumentedRule[C, V]) Method() domain.Method { return ir.next.Method() }

// Validate delegates to the wrapped rule.
func (ir *InstrumentedRule[C, V]) Validate() error { return ir.next.Validate() }

// Unwrap returns the decorated rule.
func (ir *InstrumentedRule[C, V]) Unwrap() ports.Rule[C, V] { return ir.next }

// startSpan creates a new OpenTelemetry span with common attributes.
func (ir *InstrumentedRule[C, V]) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := otel.Tracer("election-rule")
	ctx, span := tracer.Start(ctx, name)

	span.SetAttributes(
		attribute.String("rule.name", ir.next.Name()),
		attribute.String("rule.method", ir.next.Method().String()),
	)
	span.SetAttributes(attrs...)

	return ctx, span
}

// Elect runs the wrapped rule inside a span and records its latency, run
// status, tie-breaks and, for STV, the number of elimination rounds.
func (ir *InstrumentedRule[C, V]) Elect(ctx context.Context, profile *domain.Profile[C, V]) (domain.Outcome[C], error) {
	var attrs []attribute.KeyValue
	if profile != nil {
		attrs = append(attrs,
			attribute.Int("profile.candidates", profile.NumCandidates()),
			attribute.Int("profile.voters", profile.NumVoters()),
		)
	}
	ctx, span := ir.startSpan(ctx, "InstrumentedRule.Elect", attrs...)
	defer span.End()

	labels := map[string]string{
		"rule":   ir.next.Name(),
		"method": ir.next.Method().String(),
	}

	start := time.Now()
	outcome, err := ir.next.Elect(ctx, profile)
	ir.metrics.RecordLatency(ports.MetricRuleDuration, time.Since(start), labels)

	if err != nil {
		ir.metrics.RecordCounter(ports.MetricRuleRuns, 1, withStatus(labels, "error"))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return outcome, err
	}

	ir.metrics.RecordCounter(ports.MetricRuleRuns, 1, withStatus(labels, "success"))
	if outcome.TieBroken {
		ir.metrics.RecordCounter(ports.MetricTieBreaks, 1, labels)
	}
	if ir.next.Method() == domain.MethodSTV {
		ir.metrics.RecordHistogram(ports.MetricSTVRounds, float64(len(outcome.Rounds)), labels)
	}

	span.SetAttributes(
		attribute.String("outcome.winner", fmt.Sprint(outcome.Winner)),
		attribute.Bool("outcome.tie_broken", outcome.TieBroken),
		attribute.Int("outcome.rounds", len(outcome.Rounds)),
	)
	span.SetStatus(codes.Ok, "")

	return outcome, nil
}

// withStatus returns a copy of labels with the status label set.
func withStatus(labels map[string]string, status string) map[string]string {
	out := make(map[string]string, len(labels)+1)
	for k, v := range labels {
		out[k] = v
	}
	out["status"] = status
	return out
}
