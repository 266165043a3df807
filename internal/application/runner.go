package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ahrav/go-ballot/infrastructure/middleware"
	"github.com/ahrav/go-ballot/internal/domain"
	"github.com/ahrav/go-ballot/internal/ports"
)

// DefaultRunnerConcurrency bounds concurrent rule evaluations when Runner
// leaves Concurrency unset.
const DefaultRunnerConcurrency = 4

// Runner evaluates the rules of an election against its shared profile.
// Rules are independent and never mutate the profile, so they run
// concurrently; each rule's own computation stays sequential.
type Runner struct {
	// Concurrency caps the number of rules evaluated at once. Values <= 0
	// use DefaultRunnerConcurrency.
	Concurrency int
	// Metrics, when set, wraps every rule in a middleware.InstrumentedRule
	// and receives profile size gauges.
	Metrics ports.MetricsCollector
	// Logger receives structured progress logs. Nil uses slog.Default().
	Logger *slog.Logger
}

// Run evaluates every configured rule and returns the outcomes in
// configuration order. The first failure cancels the remaining rules and
// is returned.
func (r Runner) Run(ctx context.Context, election *Election) ([]domain.Outcome[string], error) {
	if election == nil {
		return nil, fmt.Errorf("election cannot be nil")
	}
	return r.run(ctx, election, election.Rules)
}

// RunRules evaluates only the named rules, in the order given.
func (r Runner) RunRules(ctx context.Context, election *Election, ids ...string) ([]domain.Outcome[string], error) {
	if election == nil {
		return nil, fmt.Errorf("election cannot be nil")
	}

	selected := make([]ports.Rule[string, string], 0, len(ids))
	for _, id := range ids {
		rule, ok := election.Rule(id)
		if !ok {
			return nil, ports.NewConfigError("rules", fmt.Errorf("%w: rule %q", ports.ErrConfigNotFound, id))
		}
		selected = append(selected, rule)
	}
	return r.run(ctx, election, selected)
}

func (r Runner) run(
	ctx context.Context,
	election *Election,
	rules []ports.Rule[string, string],
) ([]domain.Outcome[string], error) {
	logger := ResolveLogger(r.Logger)
	profile := election.Profile
	if profile == nil {
		return nil, fmt.Errorf("election has no profile")
	}

	logger.Info("election run started",
		"event", "election_run_started",
		"layer", "application",
		"election", election.Metadata.Name,
		"rules", len(rules),
		"candidates", profile.NumCandidates(),
		"voters", profile.NumVoters(),
	)
	if r.Metrics != nil {
		r.Metrics.RecordGauge(ports.MetricProfileSize, float64(profile.NumCandidates()),
			map[string]string{"election": election.Metadata.Name, "dimension": "candidates"})
		r.Metrics.RecordGauge(ports.MetricProfileSize, float64(profile.NumVoters()),
			map[string]string{"election": election.Metadata.Name, "dimension": "voters"})
	}

	concurrency := r.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultRunnerConcurrency
	}

	start := time.Now()
	outcomes := make([]domain.Outcome[string], len(rules))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, rule := range rules {
		if r.Metrics != nil {
			rule = middleware.NewInstrumentedRule(rule, r.Metrics)
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			outcome, err := rule.Elect(gctx, profile)
			if err != nil {
				logger.Error("rule evaluation failed",
					"event", "election_rule_failed",
					"layer", "application",
					"rule", rule.Name(),
					"method", rule.Method().String(),
					"error", err.Error(),
				)
				return ports.NewRuleError(rule.Name(), "elect", err)
			}
			logger.Debug("rule evaluated",
				"event", "election_rule_evaluated",
				"layer", "application",
				"rule", rule.Name(),
				"method", rule.Method().String(),
				"winner", outcome.Winner,
				"tie_broken", outcome.TieBroken,
			)
			outcomes[i] = outcome
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	logger.Info("election run completed",
		"event", "election_run_completed",
		"layer", "application",
		"election", election.Metadata.Name,
		"rules", len(rules),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return outcomes, nil
}
