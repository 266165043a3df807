package rules

import (
	"context"

	"github.com/ahrav/go-ballot/internal/domain"
	"github.com/ahrav/go-ballot/internal/ports"
)

var _ ports.Rule[string, string] = (*PluralityRule[string, string])(nil)

// Plurality elects the candidate ranked first by the most voters, with ties
// resolved by tieBreak. It is equivalent to ScoringRule with weights
// [1, 0, ..., 0].
func Plurality[C, V comparable](profile *domain.Profile[C, V], tieBreak V) (C, error) {
	winner, _, _, err := pluralityTally(profile, tieBreak)
	return winner, err
}

func pluralityTally[C, V comparable](profile *domain.Profile[C, V], tieBreak V) (C, map[C]int, bool, error) {
	var zero C
	if err := requireVoter(profile, "Plurality", tieBreak); err != nil {
		return zero, nil, false, err
	}

	counts := newTally[C, V, int](profile)
	for _, v := range profile.Voters() {
		top, err := profile.TopChoice(v)
		if err != nil {
			return zero, nil, false, err
		}
		counts[top]++
	}

	winner, tieBroken, err := resolveTie(counts, tieBreak, profile)
	if err != nil {
		return zero, nil, false, err
	}
	return winner, counts, tieBroken, nil
}

// PluralityRule is a configured plurality rule.
type PluralityRule[C, V comparable] struct {
	baseRule[C, V]
}

// NewPluralityRule creates a PluralityRule with the given tie-break voter.
func NewPluralityRule[C, V comparable](name string, tieBreak V) (*PluralityRule[C, V], error) {
	base, err := newBaseRule[C](name, domain.MethodPlurality, tieBreak)
	if err != nil {
		return nil, err
	}
	return &PluralityRule[C, V]{baseRule: base}, nil
}

// Elect counts first preferences and returns the outcome.
func (r *PluralityRule[C, V]) Elect(_ context.Context, profile *domain.Profile[C, V]) (domain.Outcome[C], error) {
	winner, counts, tieBroken, err := pluralityTally(profile, r.voter)
	if err != nil {
		return domain.Outcome[C]{}, err
	}
	return r.outcome(winner, toFloatScores(counts), tieBroken), nil
}

// CreatePluralityRule is a factory function that creates a PluralityRule
// from a configuration map. The "tie_break" key is required.
func CreatePluralityRule(id string, config map[string]any) (*PluralityRule[string, string], error) {
	tieBreak, err := IdentifierParam(config, "tie_break")
	if err != nil {
		return nil, err
	}
	return NewPluralityRule[string](id, tieBreak)
}
