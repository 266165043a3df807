package rules

import (
	"context"
	"fmt"
	"slices"

	"github.com/ahrav/go-ballot/internal/domain"
	"github.com/ahrav/go-ballot/internal/ports"
)

var _ ports.Rule[string, string] = (*PositionalRule[string, string])(nil)

// ScoringRule elects a winner under a general positional scoring rule.
// The weights are sorted in descending order so rank 0 always receives the
// largest weight; the caller's slice is left untouched. Each voter adds
// weight[rank] to every candidate and the highest total wins, with ties
// resolved by tieBreak.
//
// It fails with domain.ErrInvalidScoreVector if the vector length differs
// from the number of candidates or a weight is NaN or infinite.
func ScoringRule[C, V comparable](profile *domain.Profile[C, V], scoreVector []float64, tieBreak V) (C, error) {
	winner, _, _, err := scoringTally(profile, scoreVector, tieBreak)
	return winner, err
}

func scoringTally[C, V comparable](
	profile *domain.Profile[C, V],
	scoreVector []float64,
	tieBreak V,
) (C, map[C]float64, bool, error) {
	var zero C
	if len(scoreVector) != profile.NumCandidates() {
		return zero, nil, false, fmt.Errorf("%w: got %d weights for %d candidates",
			domain.ErrInvalidScoreVector, len(scoreVector), profile.NumCandidates())
	}
	if !finite(scoreVector) {
		return zero, nil, false, fmt.Errorf("%w: weights must be finite", domain.ErrInvalidScoreVector)
	}
	if err := requireVoter(profile, "ScoringRule", tieBreak); err != nil {
		return zero, nil, false, err
	}

	weights := slices.Clone(scoreVector)
	slices.SortFunc(weights, func(a, b float64) int {
		switch {
		case a > b:
			return -1
		case a < b:
			return 1
		}
		return 0
	})

	tally := newTally[C, V, float64](profile)
	for _, v := range profile.Voters() {
		for _, c := range profile.Candidates() {
			rank, err := profile.GetPreference(c, v)
			if err != nil {
				return zero, nil, false, err
			}
			tally[c] += weights[rank]
		}
	}

	winner, tieBroken, err := resolveTie(tally, tieBreak, profile)
	if err != nil {
		return zero, nil, false, err
	}
	return winner, tally, tieBroken, nil
}

// PositionalConfig defines the configuration parameters for a PositionalRule.
type PositionalConfig[V comparable] struct {
	// ScoreVector holds one weight per candidate. Order does not matter; the
	// weights are sorted so the most preferred rank gets the largest.
	ScoreVector []float64 `validate:"required,min=1"`

	// TieBreak is the voter whose ranking settles equal totals.
	TieBreak V
}

// PositionalRule is a configured general positional scoring rule, the
// configured counterpart of ScoringRule.
type PositionalRule[C, V comparable] struct {
	baseRule[C, V]
	scoreVector []float64
}

// NewPositionalRule creates a PositionalRule with the given configuration.
// The vector length is checked against the candidate count at election time,
// since the profile is not known here.
func NewPositionalRule[C, V comparable](name string, config PositionalConfig[V]) (*PositionalRule[C, V], error) {
	base, err := newBaseRule[C](name, domain.MethodScoring, config.TieBreak)
	if err != nil {
		return nil, err
	}
	r := &PositionalRule[C, V]{
		baseRule:    base,
		scoreVector: slices.Clone(config.ScoreVector),
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// ScoreVector returns a copy of the configured weights.
func (r *PositionalRule[C, V]) ScoreVector() []float64 { return slices.Clone(r.scoreVector) }

// Elect runs the scoring rule over the profile.
func (r *PositionalRule[C, V]) Elect(_ context.Context, profile *domain.Profile[C, V]) (domain.Outcome[C], error) {
	winner, tally, tieBroken, err := scoringTally(profile, r.scoreVector, r.voter)
	if err != nil {
		return domain.Outcome[C]{}, err
	}
	return r.outcome(winner, tally, tieBroken), nil
}

// Validate checks the rule identity and the score vector.
func (r *PositionalRule[C, V]) Validate() error {
	if err := r.baseRule.Validate(); err != nil {
		return err
	}
	config := PositionalConfig[V]{ScoreVector: r.scoreVector, TieBreak: r.voter}
	if err := validate.Struct(config); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	if !finite(r.scoreVector) {
		return fmt.Errorf("%w: weights must be finite", domain.ErrInvalidScoreVector)
	}
	return nil
}

// CreatePositionalRule is a factory function that creates a
// PositionalRule from a configuration map. It requires "score_vector" and
// "tie_break".
func CreatePositionalRule(id string, config map[string]any) (*PositionalRule[string, string], error) {
	vector, err := FloatSliceParam(config, "score_vector")
	if err != nil {
		return nil, err
	}
	tieBreak, err := IdentifierParam(config, "tie_break")
	if err != nil {
		return nil, err
	}
	return NewPositionalRule[string](id, PositionalConfig[string]{
		ScoreVector: vector,
		TieBreak:    tieBreak,
	})
}
