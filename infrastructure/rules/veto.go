package rules

import (
	"context"

	"github.com/ahrav/go-ballot/internal/domain"
	"github.com/ahrav/go-ballot/internal/ports"
)

var _ ports.Rule[string, string] = (*VetoRule[string, string])(nil)

// Veto gives every candidate one point from each voter who does not rank it
// last and elects the highest total, with ties resolved by tieBreak. It is
// equivalent to ScoringRule with weights [1, ..., 1, 0].
func Veto[C, V comparable](profile *domain.Profile[C, V], tieBreak V) (C, error) {
	winner, _, _, err := vetoTally(profile, tieBreak)
	return winner, err
}

func vetoTally[C, V comparable](profile *domain.Profile[C, V], tieBreak V) (C, map[C]int, bool, error) {
	var zero C
	if err := requireVoter(profile, "Veto", tieBreak); err != nil {
		return zero, nil, false, err
	}

	last := profile.NumCandidates() - 1
	points := newTally[C, V, int](profile)
	for _, v := range profile.Voters() {
		for _, c := range profile.Candidates() {
			rank, err := profile.GetPreference(c, v)
			if err != nil {
				return zero, nil, false, err
			}
			if rank != last {
				points[c]++
			}
		}
	}

	winner, tieBroken, err := resolveTie(points, tieBreak, profile)
	if err != nil {
		return zero, nil, false, err
	}
	return winner, points, tieBroken, nil
}

// VetoRule is a configured veto (anti-plurality) rule.
type VetoRule[C, V comparable] struct {
	baseRule[C, V]
}

// NewVetoRule creates a VetoRule with the given tie-break voter.
func NewVetoRule[C, V comparable](name string, tieBreak V) (*VetoRule[C, V], error) {
	base, err := newBaseRule[C](name, domain.MethodVeto, tieBreak)
	if err != nil {
		return nil, err
	}
	return &VetoRule[C, V]{baseRule: base}, nil
}

// Elect tallies veto points and returns the outcome.
func (r *VetoRule[C, V]) Elect(_ context.Context, profile *domain.Profile[C, V]) (domain.Outcome[C], error) {
	winner, points, tieBroken, err := vetoTally(profile, r.voter)
	if err != nil {
		return domain.Outcome[C]{}, err
	}
	return r.outcome(winner, toFloatScores(points), tieBroken), nil
}

// CreateVetoRule is a factory function that creates a VetoRule from a
// configuration map. The "tie_break" key is required.
func CreateVetoRule(id string, config map[string]any) (*VetoRule[string, string], error) {
	tieBreak, err := IdentifierParam(config, "tie_break")
	if err != nil {
		return nil, err
	}
	return NewVetoRule[string](id, tieBreak)
}
