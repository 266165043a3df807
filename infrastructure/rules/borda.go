package rules

import (
	"context"

	"github.com/ahrav/go-ballot/internal/domain"
	"github.com/ahrav/go-ballot/internal/ports"
)

var _ ports.Rule[string, string] = (*BordaRule[string, string])(nil)

// Borda awards a candidate k-1-r points for every voter ranking it at
// position r, where k is the number of candidates, and elects the highest
// total with ties resolved by tieBreak. Points are accumulated in a single
// pass over the profile.
func Borda[C, V comparable](profile *domain.Profile[C, V], tieBreak V) (C, error) {
	winner, _, _, err := bordaTally(profile, tieBreak)
	return winner, err
}

func bordaTally[C, V comparable](profile *domain.Profile[C, V], tieBreak V) (C, map[C]int, bool, error) {
	var zero C
	if err := requireVoter(profile, "Borda", tieBreak); err != nil {
		return zero, nil, false, err
	}

	top := profile.NumCandidates() - 1
	points := newTally[C, V, int](profile)
	for _, v := range profile.Voters() {
		for _, c := range profile.Candidates() {
			rank, err := profile.GetPreference(c, v)
			if err != nil {
				return zero, nil, false, err
			}
			points[c] += top - rank
		}
	}

	winner, tieBroken, err := resolveTie(points, tieBreak, profile)
	if err != nil {
		return zero, nil, false, err
	}
	return winner, points, tieBroken, nil
}

// BordaRule is a configured Borda count.
type BordaRule[C, V comparable] struct {
	baseRule[C, V]
}

// NewBordaRule creates a BordaRule with the given tie-break voter.
func NewBordaRule[C, V comparable](name string, tieBreak V) (*BordaRule[C, V], error) {
	base, err := newBaseRule[C](name, domain.MethodBorda, tieBreak)
	if err != nil {
		return nil, err
	}
	return &BordaRule[C, V]{baseRule: base}, nil
}

// Elect computes Borda points and returns the outcome.
func (r *BordaRule[C, V]) Elect(_ context.Context, profile *domain.Profile[C, V]) (domain.Outcome[C], error) {
	winner, points, tieBroken, err := bordaTally(profile, r.voter)
	if err != nil {
		return domain.Outcome[C]{}, err
	}
	return r.outcome(winner, toFloatScores(points), tieBroken), nil
}

// CreateBordaRule is a factory function that creates a BordaRule from a
// configuration map. The "tie_break" key is required.
func CreateBordaRule(id string, config map[string]any) (*BordaRule[string, string], error) {
	tieBreak, err := IdentifierParam(config, "tie_break")
	if err != nil {
		return nil, err
	}
	return NewBordaRule[string](id, tieBreak)
}
