package rules

import (
	"context"
	"slices"

	"github.com/ahrav/go-ballot/internal/domain"
	"github.com/ahrav/go-ballot/internal/ports"
)

var _ ports.Rule[string, string] = (*STVRule[string, string])(nil)

// STV elects a winner by repeated elimination (single transferable vote with
// a single seat, also known as instant runoff).
//
// Each round every voter supports their most preferred candidate still in
// the running. If the supported counts differ, every candidate holding the
// lowest count is eliminated at once. If all remaining candidates are tied,
// the round collapses to the remaining candidate ranked highest by tieBreak.
// Rounds repeat until one candidate remains.
func STV[C, V comparable](profile *domain.Profile[C, V], tieBreak V) (C, error) {
	winner, _, err := stvRounds(profile, tieBreak)
	return winner, err
}

func stvRounds[C, V comparable](profile *domain.Profile[C, V], tieBreak V) (C, []domain.Round[C], error) {
	var zero C
	if err := requireVoter(profile, "STV", tieBreak); err != nil {
		return zero, nil, err
	}

	remaining := profile.Candidates()
	voters := profile.Voters()
	var rounds []domain.Round[C]

	for len(remaining) > 1 {
		counts := make(map[C]int, len(remaining))
		for _, c := range remaining {
			counts[c] = 0
		}
		for _, v := range voters {
			first, err := favourite(profile, v, remaining)
			if err != nil {
				return zero, nil, err
			}
			counts[first]++
		}

		lo, hi := counts[remaining[0]], counts[remaining[0]]
		for _, n := range counts {
			lo = min(lo, n)
			hi = max(hi, n)
		}

		round := domain.Round[C]{Number: len(rounds) + 1, Counts: counts}
		if lo != hi {
			survivors := make([]C, 0, len(remaining))
			for _, c := range remaining {
				if counts[c] == lo {
					round.Eliminated = append(round.Eliminated, c)
					continue
				}
				survivors = append(survivors, c)
			}
			remaining = survivors
		} else {
			survivor, err := favourite(profile, tieBreak, remaining)
			if err != nil {
				return zero, nil, err
			}
			for _, c := range remaining {
				if c != survivor {
					round.Eliminated = append(round.Eliminated, c)
				}
			}
			remaining = []C{survivor}
			round.Collapsed = true
		}
		round.Remaining = slices.Clone(remaining)
		rounds = append(rounds, round)
	}

	return remaining[0], rounds, nil
}

// STVRule is a configured single transferable vote rule.
type STVRule[C, V comparable] struct {
	baseRule[C, V]
}

// NewSTVRule creates an STVRule with the given tie-break voter.
func NewSTVRule[C, V comparable](name string, tieBreak V) (*STVRule[C, V], error) {
	base, err := newBaseRule[C](name, domain.MethodSTV, tieBreak)
	if err != nil {
		return nil, err
	}
	return &STVRule[C, V]{baseRule: base}, nil
}

// Elect runs the elimination rounds and returns the outcome. Scores hold the
// final round's first-preference counts, and Rounds the full history.
func (r *STVRule[C, V]) Elect(_ context.Context, profile *domain.Profile[C, V]) (domain.Outcome[C], error) {
	winner, rounds, err := stvRounds(profile, r.voter)
	if err != nil {
		return domain.Outcome[C]{}, err
	}

	var (
		scores    map[C]float64
		tieBroken bool
	)
	if n := len(rounds); n > 0 {
		scores = toFloatScores(rounds[n-1].Counts)
		tieBroken = rounds[n-1].Collapsed
	} else {
		// A single candidate is every voter's first choice.
		scores = map[C]float64{winner: float64(profile.NumVoters())}
	}

	out := r.outcome(winner, scores, tieBroken)
	out.Rounds = rounds
	return out, nil
}

// CreateSTVRule is a factory function that creates an STVRule from a
// configuration map. The "tie_break" key is required.
func CreateSTVRule(id string, config map[string]any) (*STVRule[string, string], error) {
	tieBreak, err := IdentifierParam(config, "tie_break")
	if err != nil {
		return nil, err
	}
	return NewSTVRule[string](id, tieBreak)
}
