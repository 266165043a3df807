package rules

import (
	"fmt"

	"github.com/ahrav/go-ballot/internal/domain"
)

// ResolveTie returns the candidate with the highest score in scores.
// When several candidates share the highest score, the one ranked highest by
// tieBreak wins. Ties are enumerated in the profile's canonical candidate
// order, and candidates missing from scores are ignored.
//
// The tie-break voter is checked up front, so an unknown voter fails with
// domain.ErrUnknownVoter whether or not a tie occurs. An empty tally fails
// with domain.ErrNoScores.
func ResolveTie[C, V comparable, S Score](scores map[C]S, tieBreak V, profile *domain.Profile[C, V]) (C, error) {
	winner, _, err := resolveTie(scores, tieBreak, profile)
	return winner, err
}

// resolveTie is ResolveTie that also reports whether the tie-break voter had
// to be consulted.
func resolveTie[C, V comparable, S Score](
	scores map[C]S,
	tieBreak V,
	profile *domain.Profile[C, V],
) (C, bool, error) {
	var zero C
	if err := requireVoter(profile, "ResolveTie", tieBreak); err != nil {
		return zero, false, err
	}

	ties := make([]C, 0, 1)
	var best S
	for _, c := range profile.Candidates() {
		s, ok := scores[c]
		if !ok {
			continue
		}
		switch {
		case len(ties) == 0 || s > best:
			best = s
			ties = append(ties[:0], c)
		case s == best:
			ties = append(ties, c)
		}
	}

	switch len(ties) {
	case 0:
		return zero, false, domain.ErrNoScores
	case 1:
		return ties[0], false, nil
	}

	winner, err := favourite(profile, tieBreak, ties)
	if err != nil {
		return zero, true, err
	}
	return winner, true, nil
}

// favourite returns the candidate in pool that voter ranks highest.
// Rankings are total orders, so the result is unique.
func favourite[C, V comparable](profile *domain.Profile[C, V], voter V, pool []C) (C, error) {
	var (
		zero     C
		best     C
		bestRank = -1
	)
	for _, c := range pool {
		rank, err := profile.GetPreference(c, voter)
		if err != nil {
			return zero, fmt.Errorf("preference lookup failed: %w", err)
		}
		if bestRank < 0 || rank < bestRank {
			best, bestRank = c, rank
		}
	}
	if bestRank < 0 {
		return zero, domain.ErrNoScores
	}
	return best, nil
}
