// Package domain contains pure, dependency-free domain models and types
// for the election engine.
package domain

import (
	"fmt"
	"maps"
	"slices"
)

// Profile is an immutable preference profile: a fixed candidate set, a fixed
// voter set, and one total order over the candidates for every voter.
// Candidate order is the canonical iteration order used wherever enumeration
// order affects determinism (for example tie enumeration).
// A Profile is safe for concurrent use by multiple readers.
type Profile[C, V comparable] struct {
	candidates []C
	voters     []V
	// rankings holds each voter's ranking, most preferred first.
	rankings map[V][]C
	// positions maps voter -> candidate -> zero-based rank.
	positions map[V]map[C]int
}

// NewProfile builds a Profile from caller-supplied data. All inputs are
// copied, so later changes to the arguments do not affect the profile.
//
// It returns an error wrapping ErrInvalidProfile if the candidate or voter
// list is empty or contains duplicates, if a voter has no ranking, if a
// ranking belongs to an unknown voter, or if a ranking is not a permutation
// of the candidate set.
func NewProfile[C, V comparable](candidates []C, voters []V, rankings map[V][]C) (*Profile[C, V], error) {
	verr := NewValidationError("Profile")

	if len(candidates) == 0 {
		verr.AddError("at least one candidate is required")
	}
	if len(voters) == 0 {
		verr.AddError("at least one voter is required")
	}

	candidateSet := make(map[C]struct{}, len(candidates))
	for _, c := range candidates {
		if _, dup := candidateSet[c]; dup {
			verr.AddErrorf("duplicate candidate %v", c)
			continue
		}
		candidateSet[c] = struct{}{}
	}

	voterSet := make(map[V]struct{}, len(voters))
	for _, v := range voters {
		if _, dup := voterSet[v]; dup {
			verr.AddErrorf("duplicate voter %v", v)
			continue
		}
		voterSet[v] = struct{}{}
	}

	for v := range rankings {
		if _, ok := voterSet[v]; !ok {
			verr.AddErrorf("ranking supplied for unknown voter %v", v)
		}
	}

	positions := make(map[V]map[C]int, len(voterSet))
	copied := make(map[V][]C, len(voterSet))
	for _, v := range voters {
		if _, done := positions[v]; done {
			continue
		}
		ranking, ok := rankings[v]
		if !ok {
			verr.AddErrorf("voter %v has no ranking", v)
			continue
		}
		if len(ranking) != len(candidateSet) {
			verr.AddErrorf("voter %v ranks %d candidates, want %d", v, len(ranking), len(candidateSet))
			continue
		}

		pos := make(map[C]int, len(ranking))
		for i, c := range ranking {
			if _, ok := candidateSet[c]; !ok {
				verr.AddErrorf("voter %v ranks unknown candidate %v", v, c)
				break
			}
			if _, dup := pos[c]; dup {
				verr.AddErrorf("voter %v ranks candidate %v more than once", v, c)
				break
			}
			pos[c] = i
		}
		positions[v] = pos
		copied[v] = slices.Clone(ranking)
	}

	if verr.HasErrors() {
		return nil, fmt.Errorf("%w: %w", ErrInvalidProfile, verr)
	}

	return &Profile[C, V]{
		candidates: slices.Clone(candidates),
		voters:     slices.Clone(voters),
		rankings:   copied,
		positions:  positions,
	}, nil
}

// Candidates returns the candidates in canonical order.
// The returned slice is a copy and may be modified by the caller.
func (p *Profile[C, V]) Candidates() []C { return slices.Clone(p.candidates) }

// Voters returns the voters in the order they were supplied.
// The returned slice is a copy and may be modified by the caller.
func (p *Profile[C, V]) Voters() []V { return slices.Clone(p.voters) }

// NumCandidates returns the size of the candidate set.
func (p *Profile[C, V]) NumCandidates() int { return len(p.candidates) }

// NumVoters returns the size of the voter set.
func (p *Profile[C, V]) NumVoters() int { return len(p.voters) }

// HasVoter reports whether v is a voter in this profile.
func (p *Profile[C, V]) HasVoter(v V) bool {
	_, ok := p.positions[v]
	return ok
}

// HasCandidate reports whether c is a candidate in this profile.
func (p *Profile[C, V]) HasCandidate(c C) bool {
	return slices.Contains(p.candidates, c)
}

// Ranking returns a copy of the voter's ranking, most preferred first.
func (p *Profile[C, V]) Ranking(voter V) ([]C, error) {
	ranking, ok := p.rankings[voter]
	if !ok {
		return nil, NewProfileError("Ranking", voter, ErrUnknownVoter)
	}
	return slices.Clone(ranking), nil
}

// GetPreference returns the zero-based position of candidate in voter's
// ranking, where 0 is most preferred and NumCandidates()-1 least preferred.
func (p *Profile[C, V]) GetPreference(candidate C, voter V) (int, error) {
	pos, ok := p.positions[voter]
	if !ok {
		return 0, NewProfileError("GetPreference", voter, ErrUnknownVoter)
	}
	rank, ok := pos[candidate]
	if !ok {
		return 0, NewProfileError("GetPreference", candidate, ErrUnknownCandidate)
	}
	return rank, nil
}

// TopChoice returns the candidate the voter ranks first.
func (p *Profile[C, V]) TopChoice(voter V) (C, error) {
	ranking, ok := p.rankings[voter]
	if !ok {
		var zero C
		return zero, NewProfileError("TopChoice", voter, ErrUnknownVoter)
	}
	return ranking[0], nil
}

// Rankings returns a copy of every voter's ranking keyed by voter.
func (p *Profile[C, V]) Rankings() map[V][]C {
	out := maps.Clone(p.rankings)
	for v, r := range out {
		out[v] = slices.Clone(r)
	}
	return out
}
