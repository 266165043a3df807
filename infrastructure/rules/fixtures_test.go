package rules

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ahrav/go-ballot/internal/domain"
)

// referenceRankings is the six-voter, six-candidate profile used throughout
// the rule tests.
var referenceRankings = map[int][]int{
	1: {2, 1, 3, 5, 6, 4},
	2: {1, 2, 3, 6, 5, 4},
	3: {1, 2, 3, 4, 5, 6},
	4: {6, 5, 4, 3, 2, 1},
	5: {2, 1, 3, 4, 6, 5},
	6: {5, 6, 3, 4, 1, 2},
}

func referenceProfile(t testing.TB) *domain.Profile[int, int] {
	t.Helper()
	p, err := domain.NewProfile(
		[]int{1, 2, 3, 4, 5, 6},
		[]int{1, 2, 3, 4, 5, 6},
		referenceRankings,
	)
	require.NoError(t, err)
	return p
}

func mustProfile[C, V comparable](t testing.TB, candidates []C, voters []V, rankings map[V][]C) *domain.Profile[C, V] {
	t.Helper()
	p, err := domain.NewProfile(candidates, voters, rankings)
	require.NoError(t, err)
	return p
}

// randomProfile builds a profile with k candidates and n voters whose
// rankings are uniformly random permutations.
func randomProfile(t testing.TB, rng *rand.Rand, k, n int) *domain.Profile[int, int] {
	t.Helper()
	candidates := make([]int, k)
	for i := range candidates {
		candidates[i] = i + 1
	}
	voters := make([]int, n)
	rankings := make(map[int][]int, n)
	for i := range voters {
		voters[i] = 100 + i
		perm := rng.Perm(k)
		ranking := make([]int, k)
		for j, idx := range perm {
			ranking[j] = candidates[idx]
		}
		rankings[voters[i]] = ranking
	}
	return mustProfile(t, candidates, voters, rankings)
}
