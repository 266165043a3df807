package testutils

import (
	"fmt"
	"math/rand/v2"
	"strconv"
)

// Cultures supported by GenerateElectionDataset.
const (
	// CultureImpartial draws every ranking uniformly from all permutations.
	CultureImpartial = "impartial"
	// CultureSinglePeaked draws rankings that are single-peaked on the
	// candidate order: each voter has a favourite and preferences fall off
	// monotonically on either side of it.
	CultureSinglePeaked = "single-peaked"
)

// DatasetVersion is the schema version written into generated documents.
const DatasetVersion = "1.0.0"

// GenerateElectionDataset creates a synthetic election with the given
// number of candidates and voters. Candidates and voters are named "1".."n".
// The seed controls randomization; a fixed value gives reproducible output.
func GenerateElectionDataset(candidates, voters int, culture string, seed uint64) (*ElectionDataset, error) {
	if candidates < 1 {
		return nil, fmt.Errorf("at least one candidate is required, got %d", candidates)
	}
	if voters < 1 {
		return nil, fmt.Errorf("at least one voter is required, got %d", voters)
	}

	var draw func(*rand.Rand, []string) []string
	switch culture {
	case CultureImpartial, "":
		culture = CultureImpartial
		draw = impartialRanking
	case CultureSinglePeaked:
		draw = singlePeakedRanking
	default:
		return nil, fmt.Errorf("unknown culture %q", culture)
	}

	rng := rand.New(rand.NewPCG(seed, seed))

	d := &ElectionDataset{
		Version: DatasetVersion,
		Metadata: DatasetMetadata{
			Name: fmt.Sprintf("Synthetic %s election", culture),
			Description: fmt.Sprintf("%d candidates and %d voters drawn from the %s culture. Generated for testing.",
				candidates, voters, culture),
			Tags: []string{"synthetic", culture, "seed-" + strconv.FormatUint(seed, 10)},
		},
		Candidates: identifiers(candidates),
		Voters:     identifiers(voters),
		Ballots:    make([]DatasetBallot, 0, voters),
	}

	for _, v := range d.Voters {
		d.Ballots = append(d.Ballots, DatasetBallot{Voter: v, Ranking: draw(rng, d.Candidates)})
	}
	d.Rules = DefaultDatasetRules(d.Candidates, d.Voters)

	return d, nil
}

// DefaultDatasetRules returns one rule of every built-in type. The first
// voter acts as dictator and tie-break voter, and the scoring rule uses
// Borda weights.
func DefaultDatasetRules(candidates, voters []string) []DatasetRule {
	first := voters[0]

	weights := make([]int, len(candidates))
	for i := range weights {
		weights[i] = len(candidates) - 1 - i
	}

	return []DatasetRule{
		{ID: "dictator", Type: "dictatorship", Parameters: map[string]any{"dictator": first}},
		{ID: "positional", Type: "scoring", Parameters: map[string]any{"score_vector": weights, "tie_break": first}},
		{ID: "plurality", Type: "plurality", Parameters: map[string]any{"tie_break": first}},
		{ID: "veto", Type: "veto", Parameters: map[string]any{"tie_break": first}},
		{ID: "borda", Type: "borda", Parameters: map[string]any{"tie_break": first}},
		{ID: "runoff", Type: "stv", Parameters: map[string]any{"tie_break": first}},
	}
}

func identifiers(n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = strconv.Itoa(i + 1)
	}
	return ids
}

func impartialRanking(rng *rand.Rand, candidates []string) []string {
	ranking := make([]string, len(candidates))
	for i, j := range rng.Perm(len(candidates)) {
		ranking[i] = candidates[j]
	}
	return ranking
}

func singlePeakedRanking(rng *rand.Rand, candidates []string) []string {
	peak := rng.IntN(len(candidates))
	ranking := make([]string, 0, len(candidates))
	ranking = append(ranking, candidates[peak])

	left, right := peak-1, peak+1
	for left >= 0 || right < len(candidates) {
		takeLeft := right >= len(candidates) || (left >= 0 && rng.IntN(2) == 0)
		if takeLeft {
			ranking = append(ranking, candidates[left])
			left--
		} else {
			ranking = append(ranking, candidates[right])
			right++
		}
	}
	return ranking
}
