package application

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/go-ballot/internal/domain"
	"github.com/ahrav/go-ballot/internal/ports"
)

const referenceElectionPath = "testdata/reference_election.yaml"

func newTestLoader(t *testing.T) *ElectionLoader {
	t.Helper()
	loader, err := NewElectionLoader(NewDefaultRuleRegistry())
	require.NoError(t, err)
	return loader
}

// minimalElection returns a valid two-candidate election with the given
// rules block appended.
func minimalElection(rules string) string {
	return `
version: "1.0.0"
metadata:
  name: "pair"
candidates: [a, b, c]
voters: [x, y]
ballots:
  - voter: x
    ranking: [a, b, c]
  - voter: y
    ranking: [b, a, c]
rules:
` + rules
}

func TestElectionLoader_LoadFromFile(t *testing.T) {
	loader := newTestLoader(t)

	election, err := loader.LoadFromFile(context.Background(), referenceElectionPath)
	require.NoError(t, err)

	assert.Equal(t, "reference", election.Metadata.Name)
	assert.NotEmpty(t, election.Hash)
	assert.Equal(t, []string{"1", "2", "3", "4", "5", "6"}, election.Profile.Candidates())
	assert.Equal(t, 6, election.Profile.NumVoters())

	rank, err := election.Profile.GetPreference("4", "1")
	require.NoError(t, err)
	assert.Equal(t, 5, rank)

	names := make([]string, 0, len(election.Rules))
	for _, r := range election.Rules {
		names = append(names, r.Name())
	}
	assert.Equal(t, []string{"dictator", "positional", "plurality", "veto", "borda", "runoff"}, names)

	runoff, ok := election.Rule("runoff")
	require.True(t, ok)
	assert.Equal(t, domain.MethodSTV, runoff.Method())

	_, ok = election.Rule("missing")
	assert.False(t, ok)
}

func TestElectionLoader_LoadFromFile_Missing(t *testing.T) {
	loader := newTestLoader(t)

	_, err := loader.LoadFromFile(context.Background(), filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestElectionLoader_LoadFromReader(t *testing.T) {
	tests := []struct {
		name       string
		yaml       string
		wantErrMsg string
		wantIs     error
	}{
		{
			name: "valid election",
			yaml: minimalElection(`
  - id: p
    type: plurality
    parameters:
      tie_break: x
`),
		},
		{
			name: "unknown top-level field",
			yaml: minimalElection(`
  - id: p
    type: plurality
    parameters:
      tie_break: x
`) + "extra: true\n",
			wantErrMsg: "field extra not found",
		},
		{
			name:       "malformed yaml",
			yaml:       "version: [",
			wantErrMsg: "failed to parse YAML",
		},
		{
			name: "bad version",
			yaml: strings.Replace(minimalElection(`
  - id: p
    type: plurality
    parameters:
      tie_break: x
`), `"1.0.0"`, `"one"`, 1),
			wantErrMsg: "semver",
		},
		{
			name:       "no rules",
			yaml:       minimalElection("  []\n"),
			wantErrMsg: "struct validation failed",
		},
		{
			name: "unknown rule type",
			yaml: minimalElection(`
  - id: p
    type: condorcet
    parameters:
      tie_break: x
`),
			wantErrMsg: "ruletype",
		},
		{
			name: "duplicate rule id",
			yaml: minimalElection(`
  - id: p
    type: plurality
    parameters:
      tie_break: x
  - id: p
    type: borda
    parameters:
      tie_break: x
`),
			wantErrMsg: `duplicate rule ID "p"`,
		},
		{
			name: "missing tie break",
			yaml: minimalElection(`
  - id: p
    type: veto
`),
			wantErrMsg: "veto requires 'tie_break' parameter",
		},
		{
			name: "unknown tie-break voter",
			yaml: minimalElection(`
  - id: p
    type: borda
    parameters:
      tie_break: z
`),
			wantIs:     domain.ErrUnknownVoter,
			wantErrMsg: "rules[0].parameters.tie_break",
		},
		{
			name: "unknown dictator",
			yaml: minimalElection(`
  - id: d
    type: dictatorship
    parameters:
      dictator: 7
`),
			wantIs: domain.ErrUnknownVoter,
		},
		{
			name: "score vector length mismatch",
			yaml: minimalElection(`
  - id: s
    type: positional
    parameters:
      score_vector: [1, 0]
      tie_break: x
`),
			wantIs:     domain.ErrInvalidScoreVector,
			wantErrMsg: "got 2 weights for 3 candidates",
		},
		{
			name: "duplicate ballot",
			yaml: strings.Replace(minimalElection(`
  - id: p
    type: plurality
    parameters:
      tie_break: x
`), "voter: y", "voter: x", 1),
			wantErrMsg: `voter "x" already cast ballot 0`,
		},
		{
			name: "partial ranking",
			yaml: strings.Replace(minimalElection(`
  - id: p
    type: plurality
    parameters:
      tie_break: x
`), "ranking: [b, a, c]", "ranking: [b, a]", 1),
			wantIs:     domain.ErrInvalidProfile,
			wantErrMsg: "voter y ranks 2 candidates, want 3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader := newTestLoader(t)

			election, err := loader.LoadFromReader(context.Background(), strings.NewReader(tt.yaml))
			if tt.wantErrMsg == "" && tt.wantIs == nil {
				require.NoError(t, err)
				require.NotNil(t, election)
				return
			}
			require.Error(t, err)
			assert.Nil(t, election)
			if tt.wantIs != nil {
				assert.ErrorIs(t, err, tt.wantIs)
			}
			assert.Contains(t, err.Error(), tt.wantErrMsg)
		})
	}
}

func TestElectionLoader_SemanticErrorsAreConfigErrors(t *testing.T) {
	loader := newTestLoader(t)

	_, err := loader.LoadFromReader(context.Background(), strings.NewReader(minimalElection(`
  - id: p
    type: borda
    parameters:
      tie_break: nobody
`)))
	require.Error(t, err)

	var cfgErr *ports.ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "rules[0].parameters.tie_break", cfgErr.ConfigKey)
}

func TestElectionLoader_Caching(t *testing.T) {
	loader := newTestLoader(t)
	ctx := context.Background()

	src := minimalElection(`
  - id: p
    type: plurality
    parameters:
      tie_break: x
`)
	// Same document, different formatting.
	reformatted := strings.ReplaceAll(src, "ranking: [a, b, c]", "ranking:\n      - a\n      - b\n      - c")

	first, err := loader.LoadFromReader(ctx, strings.NewReader(src))
	require.NoError(t, err)
	second, err := loader.LoadFromReader(ctx, strings.NewReader(src))
	require.NoError(t, err)
	assert.Same(t, first, second, "identical documents share a cache entry")

	third, err := loader.LoadFromReader(ctx, strings.NewReader(reformatted))
	require.NoError(t, err)
	assert.Equal(t, first.Hash, third.Hash, "formatting does not change the hash")

	loader.ClearCache()
	fourth, err := loader.LoadFromReader(ctx, strings.NewReader(src))
	require.NoError(t, err)
	assert.NotSame(t, first, fourth)
	assert.Equal(t, first.Hash, fourth.Hash)
}

func TestElectionLoader_ConcurrentLoads(t *testing.T) {
	loader := newTestLoader(t)
	data, err := os.ReadFile(referenceElectionPath)
	require.NoError(t, err)

	const workers = 16
	results := make([]*Election, workers)

	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			election, err := loader.LoadFromReader(context.Background(), strings.NewReader(string(data)))
			assert.NoError(t, err)
			results[i] = election
		}()
	}
	wg.Wait()

	for _, e := range results[1:] {
		assert.Same(t, results[0], e)
	}
}

func TestElectionLoader_CanceledContext(t *testing.T) {
	loader := newTestLoader(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := loader.LoadFromFile(ctx, referenceElectionPath)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewElectionLoader_NilRegistry(t *testing.T) {
	_, err := NewElectionLoader(nil)
	assert.Error(t, err)
}

// identifierElection builds a two-candidate election whose first voter is
// written as the unquoted token voter, referenced by tieBreak and dictator.
func identifierElection(voter, tieBreak, dictator string) string {
	return `
version: "1.0.0"
metadata:
  name: identifiers
candidates: [a, b]
voters: [` + voter + `, z]
ballots:
  - voter: ` + voter + `
    ranking: [b, a]
  - voter: z
    ranking: [a, b]
rules:
  - id: p
    type: plurality
    parameters:
      tie_break: ` + tieBreak + `
  - id: d
    type: dictatorship
    parameters:
      dictator: ` + dictator + `
`
}

func TestElectionLoader_IdentifiersMatchVoterList(t *testing.T) {
	for _, token := range []string{"01", "0x2", "1e3", "+5", "18446744073709551615", "7", "true"} {
		t.Run(token, func(t *testing.T) {
			election, err := newTestLoader(t).LoadFromReader(context.Background(),
				strings.NewReader(identifierElection(token, token, token)))
			require.NoError(t, err)
			assert.True(t, election.Profile.HasVoter(token))

			outcomes, err := Runner{Logger: discardLogger()}.Run(context.Background(), election)
			require.NoError(t, err)
			require.Len(t, outcomes, 2)
			assert.Equal(t, "b", outcomes[0].Winner, "a 1-1 plurality tie goes to the tie-break voter's favourite")
			assert.True(t, outcomes[0].TieBroken)
			assert.Equal(t, "b", outcomes[1].Winner)
		})
	}
}

func TestElectionLoader_IdentifiersAreNotNormalized(t *testing.T) {
	tests := []struct {
		name     string
		voter    string
		tieBreak string
		dictator string
		wantKey  string
	}{
		{name: "leading zero dropped", voter: "01", tieBreak: "1", dictator: "01", wantKey: "rules[0].parameters.tie_break"},
		{name: "hex written as decimal", voter: "0x2", tieBreak: "0x2", dictator: "2", wantKey: "rules[1].parameters.dictator"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newTestLoader(t).LoadFromReader(context.Background(),
				strings.NewReader(identifierElection(tt.voter, tt.tieBreak, tt.dictator)))
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrUnknownVoter)

			var cfgErr *ports.ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.wantKey, cfgErr.ConfigKey)
		})
	}
}
