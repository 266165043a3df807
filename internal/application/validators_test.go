package application

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func paramsNode(t *testing.T, src string) yaml.Node {
	t.Helper()
	var doc yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte(src), &doc))
	if len(doc.Content) == 0 {
		return yaml.Node{}
	}
	return *doc.Content[0]
}

func TestValidateRuleParameters(t *testing.T) {
	tests := []struct {
		name     string
		ruleType string
		params   string
		wantErr  string
	}{
		{name: "plurality with tie break", ruleType: "plurality", params: "tie_break: v1"},
		{name: "numeric tie break", ruleType: "borda", params: "tie_break: 3"},
		{name: "leading zero tie break", ruleType: "borda", params: "tie_break: 01"},
		{name: "null tie break", ruleType: "plurality", params: "tie_break: ~", wantErr: "plurality requires 'tie_break' parameter"},
		{name: "stv missing tie break", ruleType: "stv", params: "", wantErr: "stv requires 'tie_break' parameter"},
		{name: "veto empty tie break", ruleType: "veto", params: `tie_break: ""`, wantErr: "tie_break cannot be empty"},
		{name: "tie break must be scalar", ruleType: "plurality", params: "tie_break: [a]", wantErr: "tie_break must be a voter identifier"},
		{name: "unknown key", ruleType: "borda", params: "tie_break: a\nweights: [1]", wantErr: `borda does not accept parameter "weights"`},
		{name: "dictatorship", ruleType: "dictatorship", params: "dictator: v2"},
		{name: "dictatorship needs dictator", ruleType: "dictatorship", params: "tie_break: v2", wantErr: `dictatorship does not accept parameter "tie_break"`},
		{name: "dictatorship without params", ruleType: "dictatorship", params: "", wantErr: "dictatorship requires 'dictator' parameter"},
		{name: "scoring", ruleType: "scoring", params: "score_vector: [2, 1, 0]\ntie_break: v1"},
		{name: "scoring without vector", ruleType: "scoring", params: "tie_break: v1", wantErr: "scoring requires 'score_vector' parameter"},
		{name: "scoring empty vector", ruleType: "scoring", params: "score_vector: []\ntie_break: v1", wantErr: "score_vector cannot be empty"},
		{name: "scoring non numeric weight", ruleType: "scoring", params: "score_vector: [1, x]\ntie_break: v1", wantErr: "score_vector[1] must be a number"},
		{name: "scoring vector not a list", ruleType: "scoring", params: "score_vector: 3\ntie_break: v1", wantErr: "score_vector must be a list of numbers"},
		{name: "custom type accepts anything", ruleType: "approval", params: "anything: [1, 2]"},
		{name: "parameters must be a mapping", ruleType: "plurality", params: "[1, 2]", wantErr: "failed to decode parameters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRuleParameters(tt.ruleType, paramsNode(t, tt.params))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestCustomValidators(t *testing.T) {
	v := validator.New()
	require.NoError(t, registerCustomValidators(v, NewDefaultRuleRegistry()))

	type sample struct {
		Version string `validate:"semver"`
		Type    string `validate:"ruletype"`
	}

	tests := []struct {
		name    string
		input   sample
		wantErr bool
	}{
		{name: "valid", input: sample{Version: "1.2.3", Type: "borda"}},
		{name: "alias with case", input: sample{Version: "0.0.1", Type: "Instant_Runoff"}},
		{name: "short version", input: sample{Version: "1.0", Type: "borda"}, wantErr: true},
		{name: "version suffix", input: sample{Version: "1.0.0-rc1", Type: "borda"}, wantErr: true},
		{name: "negative version", input: sample{Version: "-1.0.0", Type: "borda"}, wantErr: true},
		{name: "unknown type", input: sample{Version: "1.0.0", Type: "condorcet"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}
