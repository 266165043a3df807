package ports

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ahrav/go-ballot/internal/domain"
)

// TestRuleError tests the functionality of the RuleError error type.
// It verifies the error message format and that the wrapped error is reachable.
func TestRuleError(t *testing.T) {
	tests := []struct {
		name      string
		rule      string
		operation string
		err       error
		wantMsg   string
	}{
		{
			name:      "elect failure",
			rule:      "runoff",
			operation: "elect",
			err:       domain.ErrUnknownVoter,
			wantMsg:   "rule error: rule=runoff, operation=elect, err=unknown voter",
		},
		{
			name:      "create failure",
			rule:      "positional",
			operation: "create",
			err:       domain.ErrInvalidScoreVector,
			wantMsg:   "rule error: rule=positional, operation=create, err=" + domain.ErrInvalidScoreVector.Error(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewRuleError(tt.rule, tt.operation, tt.err)

			assert.Equal(t, tt.wantMsg, err.Error())
			assert.Equal(t, tt.rule, err.Rule)
			assert.Equal(t, tt.operation, err.Operation)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

// TestConfigError tests the functionality of the ConfigError error type.
// It verifies that the error message is formatted correctly and contains the relevant configuration key.
func TestConfigError(t *testing.T) {
	err := NewConfigError("rules[2].parameters.tie_break", ErrConfigNotFound)

	assert.Equal(t, "config error: key=rules[2].parameters.tie_break, err=configuration not found", err.Error())
	assert.Equal(t, "rules[2].parameters.tie_break", err.ConfigKey)
	assert.ErrorIs(t, err, ErrConfigNotFound)
}

// TestCommonInfrastructureErrors tests that the common infrastructure errors are defined.
func TestCommonInfrastructureErrors(t *testing.T) {
	tests := []struct {
		err     error
		message string
	}{
		{ErrUnsupportedRuleType, "unsupported rule type"},
		{ErrConfigNotFound, "configuration not found"},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			assert.Equal(t, tt.message, tt.err.Error())
		})
	}
}

// TestErrorUnwrapping tests that all custom error types in the package support unwrapping.
func TestErrorUnwrapping(t *testing.T) {
	baseErr := errors.New("underlying error")

	errorList := []interface {
		error
		Unwrap() error
	}{
		NewRuleError("rule", "op", baseErr),
		NewConfigError("key", baseErr),
	}

	for _, err := range errorList {
		assert.Equal(t, baseErr, err.Unwrap(), "%T should unwrap to base error", err)
		assert.True(t, errors.Is(err, baseErr), "%T should match base error with Is", err)
	}

	nested := NewConfigError("rules[0]", NewRuleError("p", "create", baseErr))
	var ruleErr *RuleError
	assert.ErrorAs(t, nested, &ruleErr)
	assert.Equal(t, "p", ruleErr.Rule)
	assert.ErrorIs(t, nested, baseErr)
}
