package application

import (
	"errors"
	"fmt"
	"slices"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/ahrav/go-ballot/infrastructure/rules"
	"github.com/ahrav/go-ballot/internal/domain"
	"github.com/ahrav/go-ballot/internal/ports"
)

// ruleParameterKeys lists the parameters each built-in rule type accepts.
var ruleParameterKeys = map[domain.Method][]string{
	domain.MethodDictatorship: {"dictator"},
	domain.MethodScoring:      {"score_vector", "tie_break"},
	domain.MethodPlurality:    {"tie_break"},
	domain.MethodVeto:         {"tie_break"},
	domain.MethodBorda:        {"tie_break"},
	domain.MethodSTV:          {"tie_break"},
}

// ValidateRuleParameters validates the parameters for a canonical rule
// type, ensuring all required fields are present and values have the right
// shape. Voter references are checked against the profile separately.
// Types registered at runtime outside the built-in set are accepted as-is.
func ValidateRuleParameters(ruleType string, params yaml.Node) error {
	paramMap, err := rules.DecodeParameters(params)
	if err != nil {
		return err
	}

	method := domain.Method(ruleType)
	allowed, builtin := ruleParameterKeys[method]
	if !builtin {
		return nil
	}

	for key := range paramMap {
		if !slices.Contains(allowed, key) {
			return fmt.Errorf("%s does not accept parameter %q", ruleType, key)
		}
	}

	switch method {
	case domain.MethodDictatorship:
		return validateIdentifierParam(ruleType, paramMap, "dictator")
	case domain.MethodScoring:
		if err := validateScoreVectorParam(paramMap); err != nil {
			return err
		}
		return validateIdentifierParam(ruleType, paramMap, "tie_break")
	default:
		return validateIdentifierParam(ruleType, paramMap, "tie_break")
	}
}

// validateIdentifierParam checks that key holds a voter identifier.
func validateIdentifierParam(ruleType string, params map[string]any, key string) error {
	if _, err := rules.IdentifierParam(params, key); err != nil {
		if errors.Is(err, rules.ErrMissingParameter) {
			return fmt.Errorf("%s requires '%s' parameter", ruleType, key)
		}
		return err
	}
	return nil
}

// validateScoreVectorParam checks that score_vector is a non-empty list of
// numbers. Its length is checked against the candidates during semantic
// validation.
func validateScoreVectorParam(params map[string]any) error {
	if _, err := rules.FloatSliceParam(params, "score_vector"); err != nil {
		if errors.Is(err, rules.ErrMissingParameter) {
			return fmt.Errorf("scoring requires 'score_vector' parameter")
		}
		return err
	}
	return nil
}

// registerCustomValidators registers domain-specific validation functions
// with the validator instance: semantic versions and rule type names known
// to the registry.
func registerCustomValidators(v *validator.Validate, registry ports.RuleRegistry) error {
	if err := v.RegisterValidation("semver", validateSemver); err != nil {
		return fmt.Errorf("failed to register semver validator: %w", err)
	}

	ruleType := func(fl validator.FieldLevel) bool {
		_, ok := resolveRuleType(registry, fl.Field().String())
		return ok
	}
	if err := v.RegisterValidation("ruletype", ruleType); err != nil {
		return fmt.Errorf("failed to register ruletype validator: %w", err)
	}

	return nil
}

// typeResolver is implemented by registries that understand aliases.
type typeResolver interface {
	Resolve(ruleType string) (string, bool)
}

// resolveRuleType maps a configured type name to the canonical name the
// registry knows it by.
func resolveRuleType(registry ports.RuleRegistry, ruleType string) (string, bool) {
	if r, ok := registry.(typeResolver); ok {
		return r.Resolve(ruleType)
	}
	name := normalizeType(ruleType)
	if slices.Contains(registry.GetSupportedTypes(), name) {
		return name, true
	}
	return "", false
}

// validateSemver validates that a string follows semantic versioning
// format (X.Y.Z where X, Y, Z are non-negative integers).
func validateSemver(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	var major, minor, patch int
	var rest string
	n, _ := fmt.Sscanf(value, "%d.%d.%d%s", &major, &minor, &patch, &rest)
	return n == 3 && major >= 0 && minor >= 0 && patch >= 0
}
