// Package ports defines the core interfaces that form the contract between
// the domain/application layers and the infrastructure layer.
// These interfaces enable dependency inversion and make the system testable.
package ports

import (
	"context"

	"github.com/ahrav/go-ballot/internal/domain"
)

// Rule is a configured social-choice rule that elects one candidate from a
// preference profile.
// Rules must be stateless and safe to call concurrently on a shared profile;
// they must never mutate the profile.
type Rule[C, V comparable] interface {
	// Name returns a unique identifier for this rule instance.
	// The name is used for logging, metrics labels, and result reporting.
	Name() string

	// Method returns the rule family implemented by this instance.
	Method() domain.Method

	// Elect runs the rule over the profile and returns the explainable
	// outcome. Lookup failures are returned wrapped around the domain
	// sentinels (domain.ErrUnknownVoter and friends) and are never recovered.
	//
	// Example:
	//
	//	outcome, err := rule.Elect(ctx, profile)
	//	if err != nil {
	//	    return fmt.Errorf("rule %s failed: %w", rule.Name(), err)
	//	}
	Elect(ctx context.Context, profile *domain.Profile[C, V]) (domain.Outcome[C], error)

	// Validate checks that the rule is properly configured. It does not
	// inspect any profile; profile-dependent checks happen in Elect.
	Validate() error
}

// RuleFactory builds a rule from a loosely-typed configuration map, as
// produced by decoding YAML parameters. Identifiers are strings at this
// boundary.
type RuleFactory func(id string, config map[string]any) (Rule[string, string], error)

// RuleRegistry creates rules by type name.
type RuleRegistry interface {
	// CreateRule instantiates a rule of the given type.
	CreateRule(ruleType string, id string, config map[string]any) (Rule[string, string], error)

	// RegisterRuleFactory adds or replaces the factory for a rule type.
	RegisterRuleFactory(ruleType string, factory RuleFactory) error

	// GetSupportedTypes lists every registered type name.
	GetSupportedTypes() []string
}
