package application

import (
	"fmt"
	"slices"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/cases"

	"github.com/ahrav/go-ballot/infrastructure/rules"
	"github.com/ahrav/go-ballot/internal/domain"
	"github.com/ahrav/go-ballot/internal/ports"
)

// Verify interface compliance at compile time.
var _ ports.RuleRegistry = (*DefaultRuleRegistry)(nil)

// DefaultRuleRegistry implements the RuleRegistry interface providing
// a factory for creating election rules based on type and configuration.
// Type names are matched case-insensitively and may be aliases of a
// registered type.
type DefaultRuleRegistry struct {
	// factories maps canonical rule type names to their factory functions.
	factories map[string]ports.RuleFactory
	// aliases maps alternative type names to canonical ones.
	aliases map[string]string
	// mu protects concurrent access to factories and aliases.
	mu sync.RWMutex
}

// NewDefaultRuleRegistry creates a new rule registry with the six built-in
// rule types and their common aliases pre-registered.
func NewDefaultRuleRegistry() *DefaultRuleRegistry {
	registry := &DefaultRuleRegistry{
		factories: make(map[string]ports.RuleFactory),
		aliases:   make(map[string]string),
	}

	registry.registerBuiltinFactories()

	return registry
}

// registerBuiltinFactories registers the standard rule types provided by
// the engine.
func (r *DefaultRuleRegistry) registerBuiltinFactories() {
	r.factories[domain.MethodDictatorship.String()] = func(id string, config map[string]any) (ports.Rule[string, string], error) {
		rule, err := rules.CreateDictatorshipRule(id, config)
		if err != nil {
			return nil, err
		}
		return rule, nil
	}

	r.factories[domain.MethodScoring.String()] = func(id string, config map[string]any) (ports.Rule[string, string], error) {
		rule, err := rules.CreatePositionalRule(id, config)
		if err != nil {
			return nil, err
		}
		return rule, nil
	}

	r.factories[domain.MethodPlurality.String()] = func(id string, config map[string]any) (ports.Rule[string, string], error) {
		rule, err := rules.CreatePluralityRule(id, config)
		if err != nil {
			return nil, err
		}
		return rule, nil
	}

	r.factories[domain.MethodVeto.String()] = func(id string, config map[string]any) (ports.Rule[string, string], error) {
		rule, err := rules.CreateVetoRule(id, config)
		if err != nil {
			return nil, err
		}
		return rule, nil
	}

	r.factories[domain.MethodBorda.String()] = func(id string, config map[string]any) (ports.Rule[string, string], error) {
		rule, err := rules.CreateBordaRule(id, config)
		if err != nil {
			return nil, err
		}
		return rule, nil
	}

	r.factories[domain.MethodSTV.String()] = func(id string, config map[string]any) (ports.Rule[string, string], error) {
		rule, err := rules.CreateSTVRule(id, config)
		if err != nil {
			return nil, err
		}
		return rule, nil
	}

	r.aliases["irv"] = domain.MethodSTV.String()
	r.aliases["instant_runoff"] = domain.MethodSTV.String()
	r.aliases["positional"] = domain.MethodScoring.String()
}

// normalizeType folds case and surrounding whitespace so "Plurality" and
// " plurality " name the same type.
func normalizeType(ruleType string) string {
	// Caser values are stateful; one per call keeps the registry safe for
	// concurrent use.
	return cases.Fold().String(strings.TrimSpace(ruleType))
}

// Resolve maps a rule type name or alias to its canonical registered type.
func (r *DefaultRuleRegistry) Resolve(ruleType string) (string, bool) {
	name := normalizeType(ruleType)

	r.mu.RLock()
	defer r.mu.RUnlock()

	if target, ok := r.aliases[name]; ok {
		name = target
	}
	if _, ok := r.factories[name]; !ok {
		return "", false
	}
	return name, true
}

// CreateRule creates a new rule instance based on the provided type,
// identifier, and configuration.
// Unknown types fail with ports.ErrUnsupportedRuleType and, when a
// registered name is close enough, a suggestion.
func (r *DefaultRuleRegistry) CreateRule(
	ruleType string,
	id string,
	config map[string]any,
) (ports.Rule[string, string], error) {
	canonical, ok := r.Resolve(ruleType)
	if !ok {
		if suggestion := r.Suggest(ruleType); suggestion != "" {
			return nil, fmt.Errorf("%w: %s (did you mean %q?)", ports.ErrUnsupportedRuleType, ruleType, suggestion)
		}
		return nil, fmt.Errorf("%w: %s", ports.ErrUnsupportedRuleType, ruleType)
	}

	if id == "" {
		return nil, fmt.Errorf("rule ID cannot be empty")
	}

	if config == nil {
		config = make(map[string]any)
	}

	r.mu.RLock()
	factory := r.factories[canonical]
	r.mu.RUnlock()

	rule, err := factory(id, config)
	if err != nil {
		return nil, ports.NewRuleError(id, "create", fmt.Errorf("type %s: %w", canonical, err))
	}

	return rule, nil
}

// RegisterRuleFactory registers a new factory function for a specific rule
// type. Registering an existing type replaces its factory.
func (r *DefaultRuleRegistry) RegisterRuleFactory(
	ruleType string,
	factory ports.RuleFactory,
) error {
	name := normalizeType(ruleType)
	if name == "" {
		return fmt.Errorf("rule type cannot be empty")
	}

	if factory == nil {
		return fmt.Errorf("factory function cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, isAlias := r.aliases[name]; isAlias {
		return fmt.Errorf("rule type %s is already registered as an alias", name)
	}
	r.factories[name] = factory
	return nil
}

// RegisterAlias makes alias resolve to an already registered rule type.
func (r *DefaultRuleRegistry) RegisterAlias(alias, ruleType string) error {
	name := normalizeType(alias)
	target := normalizeType(ruleType)
	if name == "" {
		return fmt.Errorf("alias cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.factories[target]; !ok {
		return fmt.Errorf("%w: %s", ports.ErrUnsupportedRuleType, ruleType)
	}
	if _, ok := r.factories[name]; ok {
		return fmt.Errorf("alias %s shadows a registered rule type", name)
	}
	r.aliases[name] = target
	return nil
}

// GetSupportedTypes returns every registered rule type and alias, sorted.
func (r *DefaultRuleRegistry) GetSupportedTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.factories)+len(r.aliases))
	for ruleType := range r.factories {
		types = append(types, ruleType)
	}
	for alias := range r.aliases {
		types = append(types, alias)
	}
	slices.Sort(types)

	return types
}

// Suggest returns the registered type or alias closest to ruleType by edit
// distance, or "" when nothing is close. A name is close when at most a
// third of its runes (and at least two) need to change.
func (r *DefaultRuleRegistry) Suggest(ruleType string) string {
	name := normalizeType(ruleType)
	if name == "" {
		return ""
	}

	best, bestDistance := "", -1
	for _, candidate := range r.GetSupportedTypes() {
		d := levenshtein.ComputeDistance(name, candidate)
		if bestDistance < 0 || d < bestDistance {
			best, bestDistance = candidate, d
		}
	}

	limit := max(2, utf8.RuneCountInString(name)/3)
	if bestDistance < 0 || bestDistance > limit {
		return ""
	}
	return best
}
