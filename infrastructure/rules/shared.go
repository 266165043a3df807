// Package rules implements the social-choice rules of the election engine:
// dictatorship, general positional scoring, plurality, veto, Borda and
// single transferable vote.
//
// Every rule is available in two forms. The plain generic functions
// (Plurality, Borda, STV, ...) take a profile plus rule parameters and
// return the winning candidate. The configured rule types (PluralityRule,
// BordaRule, ...) implement ports.Rule and return a full domain.Outcome,
// which is what the application layer and the registry work with.
package rules

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"

	"github.com/ahrav/go-ballot/internal/domain"
)

// Score is the set of numeric types a tally may accumulate.
type Score interface {
	~int | ~int64 | ~float64
}

// Common errors returned by rule constructors.
var (
	// ErrEmptyRuleName is returned when attempting to create a rule with an empty name.
	ErrEmptyRuleName = errors.New("rule name cannot be empty")

	// ErrMissingParameter is returned by factories when a required parameter is absent.
	ErrMissingParameter = errors.New("missing required parameter")

	// ErrInvalidParameter is returned by factories when a parameter has the
	// wrong shape.
	ErrInvalidParameter = errors.New("invalid parameter")
)

// Package-level validator instance for configuration validation.
var validate = validator.New()

// ruleMeta carries the identity shared by every configured rule.
type ruleMeta struct {
	Name   string        `validate:"required,max=100"`
	Method domain.Method `validate:"required,oneof=dictatorship scoring plurality veto borda stv"`
}

// baseRule is embedded by every configured rule. Each rule consults one
// designated voter: the dictator for a dictatorship, the tie-break voter for
// every other rule.
type baseRule[C, V comparable] struct {
	meta  ruleMeta
	voter V
}

func newBaseRule[C, V comparable](name string, method domain.Method, voter V) (baseRule[C, V], error) {
	if name == "" {
		return baseRule[C, V]{}, ErrEmptyRuleName
	}
	r := baseRule[C, V]{
		meta:  ruleMeta{Name: name, Method: method},
		voter: voter,
	}
	if err := r.Validate(); err != nil {
		return baseRule[C, V]{}, err
	}
	return r, nil
}

// Name returns the unique identifier for this rule instance.
func (r baseRule[C, V]) Name() string { return r.meta.Name }

// Method returns the rule family.
func (r baseRule[C, V]) Method() domain.Method { return r.meta.Method }

// Voter returns the designated voter.
func (r baseRule[C, V]) Voter() V { return r.voter }

// Validate checks the rule's identity fields.
func (r baseRule[C, V]) Validate() error {
	if err := validate.Struct(r.meta); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	return nil
}

// outcome assembles a domain.Outcome from a finished tally.
func (r baseRule[C, V]) outcome(winner C, tally map[C]float64, tieBroken bool) domain.Outcome[C] {
	return domain.Outcome[C]{
		Rule:      r.meta.Name,
		Method:    r.meta.Method,
		Winner:    winner,
		Scores:    tally,
		TieBroken: tieBroken,
	}
}

// toFloatScores converts a tally to the float representation used by
// domain.Outcome.
func toFloatScores[C comparable, S Score](scores map[C]S) map[C]float64 {
	out := make(map[C]float64, len(scores))
	for c, s := range scores {
		out[c] = float64(s)
	}
	return out
}

// newTally returns a zeroed accumulator for every candidate of the profile.
func newTally[C, V comparable, S Score](profile *domain.Profile[C, V]) map[C]S {
	tally := make(map[C]S, profile.NumCandidates())
	for _, c := range profile.Candidates() {
		tally[c] = 0
	}
	return tally
}

// requireVoter fails with domain.ErrUnknownVoter if v is not in the profile.
func requireVoter[C, V comparable](profile *domain.Profile[C, V], operation string, v V) error {
	if !profile.HasVoter(v) {
		return domain.NewProfileError(operation, v, domain.ErrUnknownVoter)
	}
	return nil
}

// finite reports whether every weight is a finite number.
func finite(weights []float64) bool {
	for _, w := range weights {
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return false
		}
	}
	return true
}

