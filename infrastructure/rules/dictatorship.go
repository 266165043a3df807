package rules

import (
	"context"

	"github.com/ahrav/go-ballot/internal/domain"
	"github.com/ahrav/go-ballot/internal/ports"
)

var _ ports.Rule[string, string] = (*DictatorshipRule[string, string])(nil)

// Dictatorship returns the candidate ranked first by agent.
// It fails with domain.ErrUnknownVoter if agent is not a voter.
func Dictatorship[C, V comparable](profile *domain.Profile[C, V], agent V) (C, error) {
	return profile.TopChoice(agent)
}

// DictatorshipRule elects the top choice of a single configured voter.
type DictatorshipRule[C, V comparable] struct {
	baseRule[C, V]
}

// NewDictatorshipRule creates a DictatorshipRule with the given dictator.
func NewDictatorshipRule[C, V comparable](name string, dictator V) (*DictatorshipRule[C, V], error) {
	base, err := newBaseRule[C](name, domain.MethodDictatorship, dictator)
	if err != nil {
		return nil, err
	}
	return &DictatorshipRule[C, V]{baseRule: base}, nil
}

// Elect returns the dictator's top choice. The outcome carries no scores and
// never involves a tie-break.
func (r *DictatorshipRule[C, V]) Elect(_ context.Context, profile *domain.Profile[C, V]) (domain.Outcome[C], error) {
	winner, err := Dictatorship(profile, r.voter)
	if err != nil {
		return domain.Outcome[C]{}, err
	}
	return r.outcome(winner, nil, false), nil
}

// CreateDictatorshipRule is a factory function that creates a
// DictatorshipRule from a configuration map. The "dictator" key is required.
func CreateDictatorshipRule(id string, config map[string]any) (*DictatorshipRule[string, string], error) {
	dictator, err := IdentifierParam(config, "dictator")
	if err != nil {
		return nil, err
	}
	return NewDictatorshipRule[string](id, dictator)
}
