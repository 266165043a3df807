package application

import (
	"gopkg.in/yaml.v3"
)

// ElectionConfig defines the complete specification for an election and
// serves as the primary configuration entry point for the system.
// It carries the preference profile (candidates, voters and their ballots)
// together with the rules that should be evaluated against it.
type ElectionConfig struct {
	// Version specifies the configuration schema version using semantic
	// versioning to ensure compatibility across system updates.
	Version string `yaml:"version" validate:"required,semver"`
	// Metadata contains descriptive information about the election
	// including name, tags, and labels for organization and discovery.
	Metadata Metadata `yaml:"metadata" validate:"required"`
	// Candidates lists every candidate identifier in display order.
	// The order is also the enumeration order used when resolving ties.
	Candidates []string `yaml:"candidates" validate:"required,min=1,dive,required,max=100"`
	// Voters lists every voter identifier.
	Voters []string `yaml:"voters" validate:"required,min=1,dive,required,max=100"`
	// Ballots holds one complete ranking per voter.
	Ballots []BallotConfig `yaml:"ballots" validate:"required,min=1,dive"`
	// Rules defines the rules to evaluate, in reporting order.
	Rules []RuleConfig `yaml:"rules" validate:"required,min=1,dive"`
}

// Metadata provides descriptive information about an election.
type Metadata struct {
	// Name is the human-readable identifier for this election.
	Name string `yaml:"name" validate:"required,min=1,max=255"`
	// Description provides a detailed explanation of the election.
	Description string `yaml:"description" validate:"max=1000"`
	// Tags are categorical labels that enable filtering and grouping.
	Tags []string `yaml:"tags" validate:"max=20,dive,min=1,max=50"`
	// Labels are arbitrary key-value pairs for integration with external
	// systems.
	Labels map[string]string `yaml:"labels" validate:"max=50"`
}

// BallotConfig is a single voter's complete ranking, most preferred first.
type BallotConfig struct {
	// Voter identifies the voter casting this ballot.
	Voter string `yaml:"voter" validate:"required"`
	// Ranking orders every candidate from most to least preferred.
	Ranking []string `yaml:"ranking" validate:"required,min=1"`
}

// RuleConfig defines a single rule to evaluate against the profile.
type RuleConfig struct {
	// ID is the unique identifier for this rule within the election and
	// becomes the rule's name in outcomes, logs and metrics.
	ID string `yaml:"id" validate:"required,min=1,max=100"`
	// Type selects the rule implementation. Aliases registered with the
	// rule registry (for example "irv") are accepted.
	Type string `yaml:"type" validate:"required,ruletype"`
	// Parameters contains type-specific configuration as flexible YAML
	// that will be validated according to the rule type requirements.
	Parameters yaml.Node `yaml:"parameters"`
}
