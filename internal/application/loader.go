package application

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/singleflight"
	"gopkg.in/yaml.v3"

	"github.com/ahrav/go-ballot/infrastructure/rules"
	"github.com/ahrav/go-ballot/internal/domain"
	"github.com/ahrav/go-ballot/internal/ports"
)

// Election is a compiled election: a validated preference profile plus the
// rules configured to run against it.
// Elections returned by ElectionLoader are shared through its cache and
// must be treated as read-only.
type Election struct {
	// Metadata is the descriptive block from the configuration.
	Metadata Metadata
	// Profile is the validated preference profile.
	Profile *domain.Profile[string, string]
	// Rules are the configured rules in configuration order.
	Rules []ports.Rule[string, string]
	// Hash is the SHA-256 of the normalized configuration.
	Hash string
}

// Rule returns the configured rule with the given ID.
func (e *Election) Rule(id string) (ports.Rule[string, string], bool) {
	for _, r := range e.Rules {
		if r.Name() == id {
			return r, true
		}
	}
	return nil, false
}

// ElectionLoader provides YAML configuration parsing, validation, and
// caching for elections, transforming declarative YAML specifications into
// a profile and a set of ready-to-run rules.
type ElectionLoader struct {
	// validator performs struct field validation and the custom semver
	// and ruletype rules.
	validator *validator.Validate
	// ruleRegistry provides factory methods for creating rules based on
	// their type and configuration parameters.
	ruleRegistry ports.RuleRegistry
	// cache stores compiled elections indexed by SHA256 hash of the
	// normalized configuration.
	cache map[string]*Election
	// cacheMu provides thread-safe access to the cache map.
	cacheMu sync.RWMutex
	// sf prevents duplicate compilation when multiple goroutines request
	// the same election simultaneously.
	sf singleflight.Group
}

// NewElectionLoader creates a new election loader with validation
// capabilities and an empty cache.
// NewElectionLoader returns an error if validator registration fails.
func NewElectionLoader(ruleRegistry ports.RuleRegistry) (*ElectionLoader, error) {
	if ruleRegistry == nil {
		return nil, fmt.Errorf("rule registry cannot be nil")
	}

	v := validator.New()
	if err := registerCustomValidators(v, ruleRegistry); err != nil {
		return nil, fmt.Errorf("failed to register validators: %w", err)
	}

	return &ElectionLoader{
		validator:    v,
		ruleRegistry: ruleRegistry,
		cache:        make(map[string]*Election),
	}, nil
}

// load is the common implementation for loading elections from byte data.
func (l *ElectionLoader) load(ctx context.Context, data []byte) (*Election, error) {
	config, err := l.parseYAML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Hash the normalized config, not the raw bytes, so formatting
	// differences share a cache entry.
	hash, err := l.calculateConfigHash(config)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate hash: %w", err)
	}

	v, err, _ := l.sf.Do(hash, func() (any, error) {
		if election, ok := l.getCachedElection(hash); ok {
			return election, nil
		}

		if err := l.validateConfig(config); err != nil {
			return nil, fmt.Errorf("validation failed: %w", err)
		}

		election, err := l.buildElection(ctx, config)
		if err != nil {
			return nil, fmt.Errorf("failed to build election: %w", err)
		}
		election.Hash = hash

		l.cacheElection(hash, election)

		return election, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*Election), nil
}

// LoadFromFile loads and compiles an election from a YAML file.
// The returned election may be shared with other callers and must not be
// mutated.
func (l *ElectionLoader) LoadFromFile(ctx context.Context, path string) (*Election, error) {
	cleanPath := filepath.Clean(path)

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return l.load(ctx, data)
}

// LoadFromReader loads and compiles an election from an io.Reader.
// The returned election may be shared with other callers and must not be
// mutated.
func (l *ElectionLoader) LoadFromReader(ctx context.Context, r io.Reader) (*Election, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read data: %w", err)
	}

	return l.load(ctx, data)
}

// parseYAML unmarshals YAML byte data into an ElectionConfig using strict
// decoding, so misspelled keys are reported instead of silently ignored.
func (l *ElectionLoader) parseYAML(data []byte) (*ElectionConfig, error) {
	var config ElectionConfig
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	if err := decoder.Decode(&config); err != nil {
		return nil, fmt.Errorf("YAML decode failed: %w", err)
	}
	return &config, nil
}

// validateConfig performs struct field validation followed by semantic
// validation of the relationships between configuration elements.
func (l *ElectionLoader) validateConfig(config *ElectionConfig) error {
	if err := l.validator.Struct(config); err != nil {
		return fmt.Errorf("struct validation failed: %w", err)
	}

	if err := l.validateSemantics(config); err != nil {
		return fmt.Errorf("semantic validation failed: %w", err)
	}

	return nil
}

// validateSemantics checks the rules that struct tags cannot express:
// unique rule IDs, one ballot per voter, rule parameters per type, voter
// references and score vector lengths. Profile shape itself (complete
// strict rankings) is enforced by domain.NewProfile.
func (l *ElectionLoader) validateSemantics(config *ElectionConfig) error {
	voters := make(map[string]struct{}, len(config.Voters))
	for _, v := range config.Voters {
		voters[v] = struct{}{}
	}

	ballots := make(map[string]int, len(config.Ballots))
	for i, b := range config.Ballots {
		if prev, dup := ballots[b.Voter]; dup {
			return ports.NewConfigError(fmt.Sprintf("ballots[%d].voter", i),
				fmt.Errorf("voter %q already cast ballot %d", b.Voter, prev))
		}
		ballots[b.Voter] = i
	}

	ruleIDs := make(map[string]struct{}, len(config.Rules))
	for i, rule := range config.Rules {
		if _, dup := ruleIDs[rule.ID]; dup {
			return ports.NewConfigError(fmt.Sprintf("rules[%d].id", i),
				fmt.Errorf("duplicate rule ID %q", rule.ID))
		}
		ruleIDs[rule.ID] = struct{}{}

		canonical, ok := resolveRuleType(l.ruleRegistry, rule.Type)
		if !ok {
			return ports.NewConfigError(fmt.Sprintf("rules[%d].type", i),
				fmt.Errorf("%w: %s", ports.ErrUnsupportedRuleType, rule.Type))
		}

		if err := ValidateRuleParameters(canonical, rule.Parameters); err != nil {
			return ports.NewConfigError(fmt.Sprintf("rules[%d].parameters", i),
				fmt.Errorf("rule %s parameter validation failed: %w", rule.ID, err))
		}

		if err := l.validateReferences(i, canonical, rule, voters, len(config.Candidates)); err != nil {
			return err
		}
	}

	return nil
}

// validateReferences checks the voter and candidate-count references held
// in a built-in rule's parameters against the profile.
func (l *ElectionLoader) validateReferences(
	index int,
	canonical string,
	rule RuleConfig,
	voters map[string]struct{},
	numCandidates int,
) error {
	params, err := rules.DecodeParameters(rule.Parameters)
	if err != nil {
		return ports.NewConfigError(fmt.Sprintf("rules[%d].parameters", index), err)
	}

	for _, key := range ruleParameterKeys[domain.Method(canonical)] {
		if key == "score_vector" {
			if list, ok := params[key].([]any); ok && len(list) != numCandidates {
				return ports.NewConfigError(fmt.Sprintf("rules[%d].parameters.%s", index, key),
					fmt.Errorf("%w: got %d weights for %d candidates",
						domain.ErrInvalidScoreVector, len(list), numCandidates))
			}
			continue
		}

		if _, ok := params[key]; !ok {
			continue
		}
		voter, err := rules.IdentifierParam(params, key)
		if err != nil {
			return ports.NewConfigError(fmt.Sprintf("rules[%d].parameters.%s", index, key), err)
		}
		if _, known := voters[voter]; !known {
			return ports.NewConfigError(fmt.Sprintf("rules[%d].parameters.%s", index, key),
				domain.NewProfileError("ValidateRule", voter, domain.ErrUnknownVoter))
		}
	}
	return nil
}

// buildElection constructs the profile and instantiates every rule through
// the rule registry.
func (l *ElectionLoader) buildElection(ctx context.Context, config *ElectionConfig) (*Election, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rankings := make(map[string][]string, len(config.Ballots))
	for _, b := range config.Ballots {
		rankings[b.Voter] = b.Ranking
	}

	profile, err := domain.NewProfile(config.Candidates, config.Voters, rankings)
	if err != nil {
		return nil, fmt.Errorf("failed to build profile: %w", err)
	}

	built := make([]ports.Rule[string, string], 0, len(config.Rules))
	for _, ruleConfig := range config.Rules {
		rule, err := l.createRule(ruleConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to create rule %s: %w", ruleConfig.ID, err)
		}
		built = append(built, rule)
	}

	return &Election{
		Metadata: config.Metadata,
		Profile:  profile,
		Rules:    built,
	}, nil
}

// createRule instantiates a rule from its configuration through the
// registry.
func (l *ElectionLoader) createRule(config RuleConfig) (ports.Rule[string, string], error) {
	params, err := rules.DecodeParameters(config.Parameters)
	if err != nil {
		return nil, err
	}

	rule, err := l.ruleRegistry.CreateRule(config.Type, config.ID, params)
	if err != nil {
		return nil, fmt.Errorf("failed to create rule: %w", err)
	}

	if err := rule.Validate(); err != nil {
		return nil, fmt.Errorf("rule validation failed: %w", err)
	}

	return rule, nil
}

// calculateConfigHash computes the SHA256 hash of a normalized
// ElectionConfig for cache indexing.
func (l *ElectionLoader) calculateConfigHash(config *ElectionConfig) (string, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)

	if err := encoder.Encode(config); err != nil {
		return "", fmt.Errorf("failed to encode config for hashing: %w", err)
	}

	hash := sha256.Sum256(buf.Bytes())
	return hex.EncodeToString(hash[:]), nil
}

// getCachedElection returns a previously compiled election by hash.
// getCachedElection is safe for concurrent use.
func (l *ElectionLoader) getCachedElection(hash string) (*Election, bool) {
	l.cacheMu.RLock()
	defer l.cacheMu.RUnlock()

	election, ok := l.cache[hash]
	return election, ok
}

// cacheElection stores a compiled election indexed by hash.
// cacheElection is safe for concurrent use.
func (l *ElectionLoader) cacheElection(hash string, election *Election) {
	l.cacheMu.Lock()
	defer l.cacheMu.Unlock()

	l.cache[hash] = election
}

// ClearCache removes all cached elections, forcing subsequent loads to
// recompile from source.
func (l *ElectionLoader) ClearCache() {
	l.cacheMu.Lock()
	defer l.cacheMu.Unlock()

	l.cache = make(map[string]*Election)
}
