// Package testutils provides utilities for testing, including synthetic
// election generators. These components are intended for internal use within
// the project's test suites and tooling and are not part of the public API.
package testutils

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/ahrav/go-ballot/internal/domain"
)

// ElectionDataset is a generated election in the same document shape the
// election loader reads: a profile plus the rules to run against it.
type ElectionDataset struct {
	// Version is the configuration schema version.
	Version string `yaml:"version"`

	// Metadata provides information about the dataset itself.
	Metadata DatasetMetadata `yaml:"metadata"`

	// Candidates lists every candidate identifier.
	Candidates []string `yaml:"candidates"`

	// Voters lists every voter identifier.
	Voters []string `yaml:"voters"`

	// Ballots holds one complete ranking per voter.
	Ballots []DatasetBallot `yaml:"ballots"`

	// Rules are the rules to evaluate against the generated profile.
	Rules []DatasetRule `yaml:"rules"`
}

// DatasetMetadata contains information about the generated election.
type DatasetMetadata struct {
	// Name identifies the dataset.
	Name string `yaml:"name"`

	// Description provides details about how the profile was generated.
	Description string `yaml:"description,omitempty"`

	// Tags records the culture and seed used.
	Tags []string `yaml:"tags,omitempty"`
}

// DatasetBallot is one voter's ranking, most preferred first.
type DatasetBallot struct {
	Voter   string   `yaml:"voter"`
	Ranking []string `yaml:"ranking"`
}

// DatasetRule is a rule entry in the generated document.
type DatasetRule struct {
	ID         string         `yaml:"id"`
	Type       string         `yaml:"type"`
	Parameters map[string]any `yaml:"parameters,omitempty"`
}

// Profile builds the domain profile for the dataset.
func (d *ElectionDataset) Profile() (*domain.Profile[string, string], error) {
	if d == nil {
		return nil, errors.New("dataset is nil")
	}

	rankings := make(map[string][]string, len(d.Ballots))
	for _, b := range d.Ballots {
		if _, dup := rankings[b.Voter]; dup {
			return nil, fmt.Errorf("voter %s has more than one ballot", b.Voter)
		}
		rankings[b.Voter] = b.Ranking
	}
	return domain.NewProfile(d.Candidates, d.Voters, rankings)
}

// ValidateElectionDataset checks that the dataset describes a valid profile
// and carries at least one rule.
func ValidateElectionDataset(d *ElectionDataset) error {
	if d == nil {
		return errors.New("dataset is nil")
	}
	if d.Metadata.Name == "" {
		return errors.New("metadata validation failed: dataset name is required")
	}
	if len(d.Rules) == 0 {
		return errors.New("dataset must contain at least one rule")
	}
	if _, err := d.Profile(); err != nil {
		return fmt.Errorf("profile validation failed: %w", err)
	}
	return nil
}

// DatasetStatistics summarizes a generated profile.
type DatasetStatistics struct {
	// Candidates is the number of candidates.
	Candidates int

	// Voters is the number of voters.
	Voters int

	// FirstPreferences counts how many voters rank each candidate first.
	FirstPreferences map[string]int

	// CondorcetWinner is the candidate that beats every other candidate in
	// a pairwise majority contest, or "" when there is none.
	CondorcetWinner string
}

// ComputeDatasetStatistics analyzes a dataset and returns summary statistics.
func ComputeDatasetStatistics(d *ElectionDataset) *DatasetStatistics {
	stats := &DatasetStatistics{
		Candidates:       len(d.Candidates),
		Voters:           len(d.Voters),
		FirstPreferences: make(map[string]int, len(d.Candidates)),
	}
	for _, c := range d.Candidates {
		stats.FirstPreferences[c] = 0
	}

	positions := make([]map[string]int, 0, len(d.Ballots))
	for _, b := range d.Ballots {
		if len(b.Ranking) > 0 {
			stats.FirstPreferences[b.Ranking[0]]++
		}
		pos := make(map[string]int, len(b.Ranking))
		for i, c := range b.Ranking {
			pos[c] = i
		}
		positions = append(positions, pos)
	}

	for _, c := range d.Candidates {
		beatsAll := true
		for _, o := range d.Candidates {
			if o == c {
				continue
			}
			wins := 0
			for _, pos := range positions {
				if pos[c] < pos[o] {
					wins++
				}
			}
			if 2*wins <= len(positions) {
				beatsAll = false
				break
			}
		}
		if beatsAll {
			stats.CondorcetWinner = c
			break
		}
	}

	return stats
}

// LoadElectionDataset reads a dataset from a YAML file and validates it.
func LoadElectionDataset(path string) (*ElectionDataset, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset file: %w", err)
	}

	var d ElectionDataset
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("failed to parse dataset: %w", err)
	}

	if err := ValidateElectionDataset(&d); err != nil {
		return nil, fmt.Errorf("invalid dataset: %w", err)
	}
	return &d, nil
}

// MarshalElectionDataset encodes the dataset as a YAML election document.
func MarshalElectionDataset(d *ElectionDataset) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return nil, fmt.Errorf("failed to marshal dataset: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to marshal dataset: %w", err)
	}
	return buf.Bytes(), nil
}

// SaveElectionDataset writes a dataset to a YAML file.
func SaveElectionDataset(d *ElectionDataset, path string) error {
	// Ensure the directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	data, err := MarshalElectionDataset(d)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write dataset file: %w", err)
	}
	return nil
}
