package ports

import (
	"errors"
	"fmt"
)

// Common infrastructure errors.
var (
	// ErrUnsupportedRuleType indicates that no factory is registered for a
	// rule type.
	ErrUnsupportedRuleType = errors.New("unsupported rule type")

	// ErrConfigNotFound indicates that required configuration is missing.
	ErrConfigNotFound = errors.New("configuration not found")
)

// RuleError represents a failure while constructing or running a rule.
type RuleError struct {
	// Rule is the configured name of the rule.
	Rule string

	// Operation is the name of the operation that failed.
	Operation string

	// Err is the underlying error that occurred.
	Err error
}

// Error implements the error interface for RuleError.
func (e *RuleError) Error() string {
	return fmt.Sprintf("rule error: rule=%s, operation=%s, err=%v", e.Rule, e.Operation, e.Err)
}

// Unwrap returns the underlying error.
func (e *RuleError) Unwrap() error { return e.Err }

// NewRuleError creates a new RuleError with the given details.
func NewRuleError(rule, operation string, err error) *RuleError {
	return &RuleError{
		Rule:      rule,
		Operation: operation,
		Err:       err,
	}
}

// ConfigError represents an error from configuration operations.
type ConfigError struct {
	// ConfigKey is the configuration key that was involved in the failed
	// operation.
	ConfigKey string

	// Err is the underlying error that caused the configuration operation
	// to fail.
	Err error
}

// Error implements the error interface for ConfigError.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error: key=%s, err=%v", e.ConfigKey, e.Err)
}

// Unwrap returns the underlying error.
func (e *ConfigError) Unwrap() error { return e.Err }

// NewConfigError creates a new ConfigError with the given details.
func NewConfigError(key string, err error) *ConfigError {
	return &ConfigError{
		ConfigKey: key,
		Err:       err,
	}
}
