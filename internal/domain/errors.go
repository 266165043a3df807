package domain

import (
	"errors"
	"fmt"
)

// Common domain errors that can occur while evaluating an election.
var (
	// ErrUnknownVoter indicates that a voter identifier (dictator, tie-break
	// voter, or lookup argument) is not part of the profile.
	ErrUnknownVoter = errors.New("unknown voter")

	// ErrUnknownCandidate indicates that a candidate is absent from a
	// voter's ranking.
	ErrUnknownCandidate = errors.New("unknown candidate")

	// ErrInvalidScoreVector indicates that a positional score vector does not
	// have one weight per candidate.
	ErrInvalidScoreVector = errors.New("invalid score vector")

	// ErrInvalidProfile indicates that a preference profile violates its
	// structural invariants.
	ErrInvalidProfile = errors.New("invalid preference profile")

	// ErrNoScores indicates that a tally contained no candidates.
	ErrNoScores = errors.New("no scores to resolve")
)

// ProfileError represents a failed lookup against a Profile.
// It records which operation failed and the identifier that caused it.
type ProfileError struct {
	// Operation describes the lookup being performed when the error occurred.
	Operation string

	// Key is the printed form of the voter or candidate that was not found.
	Key string

	// Err is the underlying sentinel error.
	Err error
}

// Error implements the error interface for ProfileError.
func (e *ProfileError) Error() string {
	return fmt.Sprintf("profile error: operation=%s, key=%s, err=%v", e.Operation, e.Key, e.Err)
}

// Unwrap returns the underlying error, supporting errors.Is and errors.As.
func (e *ProfileError) Unwrap() error { return e.Err }

// NewProfileError creates a new ProfileError. The key is formatted with %v so
// any comparable identifier type can be reported.
func NewProfileError(operation string, key any, err error) *ProfileError {
	return &ProfileError{
		Operation: operation,
		Key:       fmt.Sprint(key),
		Err:       err,
	}
}

// ValidationError represents an error that occurred during validation.
// It can contain multiple validation failures.
type ValidationError struct {
	// Entity is the name of the entity that failed validation.
	Entity string

	// Errors contains the list of validation error messages.
	Errors []string
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation error for %s: %s", e.Entity, e.Errors[0])
	}
	return fmt.Sprintf("validation errors for %s: %v", e.Entity, e.Errors)
}

// AddError adds a new error message to the validation error.
func (e *ValidationError) AddError(msg string) { e.Errors = append(e.Errors, msg) }

// AddErrorf formats and adds a new error message.
func (e *ValidationError) AddErrorf(format string, args ...any) {
	e.AddError(fmt.Sprintf(format, args...))
}

// HasErrors returns true if there are any validation errors.
func (e *ValidationError) HasErrors() bool { return len(e.Errors) > 0 }

// NewValidationError creates a new ValidationError for the given entity.
func NewValidationError(entity string) *ValidationError {
	return &ValidationError{
		Entity: entity,
		Errors: make([]string, 0),
	}
}
