// Package shared contains common domain types, errors, events, and value objects
// that are used across all domain packages. This package has zero external dependencies.
package shared

import (
	"errors"
	"fmt"
)

// Base domain errors that can be used for error checking with errors.Is().
var (
	// Entity errors
	ErrNotFound      = errors.New("entity not found")
	ErrAlreadyExists = errors.New("entity already exists")
	ErrInvalidEntity = errors.New("invalid entity")

	// Validation errors
	ErrValidation      = errors.New("validation error")
	ErrInvalidID       = errors.New("invalid ID")
	ErrInvalidInput    = errors.New("invalid input")
	ErrEmptyValue      = errors.New("value cannot be empty")
	ErrNegativeValue   = errors.New("value cannot be negative")
	ErrValueOutOfRange = errors.New("value out of range")
	ErrNonFiniteValue  = errors.New("value must be finite")
	ErrInvalidFormat   = errors.New("invalid format")

	// State errors
	ErrInvalidState     = errors.New("invalid state")
	ErrStateTransition  = errors.New("invalid state transition")
	ErrAlreadyProcessed = errors.New("already processed")

	// Authorization errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// Storage errors
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrCorruptDocument    = errors.New("corrupt document")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g., "progress", "leaderboard", "achievement"
	Op      string // Operation that failed, e.g., "RecordSession", "SubmitScore"
	Kind    error  // Base error type for errors.Is() checking
	Message string // Human-readable message
	Err     error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %s: %v", e.Domain, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s.%s: %s", e.Domain, e.Op, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap().
func (e *DomainError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is implements errors.Is() matching.
func (e *DomainError) Is(target error) bool {
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	if e.Err != nil && errors.Is(e.Err, target) {
		return true
	}
	return false
}

// NewDomainError creates a new domain error.
func NewDomainError(domain, op string, kind error, message string) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
	}
}

// WrapError wraps an existing error with domain context.
func WrapError(domain, op string, kind error, message string, err error) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// Progress domain errors
var (
	ErrProgressNotFound  = NewDomainError("progress", "Load", ErrNotFound, "progress state not found")
	ErrInvalidScore      = NewDomainError("progress", "Validate", ErrValueOutOfRange, "score must be finite and non-negative")
	ErrInvalidTotal      = NewDomainError("progress", "Validate", ErrValueOutOfRange, "total must be finite and non-negative")
	ErrInvalidSubject    = NewDomainError("progress", "Validate", ErrInvalidInput, "unknown subject")
)

// Profile domain errors
var (
	ErrProfileNotFound = NewDomainError("profile", "Load", ErrNotFound, "user profile not found")
	ErrInvalidLevel    = NewDomainError("profile", "Validate", ErrValueOutOfRange, "level must be at least 1")
	ErrInvalidPoints   = NewDomainError("profile", "Validate", ErrNegativeValue, "points cannot be negative")
)

// Leaderboard domain errors
var (
	ErrLeaderboardNotFound = NewDomainError("leaderboard", "Load", ErrNotFound, "leaderboard state not found")
	ErrInvalidCategory     = NewDomainError("leaderboard", "Validate", ErrInvalidInput, "unknown leaderboard category")
	ErrInvalidPlayerName   = NewDomainError("leaderboard", "Validate", ErrEmptyValue, "player name cannot be empty")
)

// Achievement domain errors
var (
	ErrAchievementNotFound = NewDomainError("achievement", "Find", ErrNotFound, "achievement not found")
	ErrUnknownAchievement  = NewDomainError("achievement", "Unlock", ErrInvalidID, "achievement not in catalog")
	ErrInvalidLanguage     = NewDomainError("achievement", "Validate", ErrEmptyValue, "language cannot be empty")
)

// Auth domain errors
var (
	ErrInvalidPIN  = NewDomainError("auth", "Login", ErrUnauthorized, "invalid PIN")
	ErrPINTooShort = NewDomainError("auth", "SetPIN", ErrValueOutOfRange, "PIN must be at least 4 digits")
)

// IsNotFound checks if the error is a "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if the error is an "already exists" error.
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsValidation checks if the error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidID) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrEmptyValue) ||
		errors.Is(err, ErrNegativeValue) ||
		errors.Is(err, ErrValueOutOfRange) ||
		errors.Is(err, ErrNonFiniteValue)
}

// IsUnauthorized checks if the error is an authorization failure.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrForbidden)
}

// IsStorage checks if the error comes from the persistence layer.
func IsStorage(err error) bool {
	return errors.Is(err, ErrStorageUnavailable) || errors.Is(err, ErrCorruptDocument)
}
