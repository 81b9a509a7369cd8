// Package shared contains common domain types, errors, and events that are
// used across all domain packages. This package has zero external dependencies.
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
	ErrValidation    = errors.New("validation error")
	ErrInvalidID     = errors.New("invalid ID")
	ErrInvalidInput  = errors.New("invalid input")
	ErrEmptyValue    = errors.New("value cannot be empty")
	ErrNegativeValue = errors.New("value cannot be negative")

	// State errors
	ErrInvalidState     = errors.New("invalid state")
	ErrAlreadyProcessed = errors.New("already processed")
	ErrExpired          = errors.New("expired")

	// External service errors
	ErrExternalService    = errors.New("external service error")
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrTimeout            = errors.New("operation timeout")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g., "stats", "xp", "achievement", "leaderboard"
	Op      string // Operation that failed, e.g., "Grant", "Unlock"
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

// Stats domain errors
var (
	ErrStatsNotFound        = NewDomainError("stats", "Find", ErrNotFound, "user stats not found")
	ErrSessionNotTerminal   = NewDomainError("stats", "Record", ErrInvalidState, "session is neither completed nor interrupted")
	ErrSessionAmbiguous     = NewDomainError("stats", "Record", ErrInvalidState, "session is both completed and interrupted")
	ErrNegativeFocusMinutes = NewDomainError("stats", "Record", ErrNegativeValue, "focus minutes cannot be negative")
)

// Experience domain errors
var (
	ErrNegativeXP       = NewDomainError("xp", "Grant", ErrNegativeValue, "xp amount cannot be negative")
	ErrUnknownXPSource  = NewDomainError("xp", "Grant", ErrInvalidInput, "unknown xp source")
	ErrTransactionWrite = NewDomainError("xp", "Grant", ErrExternalService, "failed to append xp transaction")
)

// Achievement domain errors
var (
	ErrAchievementNotFound = NewDomainError("achievement", "Find", ErrNotFound, "achievement not found")
	ErrAlreadyUnlocked     = NewDomainError("achievement", "Unlock", ErrAlreadyExists, "achievement already unlocked")
	ErrUnknownRequirement  = NewDomainError("achievement", "Evaluate", ErrInvalidInput, "unknown requirement type")
)

// Leaderboard domain errors
var (
	ErrNotRanked        = NewDomainError("leaderboard", "Rank", ErrNotFound, "user not present in leaderboard")
	ErrLeaderboardEmpty = NewDomainError("leaderboard", "Top", ErrNotFound, "leaderboard has no entries")
)

// Notification domain errors
var (
	ErrNotificationFailed = NewDomainError("notification", "Deliver", ErrExternalService, "failed to deliver notification")
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
		errors.Is(err, ErrNegativeValue)
}

// IsExternalService checks if the error is from an external service.
// Cache and notification failures fall in this class and are degraded
// at the call site rather than surfaced to users.
func IsExternalService(err error) bool {
	return errors.Is(err, ErrExternalService) ||
		errors.Is(err, ErrServiceUnavailable) ||
		errors.Is(err, ErrTimeout)
}
