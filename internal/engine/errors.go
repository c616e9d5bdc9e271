package engine

import (
	"errors"
	"fmt"
)

// Custom engine errors
var (
	// ErrGameNotStarted indicates an action was attempted before a game was started
	ErrGameNotStarted = errors.New("game has not been started")

	// ErrRequiredField indicates a required input was empty
	ErrRequiredField = errors.New("field is required")

	// ErrInvalidContentType indicates the content type is not standard or release
	ErrInvalidContentType = errors.New("invalid content type")

	// ErrInvalidQuality indicates the quality is outside 1..5
	ErrInvalidQuality = errors.New("quality must be between 1 and 5")

	// ErrEmptyPlaylist indicates a playlist was created without content
	ErrEmptyPlaylist = errors.New("playlist must contain at least one item")

	// ErrInvalidBudget indicates a non-positive or over-cap ad budget
	ErrInvalidBudget = errors.New("invalid ad budget")

	// ErrInsufficientFunds indicates the player cannot afford the action
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrAlreadyAdvertised indicates the one-time ad campaign has been used
	ErrAlreadyAdvertised = errors.New("ad campaign already used")

	// ErrNegativeValue indicates a count that must not be negative
	ErrNegativeValue = errors.New("value must not be negative")
)

// ValidationError reports rejected user input; the state is left unchanged
type ValidationError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func newValidationError(field string, err error, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason, Err: err}
}

// IsValidation checks if the error is a validation error
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsGameNotStarted checks if the error is a game not started error
func IsGameNotStarted(err error) bool {
	return errors.Is(err, ErrGameNotStarted)
}

// IsInsufficientFunds checks if the error is an insufficient funds error
func IsInsufficientFunds(err error) bool {
	return errors.Is(err, ErrInsufficientFunds)
}

// IsAlreadyAdvertised checks if the error is an already advertised error
func IsAlreadyAdvertised(err error) bool {
	return errors.Is(err, ErrAlreadyAdvertised)
}
