package accounts

import (
	"errors"
	"fmt"
)

// ErrAccountNotFound is returned when a lookup references an unknown
// account. Check with errors.Is().
var ErrAccountNotFound = errors.New("account not found")

// ConfigError represents an invalid account configuration. It is fatal at
// load time and prevents the gateway from starting.
type ConfigError struct {
	// Source describes where the configuration came from
	// (a file path or database path).
	Source string

	// Message describes what is wrong with the configuration.
	Message string

	// Cause is the underlying error (if any).
	Cause error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid account configuration (%s): %s: %v", e.Source, e.Message, e.Cause)
	}
	return fmt.Sprintf("invalid account configuration (%s): %s", e.Source, e.Message)
}

// Unwrap returns the underlying error for error chain support.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// NotFoundError is returned when Get references an account name that is
// not in the loaded set.
type NotFoundError struct {
	// Name is the requested account name.
	Name string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("account %q not found", e.Name)
}

// Is implements error matching for errors.Is().
func (e *NotFoundError) Is(target error) bool {
	return target == ErrAccountNotFound
}
