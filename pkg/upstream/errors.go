package upstream

import (
	"fmt"
	"time"
)

// RateLimitError represents an upstream rate limit (HTTP 429) charged to
// a specific account. It includes the Retry-After hint when the upstream
// provided one.
type RateLimitError struct {
	// Account is the name of the rate-limited account.
	Account string

	// RetryAfter is the upstream's cooldown hint (zero if absent).
	RetryAfter time.Duration

	// Message is the error body returned by the upstream.
	Message string
}

// Error implements the error interface.
func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("account %q rate limited (retry after %s): %s",
			e.Account, e.RetryAfter, e.Message)
	}
	return fmt.Sprintf("account %q rate limited: %s", e.Account, e.Message)
}

// AuthError represents a credential rejection (HTTP 401/403). The account
// key is presumed invalid and the account is disabled until manually
// reset.
type AuthError struct {
	// Account is the name of the rejected account.
	Account string

	// StatusCode is the upstream HTTP status.
	StatusCode int

	// Message is the error body returned by the upstream.
	Message string
}

// Error implements the error interface.
func (e *AuthError) Error() string {
	return fmt.Sprintf("account %q authentication failed (status %d): %s",
		e.Account, e.StatusCode, e.Message)
}

// TransientError represents a retryable failure not tied to the
// credential: network errors, timeouts, or 5xx responses.
type TransientError struct {
	// Account is the name of the account that made the attempt.
	Account string

	// StatusCode is the upstream HTTP status (0 for network failures).
	StatusCode int

	// Cause is the underlying error (if any).
	Cause error

	// Message is the error body returned by the upstream (if any).
	Message string
}

// Error implements the error interface.
func (e *TransientError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("account %q transient upstream error: %v", e.Account, e.Cause)
	}
	return fmt.Sprintf("account %q transient upstream error (status %d): %s",
		e.Account, e.StatusCode, e.Message)
}

// Unwrap returns the underlying error for error chain support.
func (e *TransientError) Unwrap() error {
	return e.Cause
}

// PermanentError represents a failure attributed to the request itself
// (remaining 4xx). Failover to another account will not help.
type PermanentError struct {
	// Account is the name of the account that made the attempt.
	Account string

	// StatusCode is the upstream HTTP status.
	StatusCode int

	// Message is the error body returned by the upstream.
	Message string
}

// Error implements the error interface.
func (e *PermanentError) Error() string {
	return fmt.Sprintf("upstream rejected request (status %d): %s",
		e.StatusCode, e.Message)
}
