package upstream

import (
	"net/http"
	"strconv"
	"time"
)

// OutcomeKind classifies the result of one upstream attempt. The health
// tracker and the gateway failover loop switch exhaustively on this type;
// string error codes are deliberately avoided.
type OutcomeKind int

const (
	// OutcomeSuccess indicates the upstream accepted and answered the request.
	OutcomeSuccess OutcomeKind = iota

	// OutcomeRateLimited indicates the account hit the upstream rate limit
	// (HTTP 429). The account cools down with exponential backoff.
	OutcomeRateLimited

	// OutcomeAuthFailure indicates the account credential was rejected
	// (HTTP 401/403). The account is disabled until manually reset.
	OutcomeAuthFailure

	// OutcomeTransient indicates a retryable failure not tied to the
	// credential: network errors, timeouts, 408, or 5xx responses.
	OutcomeTransient

	// OutcomePermanent indicates the failure is attributed to the request
	// itself (remaining 4xx). Retrying with another account will not help
	// and account state is left untouched.
	OutcomePermanent
)

// String returns the machine-readable name of the outcome kind.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeRateLimited:
		return "rate_limited"
	case OutcomeAuthFailure:
		return "auth_failure"
	case OutcomeTransient:
		return "transient_error"
	case OutcomePermanent:
		return "permanent_error"
	default:
		return "unknown"
	}
}

// Outcome is the classified result of one forwarding attempt, attached to
// the account that produced it.
type Outcome struct {
	// Kind is the outcome classification.
	Kind OutcomeKind

	// Account is the name of the account that made the attempt.
	Account string

	// StatusCode is the upstream HTTP status (0 for network-level failures).
	StatusCode int

	// RetryAfter is the upstream's cooldown hint from a 429 response.
	// Zero when the upstream did not provide one.
	RetryAfter time.Duration

	// Err is the underlying error for failed attempts.
	Err error
}

// classify maps an upstream HTTP status to an outcome kind.
func classify(status int) OutcomeKind {
	switch {
	case status >= 200 && status < 300:
		return OutcomeSuccess
	case status == http.StatusTooManyRequests:
		return OutcomeRateLimited
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return OutcomeAuthFailure
	case status == http.StatusRequestTimeout || status >= 500:
		return OutcomeTransient
	default:
		return OutcomePermanent
	}
}

// parseRetryAfter extracts the Retry-After hint from a 429 response.
// Only the delay-seconds form is honored; HTTP-date values are rare on
// inference APIs and are ignored.
func parseRetryAfter(h http.Header) time.Duration {
	val := h.Get("Retry-After")
	if val == "" {
		return 0
	}
	secs, err := strconv.Atoi(val)
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
