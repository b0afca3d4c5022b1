// Package middleware provides the HTTP middleware chain for the gateway
// server: request correlation ids, access logging, panic recovery, and
// bearer-token authentication.
package middleware

// contextKey is a private type for request context keys to avoid
// collisions with other packages.
type contextKey string

const (
	// requestIDKey carries the correlation id through the request context.
	requestIDKey contextKey = "request_id"
)
