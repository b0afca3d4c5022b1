package gateway

import (
	"encoding/json"
	"net/http"
)

// ErrorKind is the machine-readable classification attached to every
// structured error response.
type ErrorKind string

const (
	// KindAllAccountsExhausted means every account was tried or is
	// currently ineligible. Callers should retry later.
	KindAllAccountsExhausted ErrorKind = "all_accounts_exhausted"

	// KindTimeout means the inbound request deadline elapsed.
	KindTimeout ErrorKind = "timeout"

	// KindUpstreamPermanent means the upstream rejected the request
	// itself; retrying will not help.
	KindUpstreamPermanent ErrorKind = "upstream_permanent_error"

	// KindUnauthorized means the inbound caller failed token auth.
	KindUnauthorized ErrorKind = "unauthorized"

	// KindNotFound means an admin operation referenced an unknown
	// account.
	KindNotFound ErrorKind = "not_found"

	// KindMethodNotAllowed means the HTTP method does not match the
	// endpoint.
	KindMethodNotAllowed ErrorKind = "method_not_allowed"

	// KindInternal means the gateway itself failed.
	KindInternal ErrorKind = "internal_error"
)

// errorResponse is the JSON shape of every gateway error.
type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Kind      ErrorKind `json:"kind"`
	Message   string    `json:"message"`
	RequestID string    `json:"request_id,omitempty"`
}

// writeError writes a structured JSON error response.
func writeError(w http.ResponseWriter, status int, kind ErrorKind, message, requestID string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorResponse{
		Error: errorBody{
			Kind:      kind,
			Message:   message,
			RequestID: requestID,
		},
	})
}
