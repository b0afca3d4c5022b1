package gateway

import (
	"net/http"
	"time"

	"nimbus-gw/nimbus/pkg/accounts"
	"nimbus-gw/nimbus/pkg/health"
)

// HealthzHandler answers liveness probes.
type HealthzHandler struct{}

// ServeHTTP implements http.Handler.
func (HealthzHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Unix(),
	})
}

// ReadyzHandler answers readiness probes: the gateway is ready when at
// least one account is currently eligible.
type ReadyzHandler struct {
	store   *accounts.Store
	tracker *health.Tracker
}

// NewReadyzHandler creates the readiness handler.
func NewReadyzHandler(store *accounts.Store, tracker *health.Tracker) *ReadyzHandler {
	return &ReadyzHandler{store: store, tracker: tracker}
}

// ServeHTTP implements http.Handler.
func (h *ReadyzHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	now := time.Now()
	eligible := 0
	for _, name := range h.store.Names() {
		if h.tracker.IsEligible(name, now) {
			eligible++
		}
	}

	status := "ready"
	code := http.StatusOK
	if eligible == 0 {
		status = "not_ready"
		code = http.StatusServiceUnavailable
	}

	writeJSON(w, code, map[string]any{
		"status":            status,
		"eligible_accounts": eligible,
		"total_accounts":    h.store.Len(),
		"timestamp":         now.Unix(),
	})
}
