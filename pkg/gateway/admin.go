package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"nimbus-gw/nimbus/pkg/accounts"
	"nimbus-gw/nimbus/pkg/gateway/middleware"
	"nimbus-gw/nimbus/pkg/health"
	"nimbus-gw/nimbus/pkg/routing"
)

// AdminHandler serves the operational surface:
//
//	GET  /admin/status          per-account state and counters
//	GET  /admin/stats           selection statistics
//	POST /admin/unblock/{name}  reset a cooling-down or disabled account
//	POST /admin/reload          re-read the account source
type AdminHandler struct {
	store    *accounts.Store
	tracker  *health.Tracker
	selector *routing.Selector
	logger   *slog.Logger
}

// NewAdminHandler creates the admin handler.
func NewAdminHandler(store *accounts.Store, tracker *health.Tracker, selector *routing.Selector) *AdminHandler {
	return &AdminHandler{
		store:    store,
		tracker:  tracker,
		selector: selector,
		logger:   slog.Default().With("component", "gateway.admin"),
	}
}

// accountStatus is the JSON shape of one account in the status listing.
// The API key is deliberately absent.
type accountStatus struct {
	Name                string     `json:"name"`
	Description         string     `json:"description"`
	State               string     `json:"state"`
	CooldownUntil       *time.Time `json:"cooldown_until,omitempty"`
	ConsecutiveFailures int        `json:"consecutive_failures"`
	TotalRequests       int64      `json:"total_requests"`
	LastUsedAt          *time.Time `json:"last_used_at,omitempty"`
}

// ServeHTTP routes admin requests.
func (h *AdminHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	switch {
	case r.URL.Path == "/admin/status":
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, KindMethodNotAllowed, "use GET", requestID)
			return
		}
		h.serveStatus(w)

	case r.URL.Path == "/admin/stats":
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, KindMethodNotAllowed, "use GET", requestID)
			return
		}
		h.serveStats(w)

	case strings.HasPrefix(r.URL.Path, "/admin/unblock/"):
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, KindMethodNotAllowed, "use POST", requestID)
			return
		}
		name := strings.TrimPrefix(r.URL.Path, "/admin/unblock/")
		h.serveUnblock(w, name, requestID)

	case r.URL.Path == "/admin/reload":
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, KindMethodNotAllowed, "use POST", requestID)
			return
		}
		h.serveReload(r.Context(), w, requestID)

	default:
		writeError(w, http.StatusNotFound, KindNotFound, "unknown admin endpoint", requestID)
	}
}

// serveStatus lists every account's health in configuration order.
func (h *AdminHandler) serveStatus(w http.ResponseWriter) {
	all := h.store.All()
	list := make([]accountStatus, 0, len(all))
	for _, a := range all {
		snap, ok := h.tracker.Snapshot(a.Name)
		if !ok {
			continue
		}
		st := accountStatus{
			Name:                a.Name,
			Description:         a.Description,
			State:               snap.State.String(),
			ConsecutiveFailures: snap.ConsecutiveFailures,
			TotalRequests:       snap.TotalRequests,
		}
		if !snap.CooldownUntil.IsZero() {
			t := snap.CooldownUntil
			st.CooldownUntil = &t
		}
		if !snap.LastUsedAt.IsZero() {
			t := snap.LastUsedAt
			st.LastUsedAt = &t
		}
		list = append(list, st)
	}

	writeJSON(w, http.StatusOK, map[string]any{"accounts": list})
}

// serveStats returns selection statistics.
func (h *AdminHandler) serveStats(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, map[string]any{
		"strategy":  h.selector.StrategyName(),
		"selection": h.selector.Stats().View(),
	})
}

// serveUnblock resets one account to Available. This is the only way out
// of the Disabled state short of a reload.
func (h *AdminHandler) serveUnblock(w http.ResponseWriter, name, requestID string) {
	if _, err := h.store.Get(name); err != nil {
		if errors.Is(err, accounts.ErrAccountNotFound) {
			writeError(w, http.StatusNotFound, KindNotFound, err.Error(), requestID)
			return
		}
		writeError(w, http.StatusInternalServerError, KindInternal, err.Error(), requestID)
		return
	}

	h.tracker.Reset(name)
	h.logger.Info("account unblocked via admin", "account", name, "request_id", requestID)
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "account " + name + " unblocked",
	})
}

// serveReload re-reads the account source and syncs the tracker.
func (h *AdminHandler) serveReload(ctx context.Context, w http.ResponseWriter, requestID string) {
	if err := h.store.Reload(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, KindInternal, err.Error(), requestID)
		return
	}
	h.tracker.Sync(h.store.Names())
	h.logger.Info("accounts reloaded via admin", "count", h.store.Len(), "request_id", requestID)
	writeJSON(w, http.StatusOK, map[string]any{
		"message":  "accounts reloaded",
		"accounts": h.store.Len(),
	})
}

// writeJSON writes a JSON response body.
func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
