package gateway

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"nimbus-gw/nimbus/pkg/health"
	"nimbus-gw/nimbus/pkg/upstream"
)

func adminFixture(t *testing.T) *testFixture {
	t.Helper()
	return newFixture(t, []string{"alpha", "beta"}, func(_ string, w http.ResponseWriter) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAdmin_Status(t *testing.T) {
	f := adminFixture(t)
	f.tracker.RecordFailure("beta", upstream.OutcomeAuthFailure, 0)

	rec := httptest.NewRecorder()
	f.admin.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/status", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Accounts []struct {
			Name                string `json:"name"`
			State               string `json:"state"`
			ConsecutiveFailures int    `json:"consecutive_failures"`
		} `json:"accounts"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode status: %v", err)
	}

	if len(body.Accounts) != 2 {
		t.Fatalf("expected 2 accounts, got %d", len(body.Accounts))
	}
	if body.Accounts[0].Name != "alpha" || body.Accounts[0].State != "available" {
		t.Errorf("unexpected first account: %+v", body.Accounts[0])
	}
	if body.Accounts[1].Name != "beta" || body.Accounts[1].State != "disabled" {
		t.Errorf("unexpected second account: %+v", body.Accounts[1])
	}

	// The credential must never leave the process.
	raw := rec.Body.String()
	for _, forbidden := range []string{"api_key", "sk-alpha", "sk-beta"} {
		if strings.Contains(raw, forbidden) {
			t.Errorf("status response leaks %q: %s", forbidden, raw)
		}
	}
}

func TestAdmin_Unblock(t *testing.T) {
	f := adminFixture(t)
	f.tracker.RecordFailure("beta", upstream.OutcomeAuthFailure, 0)

	rec := httptest.NewRecorder()
	f.admin.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/unblock/beta", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	snap, _ := f.tracker.Snapshot("beta")
	if snap.State != health.StateAvailable {
		t.Errorf("expected beta available after unblock, got %s", snap.State)
	}
	if snap.ConsecutiveFailures != 0 {
		t.Errorf("expected failure streak cleared, got %d", snap.ConsecutiveFailures)
	}
}

func TestAdmin_UnblockUnknownAccount(t *testing.T) {
	f := adminFixture(t)

	rec := httptest.NewRecorder()
	f.admin.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/unblock/ghost", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	resp := decodeError(t, rec)
	if resp.Error.Kind != KindNotFound {
		t.Errorf("expected %s, got %s", KindNotFound, resp.Error.Kind)
	}
}

func TestAdmin_MethodEnforcement(t *testing.T) {
	f := adminFixture(t)

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/admin/status"},
		{http.MethodPost, "/admin/stats"},
		{http.MethodGet, "/admin/unblock/alpha"},
		{http.MethodGet, "/admin/reload"},
	}

	for _, tt := range tests {
		rec := httptest.NewRecorder()
		f.admin.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("%s %s: expected 405, got %d", tt.method, tt.path, rec.Code)
		}
	}
}

func TestAdmin_UnknownEndpoint(t *testing.T) {
	f := adminFixture(t)

	rec := httptest.NewRecorder()
	f.admin.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/nope", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown endpoint, got %d", rec.Code)
	}
}

func TestAdmin_Stats(t *testing.T) {
	f := adminFixture(t)

	// Drive one request through the proxy so the counters move.
	rec := httptest.NewRecorder()
	f.proxy.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tags", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("proxy request failed: %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	f.admin.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/stats", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body struct {
		Strategy  string `json:"strategy"`
		Selection struct {
			TotalSelections      int64            `json:"total_selections"`
			SelectionsPerAccount map[string]int64 `json:"selections_per_account"`
		} `json:"selection"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode stats: %v", err)
	}

	if body.Strategy != "least-used" {
		t.Errorf("expected least-used strategy, got %q", body.Strategy)
	}
	if body.Selection.TotalSelections != 1 {
		t.Errorf("expected 1 selection, got %d", body.Selection.TotalSelections)
	}
}

func TestAdmin_Reload(t *testing.T) {
	f := adminFixture(t)

	rec := httptest.NewRecorder()
	f.admin.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/reload", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Accounts int `json:"accounts"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode reload: %v", err)
	}
	if body.Accounts != 2 {
		t.Errorf("expected 2 accounts after reload, got %d", body.Accounts)
	}
}
