package routing

import (
	"context"
	"errors"
	"testing"
	"time"

	"nimbus-gw/nimbus/pkg/accounts"
	"nimbus-gw/nimbus/pkg/config"
	"nimbus-gw/nimbus/pkg/health"
	"nimbus-gw/nimbus/pkg/upstream"
)

// staticSource is an in-memory accounts.Source for tests.
type staticSource struct {
	list []accounts.Account
}

func (s *staticSource) Load(context.Context) ([]accounts.Account, error) {
	return s.list, nil
}

func (s *staticSource) Describe() string { return "static" }

// leastUsed is a local copy of the least-used selection rule so selector
// tests do not import the strategies package (which imports this one).
type leastUsed struct{}

func (leastUsed) Select(candidates []Candidate) (accounts.Account, error) {
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.Health.LastUsedAt.Before(best.Health.LastUsedAt) {
			best = c
		}
	}
	return best.Account, nil
}

func (leastUsed) Name() string { return "least-used" }
func (leastUsed) Reset()       {}

func testAccounts(names ...string) []accounts.Account {
	out := make([]accounts.Account, len(names))
	for i, n := range names {
		out[i] = accounts.Account{Name: n, APIKey: "key-" + n}
	}
	return out
}

func newTestSelector(t *testing.T, names ...string) (*Selector, *health.Tracker) {
	t.Helper()
	store := accounts.NewStore(&staticSource{list: testAccounts(names...)})
	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("failed to load accounts: %v", err)
	}
	tracker := health.NewTracker(config.HealthConfig{
		CooldownBase:              time.Minute,
		CooldownMax:               time.Hour,
		TransientCooldown:         10 * time.Second,
		TransientDisableThreshold: 5,
	})
	tracker.Sync(store.Names())
	return NewSelector(store, tracker, leastUsed{}), tracker
}

func TestSelector_SpreadsAcrossFreshAccounts(t *testing.T) {
	sel, _ := newTestSelector(t, "alpha", "beta", "gamma")

	// Three picks in a burst with no outcomes reported in between must
	// cover all three accounts: marking at choose time makes the chosen
	// account the newest-used.
	now := time.Now()
	seen := make(map[string]int)
	for i := 0; i < 3; i++ {
		a, err := sel.Choose(nil, now.Add(time.Duration(i)*time.Millisecond))
		if err != nil {
			t.Fatalf("choose %d: %v", i, err)
		}
		seen[a.Name]++
	}

	for _, name := range []string{"alpha", "beta", "gamma"} {
		if seen[name] != 1 {
			t.Errorf("expected %s chosen exactly once, got %d (all: %v)", name, seen[name], seen)
		}
	}
}

func TestSelector_TiesBreakByConfigOrder(t *testing.T) {
	sel, _ := newTestSelector(t, "beta", "alpha")

	// Both accounts are untouched; the first configured wins.
	a, err := sel.Choose(nil, time.Now())
	if err != nil {
		t.Fatalf("choose: %v", err)
	}
	if a.Name != "beta" {
		t.Errorf("expected first configured account on tie, got %s", a.Name)
	}
}

func TestSelector_SkipsExcluded(t *testing.T) {
	sel, _ := newTestSelector(t, "alpha", "beta")

	a, err := sel.Choose(map[string]bool{"alpha": true}, time.Now())
	if err != nil {
		t.Fatalf("choose: %v", err)
	}
	if a.Name != "beta" {
		t.Errorf("expected beta with alpha excluded, got %s", a.Name)
	}
}

func TestSelector_SkipsIneligible(t *testing.T) {
	sel, tracker := newTestSelector(t, "alpha", "beta")
	tracker.RecordFailure("alpha", upstream.OutcomeAuthFailure, 0)

	a, err := sel.Choose(nil, time.Now())
	if err != nil {
		t.Fatalf("choose: %v", err)
	}
	if a.Name != "beta" {
		t.Errorf("expected beta with alpha disabled, got %s", a.Name)
	}
}

func TestSelector_NoEligibleAccount(t *testing.T) {
	sel, tracker := newTestSelector(t, "alpha", "beta")
	tracker.RecordFailure("alpha", upstream.OutcomeAuthFailure, 0)

	_, err := sel.Choose(map[string]bool{"beta": true}, time.Now())
	if err == nil {
		t.Fatal("expected error with every account excluded or disabled")
	}
	if !errors.Is(err, ErrNoEligibleAccount) {
		t.Errorf("expected ErrNoEligibleAccount, got %v", err)
	}

	var noElig *NoEligibleAccountError
	if !errors.As(err, &noElig) {
		t.Fatalf("expected *NoEligibleAccountError, got %T", err)
	}
	if noElig.Total != 2 {
		t.Errorf("expected total 2, got %d", noElig.Total)
	}
	if len(noElig.Excluded) != 1 || noElig.Excluded[0] != "beta" {
		t.Errorf("expected excluded [beta], got %v", noElig.Excluded)
	}
}

func TestSelector_StatsAccumulate(t *testing.T) {
	sel, tracker := newTestSelector(t, "alpha", "beta")
	tracker.RecordFailure("beta", upstream.OutcomeAuthFailure, 0)

	now := time.Now()
	for i := 0; i < 4; i++ {
		if _, err := sel.Choose(nil, now); err != nil {
			t.Fatalf("choose %d: %v", i, err)
		}
	}

	view := sel.Stats().View()
	if view.TotalSelections != 4 {
		t.Errorf("expected 4 total selections, got %d", view.TotalSelections)
	}
	if view.SelectionsPerAccount["alpha"] != 4 {
		t.Errorf("expected alpha chosen 4 times, got %d", view.SelectionsPerAccount["alpha"])
	}
	if view.IneligibleFiltered != 4 {
		t.Errorf("expected 4 ineligible filters, got %d", view.IneligibleFiltered)
	}

	sel.Stats().Reset()
	view = sel.Stats().View()
	if view.TotalSelections != 0 || len(view.SelectionsPerAccount) != 0 {
		t.Errorf("expected counters cleared after reset, got %+v", view)
	}
}
