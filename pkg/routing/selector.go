package routing

import (
	"log/slog"
	"time"

	"nimbus-gw/nimbus/pkg/accounts"
	"nimbus-gw/nimbus/pkg/health"
)

// Selector chooses which account serves an incoming request. It filters
// the configured accounts by eligibility and exclusions, delegates the
// pick to the configured strategy, and marks the chosen account as used
// so that least-used ordering rotates even within a burst of requests.
type Selector struct {
	store    *accounts.Store
	tracker  *health.Tracker
	strategy Strategy
	stats    *SelectionStats
	logger   *slog.Logger
}

// NewSelector creates a selector over the given store and tracker using
// the injected strategy.
func NewSelector(store *accounts.Store, tracker *health.Tracker, strategy Strategy) *Selector {
	return &Selector{
		store:    store,
		tracker:  tracker,
		strategy: strategy,
		stats:    NewSelectionStats(),
		logger:   slog.Default().With("component", "routing.selector"),
	}
}

// Choose picks an eligible account not in the excluding set.
//
// Eligibility reads the health tracker, which lazily returns accounts
// whose cooldown has elapsed. Two concurrent requests may pick the same
// least-used account; that is a fairness approximation, not a correctness
// problem, so no lock is held across the whole selection.
func (s *Selector) Choose(excluding map[string]bool, now time.Time) (accounts.Account, error) {
	all := s.store.All()
	s.stats.IncrementTotal()

	candidates := make([]Candidate, 0, len(all))
	for i, a := range all {
		if excluding[a.Name] {
			continue
		}
		if !s.tracker.IsEligible(a.Name, now) {
			s.stats.IncrementFiltered()
			continue
		}
		snap, ok := s.tracker.Snapshot(a.Name)
		if !ok {
			continue
		}
		candidates = append(candidates, Candidate{
			Account:  a,
			Health:   snap,
			Position: i,
		})
	}

	if len(candidates) == 0 {
		s.stats.IncrementErrors()
		excluded := make([]string, 0, len(excluding))
		for name := range excluding {
			excluded = append(excluded, name)
		}
		return accounts.Account{}, &NoEligibleAccountError{
			Total:    len(all),
			Excluded: excluded,
		}
	}

	chosen, err := s.strategy.Select(candidates)
	if err != nil {
		s.stats.IncrementErrors()
		return accounts.Account{}, err
	}

	s.tracker.MarkSelected(chosen.Name, now)
	s.stats.IncrementAccount(chosen.Name)

	s.logger.Debug("account selected",
		"account", chosen.Name,
		"strategy", s.strategy.Name(),
		"candidates", len(candidates),
		"excluded", len(excluding),
	)

	return chosen, nil
}

// Stats returns the selector's statistics tracker.
func (s *Selector) Stats() *SelectionStats {
	return s.stats
}

// StrategyName returns the name of the configured strategy.
func (s *Selector) StrategyName() string {
	return s.strategy.Name()
}
