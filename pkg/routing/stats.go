package routing

import (
	"sync"
	"sync/atomic"
	"time"
)

// SelectionStats tracks selection statistics with atomic counters for
// lock-free updates from concurrent request handlers.
type SelectionStats struct {
	// totalSelections is the total number of Choose calls.
	totalSelections atomic.Int64

	// selectionsPerAccount tracks how often each account was chosen.
	selectionsPerAccount sync.Map // map[string]*atomic.Int64

	// filteredCount counts accounts skipped for ineligibility.
	filteredCount atomic.Int64

	// errors counts Choose calls that found no account.
	errors atomic.Int64

	// mu protects lastResetTime.
	mu            sync.RWMutex
	lastResetTime time.Time
}

// StatsView is a point-in-time copy of selection statistics, used by the
// admin stats endpoint and the scheduled status summary.
type StatsView struct {
	TotalSelections      int64            `json:"total_selections"`
	SelectionsPerAccount map[string]int64 `json:"selections_per_account"`
	IneligibleFiltered   int64            `json:"ineligible_filtered"`
	Errors               int64            `json:"errors"`
	LastResetTime        time.Time        `json:"last_reset_time"`
}

// NewSelectionStats creates a new statistics tracker.
func NewSelectionStats() *SelectionStats {
	return &SelectionStats{
		lastResetTime: time.Now(),
	}
}

// IncrementTotal increments the total selection counter.
func (s *SelectionStats) IncrementTotal() {
	s.totalSelections.Add(1)
}

// IncrementAccount increments the counter for a specific account.
func (s *SelectionStats) IncrementAccount(name string) {
	val, _ := s.selectionsPerAccount.LoadOrStore(name, &atomic.Int64{})
	val.(*atomic.Int64).Add(1)
}

// IncrementFiltered increments the ineligible-filtered counter.
func (s *SelectionStats) IncrementFiltered() {
	s.filteredCount.Add(1)
}

// IncrementErrors increments the selection error counter.
func (s *SelectionStats) IncrementErrors() {
	s.errors.Add(1)
}

// View returns a point-in-time copy of the statistics.
func (s *SelectionStats) View() StatsView {
	perAccount := make(map[string]int64)
	s.selectionsPerAccount.Range(func(key, val any) bool {
		perAccount[key.(string)] = val.(*atomic.Int64).Load()
		return true
	})

	s.mu.RLock()
	reset := s.lastResetTime
	s.mu.RUnlock()

	return StatsView{
		TotalSelections:      s.totalSelections.Load(),
		SelectionsPerAccount: perAccount,
		IneligibleFiltered:   s.filteredCount.Load(),
		Errors:               s.errors.Load(),
		LastResetTime:        reset,
	}
}

// Reset zeroes all counters. Called by the scheduled stats rollover.
func (s *SelectionStats) Reset() {
	s.totalSelections.Store(0)
	s.filteredCount.Store(0)
	s.errors.Store(0)
	s.selectionsPerAccount.Range(func(key, _ any) bool {
		s.selectionsPerAccount.Delete(key)
		return true
	})

	s.mu.Lock()
	s.lastResetTime = time.Now()
	s.mu.Unlock()
}
