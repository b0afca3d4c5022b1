package strategies

import (
	"fmt"

	"nimbus-gw/nimbus/pkg/accounts"
	"nimbus-gw/nimbus/pkg/routing"
)

// LeastUsedStrategy picks the candidate with the oldest last-used time,
// breaking ties by configuration order.
//
// Least-used is preferred over plain round-robin because it self-heals:
// an account returning from cooldown has the oldest last-used time and is
// retried first, while a consistently failing account accumulates
// failures and drops out of the candidate list on its own.
type LeastUsedStrategy struct{}

// NewLeastUsedStrategy creates a new least-used strategy.
func NewLeastUsedStrategy() *LeastUsedStrategy {
	return &LeastUsedStrategy{}
}

// Select implements routing.Strategy. It scans for the minimum
// (last-used, position) pair; candidates arrive in configuration order,
// so a strict "before" comparison keeps ties stable.
func (s *LeastUsedStrategy) Select(candidates []routing.Candidate) (accounts.Account, error) {
	if len(candidates) == 0 {
		return accounts.Account{}, fmt.Errorf("no candidates for least-used selection")
	}

	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.Health.LastUsedAt.Before(best.Health.LastUsedAt) {
			best = c
		}
	}

	return best.Account, nil
}

// Name implements routing.Strategy.
func (s *LeastUsedStrategy) Name() string {
	return "least-used"
}

// Reset implements routing.Strategy. Least-used keeps no internal state.
func (s *LeastUsedStrategy) Reset() {}
