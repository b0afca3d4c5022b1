package strategies

import (
	"fmt"
	"sync/atomic"

	"nimbus-gw/nimbus/pkg/accounts"
	"nimbus-gw/nimbus/pkg/routing"
)

// RoundRobinStrategy cycles through the candidate list with an atomic
// counter. Because the candidate list shrinks and grows as accounts cool
// down and recover, the rotation is approximate rather than a strict
// cycle over the configured set.
type RoundRobinStrategy struct {
	// counter is the global rotation counter.
	counter atomic.Int64
}

// NewRoundRobinStrategy creates a new round-robin strategy.
func NewRoundRobinStrategy() *RoundRobinStrategy {
	return &RoundRobinStrategy{}
}

// Select implements routing.Strategy.
func (s *RoundRobinStrategy) Select(candidates []routing.Candidate) (accounts.Account, error) {
	if len(candidates) == 0 {
		return accounts.Account{}, fmt.Errorf("no candidates for round-robin selection")
	}

	if len(candidates) == 1 {
		return candidates[0].Account, nil
	}

	count := s.counter.Add(1) - 1

	// Reset before the counter grows without bound.
	if count >= 1_000_000_000 {
		s.counter.CompareAndSwap(count+1, 0)
		count = 0
	}

	index := int(count % int64(len(candidates)))
	return candidates[index].Account, nil
}

// Name implements routing.Strategy.
func (s *RoundRobinStrategy) Name() string {
	return "round-robin"
}

// Reset implements routing.Strategy.
func (s *RoundRobinStrategy) Reset() {
	s.counter.Store(0)
}
