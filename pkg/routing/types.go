package routing

import (
	"nimbus-gw/nimbus/pkg/accounts"
	"nimbus-gw/nimbus/pkg/health"
)

// Candidate pairs an eligible account with its health snapshot and its
// position in configuration order. Strategies receive candidates already
// filtered for eligibility and exclusions.
type Candidate struct {
	// Account is the candidate account.
	Account accounts.Account

	// Health is the account's health snapshot at selection time.
	Health health.Snapshot

	// Position is the account's index in configuration order,
	// used for stable tie-breaking.
	Position int
}

// Strategy selects one account from a list of candidates.
//
// Implementations must be thread-safe: they are called concurrently from
// every request handler. The interface is defined here rather than in the
// strategies package to avoid an import cycle; implementations live in
// pkg/routing/strategies and are injected at wiring time.
type Strategy interface {
	// Select picks one candidate. The list is non-empty and ordered by
	// configuration position.
	Select(candidates []Candidate) (accounts.Account, error)

	// Name returns the strategy name for logs and statistics.
	Name() string

	// Reset clears internal state. Primarily used in tests.
	Reset()
}
