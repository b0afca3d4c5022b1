package health

import (
	"log/slog"
	"sync"
	"time"

	"nimbus-gw/nimbus/pkg/config"
	"nimbus-gw/nimbus/pkg/upstream"
)

// Tracker is the sole mutator of account health state. All concurrent
// request handlers report outcomes here and read eligibility from here.
//
// Locking is per-account: the tracker-level lock only guards the map of
// accounts, and each account carries its own mutex, so updates to one
// account never serialize requests touching other accounts.
type Tracker struct {
	policy config.HealthConfig
	logger *slog.Logger

	// now is the clock, replaceable in tests.
	now func() time.Time

	mu       sync.RWMutex
	accounts map[string]*accountState
}

// accountState is the mutable health record for one account.
// All fields are guarded by the per-account mutex.
type accountState struct {
	mu sync.Mutex

	state               State
	cooldownUntil       time.Time
	consecutiveFailures int
	totalRequests       int64
	lastUsedAt          time.Time
}

// NewTracker creates a tracker applying the given failure policy.
func NewTracker(policy config.HealthConfig) *Tracker {
	return &Tracker{
		policy:   policy,
		logger:   slog.Default().With("component", "health.tracker"),
		now:      time.Now,
		accounts: make(map[string]*accountState),
	}
}

// Sync aligns the tracked set with the given account names: new names
// start Available, retained names keep their state, and names no longer
// configured are dropped. Called at load and on every reload.
func (t *Tracker) Sync(names []string) {
	keep := make(map[string]bool, len(names))
	for _, name := range names {
		keep[name] = true
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	for name := range t.accounts {
		if !keep[name] {
			delete(t.accounts, name)
		}
	}
	for _, name := range names {
		if _, ok := t.accounts[name]; !ok {
			t.accounts[name] = &accountState{state: StateAvailable}
		}
	}
}

// get returns the state record for an account, or nil if untracked.
func (t *Tracker) get(name string) *accountState {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.accounts[name]
}

// RecordSuccess records a successful attempt: the failure streak resets,
// and a cooling-down account becomes Available again. A Disabled account
// stays Disabled; only Reset can undo it.
func (t *Tracker) RecordSuccess(name string) {
	a := t.get(name)
	if a == nil {
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.totalRequests++
	a.consecutiveFailures = 0
	a.lastUsedAt = t.now()

	if a.state == StateCoolingDown {
		a.state = StateAvailable
		a.cooldownUntil = time.Time{}
	}
}

// RecordFailure records a failed attempt and applies the failure policy
// for the outcome kind. retryAfter is the upstream's cooldown hint from a
// 429 response and extends the computed cooldown when longer.
func (t *Tracker) RecordFailure(name string, kind upstream.OutcomeKind, retryAfter time.Duration) {
	a := t.get(name)
	if a == nil {
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.totalRequests++
	a.consecutiveFailures++
	a.lastUsedAt = t.now()

	// Disabled is terminal: record the attempt but never soften the state.
	if a.state == StateDisabled {
		return
	}

	switch kind {
	case upstream.OutcomeRateLimited:
		cooldown := t.rateLimitCooldown(a.consecutiveFailures)
		if retryAfter > cooldown {
			cooldown = retryAfter
		}
		a.state = StateCoolingDown
		a.cooldownUntil = t.now().Add(cooldown)
		t.logger.Warn("account cooling down after rate limit",
			"account", name,
			"cooldown", cooldown,
			"consecutive_failures", a.consecutiveFailures,
		)

	case upstream.OutcomeAuthFailure:
		a.state = StateDisabled
		a.cooldownUntil = time.Time{}
		t.logger.Error("account disabled after auth failure",
			"account", name,
		)

	case upstream.OutcomeTransient:
		if a.consecutiveFailures >= t.policy.TransientDisableThreshold {
			a.state = StateDisabled
			a.cooldownUntil = time.Time{}
			t.logger.Error("account disabled after transient failure streak",
				"account", name,
				"consecutive_failures", a.consecutiveFailures,
			)
			return
		}
		a.state = StateCoolingDown
		a.cooldownUntil = t.now().Add(t.policy.TransientCooldown)
		t.logger.Warn("account cooling down after transient failure",
			"account", name,
			"cooldown", t.policy.TransientCooldown,
			"consecutive_failures", a.consecutiveFailures,
		)

	case upstream.OutcomePermanent:
		// The failure belongs to the request, not the account.

	case upstream.OutcomeSuccess:
		// Callers report successes through RecordSuccess.
	}
}

// rateLimitCooldown computes the exponential rate-limit backoff:
// base doubles with each consecutive failure beyond the first, capped at
// the configured maximum.
func (t *Tracker) rateLimitCooldown(consecutiveFailures int) time.Duration {
	cooldown := t.policy.CooldownBase
	for i := 1; i < consecutiveFailures; i++ {
		cooldown *= 2
		if cooldown >= t.policy.CooldownMax {
			return t.policy.CooldownMax
		}
	}
	if cooldown > t.policy.CooldownMax {
		return t.policy.CooldownMax
	}
	return cooldown
}

// IsEligible reports whether the account may be selected at the given
// time. A cooling-down account whose deadline has passed transitions to
// Available as a side effect; calling twice is idempotent.
func (t *Tracker) IsEligible(name string, now time.Time) bool {
	a := t.get(name)
	if a == nil {
		return false
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	switch a.state {
	case StateAvailable:
		return true
	case StateCoolingDown:
		if a.cooldownUntil.After(now) {
			return false
		}
		a.state = StateAvailable
		a.cooldownUntil = time.Time{}
		t.logger.Info("account cooldown elapsed", "account", name)
		return true
	default:
		return false
	}
}

// MarkSelected records that the account was chosen for a request. The
// selector calls this at choose time so least-used ordering spreads load
// even before outcomes are reported.
func (t *Tracker) MarkSelected(name string, now time.Time) {
	a := t.get(name)
	if a == nil {
		return
	}

	a.mu.Lock()
	a.lastUsedAt = now
	a.mu.Unlock()
}

// Reset returns a Disabled or cooling-down account to Available with a
// clean failure streak. This is the admin unblock operation and the only
// way out of Disabled short of a reload.
func (t *Tracker) Reset(name string) bool {
	a := t.get(name)
	if a == nil {
		return false
	}

	a.mu.Lock()
	a.state = StateAvailable
	a.cooldownUntil = time.Time{}
	a.consecutiveFailures = 0
	a.mu.Unlock()

	t.logger.Info("account reset to available", "account", name)
	return true
}

// Snapshot returns a point-in-time copy of one account's health.
func (t *Tracker) Snapshot(name string) (Snapshot, bool) {
	a := t.get(name)
	if a == nil {
		return Snapshot{}, false
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	return Snapshot{
		Name:                name,
		State:               a.state,
		CooldownUntil:       a.cooldownUntil,
		ConsecutiveFailures: a.consecutiveFailures,
		TotalRequests:       a.totalRequests,
		LastUsedAt:          a.lastUsedAt,
	}, true
}

// SnapshotAll returns point-in-time copies of every tracked account,
// keyed by name. Each account is locked individually: the result is
// consistent per account but not a single global atomic view, which is
// all selection and the admin status endpoint need.
func (t *Tracker) SnapshotAll() map[string]Snapshot {
	t.mu.RLock()
	names := make([]string, 0, len(t.accounts))
	for name := range t.accounts {
		names = append(names, name)
	}
	t.mu.RUnlock()

	out := make(map[string]Snapshot, len(names))
	for _, name := range names {
		if snap, ok := t.Snapshot(name); ok {
			out[name] = snap
		}
	}
	return out
}
