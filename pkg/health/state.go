package health

import "time"

// State is the runtime availability state of an account.
//
// State machine:
//
//	Available --(rate-limit / transient failure)--> CoolingDown
//	CoolingDown --(cooldown elapsed)--> Available
//	Available/CoolingDown --(auth failure, or transient streak)--> Disabled
//
// Disabled is terminal until an explicit Reset or a reload that drops the
// account; success alone never undoes it.
type State int

const (
	// StateAvailable means the account may be selected for requests.
	StateAvailable State = iota

	// StateCoolingDown means the account is temporarily ineligible until
	// its cooldown deadline. The transition back to Available happens
	// lazily at eligibility-check time, not via a background timer.
	StateCoolingDown

	// StateDisabled means the account is never selected automatically.
	// Only an explicit Reset (admin unblock) re-enables it.
	StateDisabled
)

// String returns the machine-readable name of the state.
func (s State) String() string {
	switch s {
	case StateAvailable:
		return "available"
	case StateCoolingDown:
		return "cooling_down"
	case StateDisabled:
		return "disabled"
	default:
		return "unknown"
	}
}

// Snapshot is a point-in-time copy of one account's health, safe to read
// without holding the tracker's locks.
type Snapshot struct {
	// Name is the account name.
	Name string

	// State is the availability state at snapshot time.
	State State

	// CooldownUntil is when a cooling-down account becomes eligible again.
	// Zero unless State is StateCoolingDown.
	CooldownUntil time.Time

	// ConsecutiveFailures counts failures since the last success.
	ConsecutiveFailures int

	// TotalRequests counts attempts recorded against the account.
	TotalRequests int64

	// LastUsedAt is when the account was last selected for a request.
	LastUsedAt time.Time
}
