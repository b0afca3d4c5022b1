// Package health tracks per-account availability for the Nimbus gateway.
//
// The Tracker is the only component that mutates account state. Request
// handlers report attempt outcomes (success, rate-limited, auth failure,
// transient, permanent) and the tracker applies the failure policy:
// exponential cooldowns for rate limits, a short fixed cooldown for
// transient errors with escalation to Disabled after a streak, and
// immediate Disabled on credential rejection. Cooldown expiry is evaluated
// lazily at eligibility-check time rather than with background timers.
//
// Locking is per account so that unrelated requests never contend.
package health
