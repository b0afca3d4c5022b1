// Package upstream forwards requests to the cloud inference API.
//
// The Client attaches the selected account's credential to each outbound
// call, enforces a per-attempt timeout, and classifies every result into
// an Outcome (success, rate-limited, auth failure, transient, permanent).
// Outcomes drive the health tracker's cooldown policy and the gateway's
// failover loop; the typed errors carry upstream status and body excerpts
// for diagnostics.
package upstream
