// Package gateway implements the HTTP surface of the proxy: the
// forwarding handler with retry-with-failover across the account pool,
// the admin endpoints for inspecting and resetting account state, the
// liveness and readiness probes, and the server lifecycle with graceful
// shutdown.
package gateway
