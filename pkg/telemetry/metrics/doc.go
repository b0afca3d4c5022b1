// Package metrics exposes Prometheus metrics for the Nimbus gateway:
// upstream attempts and latency per account, inbound request results,
// failover attempt counts, and per-account availability state.
package metrics
