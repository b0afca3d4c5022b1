package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"nimbus-gw/nimbus/pkg/config"
	"nimbus-gw/nimbus/pkg/health"
)

// Collector owns the gateway's Prometheus metrics.
//
// Metrics:
//   - nimbus_attempts_total: upstream attempts by account and outcome
//   - nimbus_upstream_latency_seconds: upstream attempt latency by account
//   - nimbus_requests_total: inbound requests by final result
//   - nimbus_request_attempts: failover attempts needed per inbound request
//   - nimbus_account_state: per-account availability state
//     (0=available, 1=cooling_down, 2=disabled)
//   - nimbus_accounts_configured: number of configured accounts
type Collector struct {
	attemptsTotal      *prometheus.CounterVec
	upstreamLatency    *prometheus.HistogramVec
	requestsTotal      *prometheus.CounterVec
	requestAttempts    prometheus.Histogram
	accountState       *prometheus.GaugeVec
	accountsConfigured prometheus.Gauge
}

// NewCollector creates and registers the gateway metrics with the
// provided registry.
func NewCollector(cfg config.MetricsConfig, registry *prometheus.Registry) *Collector {
	c := &Collector{
		attemptsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "attempts_total",
				Help:      "Upstream attempts by account and outcome.",
			},
			[]string{"account", "outcome"},
		),
		upstreamLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "upstream_latency_seconds",
				Help:      "Upstream attempt latency by account.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"account"},
		),
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "requests_total",
				Help:      "Inbound requests by final result.",
			},
			[]string{"result"},
		),
		requestAttempts: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "request_attempts",
				Help:      "Failover attempts needed per inbound request.",
				Buckets:   []float64{1, 2, 3, 4, 5, 8, 13},
			},
		),
		accountState: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Name:      "account_state",
				Help:      "Account availability state (0=available, 1=cooling_down, 2=disabled).",
			},
			[]string{"account"},
		),
		accountsConfigured: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Name:      "accounts_configured",
				Help:      "Number of configured accounts.",
			},
		),
	}

	registry.MustRegister(
		c.attemptsTotal,
		c.upstreamLatency,
		c.requestsTotal,
		c.requestAttempts,
		c.accountState,
		c.accountsConfigured,
	)

	return c
}

// RecordAttempt records one upstream attempt.
func (c *Collector) RecordAttempt(account, outcome string, latency time.Duration) {
	c.attemptsTotal.WithLabelValues(account, outcome).Inc()
	c.upstreamLatency.WithLabelValues(account).Observe(latency.Seconds())
}

// RecordRequest records one completed inbound request: its final result
// and how many failover attempts it took.
func (c *Collector) RecordRequest(result string, attempts int) {
	c.requestsTotal.WithLabelValues(result).Inc()
	if attempts > 0 {
		c.requestAttempts.Observe(float64(attempts))
	}
}

// UpdateAccountStates refreshes the per-account state gauges from health
// snapshots. Called after each recorded outcome and by the scheduled
// status summary.
func (c *Collector) UpdateAccountStates(snapshots map[string]health.Snapshot) {
	c.accountsConfigured.Set(float64(len(snapshots)))
	for name, snap := range snapshots {
		c.accountState.WithLabelValues(name).Set(float64(snap.State))
	}
}

// RemoveAccount drops the gauges for an account that left the
// configuration on reload.
func (c *Collector) RemoveAccount(name string) {
	c.accountState.DeleteLabelValues(name)
}
