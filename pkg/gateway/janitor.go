package gateway

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"

	"nimbus-gw/nimbus/pkg/health"
	"nimbus-gw/nimbus/pkg/routing"
	"nimbus-gw/nimbus/pkg/telemetry/metrics"
)

// Janitor runs scheduled maintenance: it logs a pool-status summary,
// refreshes the account-state metrics, and rolls the selection statistics
// over to a fresh window. The schedule is a standard cron expression.
type Janitor struct {
	tracker   *health.Tracker
	selector  *routing.Selector
	collector *metrics.Collector
	schedule  string
	logger    *slog.Logger

	mu      sync.Mutex
	cron    *cron.Cron
	running bool
}

// NewJanitor creates a janitor. collector may be nil when metrics are
// disabled; an empty schedule disables the janitor entirely.
func NewJanitor(tracker *health.Tracker, selector *routing.Selector, collector *metrics.Collector, schedule string) *Janitor {
	return &Janitor{
		tracker:   tracker,
		selector:  selector,
		collector: collector,
		schedule:  schedule,
		cron:      cron.New(),
		logger:    slog.Default().With("component", "gateway.janitor"),
	}
}

// Start begins the scheduled runs. It validates the cron expression and
// returns an error for malformed schedules.
func (j *Janitor) Start() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.schedule == "" {
		j.logger.Info("status schedule not configured, janitor disabled")
		return nil
	}

	if _, err := cron.ParseStandard(j.schedule); err != nil {
		return fmt.Errorf("invalid status schedule %q: %w", j.schedule, err)
	}

	if _, err := j.cron.AddFunc(j.schedule, j.run); err != nil {
		return fmt.Errorf("failed to schedule status summary: %w", err)
	}

	j.cron.Start()
	j.running = true
	j.logger.Info("janitor started", "schedule", j.schedule)
	return nil
}

// Stop halts scheduled runs and waits for an in-flight run to finish.
func (j *Janitor) Stop() {
	j.mu.Lock()
	defer j.mu.Unlock()

	if !j.running {
		return
	}
	ctx := j.cron.Stop()
	<-ctx.Done()
	j.running = false
	j.logger.Info("janitor stopped")
}

// run executes one maintenance pass.
func (j *Janitor) run() {
	snapshots := j.tracker.SnapshotAll()

	available, cooling, disabled := 0, 0, 0
	for _, snap := range snapshots {
		switch snap.State {
		case health.StateAvailable:
			available++
		case health.StateCoolingDown:
			cooling++
		case health.StateDisabled:
			disabled++
		}
	}

	stats := j.selector.Stats().View()
	j.logger.Info("pool status summary",
		"accounts", len(snapshots),
		"available", available,
		"cooling_down", cooling,
		"disabled", disabled,
		"selections", stats.TotalSelections,
		"selection_errors", stats.Errors,
		"window_start", stats.LastResetTime,
	)

	if j.collector != nil {
		j.collector.UpdateAccountStates(snapshots)
	}

	j.selector.Stats().Reset()
}
