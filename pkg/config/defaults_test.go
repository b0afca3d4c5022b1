package config

import (
	"testing"
	"time"
)

func TestApplyDefaults_FillsZeroValues(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	if cfg.Server.ListenAddress != DefaultListenAddress {
		t.Errorf("expected %s, got %s", DefaultListenAddress, cfg.Server.ListenAddress)
	}
	if cfg.Server.RequestTimeout != DefaultRequestTimeout {
		t.Errorf("expected %v, got %v", DefaultRequestTimeout, cfg.Server.RequestTimeout)
	}
	if cfg.Upstream.BaseURL != DefaultUpstreamBaseURL {
		t.Errorf("expected %s, got %s", DefaultUpstreamBaseURL, cfg.Upstream.BaseURL)
	}
	if cfg.Accounts.Source != "file" || cfg.Accounts.Path != DefaultAccountsPath {
		t.Errorf("unexpected accounts defaults: %+v", cfg.Accounts)
	}
	if cfg.Health.CooldownBase != time.Minute || cfg.Health.CooldownMax != time.Hour {
		t.Errorf("unexpected health defaults: %+v", cfg.Health)
	}
	if cfg.Health.TransientDisableThreshold != DefaultTransientDisableThreshold {
		t.Errorf("unexpected transient threshold: %d", cfg.Health.TransientDisableThreshold)
	}
	if cfg.Routing.Strategy != "least-used" {
		t.Errorf("unexpected strategy default: %s", cfg.Routing.Strategy)
	}
	if cfg.Routing.MaxAttempts != 0 {
		t.Errorf("max attempts should default to zero (one try per account), got %d", cfg.Routing.MaxAttempts)
	}
	if cfg.Telemetry.Logging.Level != "info" || cfg.Telemetry.Logging.Format != "json" {
		t.Errorf("unexpected logging defaults: %+v", cfg.Telemetry.Logging)
	}
	if cfg.Telemetry.Metrics.Namespace != "nimbus" {
		t.Errorf("unexpected metrics namespace: %s", cfg.Telemetry.Metrics.Namespace)
	}
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := &Config{}
	cfg.Server.ListenAddress = "0.0.0.0:9999"
	cfg.Health.CooldownBase = 5 * time.Second
	cfg.Routing.Strategy = "round-robin"

	ApplyDefaults(cfg)

	if cfg.Server.ListenAddress != "0.0.0.0:9999" {
		t.Errorf("explicit listen address overwritten: %s", cfg.Server.ListenAddress)
	}
	if cfg.Health.CooldownBase != 5*time.Second {
		t.Errorf("explicit cooldown overwritten: %v", cfg.Health.CooldownBase)
	}
	if cfg.Routing.Strategy != "round-robin" {
		t.Errorf("explicit strategy overwritten: %s", cfg.Routing.Strategy)
	}
}

func TestNewDefaultConfig_EnablesMetrics(t *testing.T) {
	cfg := NewDefaultConfig()
	if !cfg.Telemetry.Metrics.Enabled {
		t.Error("expected metrics enabled in the default config")
	}
}
