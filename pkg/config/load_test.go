package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoadConfig_ValidFile(t *testing.T) {
	path := writeConfig(t, `
server:
  listen_address: "0.0.0.0:11435"
  request_timeout: "90s"

upstream:
  base_url: "https://api.ollama.com"
  timeout: "45s"

accounts:
  source: "file"
  path: "cloud_accounts.json"
  watch: true

health:
  cooldown_base: "30s"
  cooldown_max: "2h"

routing:
  strategy: "round-robin"
  max_attempts: 4

telemetry:
  logging:
    level: "debug"
    format: "text"
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Server.ListenAddress != "0.0.0.0:11435" {
		t.Errorf("unexpected listen address: %s", cfg.Server.ListenAddress)
	}
	if cfg.Server.RequestTimeout != 90*time.Second {
		t.Errorf("unexpected request timeout: %v", cfg.Server.RequestTimeout)
	}
	if cfg.Upstream.Timeout != 45*time.Second {
		t.Errorf("unexpected upstream timeout: %v", cfg.Upstream.Timeout)
	}
	if !cfg.Accounts.Watch {
		t.Error("expected watch enabled")
	}
	if cfg.Health.CooldownBase != 30*time.Second || cfg.Health.CooldownMax != 2*time.Hour {
		t.Errorf("unexpected cooldowns: %v / %v", cfg.Health.CooldownBase, cfg.Health.CooldownMax)
	}
	if cfg.Routing.Strategy != "round-robin" || cfg.Routing.MaxAttempts != 4 {
		t.Errorf("unexpected routing config: %+v", cfg.Routing)
	}
	if cfg.Telemetry.Logging.Level != "debug" || cfg.Telemetry.Logging.Format != "text" {
		t.Errorf("unexpected logging config: %+v", cfg.Telemetry.Logging)
	}
}

func TestLoadConfig_DefaultsFillGaps(t *testing.T) {
	// A minimal file is enough: every other field defaults.
	path := writeConfig(t, `
accounts:
  path: "accounts.json"
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Server.ListenAddress != DefaultListenAddress {
		t.Errorf("expected default listen address, got %s", cfg.Server.ListenAddress)
	}
	if cfg.Upstream.BaseURL != DefaultUpstreamBaseURL {
		t.Errorf("expected default upstream, got %s", cfg.Upstream.BaseURL)
	}
	if cfg.Accounts.Source != DefaultAccountsSource {
		t.Errorf("expected default source, got %s", cfg.Accounts.Source)
	}
	if cfg.Health.CooldownBase != DefaultCooldownBase {
		t.Errorf("expected default cooldown base, got %v", cfg.Health.CooldownBase)
	}
	if cfg.Routing.Strategy != DefaultRoutingStrategy {
		t.Errorf("expected default strategy, got %s", cfg.Routing.Strategy)
	}
	if !cfg.Telemetry.Metrics.Enabled {
		t.Error("expected metrics enabled by default")
	}
	if cfg.Telemetry.Metrics.Path != DefaultMetricsPath {
		t.Errorf("expected default metrics path, got %s", cfg.Telemetry.Metrics.Path)
	}
}

func TestLoadConfig_MetricsCanBeDisabled(t *testing.T) {
	path := writeConfig(t, `
telemetry:
  metrics:
    enabled: false
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Telemetry.Metrics.Enabled {
		t.Error("expected metrics disabled when the file says so")
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadConfig_MalformedYAML(t *testing.T) {
	path := writeConfig(t, "server: [not a mapping")
	if _, err := LoadConfig(path); err == nil {
		t.Error("expected error for malformed YAML")
	}
}

func TestLoadConfig_InvalidConfigRejected(t *testing.T) {
	path := writeConfig(t, `
routing:
  strategy: "random"
`)
	if _, err := LoadConfig(path); err == nil {
		t.Error("expected validation error for unknown strategy")
	}
}

func TestLoadConfigWithEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
server:
  listen_address: "127.0.0.1:11435"
upstream:
  base_url: "https://api.ollama.com"
`)

	t.Setenv("NIMBUS_SERVER_LISTEN_ADDRESS", "0.0.0.0:8080")
	t.Setenv("NIMBUS_UPSTREAM_BASE_URL", "https://staging.example.com")
	t.Setenv("NIMBUS_HEALTH_COOLDOWN_BASE", "45s")
	t.Setenv("NIMBUS_ROUTING_MAX_ATTEMPTS", "7")
	t.Setenv("NIMBUS_AUTH_TOKENS", "tok-one, tok-two")

	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Server.ListenAddress != "0.0.0.0:8080" {
		t.Errorf("expected env override for listen address, got %s", cfg.Server.ListenAddress)
	}
	if cfg.Upstream.BaseURL != "https://staging.example.com" {
		t.Errorf("expected env override for upstream, got %s", cfg.Upstream.BaseURL)
	}
	if cfg.Health.CooldownBase != 45*time.Second {
		t.Errorf("expected env override for cooldown base, got %v", cfg.Health.CooldownBase)
	}
	if cfg.Routing.MaxAttempts != 7 {
		t.Errorf("expected env override for max attempts, got %d", cfg.Routing.MaxAttempts)
	}
	if !cfg.Auth.Enabled {
		t.Error("expected auth enabled via env tokens")
	}
	if len(cfg.Auth.Tokens) != 2 || cfg.Auth.Tokens[0] != "tok-one" || cfg.Auth.Tokens[1] != "tok-two" {
		t.Errorf("expected trimmed token list, got %v", cfg.Auth.Tokens)
	}
}

func TestLoadConfigWithEnvOverrides_InvalidOverrideRejected(t *testing.T) {
	path := writeConfig(t, "")

	t.Setenv("NIMBUS_ROUTING_STRATEGY", "random")

	if _, err := LoadConfigWithEnvOverrides(path); err == nil {
		t.Error("expected validation failure for invalid override")
	}
}
