package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns any
// errors. Environment variables are not consulted; use
// LoadConfigWithEnvOverrides for that behavior.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	cfg.Telemetry.Metrics.Enabled = true
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Environment variables follow the naming
// convention NIMBUS_SECTION_FIELD (e.g., NIMBUS_SERVER_LISTEN_ADDRESS) and
// always take precedence over file-based configuration.
//
// The loading sequence is:
//  1. Load YAML from file
//  2. Apply default values
//  3. Apply environment variable overrides
//  4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the
// configuration. Variables use the format NIMBUS_SECTION_FIELD.
func applyEnvOverrides(cfg *Config) {
	// Server overrides
	if val := os.Getenv("NIMBUS_SERVER_LISTEN_ADDRESS"); val != "" {
		cfg.Server.ListenAddress = val
	}
	if d, ok := envDuration("NIMBUS_SERVER_REQUEST_TIMEOUT"); ok {
		cfg.Server.RequestTimeout = d
	}
	if d, ok := envDuration("NIMBUS_SERVER_SHUTDOWN_TIMEOUT"); ok {
		cfg.Server.ShutdownTimeout = d
	}

	// Upstream overrides
	if val := os.Getenv("NIMBUS_UPSTREAM_BASE_URL"); val != "" {
		cfg.Upstream.BaseURL = val
	}
	if d, ok := envDuration("NIMBUS_UPSTREAM_TIMEOUT"); ok {
		cfg.Upstream.Timeout = d
	}

	// Accounts overrides
	if val := os.Getenv("NIMBUS_ACCOUNTS_SOURCE"); val != "" {
		cfg.Accounts.Source = val
	}
	if val := os.Getenv("NIMBUS_ACCOUNTS_PATH"); val != "" {
		cfg.Accounts.Path = val
	}
	if b, ok := envBool("NIMBUS_ACCOUNTS_WATCH"); ok {
		cfg.Accounts.Watch = b
	}

	// Health policy overrides
	if d, ok := envDuration("NIMBUS_HEALTH_COOLDOWN_BASE"); ok {
		cfg.Health.CooldownBase = d
	}
	if d, ok := envDuration("NIMBUS_HEALTH_COOLDOWN_MAX"); ok {
		cfg.Health.CooldownMax = d
	}
	if d, ok := envDuration("NIMBUS_HEALTH_TRANSIENT_COOLDOWN"); ok {
		cfg.Health.TransientCooldown = d
	}
	if n, ok := envInt("NIMBUS_HEALTH_TRANSIENT_DISABLE_THRESHOLD"); ok {
		cfg.Health.TransientDisableThreshold = n
	}

	// Routing overrides
	if val := os.Getenv("NIMBUS_ROUTING_STRATEGY"); val != "" {
		cfg.Routing.Strategy = val
	}
	if n, ok := envInt("NIMBUS_ROUTING_MAX_ATTEMPTS"); ok {
		cfg.Routing.MaxAttempts = n
	}

	// Auth overrides
	if val := os.Getenv("NIMBUS_AUTH_TOKENS"); val != "" {
		cfg.Auth.Enabled = true
		cfg.Auth.Tokens = splitAndTrim(val)
	}

	// Telemetry overrides
	if val := os.Getenv("NIMBUS_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("NIMBUS_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if b, ok := envBool("NIMBUS_METRICS_ENABLED"); ok {
		cfg.Telemetry.Metrics.Enabled = b
	}
}

func envDuration(key string) (time.Duration, bool) {
	val := os.Getenv(key)
	if val == "" {
		return 0, false
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, false
	}
	return d, true
}

func envInt(key string) (int, bool) {
	val := os.Getenv(key)
	if val == "" {
		return 0, false
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, false
	}
	return n, true
}

func envBool(key string) (bool, bool) {
	val := os.Getenv(key)
	if val == "" {
		return false, false
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return false, false
	}
	return b, true
}

func splitAndTrim(val string) []string {
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
