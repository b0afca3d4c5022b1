package config

import "time"

// Config is the root configuration structure for Nimbus.
// It contains all configuration sections for the gateway server, the
// upstream inference API, the account pool, health policy, routing,
// inbound auth, and telemetry.
type Config struct {
	// Server contains HTTP gateway server configuration including listen
	// address, timeouts, and connection limits.
	Server ServerConfig `yaml:"server"`

	// Upstream contains configuration for the cloud inference API that
	// requests are forwarded to.
	Upstream UpstreamConfig `yaml:"upstream"`

	// Accounts contains configuration for the account credential source.
	Accounts AccountsConfig `yaml:"accounts"`

	// Health contains the cooldown and escalation policy applied to
	// account failures.
	Health HealthConfig `yaml:"health"`

	// Routing contains configuration for account selection including
	// strategy and failover attempt limits.
	Routing RoutingConfig `yaml:"routing"`

	// Auth contains optional bearer-token authentication for inbound
	// callers.
	Auth AuthConfig `yaml:"auth"`

	// Telemetry contains configuration for observability including
	// logging, metrics, and the scheduled pool-status summary.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ServerConfig contains configuration for the HTTP gateway server.
type ServerConfig struct {
	// ListenAddress is the address and port for the gateway to listen on.
	// Format: "host:port" (e.g., "0.0.0.0:11435").
	// Default: "127.0.0.1:11435"
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading the entire request,
	// including the body.
	// Default: 30s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out writes of
	// the response.
	// Default: 120s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the maximum amount of time to wait for the next
	// request when keep-alives are enabled.
	// Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout is the maximum duration to wait for graceful
	// shutdown before in-flight requests are abandoned.
	// Default: 30s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// RequestTimeout is the overall deadline applied to each inbound
	// request, covering every failover attempt. Zero disables it.
	// Default: 60s
	RequestTimeout time.Duration `yaml:"request_timeout"`

	// MaxHeaderBytes controls the maximum number of bytes the server
	// will read parsing request headers.
	// Default: 1048576 (1MB)
	MaxHeaderBytes int `yaml:"max_header_bytes"`
}

// UpstreamConfig contains configuration for the upstream inference API.
type UpstreamConfig struct {
	// BaseURL is the base URL of the upstream API.
	// Default: "https://api.ollama.com"
	BaseURL string `yaml:"base_url"`

	// Timeout is the per-attempt timeout for a single upstream call.
	// It is always capped by the remaining inbound request deadline.
	// Default: 30s
	Timeout time.Duration `yaml:"timeout"`

	// MaxIdleConns is the maximum number of idle connections in the
	// upstream connection pool.
	// Default: 100
	MaxIdleConns int `yaml:"max_idle_conns"`

	// MaxIdleConnsPerHost is the maximum number of idle connections
	// per upstream host.
	// Default: 10
	MaxIdleConnsPerHost int `yaml:"max_idle_conns_per_host"`

	// IdleConnTimeout is how long an idle connection is kept in the pool.
	// Default: 90s
	IdleConnTimeout time.Duration `yaml:"idle_conn_timeout"`
}

// AccountsConfig contains configuration for the account credential source.
type AccountsConfig struct {
	// Source selects the account source backend.
	// Values: "file" (JSON or YAML) or "sqlite".
	// Default: "file"
	Source string `yaml:"source"`

	// Path is the location of the account source: a JSON/YAML file for
	// the file source, or a database file for the sqlite source.
	// Default: "cloud_accounts.json"
	Path string `yaml:"path"`

	// Watch enables hot reload of the account file on change.
	// Reload swaps the account set; it is the only way credentials
	// change at runtime. Only supported by the file source.
	// Default: false
	Watch bool `yaml:"watch"`

	// WatchDebounce is the time to wait after a file change before
	// triggering a reload, to coalesce editor write bursts.
	// Default: 200ms
	WatchDebounce time.Duration `yaml:"watch_debounce"`
}

// HealthConfig contains the account failure policy. These values are
// deliberately configuration rather than constants: the right cooldowns
// depend on the upstream provider's rate-limit windows.
type HealthConfig struct {
	// CooldownBase is the base cooldown applied on the first rate-limit
	// failure. Each further consecutive failure doubles it.
	// Default: 1m
	CooldownBase time.Duration `yaml:"cooldown_base"`

	// CooldownMax caps the exponential rate-limit cooldown.
	// Default: 1h
	CooldownMax time.Duration `yaml:"cooldown_max"`

	// TransientCooldown is the fixed cooldown applied on a transient
	// failure (network error, 5xx, deadline).
	// Default: 10s
	TransientCooldown time.Duration `yaml:"transient_cooldown"`

	// TransientDisableThreshold is the number of consecutive transient
	// failures after which an account is disabled until manually reset.
	// Default: 5
	TransientDisableThreshold int `yaml:"transient_disable_threshold"`
}

// RoutingConfig contains configuration for account selection.
type RoutingConfig struct {
	// Strategy selects the account selection strategy.
	// Values: "least-used" (spread load, prefer accounts returning from
	// cooldown) or "round-robin".
	// Default: "least-used"
	Strategy string `yaml:"strategy"`

	// MaxAttempts bounds the failover loop for one inbound request.
	// Zero means one attempt per configured account.
	// Default: 0
	MaxAttempts int `yaml:"max_attempts"`
}

// AuthConfig contains optional inbound bearer-token authentication.
type AuthConfig struct {
	// Enabled controls whether inbound requests must present a token.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Tokens is the list of accepted bearer tokens.
	Tokens []string `yaml:"tokens"`
}

// TelemetryConfig contains observability configuration.
type TelemetryConfig struct {
	// Logging contains structured logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains Prometheus metrics configuration.
	Metrics MetricsConfig `yaml:"metrics"`

	// StatusSchedule is a cron expression for the periodic pool-status
	// summary log and routing-stats rollover. Empty disables it.
	// Example: "0 * * * *" (hourly).
	// Default: ""
	StatusSchedule string `yaml:"status_schedule"`
}

// LoggingConfig contains structured logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level.
	// Values: "debug", "info", "warn", "error".
	// Default: "info"
	Level string `yaml:"level"`

	// Format is the log output format.
	// Values: "json", "text".
	// Default: "json"
	Format string `yaml:"format"`
}

// MetricsConfig contains Prometheus metrics configuration.
type MetricsConfig struct {
	// Enabled controls whether the /metrics endpoint is served.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Namespace is the Prometheus metric namespace prefix.
	// Default: "nimbus"
	Namespace string `yaml:"namespace"`

	// Path is the HTTP path the metrics endpoint is served on.
	// Default: "/metrics"
	Path string `yaml:"path"`
}
