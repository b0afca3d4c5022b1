package config

import "time"

// Default configuration values.
const (
	DefaultListenAddress   = "127.0.0.1:11435"
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 120 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	DefaultRequestTimeout  = 60 * time.Second
	DefaultMaxHeaderBytes  = 1 << 20

	DefaultUpstreamBaseURL     = "https://api.ollama.com"
	DefaultUpstreamTimeout     = 30 * time.Second
	DefaultMaxIdleConns        = 100
	DefaultMaxIdleConnsPerHost = 10
	DefaultIdleConnTimeout     = 90 * time.Second

	DefaultAccountsSource = "file"
	DefaultAccountsPath   = "cloud_accounts.json"
	DefaultWatchDebounce  = 200 * time.Millisecond

	DefaultCooldownBase              = time.Minute
	DefaultCooldownMax               = time.Hour
	DefaultTransientCooldown         = 10 * time.Second
	DefaultTransientDisableThreshold = 5

	DefaultRoutingStrategy = "least-used"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultMetricsNamespace = "nimbus"
	DefaultMetricsPath      = "/metrics"
)

// NewDefaultConfig returns a Config populated with all default values.
func NewDefaultConfig() *Config {
	cfg := &Config{}
	cfg.Telemetry.Metrics.Enabled = true
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills in default values for any zero-valued fields in the
// configuration. It is called after parsing and before validation so that
// a minimal configuration file is sufficient to start the gateway.
func ApplyDefaults(cfg *Config) {
	applyServerDefaults(&cfg.Server)
	applyUpstreamDefaults(&cfg.Upstream)
	applyAccountsDefaults(&cfg.Accounts)
	applyHealthDefaults(&cfg.Health)
	applyRoutingDefaults(&cfg.Routing)
	applyTelemetryDefaults(&cfg.Telemetry)
}

func applyServerDefaults(s *ServerConfig) {
	if s.ListenAddress == "" {
		s.ListenAddress = DefaultListenAddress
	}
	if s.ReadTimeout == 0 {
		s.ReadTimeout = DefaultReadTimeout
	}
	if s.WriteTimeout == 0 {
		s.WriteTimeout = DefaultWriteTimeout
	}
	if s.IdleTimeout == 0 {
		s.IdleTimeout = DefaultIdleTimeout
	}
	if s.ShutdownTimeout == 0 {
		s.ShutdownTimeout = DefaultShutdownTimeout
	}
	if s.RequestTimeout == 0 {
		s.RequestTimeout = DefaultRequestTimeout
	}
	if s.MaxHeaderBytes == 0 {
		s.MaxHeaderBytes = DefaultMaxHeaderBytes
	}
}

func applyUpstreamDefaults(u *UpstreamConfig) {
	if u.BaseURL == "" {
		u.BaseURL = DefaultUpstreamBaseURL
	}
	if u.Timeout == 0 {
		u.Timeout = DefaultUpstreamTimeout
	}
	if u.MaxIdleConns == 0 {
		u.MaxIdleConns = DefaultMaxIdleConns
	}
	if u.MaxIdleConnsPerHost == 0 {
		u.MaxIdleConnsPerHost = DefaultMaxIdleConnsPerHost
	}
	if u.IdleConnTimeout == 0 {
		u.IdleConnTimeout = DefaultIdleConnTimeout
	}
}

func applyAccountsDefaults(a *AccountsConfig) {
	if a.Source == "" {
		a.Source = DefaultAccountsSource
	}
	if a.Path == "" {
		a.Path = DefaultAccountsPath
	}
	if a.WatchDebounce == 0 {
		a.WatchDebounce = DefaultWatchDebounce
	}
}

func applyHealthDefaults(h *HealthConfig) {
	if h.CooldownBase == 0 {
		h.CooldownBase = DefaultCooldownBase
	}
	if h.CooldownMax == 0 {
		h.CooldownMax = DefaultCooldownMax
	}
	if h.TransientCooldown == 0 {
		h.TransientCooldown = DefaultTransientCooldown
	}
	if h.TransientDisableThreshold == 0 {
		h.TransientDisableThreshold = DefaultTransientDisableThreshold
	}
}

func applyRoutingDefaults(r *RoutingConfig) {
	if r.Strategy == "" {
		r.Strategy = DefaultRoutingStrategy
	}
}

func applyTelemetryDefaults(t *TelemetryConfig) {
	if t.Logging.Level == "" {
		t.Logging.Level = DefaultLogLevel
	}
	if t.Logging.Format == "" {
		t.Logging.Format = DefaultLogFormat
	}
	if t.Metrics.Namespace == "" {
		t.Metrics.Namespace = DefaultMetricsNamespace
	}
	if t.Metrics.Path == "" {
		t.Metrics.Path = DefaultMetricsPath
	}
}
