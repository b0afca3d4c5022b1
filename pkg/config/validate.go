package config

import (
	"fmt"
	"net/url"
	"strings"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field
	// (e.g., "server.listen_address").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a
// configuration. It implements the error interface and provides access to
// all field errors.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a ValidationError
// if any validation rules fail. All validation errors are collected and
// returned together rather than failing on the first one.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateServer(&cfg.Server)...)
	errs = append(errs, validateUpstream(&cfg.Upstream)...)
	errs = append(errs, validateAccounts(&cfg.Accounts)...)
	errs = append(errs, validateHealth(&cfg.Health)...)
	errs = append(errs, validateRouting(&cfg.Routing)...)
	errs = append(errs, validateAuth(&cfg.Auth)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}

func validateServer(s *ServerConfig) []FieldError {
	var errs []FieldError

	if s.ListenAddress == "" {
		errs = append(errs, FieldError{
			Field:   "server.listen_address",
			Message: "listen address cannot be empty",
		})
	} else if !strings.Contains(s.ListenAddress, ":") {
		errs = append(errs, FieldError{
			Field:   "server.listen_address",
			Message: fmt.Sprintf("invalid address %q: must be in host:port format", s.ListenAddress),
		})
	}

	if s.RequestTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.request_timeout",
			Message: "request timeout cannot be negative",
		})
	}
	if s.ShutdownTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.shutdown_timeout",
			Message: "shutdown timeout cannot be negative",
		})
	}

	return errs
}

func validateUpstream(u *UpstreamConfig) []FieldError {
	var errs []FieldError

	if u.BaseURL == "" {
		errs = append(errs, FieldError{
			Field:   "upstream.base_url",
			Message: "base URL cannot be empty",
		})
	} else {
		parsed, err := url.Parse(u.BaseURL)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			errs = append(errs, FieldError{
				Field:   "upstream.base_url",
				Message: fmt.Sprintf("invalid URL %q: must be an absolute http(s) URL", u.BaseURL),
			})
		} else if parsed.Scheme != "http" && parsed.Scheme != "https" {
			errs = append(errs, FieldError{
				Field:   "upstream.base_url",
				Message: fmt.Sprintf("unsupported scheme %q: must be http or https", parsed.Scheme),
			})
		}
	}

	if u.Timeout <= 0 {
		errs = append(errs, FieldError{
			Field:   "upstream.timeout",
			Message: "per-attempt timeout must be positive",
		})
	}

	return errs
}

func validateAccounts(a *AccountsConfig) []FieldError {
	var errs []FieldError

	switch a.Source {
	case "file", "sqlite":
	default:
		errs = append(errs, FieldError{
			Field:   "accounts.source",
			Message: fmt.Sprintf("unknown source %q: must be \"file\" or \"sqlite\"", a.Source),
		})
	}

	if a.Path == "" {
		errs = append(errs, FieldError{
			Field:   "accounts.path",
			Message: "accounts path cannot be empty",
		})
	}

	if a.Watch && a.Source != "file" {
		errs = append(errs, FieldError{
			Field:   "accounts.watch",
			Message: "watch is only supported for the file source",
		})
	}

	return errs
}

func validateHealth(h *HealthConfig) []FieldError {
	var errs []FieldError

	if h.CooldownBase <= 0 {
		errs = append(errs, FieldError{
			Field:   "health.cooldown_base",
			Message: "base cooldown must be positive",
		})
	}
	if h.CooldownMax < h.CooldownBase {
		errs = append(errs, FieldError{
			Field:   "health.cooldown_max",
			Message: "max cooldown must be at least the base cooldown",
		})
	}
	if h.TransientCooldown <= 0 {
		errs = append(errs, FieldError{
			Field:   "health.transient_cooldown",
			Message: "transient cooldown must be positive",
		})
	}
	if h.TransientDisableThreshold < 1 {
		errs = append(errs, FieldError{
			Field:   "health.transient_disable_threshold",
			Message: "transient disable threshold must be at least 1",
		})
	}

	return errs
}

func validateRouting(r *RoutingConfig) []FieldError {
	var errs []FieldError

	switch r.Strategy {
	case "least-used", "round-robin":
	default:
		errs = append(errs, FieldError{
			Field:   "routing.strategy",
			Message: fmt.Sprintf("unknown strategy %q: must be \"least-used\" or \"round-robin\"", r.Strategy),
		})
	}

	if r.MaxAttempts < 0 {
		errs = append(errs, FieldError{
			Field:   "routing.max_attempts",
			Message: "max attempts cannot be negative",
		})
	}

	return errs
}

func validateAuth(a *AuthConfig) []FieldError {
	var errs []FieldError

	if a.Enabled && len(a.Tokens) == 0 {
		errs = append(errs, FieldError{
			Field:   "auth.tokens",
			Message: "auth is enabled but no tokens are configured",
		})
	}
	for i, token := range a.Tokens {
		if token == "" {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("auth.tokens[%d]", i),
				Message: "token cannot be empty",
			})
		}
	}

	return errs
}

func validateTelemetry(t *TelemetryConfig) []FieldError {
	var errs []FieldError

	switch t.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("unknown level %q: must be debug, info, warn, or error", t.Logging.Level),
		})
	}

	switch t.Logging.Format {
	case "json", "text":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("unknown format %q: must be json or text", t.Logging.Format),
		})
	}

	if t.Metrics.Enabled && !strings.HasPrefix(t.Metrics.Path, "/") {
		errs = append(errs, FieldError{
			Field:   "telemetry.metrics.path",
			Message: fmt.Sprintf("invalid path %q: must start with /", t.Metrics.Path),
		})
	}

	return errs
}
