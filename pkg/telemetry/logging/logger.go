package logging

import (
	"io"
	"log/slog"
	"os"

	"nimbus-gw/nimbus/pkg/config"
)

// Setup builds the process-wide logger from configuration and installs it
// as the slog default. All log output passes through the credential
// redactor so account API keys and inbound bearer tokens never reach the
// log stream.
func Setup(cfg config.LoggingConfig) *slog.Logger {
	return SetupWithWriter(cfg, os.Stdout)
}

// SetupWithWriter is Setup with an explicit output writer, used in tests.
func SetupWithWriter(cfg config.LoggingConfig, w io.Writer) *slog.Logger {
	redactor := NewRedactor()

	opts := &slog.HandlerOptions{
		Level: ParseLevel(cfg.Level),
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			return redactor.RedactAttr(a)
		},
	}

	var handler slog.Handler
	switch cfg.Format {
	case "text":
		handler = slog.NewTextHandler(w, opts)
	default:
		handler = slog.NewJSONHandler(w, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// ParseLevel maps a configured level name to a slog level.
// Unknown names fall back to info.
func ParseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
