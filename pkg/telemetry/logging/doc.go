// Package logging configures structured logging for the Nimbus gateway.
//
// Logs use log/slog with JSON or text output. Every attribute passes
// through a credential redactor so account API keys and bearer tokens
// never appear in log output.
package logging
