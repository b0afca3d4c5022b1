package logging

import (
	"log/slog"
	"regexp"
)

// Redactor removes credentials from log output. A log call that includes
// an API key or bearer token emits a redacted value instead.
type Redactor struct {
	patterns []*redactPattern
}

// redactPattern pairs a compiled regex with its replacement.
type redactPattern struct {
	name        string
	regex       *regexp.Regexp
	replacement string
}

// NewRedactor creates a redactor with the built-in credential patterns.
func NewRedactor() *Redactor {
	return &Redactor{
		patterns: []*redactPattern{
			{
				name:        "bearer_token",
				regex:       regexp.MustCompile(`(?i)bearer\s+[a-zA-Z0-9._\-]+`),
				replacement: "Bearer ***",
			},
			{
				name:        "api_key",
				regex:       regexp.MustCompile(`(sk-[a-zA-Z0-9]+|(?i)api[-_]?key[-_:=]\s*[a-zA-Z0-9._\-]+)`),
				replacement: "***",
			},
		},
	}
}

// Redact replaces credential material in a string.
func (r *Redactor) Redact(s string) string {
	for _, p := range r.patterns {
		s = p.regex.ReplaceAllString(s, p.replacement)
	}
	return s
}

// RedactAttr redacts string attribute values. Non-string values pass
// through untouched.
func (r *Redactor) RedactAttr(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindString {
		a.Value = slog.StringValue(r.Redact(a.Value.String()))
	}
	return a
}

// RedactKey masks an API key for display surfaces like the accounts CLI
// listing: the first four characters survive, the rest is masked.
func RedactKey(key string) string {
	if len(key) <= 4 {
		return "****"
	}
	return key[:4] + "****"
}
