// Package logging provides zerolog helpers shared by the CLI and the
// workflow engine. Spec descriptions and approval comments are free-form
// user text, so values are clamped before they reach a log file and
// anything that looks like a credential is redacted.
package logging

import (
	"io"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
)

// RedactedValue replaces credential-like content in log output.
const RedactedValue = "[REDACTED]"

// MaxFieldLength bounds free-form values written to log fields. Approval
// comments can be up to 1000 characters and descriptions up to 500; the log
// only needs enough to identify the entry.
const MaxFieldLength = 256

// credentialPatterns match common token formats that could leak into spec
// descriptions or approval comments pasted from a terminal.
var credentialPatterns = []*regexp.Regexp{ //nolint:gochecknoglobals // compiled once, read-only
	// GitHub tokens (ghp_, gho_, ghu_, ghs_, ghr_)
	regexp.MustCompile(`gh[pousr]_[a-zA-Z0-9]{20,}`),

	// Generic API keys (api_key=..., apikey: ...)
	regexp.MustCompile(`(?i)(api[_-]?key|apikey)\s*[:=]\s*["']?([a-zA-Z0-9_-]{16,})["']?`),

	// Bearer tokens
	regexp.MustCompile(`(?i)bearer\s+[a-zA-Z0-9_-]{20,}`),

	// Generic secret assignments
	regexp.MustCompile(`(?i)(secret|password|credential|passwd|token)\s*[:=]\s*["']?[^\s"']{8,}["']?`),

	// Private key blocks
	regexp.MustCompile(`(?i)-----BEGIN[A-Z\s]+PRIVATE KEY-----`),
}

// ContainsCredential reports whether a string matches any credential pattern.
func ContainsCredential(s string) bool {
	for _, pattern := range credentialPatterns {
		if pattern.MatchString(s) {
			return true
		}
	}
	return false
}

// Redact replaces credential-like substrings with RedactedValue.
func Redact(value string) string {
	result := value
	for _, pattern := range credentialPatterns {
		result = pattern.ReplaceAllString(result, RedactedValue)
	}
	return result
}

// Truncate clamps a value to MaxFieldLength runes, appending an ellipsis
// marker when content was dropped.
func Truncate(value string) string {
	runes := []rune(value)
	if len(runes) <= MaxFieldLength {
		return value
	}
	return string(runes[:MaxFieldLength]) + "..."
}

// SafeValue prepares a free-form user value for logging: credentials are
// redacted and the result is truncated.
//
// Usage:
//
//	log.Info().Str("comment", logging.SafeValue(comment)).Msg("approval recorded")
func SafeValue(value string) string {
	return Truncate(Redact(value))
}

// SafeDetail applies SafeValue to every value in an event detail map,
// returning a new map. Values under a sensitive-looking key are replaced
// wholesale. Used when echoing event details into log fields.
func SafeDetail(detail map[string]string) map[string]string {
	if detail == nil {
		return nil
	}
	out := make(map[string]string, len(detail))
	for k, v := range detail {
		if FieldNameSensitive(k) {
			out[k] = RedactedValue
			continue
		}
		out[k] = SafeValue(v)
	}
	return out
}

// CredentialHook is a zerolog hook that flags log entries whose message
// contains credential-like content. Zerolog does not allow a hook to rewrite
// the message, so redaction happens at call sites via SafeValue; the hook is
// a fallback marker for entries that slipped through.
type CredentialHook struct{}

// NewCredentialHook returns a hook for flagging credential-bearing messages.
func NewCredentialHook() *CredentialHook {
	return &CredentialHook{}
}

// Run implements the zerolog.Hook interface.
func (h *CredentialHook) Run(e *zerolog.Event, _ zerolog.Level, msg string) {
	if ContainsCredential(msg) {
		e.Bool("contains_filtered_data", true)
	}
}

// FilteringWriter wraps an io.Writer and redacts credential-like content
// before it reaches the underlying writer. Log file writers are wrapped with
// this so secrets never land on disk even when a call site forgot SafeValue.
type FilteringWriter struct {
	w io.Writer
}

// NewFilteringWriter wraps w in a FilteringWriter.
func NewFilteringWriter(w io.Writer) *FilteringWriter {
	return &FilteringWriter{w: w}
}

// Write implements io.Writer, redacting before forwarding. It reports the
// original length so callers do not see a short write when redaction shrinks
// the payload.
func (fw *FilteringWriter) Write(p []byte) (n int, err error) {
	filtered := Redact(string(p))
	if _, err = fw.w.Write([]byte(filtered)); err != nil {
		return 0, err
	}
	return len(p), nil
}

// FieldNameSensitive reports whether a field name itself indicates a secret.
func FieldNameSensitive(name string) bool {
	lower := strings.ToLower(name)
	for _, marker := range []string{"token", "secret", "password", "credential", "api_key", "apikey"} {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
