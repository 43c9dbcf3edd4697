// Package logger provides structured logging for clikit applications.
//
// It wraps the standard library log/slog with:
//
//   - a small Logger interface that toolkit packages accept
//   - text (default) or JSON output
//   - a process-wide level that commands can raise at runtime (--verbose)
//   - redaction of attributes whose key names look like secrets
//   - context helpers carrying a logger and a command run ID
//
// Debug level adds source locations to every record.
package logger
