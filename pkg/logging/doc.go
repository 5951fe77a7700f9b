// Package logging provides structured logging utilities for idlelog.
//
// # Overview
//
// The package wraps log/slog with the defaults every idlelog command shares:
// JSON records on stderr, module and version attributes on every record, and
// source locations when running at debug level. Stdout is left free for
// command output such as replayed snapshots.
//
// # Log Levels
//
// Supported levels (case-insensitive): debug, info (default), warn/warning, error.
//
// # Usage
//
//	func main() {
//	    logging.SetDefaultStructuredLoggerWithLevel("idlelog", version, level)
//	    slog.Info("collector started", "file", path)
//	}
//
// A standalone logger:
//
//	logger := logging.NewStructuredLogger("idlelog", "v1.0.0", "debug")
//	logger.Debug("cycle", "emitted", true)
//
// # Environment Configuration
//
// LOG_LEVEL is consulted when no explicit level is passed:
//
//	LOG_LEVEL=debug idlelog run
//
// # Output Format
//
//	{
//	    "time": "2025-01-15T10:30:00.123Z",
//	    "level": "INFO",
//	    "msg": "record appended",
//	    "module": "idlelog",
//	    "version": "v1.0.0",
//	    "categories": ["cpu_data"]
//	}
package logging
