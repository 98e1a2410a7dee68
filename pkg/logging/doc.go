// Package logging provides structured logging utilities for shellpack.
//
// # Overview
//
// This package wraps the standard library slog package with project defaults
// so that the CLI, the build runner, and every bundler strategy emit the same
// JSON records on stderr.
//
// # Log Levels
//
// Supported log levels (case-insensitive):
//   - DEBUG: adds source location to each record
//   - INFO: default
//   - WARN/WARNING
//   - ERROR
//
// When no level is passed explicitly the LOG_LEVEL environment variable is
// consulted:
//
//	LOG_LEVEL=debug shellpack build --target dmg
//
// # Usage
//
//	func main() {
//	    logging.SetDefaultStructuredLoggerWithLevel("shellpack", version, "info")
//	    slog.Info("bundling", "type", "dmg", "path", dmgPath)
//	}
//
// Records look like:
//
//	{
//	    "time": "2025-01-15T10:30:00.123Z",
//	    "level": "INFO",
//	    "msg": "bundling",
//	    "module": "shellpack",
//	    "version": "v0.3.0",
//	    "type": "dmg"
//	}
package logging
