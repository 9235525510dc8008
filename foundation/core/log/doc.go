// Package log provides structured logging for actionvm.
//
// Package: log
// Title: actionvm Structured Logging
// Description: Leveled, field-based logging with JSON, text and console
//              output. Loggers are immutable: With* methods return a clone,
//              so a component logger can be derived once and shared. Errors
//              from foundation/core/error are logged at a level derived from
//              their severity.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-18
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with structured logging and error integration
// - 2026-10-18 v0.2.0: Session context, deterministic field order, no async mode
//
// Usage:
//   import mdwlog "github.com/msto63/actionvm/foundation/core/log"
//
//   logger := mdwlog.NewWithConfig(mdwlog.Config{Level: mdwlog.LevelDebug, Format: mdwlog.FormatText})
//   logger = logger.WithField("component", "interp")
//   logger.Debug("action executed", mdwlog.Fields{"kind": "ASSIGN", "path": "a.b"})
//
//   timer := logger.StartTimer("batch")
//   defer timer.Stop()
package log
