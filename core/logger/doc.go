// Package logger provides a structured logging facility based on Zap.
//
// # Correlation
//
// WithRayID tags a logger with the request id stored by the rayid middleware.
// WithRunID tags it with the id of one reconciliation run, so every line of a
// check, rebuild and commit can be grouped.
//
// # Configuration
//
//   - Level: debug, info, warn, error
//   - Format: json or console
//
// # Usage
//
//	log, _ := logger.New(&cfg.Log)
//	log.Info("Baseline committed")
package logger
