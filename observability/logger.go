// Package observability provides structured logging, metrics, and tracing
// hooks for the acorn runtime.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
package observability

import (
	"log/slog"
	"time"
)

// LogResolve logs a successful resolution at debug level.
func LogResolve(logger *slog.Logger, key, lifetime, scopeID string, d time.Duration) {
	if logger == nil {
		return
	}
	logger.Debug("service resolved",
		slog.String("key", key),
		slog.String("lifetime", lifetime),
		slog.String("scope_id", scopeID),
		slog.Duration("duration", d),
	)
}

// LogResolveError logs a failed resolution.
func LogResolveError(logger *slog.Logger, key, scopeID string, err error) {
	if logger == nil {
		return
	}
	logger.Error("resolution failed",
		slog.String("key", key),
		slog.String("scope_id", scopeID),
		slog.String("error", err.Error()),
	)
}

// LogScopeCreated logs scope creation. parentID is empty for root scopes.
func LogScopeCreated(logger *slog.Logger, scopeID, parentID string) {
	if logger == nil {
		return
	}
	logger.Debug("scope created",
		slog.String("scope_id", scopeID),
		slog.String("parent_id", parentID),
	)
}

// LogScopeDisposed logs scope disposal with the number of released instances.
func LogScopeDisposed(logger *slog.Logger, scopeID string, released int, err error) {
	if logger == nil {
		return
	}
	if err != nil {
		logger.Warn("scope disposed with errors",
			slog.String("scope_id", scopeID),
			slog.Int("released", released),
			slog.String("error", err.Error()),
		)
		return
	}
	logger.Debug("scope disposed",
		slog.String("scope_id", scopeID),
		slog.Int("released", released),
	)
}

// LogShutdown logs container shutdown.
func LogShutdown(logger *slog.Logger, err error) {
	if logger == nil {
		return
	}
	if err != nil {
		logger.Error("container shutdown completed with errors",
			slog.String("error", err.Error()),
		)
		return
	}
	logger.Info("container shutdown completed")
}
