// Package logger provides slog attribute helpers shared across the module.
//
// Helpers that take a value which may be absent (nil error, nil id) return
// an empty slog.Attr, which slog drops silently, so call sites never need a
// nil check:
//
//	log.Warn("session gc failed",
//		logger.Error(err),
//		logger.Component("session"),
//	)
//
// The helpers produce stable attribute keys ("error", "duration",
// "component", ...) so log output stays greppable across packages.
package logger
