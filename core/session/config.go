package session

import (
	"log/slog"
	"time"
)

// Config holds session engine configuration.
type Config struct {
	// MaxLifetime is the duration after which an unmodified session row is
	// considered expired and logically absent.
	MaxLifetime time.Duration

	// Logger receives best-effort diagnostics (deferred GC failures). Nil
	// disables logging.
	Logger *slog.Logger
}

// defaultConfig returns default configuration.
func defaultConfig() *Config {
	return &Config{
		MaxLifetime: 30 * time.Minute,
	}
}

// Option is a functional option for configuring the session engine.
type Option func(*Config)

// WithMaxLifetime sets the session expiry window used by Read, Validate and
// the deferred GC run.
func WithMaxLifetime(d time.Duration) Option {
	return func(c *Config) {
		if d > 0 {
			c.MaxLifetime = d
		}
	}
}

// WithLogger sets the logger used for best-effort diagnostics.
func WithLogger(log *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = log
	}
}
