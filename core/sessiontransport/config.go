package sessiontransport

import (
	"log/slog"
	"net/http"
	"time"
)

// Config holds cookie transport configuration.
type Config struct {
	// CookieName is the name of the session cookie.
	CookieName string

	// MaxLifetime is the session expiry window; it also drives the cookie's
	// Max-Age refresh on every response.
	MaxLifetime time.Duration

	// GCDivisor sets the per-request garbage collection lottery: each
	// request triggers a deferred GC with probability 1/GCDivisor. Zero
	// disables the lottery entirely.
	GCDivisor int

	// Cookie attributes.
	Path     string
	Secure   bool
	HTTPOnly bool
	SameSite http.SameSite

	// Logger receives best-effort diagnostics. Nil disables logging.
	Logger *slog.Logger
}

// defaultConfig returns default configuration.
func defaultConfig() *Config {
	return &Config{
		CookieName:  "sid",
		MaxLifetime: 30 * time.Minute,
		GCDivisor:   100,
		Path:        "/",
		Secure:      true,
		HTTPOnly:    true,
		SameSite:    http.SameSiteLaxMode,
	}
}

// Option is a functional option for configuring the cookie transport.
type Option func(*Config)

// WithCookieName sets the session cookie name.
func WithCookieName(name string) Option {
	return func(c *Config) {
		if name != "" {
			c.CookieName = name
		}
	}
}

// WithMaxLifetime sets the session expiry window and cookie lifetime.
func WithMaxLifetime(d time.Duration) Option {
	return func(c *Config) {
		if d > 0 {
			c.MaxLifetime = d
		}
	}
}

// WithGCDivisor sets the garbage collection lottery odds to 1/divisor per
// request. Zero disables the lottery; collection must then be scheduled
// externally.
func WithGCDivisor(divisor int) Option {
	return func(c *Config) {
		if divisor >= 0 {
			c.GCDivisor = divisor
		}
	}
}

// WithCookiePath sets the cookie path attribute.
func WithCookiePath(path string) Option {
	return func(c *Config) {
		if path != "" {
			c.Path = path
		}
	}
}

// WithInsecureCookie clears the Secure attribute for plain-HTTP
// development setups.
func WithInsecureCookie() Option {
	return func(c *Config) {
		c.Secure = false
	}
}

// WithSameSite sets the cookie SameSite attribute.
func WithSameSite(mode http.SameSite) Option {
	return func(c *Config) {
		c.SameSite = mode
	}
}

// WithLogger sets the logger used for best-effort diagnostics.
func WithLogger(log *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = log
	}
}
