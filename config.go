package goSession

import (
	"errors"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultSessionDuration is the lifetime of a newly issued or refreshed session.
	DefaultSessionDuration = 7 * 24 * time.Hour
	// DefaultRefreshThreshold is the remaining lifetime below which a session is refreshed.
	DefaultRefreshThreshold = 24 * time.Hour
)

// Config is the immutable engine configuration. Obtain defaults from
// DefaultConfig and adjust fields before passing it to Builder.WithConfig.
type Config struct {
	Session SessionConfig
	Cookie  CookieConfig
	Audit   AuditConfig
	Metrics MetricsConfig
}

/*
====================================
SESSION CONFIG
====================================
*/

// SessionConfig controls token lifetime and sliding refresh.
type SessionConfig struct {
	Duration         time.Duration
	RefreshThreshold time.Duration
}

/*
====================================
COOKIE CONFIG
====================================
*/

// CookieConfig controls the session cookie. ProductionMode sets the Secure
// attribute.
type CookieConfig struct {
	Name           string
	Domain         string
	Path           string
	ProductionMode bool
	SameSite       http.SameSite
}

/*
====================================
AUDIT CONFIG
====================================
*/

// AuditConfig controls the asynchronous audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

/*
====================================
METRICS CONFIG
====================================
*/

// MetricsConfig controls in-process counters and the resolve latency histogram.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

/*
====================================
DEFAULT CONFIG
====================================
*/

// DefaultConfig returns the configuration used by New.
func DefaultConfig() Config {
	return Config{
		Session: SessionConfig{
			Duration:         DefaultSessionDuration,
			RefreshThreshold: DefaultRefreshThreshold,
		},
		Cookie: CookieConfig{
			Name:     "gosession",
			Path:     "/",
			SameSite: http.SameSiteLaxMode,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 1024,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

/*
====================================
VALIDATION
====================================
*/

// Validate reports the first invalid field of c.
func (c *Config) Validate() error {
	// Session
	if c.Session.Duration <= 0 {
		return errors.New("Session Duration must be > 0")
	}
	if c.Session.Duration < time.Second {
		return errors.New("Session Duration must be at least one second")
	}
	if c.Session.RefreshThreshold < 0 {
		return errors.New("Session RefreshThreshold must be >= 0")
	}
	if c.Session.RefreshThreshold >= c.Session.Duration {
		return errors.New("Session RefreshThreshold must be < Duration")
	}

	// Cookie
	if strings.TrimSpace(c.Cookie.Name) == "" {
		return errors.New("Cookie Name must not be empty")
	}
	if c.Cookie.Path != "" && !strings.HasPrefix(c.Cookie.Path, "/") {
		return errors.New("Cookie Path must start with /")
	}
	if c.Cookie.SameSite == http.SameSiteNoneMode && !c.Cookie.ProductionMode {
		return errors.New("Cookie SameSite=None requires ProductionMode (Secure)")
	}

	// Audit
	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("Audit BufferSize must be > 0 when enabled")
	}

	// Metrics
	if c.Metrics.EnableLatencyHistograms && !c.Metrics.Enabled {
		return errors.New("Metrics EnableLatencyHistograms requires Metrics Enabled")
	}

	return nil
}
