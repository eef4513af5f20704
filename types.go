package goSession

import (
	"errors"
	"io"
	"net/http"

	"github.com/MrEthical07/goSession/directory"
	internalaudit "github.com/MrEthical07/goSession/internal/audit"
	internalmetrics "github.com/MrEthical07/goSession/internal/metrics"
	"github.com/rs/zerolog"
)

// Role is the role a session user holds.
type Role = directory.Role

const (
	// RoleUser is the default role of registered accounts.
	RoleUser = directory.RoleUser
	// RoleAdmin is required by administrative operations.
	RoleAdmin = directory.RoleAdmin
)

// SessionUser is the projection of a directory user exposed to handlers and
// views. It is derived on every resolve and never persisted.
type SessionUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
	Role  Role   `json:"role"`
}

func newSessionUser(u *directory.User) *SessionUser {
	return &SessionUser{
		ID:    u.ID,
		Email: u.Email,
		Name:  u.Name,
		Image: u.Image,
		Role:  u.Role,
	}
}

// IsAdmin reports whether the user holds RoleAdmin.
func (u *SessionUser) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// AuthDecision is the outcome of an authorization check. Status is 0 on
// success and one of 401, 403 or 500 otherwise.
type AuthDecision struct {
	Success bool         `json:"success"`
	User    *SessionUser `json:"user,omitempty"`
	Error   string       `json:"error,omitempty"`
	Status  int          `json:"-"`

	cause error
}

// Err returns the decision as an error for callers outside HTTP: nil on
// success, ErrUnauthorized for 401, ErrForbidden for 403 and the underlying
// failure for 500.
func (d AuthDecision) Err() error {
	switch {
	case d.Success:
		return nil
	case d.Status == http.StatusUnauthorized:
		return ErrUnauthorized
	case d.Status == http.StatusForbidden:
		return ErrForbidden
	case d.cause != nil:
		return d.cause
	default:
		return errors.New(d.Error)
	}
}

// RegisterRequest carries the fields accepted by Engine.Register.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Image    string `json:"image,omitempty"`
}

// RandomBytesFunc returns n cryptographically random bytes.
type RandomBytesFunc func(n int) ([]byte, error)

// AuditEvent is a structured audit record emitted by the engine.
type AuditEvent = internalaudit.Event

// AuditSink receives [AuditEvent] values from the engine’s audit dispatcher.
type AuditSink = internalaudit.Sink

// NoOpSink is an [AuditSink] that silently discards all events.
type NoOpSink = internalaudit.NoOpSink

// ChannelSink is a buffered channel-based [AuditSink].
type ChannelSink = internalaudit.ChannelSink

// JSONWriterSink is an [AuditSink] that writes JSON-encoded events to an
// [io.Writer].
type JSONWriterSink = internalaudit.JSONWriterSink

// LoggerSink is an [AuditSink] that forwards events to a zerolog logger.
type LoggerSink = internalaudit.LoggerSink

// NewChannelSink creates a [ChannelSink] with the given buffer capacity.
func NewChannelSink(buffer int) *ChannelSink {
	return internalaudit.NewChannelSink(buffer)
}

// NewJSONWriterSink creates a [JSONWriterSink] that writes to w.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return internalaudit.NewJSONWriterSink(w)
}

// NewLoggerSink creates a [LoggerSink] writing through log.
func NewLoggerSink(log zerolog.Logger) *LoggerSink {
	return internalaudit.NewLoggerSink(log)
}

// MetricID identifies a specific counter or histogram in the in-process
// metrics system.
type MetricID = internalmetrics.MetricID

const (
	MetricLoginSuccess         = internalmetrics.MetricLoginSuccess
	MetricLoginFailure         = internalmetrics.MetricLoginFailure
	MetricLoginRateLimited     = internalmetrics.MetricLoginRateLimited
	MetricRegisterSuccess      = internalmetrics.MetricRegisterSuccess
	MetricRegisterFailure      = internalmetrics.MetricRegisterFailure
	MetricRegisterDuplicate    = internalmetrics.MetricRegisterDuplicate
	MetricSessionCreated       = internalmetrics.MetricSessionCreated
	MetricSessionValid         = internalmetrics.MetricSessionValid
	MetricSessionAbsent        = internalmetrics.MetricSessionAbsent
	MetricSessionDecodeFailure = internalmetrics.MetricSessionDecodeFailure
	MetricSessionExpired       = internalmetrics.MetricSessionExpired
	MetricSessionUserGone      = internalmetrics.MetricSessionUserGone
	MetricSessionResolveError  = internalmetrics.MetricSessionResolveError
	MetricRefreshSuccess       = internalmetrics.MetricRefreshSuccess
	MetricRefreshFailure       = internalmetrics.MetricRefreshFailure
	MetricLogout               = internalmetrics.MetricLogout
	MetricAuthAllowed          = internalmetrics.MetricAuthAllowed
	MetricAuthUnauthorized     = internalmetrics.MetricAuthUnauthorized
	MetricAuthForbidden        = internalmetrics.MetricAuthForbidden
	MetricAuthError            = internalmetrics.MetricAuthError
	// MetricResolveLatency is the only histogram; it times session resolution.
	MetricResolveLatency = internalmetrics.MetricResolveLatency
)

// Metrics is the engine's lock-free counter set.
type Metrics = internalmetrics.Metrics

// MetricsSnapshot is a point-in-time copy of all counters and histograms.
type MetricsSnapshot = internalmetrics.Snapshot

// NewMetrics creates a [Metrics] instance from cfg.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return internalmetrics.New(internalmetrics.Config{
		Enabled:                 cfg.Enabled,
		EnableLatencyHistograms: cfg.EnableLatencyHistograms,
	})
}
