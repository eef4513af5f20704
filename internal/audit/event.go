package audit

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Event is one session lifecycle record. EventType names what happened
// (login_success, logout, session_refreshed, ...) and Error carries a stable
// code, never a raw error string.
type Event struct {
	Timestamp time.Time         `json:"timestamp"`
	EventType string            `json:"event_type"`
	UserID    string            `json:"user_id,omitempty"`
	IP        string            `json:"ip,omitempty"`
	UserAgent string            `json:"user_agent,omitempty"`
	Success   bool              `json:"success"`
	Error     string            `json:"error,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// Sink receives events from the Dispatcher worker. Implementations must be
// safe for use from that single goroutine; they are never called concurrently
// by one Dispatcher.
type Sink interface {
	Emit(ctx context.Context, event Event)
}

// MarshalZerologObject flattens the event into log fields. Metadata keys are
// prefixed with "meta_" so they cannot shadow the fixed fields.
func (e Event) MarshalZerologObject(ev *zerolog.Event) {
	ev.Str("audit", e.EventType).
		Time("at", e.Timestamp).
		Bool("success", e.Success)

	optional := [...]struct{ key, val string }{
		{"user_id", e.UserID},
		{"ip", e.IP},
		{"user_agent", e.UserAgent},
		{"error_code", e.Error},
	}
	for _, f := range optional {
		if f.val != "" {
			ev.Str(f.key, f.val)
		}
	}
	for k, v := range e.Metadata {
		ev.Str("meta_"+k, v)
	}
}
