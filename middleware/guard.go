package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	goSession "github.com/MrEthical07/goSession"
)

type sessionUserContextKey struct{}

// SessionUserFromContext returns the user stored by Guard or Optional.
func SessionUserFromContext(ctx context.Context) (*goSession.SessionUser, bool) {
	user, ok := ctx.Value(sessionUserContextKey{}).(*goSession.SessionUser)
	return user, ok && user != nil
}

// WithSessionUser returns ctx carrying user, for handlers that resolve the
// session themselves.
func WithSessionUser(ctx context.Context, user *goSession.SessionUser) context.Context {
	return context.WithValue(ctx, sessionUserContextKey{}, user)
}

// Guard admits requests whose session satisfies role. An empty role admits
// any authenticated user. Rejections are written with WriteDecision.
func Guard(engine *goSession.Engine, role goSession.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if engine == nil {
				WriteDecision(w, goSession.AuthDecision{Error: "internal error", Status: http.StatusInternalServerError})
				return
			}

			decision := engine.VerifyRequest(w, r, role)
			if !decision.Success {
				WriteDecision(w, decision)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSessionUser(r.Context(), decision.User)))
		})
	}
}

// Optional resolves the session when present and never rejects. Directory
// failures are treated as anonymous.
func Optional(engine *goSession.Engine) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if engine == nil {
				next.ServeHTTP(w, r)
				return
			}

			user, err := engine.GetSessionFromRequest(w, r)
			if err != nil || user == nil {
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithSessionUser(r.Context(), user)))
		})
	}
}

type errorBody struct {
	Error string `json:"error"`
}

// WriteDecision writes a failed decision as a JSON error body with its
// status. A successful decision writes nothing.
func WriteDecision(w http.ResponseWriter, decision goSession.AuthDecision) {
	if decision.Success {
		return
	}
	status := decision.Status
	if status == 0 {
		status = http.StatusInternalServerError
	}
	msg := decision.Error
	if msg == "" {
		msg = http.StatusText(status)
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorBody{Error: msg})
}
