package goSession

import (
	"context"
	"net/http"

	"github.com/MrEthical07/goSession/cookie"
)

const (
	decisionUnauthorized = "unauthorized"
	decisionForbidden    = "forbidden"
	decisionInternal     = "internal error"
)

// VerifyAuth resolves the session in jar and checks it against
// requiredRole. An empty requiredRole admits any authenticated user;
// otherwise the role must match exactly.
//
// Outcomes: directory failure → 500, no session → 401, wrong role → 403.
func (e *Engine) VerifyAuth(ctx context.Context, jar cookie.Jar, requiredRole Role) AuthDecision {
	if e == nil {
		return AuthDecision{Error: decisionInternal, Status: http.StatusInternalServerError, cause: ErrEngineNotReady}
	}

	user, _, err := e.resolve(ctx, jar)
	decision := decide(user, err, requiredRole)

	switch decision.Status {
	case 0:
		e.metricInc(MetricAuthAllowed)
	case http.StatusUnauthorized:
		e.metricInc(MetricAuthUnauthorized)
	case http.StatusForbidden:
		e.metricInc(MetricAuthForbidden)
		e.emitAudit(ctx, auditEventAuthDenied, false, user.ID, ErrForbidden, func() map[string]string {
			return map[string]string{
				"required_role": string(requiredRole),
				"role":          string(user.Role),
			}
		})
	default:
		e.metricInc(MetricAuthError)
	}
	return decision
}

// VerifyRequest is VerifyAuth for a request handler.
func (e *Engine) VerifyRequest(w http.ResponseWriter, r *http.Request, requiredRole Role) AuthDecision {
	return e.VerifyAuth(RequestContext(r), cookie.RequestJar(w, r), requiredRole)
}

func decide(user *SessionUser, err error, requiredRole Role) AuthDecision {
	switch {
	case err != nil:
		return AuthDecision{Error: decisionInternal, Status: http.StatusInternalServerError, cause: err}
	case user == nil:
		return AuthDecision{Error: decisionUnauthorized, Status: http.StatusUnauthorized}
	case requiredRole != "" && user.Role != requiredRole:
		return AuthDecision{Error: decisionForbidden, Status: http.StatusForbidden}
	default:
		return AuthDecision{Success: true, User: user}
	}
}
