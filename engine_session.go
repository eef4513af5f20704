package goSession

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/MrEthical07/goSession/cookie"
	"github.com/MrEthical07/goSession/directory"
)

type resolveOutcome uint8

const (
	outcomeAbsent resolveOutcome = iota
	outcomeDecodeFailure
	outcomeExpired
	outcomeUserGone
	outcomeValid
	outcomeRefreshed
	outcomeError
)

func (o resolveOutcome) String() string {
	switch o {
	case outcomeAbsent:
		return "absent"
	case outcomeDecodeFailure:
		return "decode_failure"
	case outcomeExpired:
		return "expired"
	case outcomeUserGone:
		return "user_gone"
	case outcomeValid:
		return "valid"
	case outcomeRefreshed:
		return "refreshed"
	default:
		return "error"
	}
}

func (o resolveOutcome) metric() MetricID {
	switch o {
	case outcomeAbsent:
		return MetricSessionAbsent
	case outcomeDecodeFailure:
		return MetricSessionDecodeFailure
	case outcomeExpired:
		return MetricSessionExpired
	case outcomeUserGone:
		return MetricSessionUserGone
	case outcomeValid, outcomeRefreshed:
		return MetricSessionValid
	default:
		return MetricSessionResolveError
	}
}

// GetSession resolves the session carried in jar. It returns (nil, nil) when
// there is no usable session (absent, tampered, expired or user gone), and
// an error only when the directory fails. A session close to expiry is
// re-issued through jar; a failure to do so is logged and does not affect
// the result.
func (e *Engine) GetSession(ctx context.Context, jar cookie.Jar) (*SessionUser, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}
	user, _, err := e.resolve(ctx, jar)
	return user, err
}

// GetSessionFromRequest is GetSession for a request handler: it reads the
// request's Cookie header and writes any refreshed cookie to w.
func (e *Engine) GetSessionFromRequest(w http.ResponseWriter, r *http.Request) (*SessionUser, error) {
	return e.GetSession(RequestContext(r), cookie.RequestJar(w, r))
}

func (e *Engine) resolve(ctx context.Context, jar cookie.Jar) (*SessionUser, resolveOutcome, error) {
	start := time.Now()
	user, outcome, err := e.resolveOnce(ctx, jar)

	e.metricInc(outcome.metric())
	if e.metrics.LatencyEnabled() {
		e.metrics.Observe(MetricResolveLatency, time.Since(start))
	}
	return user, outcome, err
}

func (e *Engine) resolveOnce(ctx context.Context, jar cookie.Jar) (*SessionUser, resolveOutcome, error) {
	tok, ok := e.transport.Read(jar)
	if !ok {
		return nil, outcomeAbsent, nil
	}

	p := e.codec.Decrypt(tok)
	if p == nil {
		e.log.Debug().Str("outcome", outcomeDecodeFailure.String()).Msg("session cookie rejected")
		return nil, outcomeDecodeFailure, nil
	}

	now := e.now()
	if p.Expired(now) {
		e.log.Debug().
			Str("outcome", outcomeExpired.String()).
			Str("user_id", p.UserID).
			Time("expired_at", p.ExpiresAtTime()).
			Msg("session expired")
		return nil, outcomeExpired, nil
	}

	u, err := e.directory.FindUserByID(ctx, p.UserID)
	if errors.Is(err, directory.ErrUserNotFound) {
		e.log.Debug().Str("outcome", outcomeUserGone.String()).Str("user_id", p.UserID).Msg("session user no longer exists")
		return nil, outcomeUserGone, nil
	}
	if err != nil {
		e.log.Error().Err(err).Str("user_id", p.UserID).Msg("session user lookup failed")
		return nil, outcomeError, err
	}

	user := newSessionUser(u)
	if p.Remaining(now) >= e.config.Session.RefreshThreshold {
		return user, outcomeValid, nil
	}

	if !e.refresh(ctx, jar, u.ID, now) {
		return user, outcomeValid, nil
	}
	return user, outcomeRefreshed, nil
}

// refresh re-issues the session with a new expiry and refresh nonce.
// Failures are soft: the caller still serves the current user.
func (e *Engine) refresh(ctx context.Context, jar cookie.Jar, userID string, now time.Time) bool {
	tok, err := e.seal(userID, now)
	if err != nil {
		e.metricInc(MetricRefreshFailure)
		e.log.Warn().Err(err).Str("user_id", userID).Msg("session refresh failed")
		e.emitAudit(ctx, auditEventSessionRefreshFailed, false, userID, err, nil)
		return false
	}

	e.transport.Write(jar, tok)
	e.metricInc(MetricRefreshSuccess)
	e.emitAudit(ctx, auditEventSessionRefreshed, true, userID, nil, nil)
	return true
}
