package goSession

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MrEthical07/goSession/cookie"
	"github.com/MrEthical07/goSession/directory"
	"github.com/MrEthical07/goSession/internal"
	internalaudit "github.com/MrEthical07/goSession/internal/audit"
	"github.com/MrEthical07/goSession/session"
	"github.com/MrEthical07/goSession/token"
	"github.com/rs/zerolog"
)

// Engine issues, resolves, refreshes and clears sessions, and answers
// authorization questions. It is immutable after Build and safe for
// concurrent use.
type Engine struct {
	config    Config
	codec     *token.Codec
	transport *cookie.Transport
	directory directory.Directory
	limiter   LoginLimiter
	audit     *internalaudit.Dispatcher
	metrics   *Metrics
	log       zerolog.Logger
	random    RandomBytesFunc
	now       func() time.Time
}

// Close drains and stops the audit dispatcher.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// AuditDropped returns the number of audit events dropped under backpressure.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

// MetricsSnapshot returns a copy of the engine's counters.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() Config {
	return e.config
}

// CookieName returns the name of the session cookie.
func (e *Engine) CookieName() string {
	return e.transport.Name()
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

// CreateSession issues a token for an existing user. It does not touch the
// cookie; callers that want the cookie set use Login or Register.
func (e *Engine) CreateSession(ctx context.Context, userID string) (string, error) {
	if e == nil {
		return "", ErrEngineNotReady
	}
	u, err := e.directory.FindUserByID(ctx, userID)
	if errors.Is(err, directory.ErrUserNotFound) {
		return "", ErrUserNotFound
	}
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrSessionCreationFailed, err)
	}
	tok, err := e.seal(u.ID, e.now())
	if err != nil {
		return "", err
	}
	e.metricInc(MetricSessionCreated)
	return tok, nil
}

// DeleteSession expires the session cookie in jar. It is idempotent and
// succeeds whether or not a session was present.
func (e *Engine) DeleteSession(jar cookie.Jar) {
	if e == nil {
		return
	}
	e.transport.Clear(jar)
	e.metricInc(MetricLogout)
}

// Logout is DeleteSession plus an audit record naming the user when the
// cookie still decrypts.
func (e *Engine) Logout(ctx context.Context, jar cookie.Jar) {
	if e == nil {
		return
	}
	var userID string
	if tok, ok := e.transport.Read(jar); ok {
		if p := e.codec.Decrypt(tok); p != nil {
			userID = p.UserID
		}
	}
	e.DeleteSession(jar)
	e.emitAudit(ctx, auditEventLogout, true, userID, nil, nil)
}

// seal builds a fresh payload for userID valid from now and encrypts it.
func (e *Engine) seal(userID string, now time.Time) (string, error) {
	var refresh [session.RefreshTokenSize]byte
	if err := internal.FillRandom(e.random, refresh[:]); err != nil {
		return "", fmt.Errorf("%w: refresh token: %w", ErrSessionCreationFailed, err)
	}

	p := session.NewPayload(userID, now, e.config.Session.Duration, refresh)
	tok, err := e.codec.Encrypt(p)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrSessionCreationFailed, err)
	}
	return tok, nil
}

// issue seals a new session for userID and writes it to jar.
func (e *Engine) issue(jar cookie.Jar, userID string) error {
	tok, err := e.seal(userID, e.now())
	if err != nil {
		return err
	}
	e.transport.Write(jar, tok)
	e.metricInc(MetricSessionCreated)
	return nil
}
