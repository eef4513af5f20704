package goSession

import (
	"context"
	"errors"
	"fmt"

	"github.com/MrEthical07/goSession/cookie"
	"github.com/MrEthical07/goSession/directory"
)

// Login authenticates email and password against the directory, issues a
// session and writes its cookie to jar. Unknown emails and wrong passwords
// both yield ErrInvalidCredentials.
func (e *Engine) Login(ctx context.Context, jar cookie.Jar, email, password string) (*SessionUser, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}

	key := limiterKey(email)
	ip := requestInfoFrom(ctx).ip
	if e.limiter != nil {
		if err := e.limiter.ReserveLogin(ctx, key, ip); err != nil {
			return nil, e.loginLimited(ctx, err)
		}
	}

	u, err := e.directory.FindUserByEmailAndPassword(ctx, email, password)
	if err != nil {
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, auditEventLoginFailure, false, "", err, nil)
		if errors.Is(err, directory.ErrInvalidCredentials) {
			return nil, ErrInvalidCredentials
		}
		e.releaseLogin(ctx, key, ip)
		e.log.Error().Err(err).Msg("login directory lookup failed")
		return nil, err
	}

	if err := e.issue(jar, u.ID); err != nil {
		e.releaseLogin(ctx, key, ip)
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, auditEventLoginFailure, false, u.ID, err, nil)
		return nil, err
	}

	if e.limiter != nil {
		if err := e.limiter.ResetLogin(ctx, key, ip); err != nil {
			e.log.Warn().Err(err).Msg("login limiter reset failed")
		}
	}

	e.metricInc(MetricLoginSuccess)
	e.emitAudit(ctx, auditEventLoginSuccess, true, u.ID, nil, nil)
	return newSessionUser(u), nil
}

func (e *Engine) loginLimited(ctx context.Context, err error) error {
	if errors.Is(err, ErrLoginRateLimited) {
		e.metricInc(MetricLoginRateLimited)
		e.emitAudit(ctx, auditEventLoginRateLimited, false, "", err, nil)
		return ErrLoginRateLimited
	}
	e.log.Error().Err(err).Msg("login limiter reserve failed")
	e.metricInc(MetricLoginFailure)
	e.emitAudit(ctx, auditEventLoginFailure, false, "", err, nil)
	return err
}

// releaseLogin returns the reserved slot of an attempt that failed for a
// reason other than wrong credentials.
func (e *Engine) releaseLogin(ctx context.Context, key, ip string) {
	if e.limiter == nil {
		return
	}
	if err := e.limiter.ReleaseLogin(ctx, key, ip); err != nil {
		e.log.Warn().Err(err).Msg("login limiter release failed")
	}
}

// Register creates a user with the default role, issues a session and writes
// its cookie to jar. Malformed input yields ErrInvalidRegistration and a
// taken email ErrEmailExists.
func (e *Engine) Register(ctx context.Context, jar cookie.Jar, req RegisterRequest) (*SessionUser, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}

	in, err := directory.Prepare(directory.CreateUserInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Image:    req.Image,
		Role:     RoleUser,
	})
	if err != nil {
		return nil, e.registerFailed(ctx, fmt.Errorf("%w: %w", ErrInvalidRegistration, err))
	}

	exists, err := e.directory.IsEmailExists(ctx, in.Email)
	if err != nil {
		e.log.Error().Err(err).Msg("register email lookup failed")
		return nil, e.registerFailed(ctx, err)
	}
	if exists {
		return nil, e.registerFailed(ctx, ErrEmailExists)
	}

	u, err := e.directory.CreateUser(ctx, in)
	switch {
	case errors.Is(err, directory.ErrEmailExists):
		return nil, e.registerFailed(ctx, ErrEmailExists)
	case errors.Is(err, directory.ErrInvalidUser):
		return nil, e.registerFailed(ctx, fmt.Errorf("%w: %w", ErrInvalidRegistration, err))
	case err != nil:
		e.log.Error().Err(err).Msg("register create user failed")
		return nil, e.registerFailed(ctx, err)
	}

	if err := e.issue(jar, u.ID); err != nil {
		return nil, e.registerFailed(ctx, err)
	}

	e.metricInc(MetricRegisterSuccess)
	e.emitAudit(ctx, auditEventRegisterSuccess, true, u.ID, nil, nil)
	return newSessionUser(u), nil
}

func (e *Engine) registerFailed(ctx context.Context, err error) error {
	if errors.Is(err, ErrEmailExists) {
		e.metricInc(MetricRegisterDuplicate)
	} else {
		e.metricInc(MetricRegisterFailure)
	}
	e.emitAudit(ctx, auditEventRegisterFailure, false, "", err, nil)
	return err
}
