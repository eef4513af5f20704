package goSession

import (
	"errors"

	"github.com/MrEthical07/goSession/directory"
)

var (
	// ErrUnauthorized is AuthDecision.Err for a request without a valid session.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden is AuthDecision.Err when the session user lacks the required role.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidCredentials is returned by Login when email and password do not match.
	ErrInvalidCredentials = directory.ErrInvalidCredentials
	// ErrUserNotFound is returned by CreateSession for an unknown user id.
	ErrUserNotFound = directory.ErrUserNotFound
	// ErrEmailExists is returned by Register when the email is already taken.
	ErrEmailExists = directory.ErrEmailExists
	// ErrInvalidRegistration is returned by Register for malformed input.
	ErrInvalidRegistration = errors.New("invalid registration request")
	// ErrSecretRequired is returned by Build when no token secret was provided.
	ErrSecretRequired = errors.New("session secret required")
	// ErrDirectoryRequired is returned by Build when no user directory was provided.
	ErrDirectoryRequired = errors.New("user directory required")
	// ErrSessionCreationFailed wraps failures while issuing a token.
	ErrSessionCreationFailed = errors.New("session creation failed")
	// ErrLoginRateLimited is returned by Login when too many attempts failed recently.
	ErrLoginRateLimited = errors.New("too many login attempts")
	// ErrLoginLimiterUnavailable wraps login limiter backend failures.
	ErrLoginLimiterUnavailable = errors.New("login limiter unavailable")
	// ErrEngineNotReady is returned when a nil Engine is used.
	ErrEngineNotReady = errors.New("engine not initialized")
)
