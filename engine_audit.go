package goSession

import (
	"context"
	"errors"

	"github.com/MrEthical07/goSession/token"
)

const (
	auditEventLoginSuccess         = "login_success"
	auditEventLoginFailure         = "login_failure"
	auditEventLoginRateLimited     = "login_rate_limited"
	auditEventRegisterSuccess      = "register_success"
	auditEventRegisterFailure      = "register_failure"
	auditEventSessionRefreshed     = "session_refreshed"
	auditEventSessionRefreshFailed = "session_refresh_failed"
	auditEventLogout               = "logout"
	auditEventAuthDenied           = "auth_denied"
)

// AuditErrorCode is the stable error classification recorded on audit events.
type AuditErrorCode string

const (
	auditErrUnauthorized          AuditErrorCode = "unauthorized"
	auditErrForbidden             AuditErrorCode = "forbidden"
	auditErrInvalidCredentials    AuditErrorCode = "invalid_credentials"
	auditErrUserNotFound          AuditErrorCode = "user_not_found"
	auditErrDuplicate             AuditErrorCode = "duplicate"
	auditErrInvalidRegistration   AuditErrorCode = "invalid_registration"
	auditErrSessionCreationFailed AuditErrorCode = "session_creation_failed"
	auditErrInvalidToken          AuditErrorCode = "invalid_token"
	auditErrRateLimited           AuditErrorCode = "rate_limited"
	auditErrInternal              AuditErrorCode = "internal_error"
)

// auditCodes is checked in order; the first errors.Is match wins.
var auditCodes = []struct {
	target error
	code   AuditErrorCode
}{
	{ErrUnauthorized, auditErrUnauthorized},
	{ErrForbidden, auditErrForbidden},
	{ErrInvalidCredentials, auditErrInvalidCredentials},
	{ErrUserNotFound, auditErrUserNotFound},
	{ErrEmailExists, auditErrDuplicate},
	{ErrInvalidRegistration, auditErrInvalidRegistration},
	{ErrSessionCreationFailed, auditErrSessionCreationFailed},
	{ErrLoginRateLimited, auditErrRateLimited},
	{token.ErrMalformed, auditErrInvalidToken},
	{token.ErrDecrypt, auditErrInvalidToken},
}

func auditErrorCode(err error) AuditErrorCode {
	if err == nil {
		return ""
	}
	for _, c := range auditCodes {
		if errors.Is(err, c.target) {
			return c.code
		}
	}
	return auditErrInternal
}

// emitAudit hands one event to the dispatcher. meta is only called when
// auditing is enabled.
func (e *Engine) emitAudit(ctx context.Context, eventType string, success bool, userID string, err error, meta func() map[string]string) {
	if e == nil || e.audit == nil {
		return
	}
	info := requestInfoFrom(ctx)
	event := AuditEvent{
		Timestamp: e.now().UTC(),
		EventType: eventType,
		UserID:    userID,
		IP:        info.ip,
		UserAgent: info.userAgent,
		Success:   success,
		Error:     string(auditErrorCode(err)),
	}
	if meta != nil {
		event.Metadata = meta()
	}
	e.audit.Emit(ctx, event)
}
