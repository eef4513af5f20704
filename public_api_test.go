package goSession_test

import (
	"context"
	"net/http"
	"testing"

	goSession "github.com/MrEthical07/goSession"
	"github.com/MrEthical07/goSession/cookie"
	"github.com/MrEthical07/goSession/middleware"
)

// Guards the exported surface against accidental signature changes.
func TestPublicAPISurfaceCompile(t *testing.T) {
	_ = goSession.New

	var _ *goSession.Engine
	var _ goSession.Config
	var _ goSession.SessionUser
	var _ goSession.AuthDecision
	var _ goSession.RegisterRequest
	var _ goSession.AuditSink
	var _ cookie.Jar = cookie.NewMapJar(nil)

	var _ error = goSession.ErrUnauthorized
	var _ error = goSession.ErrForbidden
	var _ error = goSession.ErrInvalidCredentials
	var _ error = goSession.ErrEmailExists
	var _ error = goSession.ErrSecretRequired
	var _ error = goSession.ErrLoginRateLimited

	var _ func(*goSession.Builder, goSession.LoginLimiter) *goSession.Builder = (*goSession.Builder).WithLoginLimiter

	var _ func(*goSession.Engine, goSession.Role) func(http.Handler) http.Handler = middleware.Guard
	var _ func(*goSession.Engine) func(http.Handler) http.Handler = middleware.RequireUser
	var _ func(*goSession.Engine) func(http.Handler) http.Handler = middleware.RequireAdmin
	var _ func(*goSession.Engine) func(http.Handler) http.Handler = middleware.Optional

	var _ func(*goSession.Engine, context.Context, string) (string, error) = (*goSession.Engine).CreateSession
	var _ func(*goSession.Engine, context.Context, cookie.Jar) (*goSession.SessionUser, error) = (*goSession.Engine).GetSession
	var _ func(*goSession.Engine, http.ResponseWriter, *http.Request) (*goSession.SessionUser, error) = (*goSession.Engine).GetSessionFromRequest
	var _ func(*goSession.Engine, cookie.Jar) = (*goSession.Engine).DeleteSession
	var _ func(*goSession.Engine, context.Context, cookie.Jar, goSession.Role) goSession.AuthDecision = (*goSession.Engine).VerifyAuth
	var _ func(*goSession.Engine, context.Context, cookie.Jar, string, string) (*goSession.SessionUser, error) = (*goSession.Engine).Login
	var _ func(*goSession.Engine, context.Context, cookie.Jar, goSession.RegisterRequest) (*goSession.SessionUser, error) = (*goSession.Engine).Register
}
