package middleware

import (
	"net/http"

	goSession "github.com/MrEthical07/goSession"
)

// RequireUser admits any authenticated user.
func RequireUser(engine *goSession.Engine) func(http.Handler) http.Handler {
	return Guard(engine, "")
}

// RequireAdmin admits only users holding the admin role.
func RequireAdmin(engine *goSession.Engine) func(http.Handler) http.Handler {
	return Guard(engine, goSession.RoleAdmin)
}
