// Package middleware exposes HTTP middleware adapters that enforce
// goSession authorization on top of goSession.Engine.
//
// # Guards
//
//   - [Guard] admits requests whose session holds a given role.
//   - [RequireUser] admits any authenticated user.
//   - [RequireAdmin] admits only administrators.
//   - [Optional] resolves the session for page renderers and never rejects.
//
// Each guard reads the session cookie, calls Engine.VerifyRequest (or
// GetSessionFromRequest), and injects the [goSession.SessionUser] into the
// request context for [SessionUserFromContext]. Refreshed cookies are written
// to the response before the wrapped handler runs.
//
// # Architecture boundaries
//
// This package translates HTTP semantics into Engine calls. It does NOT
// decrypt cookies or consult the user directory itself; all decisions are
// delegated to the Engine.
package middleware
