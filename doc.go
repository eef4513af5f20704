// Package goSession provides cookie-based session authentication with opaque,
// self-contained encrypted tokens and a role-based authorization gate.
//
// A session is a [session.Payload] sealed by the token codec and stored in a
// single HttpOnly cookie. There is no server-side session table: resolving a
// session decrypts the cookie, checks expiry and re-reads the user from the
// [directory.Directory], so deleted users lose access on their next request.
// Sessions slide: when less than Config.Session.RefreshThreshold remains, a
// new token with a full lifetime is written back through the same cookie jar.
//
// The Engine is safe to call from multiple goroutines after [Builder.Build].
//
// Failed logins can be throttled per email and client IP with a
// [LoginLimiter]; [NewRedisLoginLimiter] provides the Redis implementation.
//
// # Architecture boundaries
//
// goSession is the public surface. It exposes [Engine], [Builder], [Config],
// and value types ([SessionUser], [AuthDecision]). Token sealing lives in
// package token, cookie handling in package cookie and user storage behind
// package directory.
//
// # What this package must NOT do
//
//   - Read secrets or configuration from the environment.
//   - Persist sessions or revoke them server-side.
//   - Import any sub-package that re-imports goSession (no import cycles).
package goSession
