// Package rate holds the Redis counters behind the engine's failed login
// limiter.
//
// Counters use fixed windows started by the first attempt. Keys:
//
//	<prefix>:login:<email>    attempts per normalized email
//	<prefix>:login-ip:<ip>    attempts per client IP, when Config.PerIP is set
//
// Reserve checks and counts an attempt in one Lua script, so a burst of
// parallel attempts cannot get past Config.Max. Attempts that do not end
// as failures are handed back with Refund, or with Reset after a success.
// The engine decides which outcome applies.
package rate
