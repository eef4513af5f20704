// Package internal contains helper utilities that are intentionally private to goSession,
// chiefly the crypto/rand boundary used for refresh nonces.
//
// # Sub-packages
//
//   - audit: async event dispatch (Dispatcher + Sink implementations)
//   - metrics: lock-free counters and the resolve latency histogram
//   - rate: Redis fixed-window failed login limiter
//   - envconfig: process configuration for the bundled binaries
//
// # What this package must NOT do
//
//   - Export types that appear in the public goSession API.
//   - Be imported by any package outside the goSession module.
package internal
