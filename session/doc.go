// Package session defines the session payload carried inside encrypted
// session tokens and its compact binary encoding.
//
// # Binary encoding
//
// Payloads are encoded with a leading schema version byte followed by a
// length-prefixed user ID, two big-endian int64 timestamps (Unix ms) and the
// 32-byte refresh nonce. The decoder is strict: unknown versions, truncated
// input, trailing bytes and failed invariants are all rejected.
//
// # What this package must NOT do
//
//   - Import goSession, token or cookie (no upward imports).
//   - Perform encryption or any I/O.
package session
