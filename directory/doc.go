// Package directory defines the user directory the session core depends on:
// the [User] record, the [Role] enum and the [Directory] port.
//
// Adapters live in sub-packages:
//
//   - memory: in-process map, for tests and demos
//   - redisdir: Redis hashes with an email index claimed by SETNX
//   - postgres: pgx pool with a unique email index
//
// Every adapter compares emails case-insensitively, issues UUIDv4 ids and
// stores Argon2id password hashes from package password.
package directory
