// Package password hashes and verifies user passwords with Argon2id.
//
// Hashes use the PHC string format with unpadded base64 fields:
//
//	$argon2id$v=19$m=<memory KiB>,t=<passes>,p=<lanes>$<salt>$<key>
//
// Stored hashes whose parameters fall below the package minimums are rejected
// as [ErrInvalidHash]. [Argon2.NeedsUpgrade] tells a caller that a hash was
// made with weaker parameters than the current config.
//
// Only the directory adapters use this package. Session tokens never carry
// passwords or hashes, and nothing here logs them.
package password
