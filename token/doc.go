// Package token turns session payloads into opaque encrypted strings and back.
//
// Tokens are XChaCha20-Poly1305 ciphertexts of the binary payload from
// package session, with the 24-byte random nonce appended, encoded as
// base64url without padding. The AEAD key is derived from the server secret
// with HKDF-SHA256, so any secret of at least 32 bytes is accepted.
//
// Tampering with any byte of a token causes authentication to fail; Decrypt
// reports that, like every other failure, as a nil payload.
package token
