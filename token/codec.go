package token

import (
	"crypto/cipher"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"github.com/MrEthical07/goSession/internal"
	"github.com/MrEthical07/goSession/session"
	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

// MinSecretLength is the minimum accepted length of the server secret in bytes.
const MinSecretLength = 32

const (
	hkdfInfo       = "goSession token codec v1"
	associatedData = "gosession.v1"
)

// strictEncoding rejects non-zero padding bits so every character is significant.
var strictEncoding = base64.RawURLEncoding.Strict()

var (
	// ErrMissingSecret is returned when no server secret is configured.
	ErrMissingSecret = errors.New("token: missing secret")
	// ErrWeakSecret is returned when the secret is shorter than MinSecretLength.
	ErrWeakSecret = errors.New("token: secret shorter than 32 bytes")
	// ErrMalformed is returned when a token is not valid base64url or too short.
	ErrMalformed = errors.New("token: malformed token")
	// ErrDecrypt is returned when authentication of the ciphertext fails.
	ErrDecrypt = errors.New("token: decryption failed")
)

// Codec seals session payloads into opaque, authenticated tokens.
//
// A Codec is immutable after construction and safe for concurrent use.
type Codec struct {
	aead   cipher.AEAD
	random func(int) ([]byte, error)
}

// NewCodec derives the AEAD key from secret with HKDF-SHA256 and returns a
// codec using XChaCha20-Poly1305.
func NewCodec(secret []byte) (*Codec, error) {
	if len(secret) == 0 {
		return nil, ErrMissingSecret
	}
	if len(secret) < MinSecretLength {
		return nil, ErrWeakSecret
	}

	key := make([]byte, chacha20poly1305.KeySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, secret, nil, []byte(hkdfInfo)), key); err != nil {
		return nil, fmt.Errorf("token: derive key: %w", err)
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("token: init cipher: %w", err)
	}
	return &Codec{aead: aead, random: internal.CryptoRandomBytes}, nil
}

// NewCodecFromBase64 decodes a standard or URL base64 secret and calls NewCodec.
func NewCodecFromBase64(secret string) (*Codec, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	for _, enc := range []*base64.Encoding{
		base64.StdEncoding,
		base64.RawStdEncoding,
		base64.URLEncoding,
		base64.RawURLEncoding,
	} {
		if raw, err := enc.DecodeString(secret); err == nil {
			return NewCodec(raw)
		}
	}
	return nil, fmt.Errorf("token: secret is not valid base64")
}

// Encrypt validates p and returns its sealed, base64url-encoded form.
// The random nonce is appended to the ciphertext.
func (c *Codec) Encrypt(p *session.Payload) (string, error) {
	plaintext, err := session.Encode(p)
	if err != nil {
		return "", err
	}
	nonce, err := c.random(chacha20poly1305.NonceSizeX)
	if err != nil {
		return "", fmt.Errorf("token: nonce: %w", err)
	}
	if len(nonce) != chacha20poly1305.NonceSizeX {
		return "", internal.ErrShortRandomRead
	}

	sealed := c.aead.Seal(nil, nonce, plaintext, []byte(associatedData))
	sealed = append(sealed, nonce...)
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

// Open reverses Encrypt and reports why a token was rejected.
func (c *Codec) Open(tok string) (*session.Payload, error) {
	raw, err := strictEncoding.DecodeString(tok)
	if err != nil {
		return nil, ErrMalformed
	}
	if len(raw) < chacha20poly1305.NonceSizeX+c.aead.Overhead() {
		return nil, ErrMalformed
	}

	split := len(raw) - chacha20poly1305.NonceSizeX
	ciphertext, nonce := raw[:split], raw[split:]

	plaintext, err := c.aead.Open(nil, nonce, ciphertext, []byte(associatedData))
	if err != nil {
		return nil, ErrDecrypt
	}
	p, err := session.Decode(plaintext)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return p, nil
}

// Decrypt is Open with every failure folded into nil. It never panics.
func (c *Codec) Decrypt(tok string) (p *session.Payload) {
	defer func() {
		if r := recover(); r != nil {
			p = nil
		}
	}()
	if c == nil || tok == "" {
		return nil
	}
	p, err := c.Open(tok)
	if err != nil {
		return nil
	}
	return p
}
