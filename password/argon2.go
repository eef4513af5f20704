package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/crypto/argon2"
)

// Lower bounds enforced on both configs and stored hashes.
const (
	minMemoryKB   = 8 * 1024
	minSaltLength = 16
	minKeyLength  = 16
	maxPassBytes  = 1024
)

var (
	// ErrEmptyPassword is returned when hashing an empty password.
	ErrEmptyPassword = errors.New("password: empty password")
	// ErrPasswordTooLong is returned for passwords longer than 1024 bytes.
	ErrPasswordTooLong = errors.New("password: password too long")
	// ErrInvalidHash is returned when a stored hash is not an argon2id PHC string.
	ErrInvalidHash = errors.New("password: invalid PHC hash")
)

// b64 is the unpadded standard alphabet the PHC string format uses.
var b64 = base64.RawStdEncoding

// Hasher hashes and verifies passwords. Directory adapters depend on this
// interface rather than on a concrete algorithm.
type Hasher interface {
	Hash(password string) (string, error)
	Verify(password, encodedHash string) (bool, error)
}

// Config holds the Argon2id cost parameters.
type Config struct {
	Memory      uint32 // KiB
	Time        uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// DefaultConfig returns the parameters used when an adapter is built without
// an explicit Hasher.
func DefaultConfig() Config {
	return Config{
		Memory:      64 * 1024,
		Time:        3,
		Parallelism: 2,
		SaltLength:  16,
		KeyLength:   32,
	}
}

func (c Config) validate() error {
	switch {
	case c.Memory < minMemoryKB:
		return fmt.Errorf("password: memory must be >= %d KiB", minMemoryKB)
	case c.Time < 1:
		return errors.New("password: time must be >= 1")
	case c.Parallelism < 1:
		return errors.New("password: parallelism must be >= 1")
	case c.SaltLength < minSaltLength:
		return fmt.Errorf("password: salt length must be >= %d", minSaltLength)
	case c.KeyLength < minKeyLength:
		return fmt.Errorf("password: key length must be >= %d", minKeyLength)
	}
	return nil
}

// Argon2 is the Argon2id Hasher. It is safe for concurrent use.
type Argon2 struct {
	config Config

	dummyOnce sync.Once
	dummy     string
}

// NewArgon2 validates cfg and returns a hasher using it.
func NewArgon2(cfg Config) (*Argon2, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Argon2{config: cfg}, nil
}

// Default returns an Argon2 hasher with DefaultConfig.
func Default() *Argon2 {
	return &Argon2{config: DefaultConfig()}
}

// Hash returns the PHC encoding of password under a fresh random salt.
// Password bytes are used as given, without Unicode normalization.
func (a *Argon2) Hash(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}
	if len(password) > maxPassBytes {
		return "", ErrPasswordTooLong
	}

	salt := make([]byte, a.config.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("password: salt: %w", err)
	}
	key := argon2.IDKey([]byte(password), salt, a.config.Time, a.config.Memory, a.config.Parallelism, a.config.KeyLength)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, a.config.Memory, a.config.Time, a.config.Parallelism,
		b64.EncodeToString(salt), b64.EncodeToString(key)), nil
}

// Verify reports whether password matches encodedHash in constant time.
// Over-long passwords never match.
func (a *Argon2) Verify(password, encodedHash string) (bool, error) {
	stored, err := decode(encodedHash)
	if err != nil {
		return false, err
	}
	if len(password) > maxPassBytes {
		return false, nil
	}

	key := argon2.IDKey([]byte(password), stored.salt, stored.Time, stored.Memory, stored.Parallelism, uint32(len(stored.key)))
	return subtle.ConstantTimeCompare(key, stored.key) == 1, nil
}

// VerifyDummy burns the same work as Verify against a throwaway hash.
// Adapters call it for unknown emails so lookups do not leak account
// existence through timing.
func (a *Argon2) VerifyDummy(password string) {
	a.dummyOnce.Do(func() {
		a.dummy, _ = a.Hash("goSession-dummy-password")
	})
	if a.dummy != "" {
		_, _ = a.Verify(password, a.dummy)
	}
}

// NeedsUpgrade reports whether encodedHash was produced with weaker
// parameters than the hasher's current config.
func (a *Argon2) NeedsUpgrade(encodedHash string) (bool, error) {
	stored, err := decode(encodedHash)
	if err != nil {
		return false, err
	}
	return stored.Memory < a.config.Memory ||
		stored.Time < a.config.Time ||
		stored.Parallelism < a.config.Parallelism ||
		uint32(len(stored.key)) != a.config.KeyLength, nil
}

type storedHash struct {
	Config
	salt []byte
	key  []byte
}

// decode parses "$argon2id$v=19$m=..,t=..,p=..$salt$key".
func decode(encoded string) (*storedHash, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return nil, fmt.Errorf("%w: format", ErrInvalidHash)
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return nil, fmt.Errorf("%w: version", ErrInvalidHash)
	}

	var h storedHash
	n, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &h.Memory, &h.Time, &h.Parallelism)
	if err != nil || n != 3 || fmt.Sprintf("m=%d,t=%d,p=%d", h.Memory, h.Time, h.Parallelism) != parts[3] {
		return nil, fmt.Errorf("%w: parameters", ErrInvalidHash)
	}
	if h.Memory < minMemoryKB || h.Time < 1 || h.Parallelism < 1 {
		return nil, fmt.Errorf("%w: parameters below minimum", ErrInvalidHash)
	}

	if h.salt, err = b64.DecodeString(parts[4]); err != nil || len(h.salt) < minSaltLength {
		return nil, fmt.Errorf("%w: salt", ErrInvalidHash)
	}
	if h.key, err = b64.DecodeString(parts[5]); err != nil || len(h.key) == 0 {
		return nil, fmt.Errorf("%w: key", ErrInvalidHash)
	}
	return &h, nil
}
