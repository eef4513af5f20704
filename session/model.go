package session

import (
	"errors"
	"time"
)

const (
	// MaxUserIDLength bounds the user identifier carried in a payload.
	MaxUserIDLength = 255
	// RefreshTokenSize is the length of the per-token random nonce.
	RefreshTokenSize = 32
)

var (
	// ErrEmptyUserID is returned when a payload carries no user identifier.
	ErrEmptyUserID = errors.New("session: empty user id")
	// ErrUserIDTooLong is returned when the user identifier exceeds MaxUserIDLength.
	ErrUserIDTooLong = errors.New("session: user id too long")
	// ErrInvalidTimestamps is returned when CreatedAt or ExpiresAt are out of order.
	ErrInvalidTimestamps = errors.New("session: invalid timestamps")
	// ErrZeroRefreshToken is returned when the refresh nonce was never filled.
	ErrZeroRefreshToken = errors.New("session: zero refresh token")
)

// Payload is the plaintext carried inside an encrypted session token.
//
// Timestamps are Unix milliseconds. A Payload is never stored server-side; it
// lives only inside the cookie value and is rebuilt on every refresh.
type Payload struct {
	UserID       string
	CreatedAt    int64
	ExpiresAt    int64
	RefreshToken [RefreshTokenSize]byte
}

// Validate checks the structural invariants every issued payload satisfies.
func (p *Payload) Validate() error {
	if p == nil || p.UserID == "" {
		return ErrEmptyUserID
	}
	if len(p.UserID) > MaxUserIDLength {
		return ErrUserIDTooLong
	}
	if p.CreatedAt <= 0 || p.ExpiresAt <= p.CreatedAt {
		return ErrInvalidTimestamps
	}
	if p.RefreshToken == ([RefreshTokenSize]byte{}) {
		return ErrZeroRefreshToken
	}
	return nil
}

// ExpiresAtTime returns ExpiresAt as a time.Time.
func (p *Payload) ExpiresAtTime() time.Time {
	return time.UnixMilli(p.ExpiresAt)
}

// Expired reports whether the payload is past its expiry at now.
func (p *Payload) Expired(now time.Time) bool {
	return now.UnixMilli() > p.ExpiresAt
}

// Remaining returns the time left until expiry, negative once expired.
func (p *Payload) Remaining(now time.Time) time.Duration {
	return time.Duration(p.ExpiresAt-now.UnixMilli()) * time.Millisecond
}

// NewPayload builds a payload valid from now for duration.
func NewPayload(userID string, now time.Time, duration time.Duration, refresh [RefreshTokenSize]byte) *Payload {
	created := now.UnixMilli()
	return &Payload{
		UserID:       userID,
		CreatedAt:    created,
		ExpiresAt:    created + duration.Milliseconds(),
		RefreshToken: refresh,
	}
}
