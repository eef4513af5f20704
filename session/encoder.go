package session

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// CurrentSchemaVersion is the leading byte of every encoded payload.
const CurrentSchemaVersion = 1

var (
	// ErrUnsupportedSchema is returned for an unknown leading version byte.
	ErrUnsupportedSchema = errors.New("session: unsupported payload schema version")
	// ErrTrailingBytes is returned when data remains after a complete payload.
	ErrTrailingBytes = errors.New("session: trailing bytes after payload")
)

// Encode serializes p into the compact binary payload format:
//
//	version(1) | len(userID)(1) | userID | createdAt(8) | expiresAt(8) | refreshToken(32)
func Encode(p *Payload) ([]byte, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.Grow(1 + 1 + len(p.UserID) + 8 + 8 + RefreshTokenSize)

	buf.WriteByte(CurrentSchemaVersion)
	buf.WriteByte(byte(len(p.UserID)))
	buf.WriteString(p.UserID)

	if err := binary.Write(&buf, binary.BigEndian, p.CreatedAt); err != nil {
		return nil, err
	}
	if err := binary.Write(&buf, binary.BigEndian, p.ExpiresAt); err != nil {
		return nil, err
	}
	buf.Write(p.RefreshToken[:])

	return buf.Bytes(), nil
}

// Decode parses data produced by Encode. It rejects unknown versions,
// truncated or trailing input and payloads failing Validate.
func Decode(data []byte) (*Payload, error) {
	reader := bytes.NewReader(data)

	version, err := reader.ReadByte()
	if err != nil {
		return nil, err
	}
	if version != CurrentSchemaVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedSchema, version)
	}

	p := &Payload{}

	userLen, err := reader.ReadByte()
	if err != nil {
		return nil, err
	}
	userID := make([]byte, userLen)
	if _, err := io.ReadFull(reader, userID); err != nil {
		return nil, err
	}
	p.UserID = string(userID)

	if err := binary.Read(reader, binary.BigEndian, &p.CreatedAt); err != nil {
		return nil, err
	}
	if err := binary.Read(reader, binary.BigEndian, &p.ExpiresAt); err != nil {
		return nil, err
	}
	if _, err := io.ReadFull(reader, p.RefreshToken[:]); err != nil {
		return nil, err
	}

	if reader.Len() != 0 {
		return nil, ErrTrailingBytes
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}
