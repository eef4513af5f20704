package session

import (
	"testing"
)

// FuzzSessionDecode exercises the binary payload decoder with arbitrary inputs.
// Goal: no panics, and every accepted input re-encodes to the same bytes.
func FuzzSessionDecode(f *testing.F) {
	p := &Payload{
		UserID:       "user1",
		CreatedAt:    1700000000000,
		ExpiresAt:    1700604800000,
		RefreshToken: [RefreshTokenSize]byte{1, 2, 3},
	}
	encoded, err := Encode(p)
	if err == nil {
		f.Add(encoded)
	}

	f.Add([]byte{})
	f.Add([]byte{0})
	f.Add([]byte{CurrentSchemaVersion})
	f.Add([]byte{255, 255, 255})

	if len(encoded) > 10 {
		f.Add(encoded[:10])
	}
	if len(encoded) > 30 {
		f.Add(encoded[:30])
	}

	f.Fuzz(func(t *testing.T, data []byte) {
		decoded, err := Decode(data)
		if err != nil {
			return
		}

		again, err := Encode(decoded)
		if err != nil {
			t.Fatalf("re-encode of accepted payload failed: %v", err)
		}
		if string(again) != string(data) {
			t.Fatalf("re-encode mismatch: %x != %x", again, data)
		}
	})
}
