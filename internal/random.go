package internal

import (
	"crypto/rand"
	"errors"
	"fmt"
)

// ErrShortRandomRead is returned when a random source fills fewer bytes than requested.
var ErrShortRandomRead = errors.New("short random read")

// CryptoRandomBytes returns n bytes from crypto/rand.
func CryptoRandomBytes(n int) ([]byte, error) {
	if n <= 0 {
		return nil, fmt.Errorf("invalid random length %d", n)
	}
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	return b, nil
}

// FillRandom fills dst from source and rejects short or all-zero output.
func FillRandom(source func(int) ([]byte, error), dst []byte) error {
	if source == nil {
		source = CryptoRandomBytes
	}
	b, err := source(len(dst))
	if err != nil {
		return err
	}
	if len(b) != len(dst) {
		return ErrShortRandomRead
	}
	copy(dst, b)

	var acc byte
	for _, v := range dst {
		acc |= v
	}
	if acc == 0 {
		return errors.New("random source returned all-zero bytes")
	}
	return nil
}
