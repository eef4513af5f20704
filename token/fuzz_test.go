package token

import (
	"testing"
)

// FuzzDecrypt feeds arbitrary strings to Decrypt.
// Goal: no panics, and nothing but genuine tokens decrypts.
func FuzzDecrypt(f *testing.F) {
	c, err := NewCodec(testSecret)
	if err != nil {
		f.Fatalf("NewCodec error: %v", err)
	}
	if tok, err := c.Encrypt(testPayload()); err == nil {
		f.Add(tok)
		f.Add(tok[:len(tok)/2])
	}
	f.Add("")
	f.Add("abc")
	f.Add("AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA")

	f.Fuzz(func(t *testing.T, tok string) {
		p := c.Decrypt(tok)
		if p == nil {
			return
		}
		if err := p.Validate(); err != nil {
			t.Fatalf("decrypted payload failed validation: %v", err)
		}
	})
}
