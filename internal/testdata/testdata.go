// Package testdata provides deterministic random data sources for testing.
package testdata

import (
	"crypto/sha3"
)

// DRBG is a deterministic random bit generator based on SHAKE128. It implements io.Reader and never fails.
type DRBG struct {
	h *sha3.SHAKE
}

// New returns a new DRBG instance initialized with the given customization string.
func New(customization string) *DRBG {
	h := sha3.NewSHAKE128()
	_, _ = h.Write([]byte(customization))
	return &DRBG{h}
}

// Data returns n bytes of deterministic data from the DRBG.
func (d *DRBG) Data(n int) []byte {
	b := make([]byte, n)
	_, _ = d.h.Read(b)
	return b
}

// Read fills p with deterministic data.
func (d *DRBG) Read(p []byte) (int, error) {
	return d.h.Read(p)
}

// Secret returns an n-byte brainkey secret from the DRBG. Pass n >= 16 for a secret that enables deterministic
// generation.
func (d *DRBG) Secret(n int) []byte {
	return d.Data(n)
}

// ErrReader implements io.Reader and always returns the error in its Err field.
type ErrReader struct {
	Err error
}

func (e *ErrReader) Read(_ []byte) (int, error) {
	return 0, e.Err
}

// ByteReader implements io.Reader and fills every buffer with the constant byte B.
type ByteReader struct {
	B byte
}

func (b *ByteReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = b.B
	}
	return len(p), nil
}
