// Package rng provides the non-deterministic random source used when no brainkey is configured.
//
// Each read pulls a block of host entropy, absorbs it into KT128 together with a ratcheting chain value, and returns
// the XOF output. This hedges key generation somewhat against a compromised host RNG: an attacker must predict every
// block since the reader was created, not just the current one.
package rng

import (
	"crypto/rand"
	"io"

	"github.com/codahale/kt128"
)

const customization = "brainkey.rng.v1"

// Reader is a hedged random source. It implements io.Reader and is not safe for concurrent use.
type Reader struct {
	chain [32]byte
}

// New returns a Reader with a fresh chain value drawn from the host RNG.
func New() (*Reader, error) {
	var r Reader
	if _, err := rand.Read(r.chain[:]); err != nil {
		return nil, err
	}
	return &r, nil
}

// Read fills p with hedged random bytes. Returns an error only if the host RNG fails.
func (r *Reader) Read(p []byte) (int, error) {
	var block [32]byte
	if _, err := rand.Read(block[:]); err != nil {
		return 0, err
	}

	h := kt128.New([]byte(customization))
	_, _ = h.Write(r.chain[:])
	_, _ = h.Write(block[:])

	// Read the output first, then ratchet the chain so the next block depends on this one.
	_, _ = h.Read(p)
	_, _ = h.Read(r.chain[:])
	clear(block[:])

	return len(p), nil
}

var _ io.Reader = (*Reader)(nil)
