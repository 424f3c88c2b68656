// Package pbstream expands a brainkey secret into an unbounded deterministic byte stream via iterated PBKDF2 with a
// counter-based salt.
//
// The first four bytes of the secret form a per-user salt prefix; the remainder is the derivation password. Each
// 32-byte block of output is PBKDF2-HMAC-SHA256(password, prefix || "." || label || "." || %08x(counter), 10000
// iterations). Two streams built from the same secret produce identical output for identical read patterns starting
// from the same cursor position.
//
// The cursor advances once per derived block, not per byte: the unread tail of a block is discarded at the end of each
// Read call. Callers that need cross-process reproducibility must therefore issue the same sequence of reads, or
// Reset the stream between logical sessions.
package pbstream

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// MinSecretLen is the minimum secret length in bytes. Shorter secrets are a "not configured for determinism"
	// signal, not a usable stream.
	MinSecretLen = 16

	// BlockSize is the number of bytes produced per derivation.
	BlockSize = 32

	prefixLen  = 4
	iterations = 10000
	label      = "opmsg-brainkey-v1"
)

// ErrShortSecret is returned by New for secrets shorter than MinSecretLen.
var ErrShortSecret = errors.New("pbstream: secret shorter than 16 bytes")

// Stream is a deterministic byte stream derived from a brainkey secret. It implements io.Reader and never returns a
// read error.
//
// Stream is not safe for concurrent use: the block cursor is per-Stream mutable state. Use Clone to give each session
// an independent cursor.
type Stream struct {
	prefix []byte
	pass   []byte
	ctr    uint32
}

// New returns a Stream positioned at cursor zero, or ErrShortSecret if the secret is too short to enable
// deterministic derivation. The secret is copied; the caller may clear its own copy.
func New(secret []byte) (*Stream, error) {
	if len(secret) < MinSecretLen {
		return nil, ErrShortSecret
	}

	return &Stream{
		prefix: bytes.Clone(secret[:prefixLen]),
		pass:   bytes.Clone(secret[prefixLen:]),
	}, nil
}

// Read fills p with the next len(p) bytes of the stream. The buffer is zero-filled before derivation begins. The
// returned error is always nil; the signature exists to satisfy io.Reader.
func (s *Stream) Read(p []byte) (int, error) {
	clear(p)

	for have := 0; have < len(p); {
		salt := fmt.Sprintf("%s.%s.%08x", s.prefix, label, s.ctr)
		s.ctr++

		block := pbkdf2.Key(s.pass, []byte(salt), iterations, BlockSize, sha256.New)
		have += copy(p[have:], block)
		clear(block)
	}

	return len(p), nil
}

// Reset rewinds the cursor to zero, making the stream replay from the beginning. Use once per logical key-generation
// session when cross-process reproducibility is required.
func (s *Stream) Reset() {
	s.ctr = 0
}

// Clone returns an independent Stream at the same cursor position. The original and clone advance separately.
func (s *Stream) Clone() *Stream {
	return &Stream{
		prefix: bytes.Clone(s.prefix),
		pass:   bytes.Clone(s.pass),
		ctr:    s.ctr,
	}
}

// Clear overwrites the secret material with zeros and invalidates the stream. After Clear, the stream must not be
// used.
func (s *Stream) Clear() {
	clear(s.prefix)
	clear(s.pass)
	s.prefix = nil
	s.pass = nil
	s.ctr = 0
}
