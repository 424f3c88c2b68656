// Package brainkey generates elliptic-curve key pairs whose private scalar is deterministically derived from a shared
// passphrase instead of system entropy.
//
// Two parties holding the same secret regenerate bit-identical key pairs independently, with no key material stored
// or transmitted. The secret is expanded into a byte stream (hazmat/pbstream), the stream is shaped into a uniform
// scalar below the curve order (hazmat/bnrand), and the public point is computed through a narrow Group interface so
// the core stays independent of any particular curve library.
//
// Secrets shorter than MinSecretLen do not enable determinism: generation is delegated unchanged to the group's own
// non-deterministic generator. Passphrase strength beyond the length gate is the caller's responsibility.
package brainkey

import (
	"io"
	"math/big"
	"strings"

	bip39 "github.com/tyler-smith/go-bip39"

	"github.com/stealth/brainkey/hazmat/bnrand"
	"github.com/stealth/brainkey/hazmat/pbstream"
	"github.com/stealth/brainkey/rng"
)

// MinSecretLen is the minimum secret length in bytes for deterministic generation.
const MinSecretLen = pbstream.MinSecretLen

// Point is an opaque public curve point. Bytes returns the adapter's canonical encoding.
type Point interface {
	Bytes() []byte
}

// KeyPair is a generated key pair: the private scalar (1 <= D < group order) and the matching public point.
type KeyPair struct {
	D   *big.Int
	Pub Point
}

// Group is the narrow capability this package requires of an elliptic-curve collaborator.
type Group interface {
	// Name identifies the group for registries and serialization.
	Name() string

	// Order returns the order of the scalar field. Callers must not mutate it.
	Order() *big.Int

	// ScalarBaseMult returns d times the group's base generator.
	ScalarBaseMult(d *big.Int) (Point, error)

	// GenerateKey draws a key pair from the group's native, non-deterministic generator using the supplied entropy
	// source. Used when no brainkey is configured.
	GenerateKey(rand io.Reader) (*KeyPair, error)
}

// Generator produces key pairs from a brainkey secret.
//
// Generator is not safe for concurrent use: the stream cursor advances with every deterministic draw. Give each
// logical session its own Generator, or call Reset between sessions.
type Generator struct {
	stream   *pbstream.Stream
	fallback io.Reader
}

// New returns a Generator for the given secret. A secret shorter than MinSecretLen disables the deterministic path;
// the Generator is still usable and delegates to each group's native generator.
func New(secret []byte) *Generator {
	g := &Generator{}
	if s, err := pbstream.New(secret); err == nil {
		g.stream = s
	}
	return g
}

// Deterministic reports whether the secret was long enough to enable deterministic generation.
func (g *Generator) Deterministic() bool {
	return g.stream != nil
}

// Reset rewinds the stream cursor to zero. The next GenerateKey call reproduces the first key pair this Generator
// would produce, regardless of process history. No-op without a deterministic stream.
func (g *Generator) Reset() {
	if g.stream != nil {
		g.stream.Reset()
	}
}

// GenerateKey generates a key pair on the given group.
//
// With a deterministic stream, the private scalar is drawn uniformly from [1, order) and the public point computed
// via the group; identical (secret, cursor) always yields an identical pair. Without one, the call is delegated
// unchanged to the group's native generator fed by a hedged system entropy reader. On error no usable key pair is
// returned; callers must not touch partial results.
func (g *Generator) GenerateKey(grp Group) (*KeyPair, error) {
	if g.stream == nil {
		r, err := g.rand()
		if err != nil {
			return nil, err
		}
		return grp.GenerateKey(r)
	}

	order := grp.Order()

	// The zero scalar has no valid public point; redraw. Hitting zero even once is already a statistical anomaly.
	var d *big.Int
	for {
		var err error
		d, err = bnrand.IntRange(g.stream, order)
		if err != nil {
			return nil, err
		}
		if d.Sign() != 0 {
			break
		}
	}

	pub, err := grp.ScalarBaseMult(d)
	if err != nil {
		return nil, err
	}

	return &KeyPair{D: d, Pub: pub}, nil
}

func (g *Generator) rand() (io.Reader, error) {
	if g.fallback == nil {
		r, err := rng.New()
		if err != nil {
			return nil, err
		}
		g.fallback = r
	}
	return g.fallback, nil
}

// ErrInvalidMnemonic is returned by SecretFromMnemonic for phrases that fail BIP-39 validation.
var ErrInvalidMnemonic = bip39.ErrInvalidMnemonic

// SecretFromMnemonic turns a BIP-39 mnemonic phrase into a brainkey secret. The phrase is whitespace-normalized and
// checksum-validated, catching typos before they silently derive a different key pair.
func SecretFromMnemonic(phrase string) ([]byte, error) {
	normalized := strings.Join(strings.Fields(phrase), " ")
	if !bip39.IsMnemonicValid(normalized) {
		return nil, ErrInvalidMnemonic
	}
	return []byte(normalized), nil
}
