// Package r255 adapts the Ristretto255 prime-order group to the brainkey Group interface.
package r255

import (
	"errors"
	"io"
	"math/big"

	"github.com/gtank/ristretto255"

	"github.com/stealth/brainkey"
)

// order is the Ristretto255 scalar field order l = 2^252 + 27742317777372353535851937790883648493.
var order, _ = new(big.Int).SetString("7237005577332262213973186563042994240857116359379907606001950938285454250989", 10)

var errScalarRange = errors.New("r255: scalar outside [1, order)")

// Group is the Ristretto255 group.
type Group struct{}

// New returns the Ristretto255 group.
func New() *Group { return &Group{} }

func (*Group) Name() string { return "ristretto255" }

func (*Group) Order() *big.Int { return order }

func (*Group) ScalarBaseMult(d *big.Int) (brainkey.Point, error) {
	if d.Sign() <= 0 || d.Cmp(order) >= 0 {
		return nil, errScalarRange
	}

	s, err := ristretto255.NewScalar().SetCanonicalBytes(scalarBytes(d))
	if err != nil {
		return nil, err
	}

	return &Point{e: ristretto255.NewIdentityElement().ScalarBaseMult(s)}, nil
}

func (g *Group) GenerateKey(rand io.Reader) (*brainkey.KeyPair, error) {
	for {
		var seed [64]byte
		if _, err := io.ReadFull(rand, seed[:]); err != nil {
			return nil, err
		}

		s, err := ristretto255.NewScalar().SetUniformBytes(seed[:])
		clear(seed[:])
		if err != nil {
			return nil, err
		}

		// A wide reduction landing on zero is astronomically unlikely, but zero is not a valid private scalar.
		d := scalarInt(s)
		if d.Sign() == 0 {
			continue
		}

		return &brainkey.KeyPair{D: d, Pub: &Point{e: ristretto255.NewIdentityElement().ScalarBaseMult(s)}}, nil
	}
}

// Point is a Ristretto255 group element.
type Point struct {
	e *ristretto255.Element
}

// Bytes returns the 32-byte canonical encoding of the element.
func (p *Point) Bytes() []byte {
	return p.e.Bytes()
}

// scalarBytes encodes d as the 32-byte little-endian form ristretto255 scalars use on the wire.
func scalarBytes(d *big.Int) []byte {
	var be [32]byte
	d.FillBytes(be[:])
	le := make([]byte, 32)
	for i := range be {
		le[i] = be[31-i]
	}
	return le
}

// scalarInt decodes a ristretto255 scalar into a big-endian big.Int.
func scalarInt(s *ristretto255.Scalar) *big.Int {
	le := s.Bytes()
	be := make([]byte, len(le))
	for i := range le {
		be[i] = le[len(le)-1-i]
	}
	return new(big.Int).SetBytes(be)
}
