// Package secp256k1 adapts the secp256k1 curve to the brainkey Group interface using the decred implementation.
package secp256k1

import (
	"errors"
	"fmt"
	"io"
	"math/big"

	secp "github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/stealth/brainkey"
)

var errScalarRange = errors.New("secp256k1: scalar outside [1, order)")

// Group is the secp256k1 group.
type Group struct{}

// New returns the secp256k1 group.
func New() *Group { return &Group{} }

func (*Group) Name() string { return "secp256k1" }

func (*Group) Order() *big.Int { return secp.S256().N }

func (*Group) ScalarBaseMult(d *big.Int) (brainkey.Point, error) {
	if d.Sign() <= 0 || d.Cmp(secp.S256().N) >= 0 {
		return nil, errScalarRange
	}

	var buf [32]byte
	d.FillBytes(buf[:])
	priv := secp.PrivKeyFromBytes(buf[:])
	clear(buf[:])

	return &Point{pub: priv.PubKey()}, nil
}

func (*Group) GenerateKey(rand io.Reader) (*brainkey.KeyPair, error) {
	priv, err := secp.GeneratePrivateKeyFromRand(rand)
	if err != nil {
		return nil, fmt.Errorf("secp256k1: generating key: %w", err)
	}

	serialized := priv.Serialize()
	d := new(big.Int).SetBytes(serialized)
	clear(serialized)

	return &brainkey.KeyPair{D: d, Pub: &Point{pub: priv.PubKey()}}, nil
}

// Point is a secp256k1 public key point.
type Point struct {
	pub *secp.PublicKey
}

// Bytes returns the 33-byte compressed encoding of the point.
func (p *Point) Bytes() []byte {
	return p.pub.SerializeCompressed()
}
