// Package nist adapts the NIST prime curves (P-256, P-384, P-521) to the brainkey Group interface.
package nist

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"errors"
	"fmt"
	"io"
	"math/big"

	"github.com/stealth/brainkey"
)

var errScalarRange = errors.New("nist: scalar outside [1, order)")

// Group wraps an elliptic.Curve as a brainkey.Group.
type Group struct {
	name  string
	curve elliptic.Curve
}

// P256 returns the P-256 group.
func P256() *Group { return &Group{"p256", elliptic.P256()} }

// P384 returns the P-384 group.
func P384() *Group { return &Group{"p384", elliptic.P384()} }

// P521 returns the P-521 group, the curve the original opmsg brainkey scheme generates on.
func P521() *Group { return &Group{"p521", elliptic.P521()} }

func (g *Group) Name() string { return g.name }

func (g *Group) Order() *big.Int { return g.curve.Params().N }

func (g *Group) ScalarBaseMult(d *big.Int) (brainkey.Point, error) {
	if d.Sign() <= 0 || d.Cmp(g.curve.Params().N) >= 0 {
		return nil, errScalarRange
	}
	x, y := g.curve.ScalarBaseMult(d.Bytes())
	return &Point{curve: g.curve, x: x, y: y}, nil
}

func (g *Group) GenerateKey(rand io.Reader) (*brainkey.KeyPair, error) {
	priv, err := ecdsa.GenerateKey(g.curve, rand)
	if err != nil {
		return nil, fmt.Errorf("nist: generating key: %w", err)
	}
	return &brainkey.KeyPair{
		D:   priv.D,
		Pub: &Point{curve: g.curve, x: priv.X, y: priv.Y},
	}, nil
}

// ECDSA converts a key pair generated on this group into an ecdsa.PrivateKey for serialization (PEM, x509).
func (g *Group) ECDSA(kp *brainkey.KeyPair) (*ecdsa.PrivateKey, error) {
	p, ok := kp.Pub.(*Point)
	if !ok || p.curve != g.curve {
		return nil, errors.New("nist: key pair was not generated on this group")
	}
	return &ecdsa.PrivateKey{
		PublicKey: ecdsa.PublicKey{Curve: g.curve, X: p.x, Y: p.y},
		D:         kp.D,
	}, nil
}

// Point is a public point on a NIST curve.
type Point struct {
	curve elliptic.Curve
	x, y  *big.Int
}

// Bytes returns the SEC 1 compressed encoding of the point.
func (p *Point) Bytes() []byte {
	return elliptic.MarshalCompressed(p.curve, p.x, p.y)
}
