package brainkey_test

import (
	"bytes"
	"io"
	"math/big"
	"testing"

	"github.com/stealth/brainkey"
	"github.com/stealth/brainkey/group"
	"github.com/stealth/brainkey/group/nist"
	"github.com/stealth/brainkey/internal/testdata"
)

type stubPoint []byte

func (p stubPoint) Bytes() []byte { return p }

type stubGroup struct {
	order     *big.Int
	delegated bool
}

func (s *stubGroup) Name() string { return "stub" }

func (s *stubGroup) Order() *big.Int { return s.order }

func (s *stubGroup) ScalarBaseMult(d *big.Int) (brainkey.Point, error) {
	return stubPoint(d.Bytes()), nil
}

func (s *stubGroup) GenerateKey(rand io.Reader) (*brainkey.KeyPair, error) {
	s.delegated = true
	buf := make([]byte, 32)
	if _, err := io.ReadFull(rand, buf); err != nil {
		return nil, err
	}
	d := new(big.Int).SetBytes(buf)
	return &brainkey.KeyPair{D: d, Pub: stubPoint(d.Bytes())}, nil
}

func TestGenerateKeyReproducible(t *testing.T) {
	secret := []byte("abcd" + "supersecretpass1234")
	grp := nist.P521()

	kp1, err := brainkey.New(secret).GenerateKey(grp)
	if err != nil {
		t.Fatal(err)
	}

	g2 := brainkey.New(secret)
	kp2, err := g2.GenerateKey(grp)
	if err != nil {
		t.Fatal(err)
	}

	if kp1.D.Cmp(kp2.D) != 0 {
		t.Fatalf("independent runs disagree:\n  %x\n  %x", kp1.D, kp2.D)
	}
	if !bytes.Equal(kp1.Pub.Bytes(), kp2.Pub.Bytes()) {
		t.Fatal("independent runs produced different public points")
	}

	// A rewound cursor reproduces the pair regardless of process history.
	g2.Reset()
	kp3, err := g2.GenerateKey(grp)
	if err != nil {
		t.Fatal(err)
	}
	if kp1.D.Cmp(kp3.D) != 0 || !bytes.Equal(kp1.Pub.Bytes(), kp3.Pub.Bytes()) {
		t.Fatal("reset cursor did not reproduce the key pair")
	}
}

func TestGenerateKeyAllGroups(t *testing.T) {
	secret := []byte("abcdsupersecretpass1234")

	for _, name := range group.Names() {
		t.Run(name, func(t *testing.T) {
			grp, err := group.ByName(name)
			if err != nil {
				t.Fatal(err)
			}

			kp1, err := brainkey.New(secret).GenerateKey(grp)
			if err != nil {
				t.Fatal(err)
			}
			kp2, err := brainkey.New(secret).GenerateKey(grp)
			if err != nil {
				t.Fatal(err)
			}

			if kp1.D.Cmp(kp2.D) != 0 || !bytes.Equal(kp1.Pub.Bytes(), kp2.Pub.Bytes()) {
				t.Fatal("not reproducible")
			}
			if kp1.D.Sign() <= 0 || kp1.D.Cmp(grp.Order()) >= 0 {
				t.Fatalf("scalar %v outside [1, order)", kp1.D)
			}
		})
	}
}

func TestShortSecretDelegates(t *testing.T) {
	g := brainkey.New([]byte("too short"))
	if g.Deterministic() {
		t.Fatal("15-byte secret reported as deterministic")
	}

	grp := &stubGroup{order: big.NewInt(1000)}
	if _, err := g.GenerateKey(grp); err != nil {
		t.Fatal(err)
	}
	if !grp.delegated {
		t.Fatal("short secret did not delegate to the group's native generator")
	}
}

func TestNonzeroScalar(t *testing.T) {
	// With order 2, every other candidate draw is the invalid zero scalar; the redraw loop must always hand back 1.
	g := brainkey.New(testdata.New("nonzero").Secret(24))
	grp := &stubGroup{order: big.NewInt(2)}

	for range 50 {
		kp, err := g.GenerateKey(grp)
		if err != nil {
			t.Fatal(err)
		}
		if kp.D.Sign() == 0 {
			t.Fatal("generated the zero scalar")
		}
	}
	if grp.delegated {
		t.Fatal("deterministic secret delegated to the native generator")
	}
}

func TestSecretFromMnemonic(t *testing.T) {
	const phrase = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

	t.Run("valid", func(t *testing.T) {
		secret, err := brainkey.SecretFromMnemonic(phrase)
		if err != nil {
			t.Fatal(err)
		}
		if string(secret) != phrase {
			t.Fatalf("got %q", secret)
		}
	})

	t.Run("whitespace normalized", func(t *testing.T) {
		secret, err := brainkey.SecretFromMnemonic("  abandon abandon  abandon abandon abandon abandon\tabandon abandon abandon abandon abandon about ")
		if err != nil {
			t.Fatal(err)
		}
		if string(secret) != phrase {
			t.Fatalf("got %q", secret)
		}
	})

	t.Run("bad checksum", func(t *testing.T) {
		if _, err := brainkey.SecretFromMnemonic("abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon"); err == nil {
			t.Fatal("invalid mnemonic accepted")
		}
	})

	t.Run("garbage", func(t *testing.T) {
		if _, err := brainkey.SecretFromMnemonic("definitely not a mnemonic"); err == nil {
			t.Fatal("garbage accepted")
		}
	})
}

func BenchmarkGenerateKey(b *testing.B) {
	secret := []byte("abcdsupersecretpass1234")
	grp := nist.P256()

	b.ReportAllocs()
	for b.Loop() {
		g := brainkey.New(secret)
		if _, err := g.GenerateKey(grp); err != nil {
			b.Fatal(err)
		}
	}
}
