// Command bkgen regenerates an elliptic-curve key pair from a brainkey passphrase and writes it out.
//
// The passphrase comes from the config file or the BRAINKEY environment variable. NIST-curve keys are written as PEM
// (as opmsg does); other groups are written as a JSON key file. With -armor, the output is sealed under the
// passphrase given in BKGEN_ARMOR before writing.
package main

import (
	"crypto/x509"
	"encoding/hex"
	"encoding/json"
	"encoding/pem"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/stealth/brainkey"
	"github.com/stealth/brainkey/armor"
	"github.com/stealth/brainkey/config"
	"github.com/stealth/brainkey/group"
	"github.com/stealth/brainkey/group/nist"
)

type keyFile struct {
	Curve     string `json:"curve"`
	PublicKey string `json:"publicKey"` // compressed point, hex
	SecretKey string `json:"secretKey"` // big-endian scalar, hex
	CreatedAt string `json:"createdAt"`
}

func main() {
	configPath := flag.String("config", "", "path to config file (default: ~/.brainkey/config.yaml)")
	curveName := flag.String("curve", "", "group to generate on (default from config, else p521)")
	outPath := flag.String("out", "", "output file (default: stdout for PEM, <curve>-key.json otherwise)")
	mnemonic := flag.Bool("mnemonic", false, "treat the passphrase as a BIP-39 mnemonic and validate its checksum")
	sealOut := flag.Bool("armor", false, "seal the output under the BKGEN_ARMOR passphrase")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fatal(err)
	}

	name := cfg.Curve
	if *curveName != "" {
		name = *curveName
	}
	if name == "" {
		name = group.DefaultName
	}

	grp, err := group.ByName(name)
	if err != nil {
		fatal(fmt.Errorf("%w (available: %v)", err, group.Names()))
	}

	secret := []byte(cfg.Brainkey)
	if *mnemonic {
		secret, err = brainkey.SecretFromMnemonic(cfg.Brainkey)
		if err != nil {
			fatal(err)
		}
	}

	gen := brainkey.New(secret)
	if !gen.Deterministic() {
		fmt.Fprintln(os.Stderr, "bkgen: brainkey missing or shorter than 16 bytes, generating a random key")
	}

	kp, err := gen.GenerateKey(grp)
	if err != nil {
		fatal(err)
	}

	out, err := serialize(grp, kp, name)
	if err != nil {
		fatal(err)
	}

	if *sealOut {
		pass := os.Getenv("BKGEN_ARMOR")
		if pass == "" {
			fatal(errors.New("-armor requires the BKGEN_ARMOR environment variable"))
		}
		out, err = armor.Seal(pass, out)
		if err != nil {
			fatal(err)
		}
	}

	if err := write(*outPath, grp, out); err != nil {
		fatal(err)
	}
}

func serialize(grp brainkey.Group, kp *brainkey.KeyPair, name string) ([]byte, error) {
	if g, ok := grp.(*nist.Group); ok {
		priv, err := g.ECDSA(kp)
		if err != nil {
			return nil, err
		}
		der, err := x509.MarshalECPrivateKey(priv)
		if err != nil {
			return nil, err
		}
		return pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: der}), nil
	}

	kf := keyFile{
		Curve:     name,
		PublicKey: hex.EncodeToString(kp.Pub.Bytes()),
		SecretKey: hex.EncodeToString(kp.D.Bytes()),
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	return json.MarshalIndent(kf, "", "  ")
}

func write(path string, grp brainkey.Group, data []byte) error {
	if path == "" {
		if _, ok := grp.(*nist.Group); ok {
			_, err := os.Stdout.Write(data)
			return err
		}
		path = grp.Name() + "-key.json"
	}

	// 0600: the file holds the private key.
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return err
	}
	fmt.Printf("key written to %s\n", path)
	return nil
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "bkgen: %v\n", err)
	os.Exit(1)
}
