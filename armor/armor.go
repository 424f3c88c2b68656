// Package armor seals exported private key material under a passphrase.
//
// The envelope is a JSON document behind a magic prefix, carrying the KDF parameters, a random salt, and the
// ciphertext. The sealing key is derived with Argon2id and used once with TreeWrap's encrypt-and-MAC; the random
// per-seal salt satisfies TreeWrap's key-uniqueness requirement.
package armor

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/codahale/treewrap"
	"golang.org/x/crypto/argon2"
)

const (
	envelopeVersion = 1
	saltSize        = 16
	magic           = "BKARMOR1\n"

	argonTime    = uint32(2)
	argonMemKB   = uint32(64 * 1024)
	argonThreads = uint8(1)
)

var (
	// ErrAuthFailed is returned by Open when the passphrase is wrong or the envelope was tampered with.
	ErrAuthFailed = errors.New("armor: authentication failed")

	// ErrInvalid is returned by Open for data that is not a well-formed envelope.
	ErrInvalid = errors.New("armor: invalid envelope")
)

// Envelope is the serialized form of a sealed key.
type Envelope struct {
	Version     int    `json:"version"`
	KDF         string `json:"kdf"`
	KDFTime     uint32 `json:"kdf_time"`
	KDFMemoryKB uint32 `json:"kdf_memory_kb"`
	KDFThreads  uint8  `json:"kdf_threads"`
	Salt        []byte `json:"salt"`
	Ciphertext  []byte `json:"ciphertext"`
	Tag         []byte `json:"tag"`
}

// Seal encrypts plaintext under the passphrase and returns the serialized envelope.
func Seal(passphrase string, plaintext []byte) ([]byte, error) {
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}

	var key [treewrap.KeySize]byte
	deriveKey(&key, passphrase, salt)

	ciphertext, tag := treewrap.EncryptAndMAC(nil, &key, plaintext)
	clear(key[:])

	env := Envelope{
		Version:     envelopeVersion,
		KDF:         "argon2id",
		KDFTime:     argonTime,
		KDFMemoryKB: argonMemKB,
		KDFThreads:  argonThreads,
		Salt:        salt,
		Ciphertext:  ciphertext,
		Tag:         tag[:],
	}

	raw, err := json.Marshal(env)
	if err != nil {
		return nil, err
	}
	return append([]byte(magic), raw...), nil
}

// Open decrypts an envelope produced by Seal, returning the plaintext. A wrong passphrase and a tampered envelope are
// indistinguishable: both return ErrAuthFailed.
func Open(passphrase string, data []byte) ([]byte, error) {
	if len(data) < len(magic) || string(data[:len(magic)]) != magic {
		return nil, ErrInvalid
	}

	var env Envelope
	if err := json.Unmarshal(data[len(magic):], &env); err != nil {
		return nil, ErrInvalid
	}
	if env.Version != envelopeVersion || env.KDF != "argon2id" || len(env.Tag) != treewrap.TagSize {
		return nil, ErrInvalid
	}

	var key [treewrap.KeySize]byte
	argonKey := argon2.IDKey([]byte(passphrase), env.Salt, env.KDFTime, env.KDFMemoryKB, env.KDFThreads, treewrap.KeySize)
	copy(key[:], argonKey)
	clear(argonKey)

	plaintext, tag := treewrap.DecryptAndMAC(nil, &key, env.Ciphertext)
	clear(key[:])

	if subtle.ConstantTimeCompare(tag[:], env.Tag) != 1 {
		clear(plaintext)
		return nil, ErrAuthFailed
	}
	return plaintext, nil
}

func deriveKey(key *[treewrap.KeySize]byte, passphrase string, salt []byte) {
	k := argon2.IDKey([]byte(passphrase), salt, argonTime, argonMemKB, argonThreads, treewrap.KeySize)
	copy(key[:], k)
	clear(k)
}

// String implements fmt.Stringer without leaking key material.
func (e *Envelope) String() string {
	return fmt.Sprintf("Envelope(v%d, %s, %dB)", e.Version, e.KDF, len(e.Ciphertext))
}
