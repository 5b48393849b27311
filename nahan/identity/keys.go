package identity

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/curve25519"
)

var (
	ErrInvalidPublicKey  = errors.New("identity: invalid X25519 public key")
	ErrInvalidPrivateKey = errors.New("identity: invalid X25519 private key")
)

const KeySize = 32

// KeyPair is the long-term X25519 identity. The Ed25519 signing key is not
// stored; see DeriveSigningKeyPair.
type KeyPair struct {
	PublicKey  [KeySize]byte
	PrivateKey [KeySize]byte
}

// GenerateKeyPair generates a new X25519 identity.
func GenerateKeyPair() (KeyPair, error) {
	var priv [KeySize]byte
	if _, err := io.ReadFull(rand.Reader, priv[:]); err != nil {
		return KeyPair{}, err
	}
	return FromPrivateKey(priv)
}

// FromPrivateKey clamps the scalar per RFC 7748 and recomputes the public key.
func FromPrivateKey(priv [KeySize]byte) (KeyPair, error) {
	priv[0] &= 248
	priv[31] &= 127
	priv[31] |= 64

	pub, err := PublicFromPrivate(priv)
	if err != nil {
		return KeyPair{}, err
	}
	return KeyPair{PublicKey: pub, PrivateKey: priv}, nil
}

// PublicFromPrivate computes the X25519 public key of a private scalar.
func PublicFromPrivate(priv [KeySize]byte) ([KeySize]byte, error) {
	var pub [KeySize]byte
	out, err := curve25519.X25519(priv[:], curve25519.Basepoint)
	if err != nil {
		return pub, fmt.Errorf("%w: %v", ErrInvalidPrivateKey, err)
	}
	copy(pub[:], out)
	return pub, nil
}

func (kp KeyPair) Fingerprint() Fingerprint {
	return FingerprintOf(kp.PublicKey)
}

// EncodeKey renders a key as standard base64, the form used in ID cards.
func EncodeKey(key [KeySize]byte) string {
	return base64.StdEncoding.EncodeToString(key[:])
}

// ParsePublicKey decodes a base64 X25519 public key.
func ParsePublicKey(s string) ([KeySize]byte, error) {
	var key [KeySize]byte
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return key, fmt.Errorf("%w: %v", ErrInvalidPublicKey, err)
	}
	if len(b) != KeySize {
		return key, fmt.Errorf("%w: %d bytes", ErrInvalidPublicKey, len(b))
	}
	var zero [KeySize]byte
	copy(key[:], b)
	if key == zero {
		return key, ErrInvalidPublicKey
	}
	return key, nil
}
