package identity

import (
	"crypto/ed25519"
	"crypto/sha256"
)

// SigningKeyPair is the Ed25519 key pair derived from an X25519 public key.
type SigningKeyPair struct {
	PublicKey  ed25519.PublicKey
	PrivateKey ed25519.PrivateKey
}

// DeriveSigningKeyPair hashes the X25519 public key with SHA-256 and uses the
// digest as an Ed25519 seed. Sender and verifier compute the same pair from
// the public key alone, so nothing is persisted. Callers must not cache the
// result across key rotations.
func DeriveSigningKeyPair(x25519PublicKey [KeySize]byte) SigningKeyPair {
	seed := sha256.Sum256(x25519PublicKey[:])
	priv := ed25519.NewKeyFromSeed(seed[:ed25519.SeedSize])
	return SigningKeyPair{
		PublicKey:  priv.Public().(ed25519.PublicKey),
		PrivateKey: priv,
	}
}

func (kp SigningKeyPair) Sign(message []byte) []byte {
	return ed25519.Sign(kp.PrivateKey, message)
}

func Verify(publicKey ed25519.PublicKey, message, signature []byte) bool {
	if len(publicKey) != ed25519.PublicKeySize {
		return false
	}
	return ed25519.Verify(publicKey, message, signature)
}
