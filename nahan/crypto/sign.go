package crypto

import (
	"bytes"
	"crypto/ed25519"

	"github.com/nahan-app/nahan/nahan/identity"
	"github.com/nahan-app/nahan/nahan/wire"
)

// Verified is the result of a successful Verify.
type Verified struct {
	Message []byte
	// Verified is false when the signature is valid but no trusted key
	// derives the embedded signing key. Such broadcasts are still delivered.
	Verified           bool
	MatchedFingerprint identity.Fingerprint
	MatchedPublicKey   [identity.KeySize]byte
}

// Sign signs message with the Ed25519 key derived from the sender's X25519
// public key. message is signed as given; compressing it is up to the caller.
func Sign(message []byte, senderPrivateKey [identity.KeySize]byte) (*wire.Signed, error) {
	senderPub, err := identity.PublicFromPrivate(senderPrivateKey)
	if err != nil {
		return nil, err
	}
	signing := identity.DeriveSigningKeyPair(senderPub)

	s := &wire.Signed{Message: append([]byte(nil), message...)}
	copy(s.SenderPublicKey[:], signing.PublicKey)
	copy(s.Signature[:], signing.Sign(message))
	return s, nil
}

// Verify checks the signature against the embedded key, then looks for a
// trusted X25519 key whose derived signing key matches it.
func Verify(env *wire.Signed, trusted [][identity.KeySize]byte) (*Verified, error) {
	pub := ed25519.PublicKey(env.SenderPublicKey[:])
	if !identity.Verify(pub, env.Message, env.Signature[:]) {
		return nil, ErrSignatureInvalid
	}

	out := &Verified{Message: env.Message}
	for _, t := range trusted {
		derived := identity.DeriveSigningKeyPair(t)
		if bytes.Equal(derived.PublicKey, pub) {
			out.Verified = true
			out.MatchedPublicKey = t
			out.MatchedFingerprint = identity.FingerprintOf(t)
			break
		}
	}
	return out, nil
}
