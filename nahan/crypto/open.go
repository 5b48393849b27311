package crypto

import (
	"fmt"

	"github.com/nahan-app/nahan/nahan/identity"
	"github.com/nahan-app/nahan/nahan/wire"
)

// Result unifies the outcome of opening either envelope kind.
type Result struct {
	Version     wire.Version
	Payload     []byte
	Verified    bool
	Fingerprint identity.Fingerprint
	// SenderPublicKey is the X25519 key of the sender when it is known: always
	// for encrypted envelopes, only on a trusted match for signed ones.
	SenderPublicKey [identity.KeySize]byte
}

// Open decodes a serialized envelope and decrypts or verifies it.
// Signed payloads are returned exactly as signed.
func Open(b []byte, recipientPrivateKey [identity.KeySize]byte, trusted [][identity.KeySize]byte, opts ...DecryptOption) (*Result, error) {
	env, err := wire.Decode(b)
	if err != nil {
		return nil, err
	}
	switch e := env.(type) {
	case *wire.Encrypted:
		o, err := Decrypt(e, recipientPrivateKey, trusted, opts...)
		if err != nil {
			return nil, err
		}
		return &Result{
			Version:         wire.VersionEncrypted,
			Payload:         o.Plaintext,
			Verified:        o.Verified,
			Fingerprint:     o.Fingerprint,
			SenderPublicKey: o.SenderPublicKey,
		}, nil
	case *wire.Signed:
		v, err := Verify(e, trusted)
		if err != nil {
			return nil, err
		}
		return &Result{
			Version:         wire.VersionSigned,
			Payload:         v.Message,
			Verified:        v.Verified,
			Fingerprint:     v.MatchedFingerprint,
			SenderPublicKey: v.MatchedPublicKey,
		}, nil
	default:
		return nil, fmt.Errorf("%w: %T", wire.ErrUnsupportedVersion, env)
	}
}
