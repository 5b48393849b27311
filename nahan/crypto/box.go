package crypto

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/nacl/box"

	"github.com/nahan-app/nahan/nahan/compress"
	"github.com/nahan-app/nahan/nahan/identity"
	"github.com/nahan-app/nahan/nahan/wire"
)

var (
	ErrDecryptionFailed = errors.New("crypto: decryption failed")
	ErrSignatureInvalid = errors.New("crypto: signature invalid")
)

// Opened is the result of a successful Decrypt.
type Opened struct {
	Plaintext       []byte
	SenderPublicKey [identity.KeySize]byte
	// Verified is true when SenderPublicKey is one of the trusted keys.
	Verified    bool
	Fingerprint identity.Fingerprint
}

type decryptOptions struct {
	peerKey *[identity.KeySize]byte
}

// DecryptOption tunes Decrypt.
type DecryptOption func(*decryptOptions)

// WithPeerKey opens the box against peer instead of the sender key embedded
// in the envelope. A sender re-reading their own sent copy passes the
// original recipient's public key here.
func WithPeerKey(peer [identity.KeySize]byte) DecryptOption {
	return func(o *decryptOptions) {
		o.peerKey = &peer
	}
}

// Encrypt deflates plaintext and seals it with NaCl box (X25519,
// XSalsa20-Poly1305) under a fresh random nonce. The box tag is the only
// authenticator; direct messages carry no separate signature.
func Encrypt(plaintext []byte, recipientPublicKey, senderPrivateKey [identity.KeySize]byte) (*wire.Encrypted, error) {
	senderPub, err := identity.PublicFromPrivate(senderPrivateKey)
	if err != nil {
		return nil, err
	}
	compressed, err := compress.Deflate(plaintext)
	if err != nil {
		return nil, err
	}

	env := &wire.Encrypted{SenderPublicKey: senderPub}
	if _, err := io.ReadFull(rand.Reader, env.Nonce[:]); err != nil {
		return nil, err
	}
	env.Ciphertext = box.Seal(nil, compressed, &env.Nonce, &recipientPublicKey, &senderPrivateKey)
	return env, nil
}

// Decrypt opens env with the recipient's private key and inflates the result.
// A failed tag check and a failed inflation both report ErrDecryptionFailed.
func Decrypt(env *wire.Encrypted, recipientPrivateKey [identity.KeySize]byte, trusted [][identity.KeySize]byte, opts ...DecryptOption) (*Opened, error) {
	var o decryptOptions
	for _, opt := range opts {
		opt(&o)
	}
	peer := env.SenderPublicKey
	if o.peerKey != nil {
		peer = *o.peerKey
	}

	if len(env.Ciphertext) < box.Overhead {
		return nil, fmt.Errorf("%w: ciphertext shorter than tag", ErrDecryptionFailed)
	}
	compressed, ok := box.Open(nil, env.Ciphertext, &env.Nonce, &peer, &recipientPrivateKey)
	if !ok {
		return nil, ErrDecryptionFailed
	}
	plaintext, err := compress.Inflate(compressed)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecryptionFailed, err)
	}

	return &Opened{
		Plaintext:       plaintext,
		SenderPublicKey: env.SenderPublicKey,
		Verified:        isTrusted(env.SenderPublicKey, trusted),
		Fingerprint:     identity.FingerprintOf(env.SenderPublicKey),
	}, nil
}

func isTrusted(key [identity.KeySize]byte, trusted [][identity.KeySize]byte) bool {
	for _, t := range trusted {
		if t == key {
			return true
		}
	}
	return false
}
