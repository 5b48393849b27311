package wire

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedEnvelope  = errors.New("wire: malformed envelope")
	ErrUnsupportedVersion = errors.New("wire: unsupported envelope version")
)

// SerializeEncrypted lays out an encrypted envelope.
// Format:
//
//	1 byte: version (1)
//	24 bytes: nonce
//	32 bytes: sender X25519 public key
//	N bytes: box ciphertext (tag included)
//
// The ciphertext occupies the remainder, so no length prefix is needed.
func SerializeEncrypted(nonce [NonceSize]byte, senderPublicKey [PublicKeySize]byte, ciphertext []byte) []byte {
	out := make([]byte, EncryptedHeaderSize+len(ciphertext))
	out[0] = byte(VersionEncrypted)
	copy(out[1:], nonce[:])
	copy(out[1+NonceSize:], senderPublicKey[:])
	copy(out[EncryptedHeaderSize:], ciphertext)
	return out
}

func DeserializeEncrypted(b []byte) (*Encrypted, error) {
	if len(b) < EncryptedHeaderSize {
		return nil, fmt.Errorf("%w: %d bytes, need at least %d", ErrMalformedEnvelope, len(b), EncryptedHeaderSize)
	}
	if len(b) > MaxEnvelopeSize {
		return nil, fmt.Errorf("%w: %d bytes exceeds limit", ErrMalformedEnvelope, len(b))
	}
	if Version(b[0]) != VersionEncrypted {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, b[0])
	}
	e := &Encrypted{}
	copy(e.Nonce[:], b[1:1+NonceSize])
	copy(e.SenderPublicKey[:], b[1+NonceSize:EncryptedHeaderSize])
	e.Ciphertext = append([]byte(nil), b[EncryptedHeaderSize:]...)
	return e, nil
}

// SerializeSigned lays out a signed envelope.
// Format:
//
//	1 byte: version (2)
//	32 bytes: derived Ed25519 public key
//	64 bytes: signature
//	N bytes: message
func SerializeSigned(senderPublicKey [PublicKeySize]byte, signature [SignatureSize]byte, message []byte) []byte {
	out := make([]byte, SignedHeaderSize+len(message))
	out[0] = byte(VersionSigned)
	copy(out[1:], senderPublicKey[:])
	copy(out[1+PublicKeySize:], signature[:])
	copy(out[SignedHeaderSize:], message)
	return out
}

func DeserializeSigned(b []byte) (*Signed, error) {
	if len(b) < SignedHeaderSize {
		return nil, fmt.Errorf("%w: %d bytes, need at least %d", ErrMalformedEnvelope, len(b), SignedHeaderSize)
	}
	if len(b) > MaxEnvelopeSize {
		return nil, fmt.Errorf("%w: %d bytes exceeds limit", ErrMalformedEnvelope, len(b))
	}
	if Version(b[0]) != VersionSigned {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, b[0])
	}
	s := &Signed{}
	copy(s.SenderPublicKey[:], b[1:1+PublicKeySize])
	copy(s.Signature[:], b[1+PublicKeySize:SignedHeaderSize])
	s.Message = append([]byte(nil), b[SignedHeaderSize:]...)
	return s, nil
}

func (e *Encrypted) Marshal() []byte {
	return SerializeEncrypted(e.Nonce, e.SenderPublicKey, e.Ciphertext)
}

func (s *Signed) Marshal() []byte {
	return SerializeSigned(s.SenderPublicKey, s.Signature, s.Message)
}

// Decode parses either envelope kind, dispatching on the version byte.
func Decode(b []byte) (Envelope, error) {
	if len(b) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrMalformedEnvelope)
	}
	switch Version(b[0]) {
	case VersionEncrypted:
		return DeserializeEncrypted(b)
	case VersionSigned:
		return DeserializeSigned(b)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, b[0])
	}
}
