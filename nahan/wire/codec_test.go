package wire

import (
	"bytes"
	"errors"
	"testing"
)

func TestEncryptedRoundTrip(t *testing.T) {
	var nonce [NonceSize]byte
	var pub [PublicKeySize]byte
	for i := range nonce {
		nonce[i] = byte(i)
	}
	for i := range pub {
		pub[i] = byte(100 + i)
	}
	ct := []byte("ciphertext bytes")

	b := SerializeEncrypted(nonce, pub, ct)
	if len(b) != EncryptedHeaderSize+len(ct) {
		t.Fatalf("unexpected length %d", len(b))
	}
	if b[0] != 0x01 {
		t.Fatalf("expected version byte 0x01, got %#x", b[0])
	}

	e, err := DeserializeEncrypted(b)
	if err != nil {
		t.Fatalf("DeserializeEncrypted: %v", err)
	}
	if e.Nonce != nonce || e.SenderPublicKey != pub {
		t.Fatalf("header mismatch")
	}
	if !bytes.Equal(e.Ciphertext, ct) {
		t.Fatalf("ciphertext mismatch")
	}
	if !bytes.Equal(e.Marshal(), b) {
		t.Fatalf("Marshal is not the inverse of DeserializeEncrypted")
	}
}

func TestEncryptedEmptyCiphertext(t *testing.T) {
	var nonce [NonceSize]byte
	var pub [PublicKeySize]byte
	b := SerializeEncrypted(nonce, pub, nil)
	e, err := DeserializeEncrypted(b)
	if err != nil {
		t.Fatalf("DeserializeEncrypted: %v", err)
	}
	if len(e.Ciphertext) != 0 {
		t.Fatalf("expected empty ciphertext")
	}
}

func TestDeserializeEncryptedErrors(t *testing.T) {
	if _, err := DeserializeEncrypted(make([]byte, 56)); !errors.Is(err, ErrMalformedEnvelope) {
		t.Fatalf("expected ErrMalformedEnvelope, got %v", err)
	}
	b := make([]byte, 60)
	b[0] = 3
	if _, err := DeserializeEncrypted(b); !errors.Is(err, ErrUnsupportedVersion) {
		t.Fatalf("expected ErrUnsupportedVersion, got %v", err)
	}
	b[0] = byte(VersionSigned)
	if _, err := DeserializeEncrypted(b); !errors.Is(err, ErrUnsupportedVersion) {
		t.Fatalf("expected ErrUnsupportedVersion for signed byte, got %v", err)
	}
}

func TestSignedRoundTrip(t *testing.T) {
	var pub [PublicKeySize]byte
	var sig [SignatureSize]byte
	for i := range sig {
		sig[i] = byte(i * 3)
	}
	msg := []byte("broadcast")

	b := SerializeSigned(pub, sig, msg)
	if b[0] != 0x02 || len(b) != SignedHeaderSize+len(msg) {
		t.Fatalf("unexpected layout")
	}
	s, err := DeserializeSigned(b)
	if err != nil {
		t.Fatalf("DeserializeSigned: %v", err)
	}
	if s.Signature != sig || !bytes.Equal(s.Message, msg) {
		t.Fatalf("signed envelope mismatch")
	}
}

func TestDeserializeSignedErrors(t *testing.T) {
	if _, err := DeserializeSigned(make([]byte, 96)); !errors.Is(err, ErrMalformedEnvelope) {
		t.Fatalf("expected ErrMalformedEnvelope, got %v", err)
	}
	b := make([]byte, 97)
	b[0] = 1
	if _, err := DeserializeSigned(b); !errors.Is(err, ErrUnsupportedVersion) {
		t.Fatalf("expected ErrUnsupportedVersion, got %v", err)
	}
}

func TestDecodeDispatch(t *testing.T) {
	var nonce [NonceSize]byte
	var pub [PublicKeySize]byte
	var sig [SignatureSize]byte

	env, err := Decode(SerializeEncrypted(nonce, pub, []byte{1, 2, 3}))
	if err != nil {
		t.Fatalf("Decode encrypted: %v", err)
	}
	if _, ok := env.(*Encrypted); !ok || env.Version() != VersionEncrypted {
		t.Fatalf("expected *Encrypted, got %T", env)
	}

	env, err = Decode(SerializeSigned(pub, sig, []byte("hi")))
	if err != nil {
		t.Fatalf("Decode signed: %v", err)
	}
	if _, ok := env.(*Signed); !ok || env.Version() != VersionSigned {
		t.Fatalf("expected *Signed, got %T", env)
	}

	if _, err := Decode(nil); !errors.Is(err, ErrMalformedEnvelope) {
		t.Fatalf("expected ErrMalformedEnvelope for empty input, got %v", err)
	}
	if _, err := Decode([]byte{9, 0, 0}); !errors.Is(err, ErrUnsupportedVersion) {
		t.Fatalf("expected ErrUnsupportedVersion, got %v", err)
	}
}
