package identity

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestGenerateKeyPairConsistent(t *testing.T) {
	kp, err := GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	pub, err := PublicFromPrivate(kp.PrivateKey)
	if err != nil {
		t.Fatalf("PublicFromPrivate: %v", err)
	}
	if pub != kp.PublicKey {
		t.Fatalf("public key does not match private key")
	}
	again, err := FromPrivateKey(kp.PrivateKey)
	if err != nil {
		t.Fatalf("FromPrivateKey: %v", err)
	}
	if again != kp {
		t.Fatalf("FromPrivateKey is not idempotent on a clamped key")
	}
}

func TestDeriveSigningKeyPairStable(t *testing.T) {
	kp, _ := GenerateKeyPair()
	a := DeriveSigningKeyPair(kp.PublicKey)
	b := DeriveSigningKeyPair(kp.PublicKey)
	if !bytes.Equal(a.PublicKey, b.PublicKey) {
		t.Fatalf("derivation is not deterministic")
	}

	other, _ := GenerateKeyPair()
	c := DeriveSigningKeyPair(other.PublicKey)
	if bytes.Equal(a.PublicKey, c.PublicKey) {
		t.Fatalf("different X25519 keys derived the same signing key")
	}

	msg := []byte("hello")
	sig := a.Sign(msg)
	if !Verify(b.PublicKey, msg, sig) {
		t.Fatalf("signature verification failed")
	}
	if Verify(c.PublicKey, msg, sig) {
		t.Fatalf("expected verification to fail with a different key")
	}
	if Verify(nil, msg, sig) {
		t.Fatalf("expected verification to fail with an empty key")
	}
}

func TestFingerprint(t *testing.T) {
	var key [KeySize]byte
	for i := range key {
		key[i] = byte(i)
	}
	fp := FingerprintOf(key)
	if fp != "0001-0203-0405-0607" {
		t.Fatalf("unexpected fingerprint %q", fp)
	}
	if !fp.Matches(key) {
		t.Fatalf("fingerprint should match its key")
	}
	parsed, err := ParseFingerprint("00010203 04050607")
	if err == nil {
		t.Fatalf("expected error for embedded space, got %q", parsed)
	}
	parsed, err = ParseFingerprint("0001-0203-0405-0607")
	if err != nil || parsed != fp {
		t.Fatalf("ParseFingerprint: %q %v", parsed, err)
	}
}

func TestCardRoundTrip(t *testing.T) {
	kp, _ := GenerateKeyPair()
	card := NewCard("Darya|Tehran", kp)
	s := card.String()
	if !strings.HasPrefix(s, "ID|Darya|Tehran|") {
		t.Fatalf("unexpected card text %q", s)
	}
	got, err := ParseCard(s)
	if err != nil {
		t.Fatalf("ParseCard: %v", err)
	}
	if got != card {
		t.Fatalf("card mismatch: %+v", got)
	}

	for _, bad := range []string{"", "ID|", "XX|a|b", "ID|name|not-base64!", "ID|name|AAAA"} {
		if _, err := ParseCard(bad); !errors.Is(err, ErrMalformedCard) {
			t.Fatalf("ParseCard(%q): expected ErrMalformedCard, got %v", bad, err)
		}
	}
}

func TestMnemonicRoundTrip(t *testing.T) {
	kp, _ := GenerateKeyPair()
	m, err := kp.Mnemonic()
	if err != nil {
		t.Fatalf("Mnemonic: %v", err)
	}
	if n := len(strings.Fields(m)); n != 24 {
		t.Fatalf("expected 24 words, got %d", n)
	}
	restored, err := FromMnemonic("  " + strings.ReplaceAll(m, " ", "\n") + " ")
	if err != nil {
		t.Fatalf("FromMnemonic: %v", err)
	}
	if restored != kp {
		t.Fatalf("restored key pair differs")
	}
	if _, err := FromMnemonic("not a valid phrase"); !errors.Is(err, ErrInvalidMnemonic) {
		t.Fatalf("expected ErrInvalidMnemonic, got %v", err)
	}
}
