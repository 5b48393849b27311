package packet

import (
	"bytes"
	"errors"
	"testing"

	"github.com/nahan-app/nahan/nahan/compress"
	"github.com/nahan-app/nahan/nahan/identity"
)

func TestDetect(t *testing.T) {
	if typ, ok := Detect([]byte{0x01, 0xaa}); !ok || typ != TypeMessage {
		t.Fatalf("expected message, got %v %v", typ, ok)
	}
	if typ, ok := Detect([]byte{0x02}); !ok || typ != TypeIdentity {
		t.Fatalf("expected identity, got %v %v", typ, ok)
	}
	if _, ok := Detect(nil); ok {
		t.Fatalf("expected no type for empty input")
	}
	if _, ok := Detect([]byte{0x03}); ok {
		t.Fatalf("expected no type for unknown byte")
	}
}

func TestMessagePacket(t *testing.T) {
	env := []byte{1, 2, 3, 4}
	p := NewMessage(env)
	typ, body, err := Parse(p)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if typ != TypeMessage || !bytes.Equal(body, env) {
		t.Fatalf("unexpected packet %v %x", typ, body)
	}
}

func TestIdentityPacketLayout(t *testing.T) {
	kp, _ := identity.GenerateKeyPair()
	card := identity.NewCard("Sara", kp)

	p, err := NewIdentity(card)
	if err != nil {
		t.Fatalf("NewIdentity: %v", err)
	}
	if p[0] != 0x02 {
		t.Fatalf("expected identity type byte")
	}
	raw, err := compress.Inflate(p[1:])
	if err != nil {
		t.Fatalf("Inflate: %v", err)
	}
	if string(raw) != "ID|Sara|"+identity.EncodeKey(kp.PublicKey) {
		t.Fatalf("unexpected identity payload %q", raw)
	}

	got, err := ParseIdentity(p[1:])
	if err != nil {
		t.Fatalf("ParseIdentity: %v", err)
	}
	if got != card {
		t.Fatalf("card mismatch")
	}
}

func TestParseErrors(t *testing.T) {
	if _, _, err := Parse(nil); !errors.Is(err, ErrEmptyPacket) {
		t.Fatalf("expected ErrEmptyPacket, got %v", err)
	}
	if _, _, err := Parse([]byte{0x09}); !errors.Is(err, ErrUnknownPacketType) {
		t.Fatalf("expected ErrUnknownPacketType, got %v", err)
	}
	if _, err := ParseIdentity([]byte("garbage")); !errors.Is(err, ErrMalformedIdentity) {
		t.Fatalf("expected ErrMalformedIdentity, got %v", err)
	}
	body, _ := compress.Deflate([]byte("not a card"))
	if _, err := ParseIdentity(body); !errors.Is(err, ErrMalformedIdentity) {
		t.Fatalf("expected ErrMalformedIdentity, got %v", err)
	}
}
