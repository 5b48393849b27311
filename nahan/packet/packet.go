package packet

import (
	"errors"
	"fmt"

	"github.com/nahan-app/nahan/nahan/compress"
	"github.com/nahan-app/nahan/nahan/identity"
)

var (
	ErrEmptyPacket       = errors.New("packet: empty packet")
	ErrUnknownPacketType = errors.New("packet: unknown packet type")
	ErrMalformedIdentity = errors.New("packet: malformed identity packet")
)

// Type is the first byte of a packet carried in a tag-cipher stream.
type Type uint8

const (
	TypeMessage  Type = 0x01
	TypeIdentity Type = 0x02
)

func (t Type) String() string {
	switch t {
	case TypeMessage:
		return "MESSAGE"
	case TypeIdentity:
		return "IDENTITY"
	default:
		return "UNKNOWN"
	}
}

// Detect reports the packet type of b. It returns false for an empty buffer
// or an unknown leading byte.
func Detect(b []byte) (Type, bool) {
	if len(b) == 0 {
		return 0, false
	}
	switch t := Type(b[0]); t {
	case TypeMessage, TypeIdentity:
		return t, true
	default:
		return 0, false
	}
}

// NewMessage wraps a serialized envelope. The envelope body is already
// compressed by the crypto layer, so it is carried as is.
func NewMessage(envelope []byte) []byte {
	out := make([]byte, 1+len(envelope))
	out[0] = byte(TypeMessage)
	copy(out[1:], envelope)
	return out
}

// NewIdentity builds a Stealth-ID packet: [0x02][deflate("ID|name|base64key")].
func NewIdentity(card identity.Card) ([]byte, error) {
	body, err := compress.Deflate([]byte(card.String()))
	if err != nil {
		return nil, err
	}
	out := make([]byte, 1+len(body))
	out[0] = byte(TypeIdentity)
	copy(out[1:], body)
	return out, nil
}

// Parse splits a packet into its type and body.
func Parse(b []byte) (Type, []byte, error) {
	if len(b) == 0 {
		return 0, nil, ErrEmptyPacket
	}
	t, ok := Detect(b)
	if !ok {
		return 0, nil, fmt.Errorf("%w: %#x", ErrUnknownPacketType, b[0])
	}
	return t, b[1:], nil
}

// ParseIdentity decodes the body of a Stealth-ID packet (without the type byte).
func ParseIdentity(body []byte) (identity.Card, error) {
	raw, err := compress.Inflate(body)
	if err != nil {
		return identity.Card{}, fmt.Errorf("%w: %v", ErrMalformedIdentity, err)
	}
	card, err := identity.ParseCard(string(raw))
	if err != nil {
		return identity.Card{}, fmt.Errorf("%w: %v", ErrMalformedIdentity, err)
	}
	return card, nil
}
