package identity

import (
	"errors"
	"fmt"
	"strings"
)

var ErrMalformedCard = errors.New("identity: malformed ID card")

const cardPrefix = "ID"

// Card is a shareable contact identity: a display name and an X25519 public key.
// Its text form is "ID|<name>|<base64 public key>".
type Card struct {
	Name      string
	PublicKey [KeySize]byte
}

func NewCard(name string, kp KeyPair) Card {
	return Card{Name: name, PublicKey: kp.PublicKey}
}

func (c Card) String() string {
	return cardPrefix + "|" + c.Name + "|" + EncodeKey(c.PublicKey)
}

func (c Card) Fingerprint() Fingerprint { return FingerprintOf(c.PublicKey) }

// ParseCard parses the text form. The name may itself contain '|'; the key is
// always the last field.
func ParseCard(s string) (Card, error) {
	if !strings.HasPrefix(s, cardPrefix+"|") {
		return Card{}, ErrMalformedCard
	}
	rest := s[len(cardPrefix)+1:]
	i := strings.LastIndexByte(rest, '|')
	if i < 0 {
		return Card{}, ErrMalformedCard
	}
	key, err := ParsePublicKey(rest[i+1:])
	if err != nil {
		return Card{}, fmt.Errorf("%w: %v", ErrMalformedCard, err)
	}
	return Card{Name: rest[:i], PublicKey: key}, nil
}
