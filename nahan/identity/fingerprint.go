package identity

import (
	"encoding/hex"
	"errors"
	"strings"
)

const fingerprintBytes = 8

// Fingerprint is a short contact identifier: the first 8 bytes of an X25519
// public key in upper-case hex, grouped by four characters.
type Fingerprint string

func FingerprintOf(publicKey [KeySize]byte) Fingerprint {
	h := strings.ToUpper(hex.EncodeToString(publicKey[:fingerprintBytes]))
	var b strings.Builder
	for i := 0; i < len(h); i += 4 {
		if i > 0 {
			b.WriteByte('-')
		}
		b.WriteString(h[i : i+4])
	}
	return Fingerprint(b.String())
}

func ParseFingerprint(s string) (Fingerprint, error) {
	raw := strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(s)), "-", "")
	b, err := hex.DecodeString(raw)
	if err != nil {
		return "", err
	}
	if len(b) != fingerprintBytes {
		return "", errors.New("identity: invalid fingerprint length")
	}
	var key [KeySize]byte
	copy(key[:], b)
	return FingerprintOf(key), nil
}

func (f Fingerprint) String() string { return string(f) }

// Matches reports whether the fingerprint belongs to publicKey.
func (f Fingerprint) Matches(publicKey [KeySize]byte) bool {
	return f == FingerprintOf(publicKey)
}
