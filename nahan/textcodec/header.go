package textcodec

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nahan-app/nahan/nahan/compress"
)

var (
	ErrNoMagicHeader   = errors.New("textcodec: missing magic header")
	ErrUnsupportedFlag = errors.New("textcodec: unsupported header flag")
)

const (
	// Magic starts every wrapped payload; the digit is the format version.
	Magic = "NHN1"

	FlagRaw byte = '0'
	FlagLZ4 byte = '4'
)

// Wrap prepends the magic header and encodes data. With useLZ4 set the body
// is LZ4-compressed, but only when that makes it smaller.
func Wrap(data []byte, useLZ4 bool) (string, error) {
	flag, body := FlagRaw, data
	if useLZ4 && len(data) > 0 {
		packed, err := compress.LZ4(data)
		if err != nil {
			return "", err
		}
		if len(packed) < len(data) {
			flag, body = FlagLZ4, packed
		}
	}
	return Magic + string(flag) + Encode(body), nil
}

// Unwrap checks the header, decodes the body and decompresses it if flagged.
func Unwrap(s string) ([]byte, error) {
	if !HasMagic(s) {
		return nil, ErrNoMagicHeader
	}
	flag := s[len(Magic)]
	body, err := Decode(s[len(Magic)+1:])
	if err != nil {
		return nil, err
	}
	switch flag {
	case FlagRaw:
		return body, nil
	case FlagLZ4:
		return compress.UnLZ4(body)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFlag, flag)
	}
}

// HasMagic reports whether s begins with a magic header and a flag byte.
func HasMagic(s string) bool {
	return len(s) > len(Magic) && strings.HasPrefix(s, Magic)
}
