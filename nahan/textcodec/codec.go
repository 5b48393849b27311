package textcodec

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrDanglingEscape = errors.New("textcodec: escape at end of input")
	ErrInvalidChar    = errors.New("textcodec: invalid character")
)

// Escape introduces a substituted value. The following rune is value|0x80.
const Escape = 'þ'

const bitsPerChar = 7

// illegal marks 7-bit values that must not appear literally: C0 controls,
// the quote, ampersand, angle brackets, backslash and DEL.
var illegal [128]bool

func init() {
	for v := 0; v < 0x20; v++ {
		illegal[v] = true
	}
	for _, v := range []byte{'"', '&', '<', '>', '\\', 0x7F} {
		illegal[v] = true
	}
}

// Encode packs b into a string of 7-bit values, most significant bit first.
// The final value is zero-padded. Values that are unsafe in markup or
// terminals are written as Escape followed by rune(value|0x80).
func Encode(b []byte) string {
	var sb strings.Builder
	sb.Grow((len(b)*8+bitsPerChar-1)/bitsPerChar + len(b)/4)

	var acc uint32
	nbits := 0
	for _, c := range b {
		acc = acc<<8 | uint32(c)
		nbits += 8
		for nbits >= bitsPerChar {
			nbits -= bitsPerChar
			writeValue(&sb, byte(acc>>nbits)&0x7F)
		}
		acc &= 1<<nbits - 1
	}
	if nbits > 0 {
		writeValue(&sb, byte(acc<<(bitsPerChar-nbits))&0x7F)
	}
	return sb.String()
}

func writeValue(sb *strings.Builder, v byte) {
	if illegal[v] {
		sb.WriteRune(Escape)
		sb.WriteRune(rune(v | 0x80))
		return
	}
	sb.WriteByte(v)
}

// Decode reverses Encode. Trailing padding bits are discarded.
func Decode(s string) ([]byte, error) {
	out := make([]byte, 0, len(s)*bitsPerChar/8)
	var acc uint32
	nbits := 0
	escaped := false
	for i, r := range s {
		var v byte
		switch {
		case escaped:
			if r < 0x80 || r > 0xFF {
				return nil, fmt.Errorf("%w: %U after escape at offset %d", ErrInvalidChar, r, i)
			}
			v = byte(r) & 0x7F
			escaped = false
		case r == Escape:
			escaped = true
			continue
		case r < 0x80:
			v = byte(r)
		default:
			return nil, fmt.Errorf("%w: %U at offset %d", ErrInvalidChar, r, i)
		}

		acc = acc<<bitsPerChar | uint32(v)
		nbits += bitsPerChar
		if nbits >= 8 {
			nbits -= 8
			out = append(out, byte(acc>>nbits))
			acc &= 1<<nbits - 1
		}
	}
	if escaped {
		return nil, ErrDanglingEscape
	}
	return out, nil
}
