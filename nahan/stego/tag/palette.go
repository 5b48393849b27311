package tag

const (
	// PaletteSize is the number of tag codepoints; each carries 5 bits.
	PaletteSize = 32
	paletteBase = rune(0xE0021)
	prefixLen   = 3
)

var (
	palette      [PaletteSize]rune
	paletteIndex map[rune]byte
	prefix       [prefixLen]byte
)

func init() {
	paletteIndex = make(map[rune]byte, PaletteSize)
	for i := range palette {
		palette[i] = paletteBase + rune(i)
		paletteIndex[palette[i]] = byte(i)
	}
	prefix = [prefixLen]byte{0, 15, 31}
}

// Palette returns a copy of the 32 tag codepoints, U+E0021..U+E0040.
func Palette() [PaletteSize]rune { return palette }

// Prefix returns the three-codepoint signature that opens every stream.
func Prefix() string {
	return string([]rune{palette[prefix[0]], palette[prefix[1]], palette[prefix[2]]})
}

func isTag(r rune) bool {
	_, ok := paletteIndex[r]
	return ok
}

// pack5 splits data into 5-bit groups, most significant bit first. The last
// group is padded with zero bits.
func pack5(data []byte) []byte {
	out := make([]byte, 0, (len(data)*8+4)/5)
	var acc uint32
	var bits uint
	for _, b := range data {
		acc = acc<<8 | uint32(b)
		bits += 8
		for bits >= 5 {
			bits -= 5
			out = append(out, byte(acc>>bits)&0x1f)
		}
		acc &= 1<<bits - 1
	}
	if bits > 0 {
		out = append(out, byte(acc<<(5-bits))&0x1f)
	}
	return out
}

// unpack5 is the inverse of pack5; trailing padding bits are dropped.
func unpack5(groups []byte) []byte {
	out := make([]byte, 0, len(groups)*5/8)
	var acc uint32
	var bits uint
	for _, g := range groups {
		acc = acc<<5 | uint32(g&0x1f)
		bits += 5
		if bits >= 8 {
			bits -= 8
			out = append(out, byte(acc>>bits))
			acc &= 1<<bits - 1
		}
	}
	return out
}
