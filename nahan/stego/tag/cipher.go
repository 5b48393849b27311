package tag

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"log/slog"
	"strings"

	"github.com/clipperhouse/uax29/v2/graphemes"

	"github.com/nahan-app/nahan/nahan/compress"
)

var (
	ErrNotATagMessage        = errors.New("tag: text carries no tag message")
	ErrCorruptedTransmission = errors.New("tag: corrupted transmission")
)

const (
	crcSize = 4
	// TagsPerChar is how many tag codepoints follow each visible character.
	TagsPerChar = 2
)

// Mode selects how a checksum mismatch is handled on decode.
type Mode int

const (
	// Strict fails with ErrCorruptedTransmission on a CRC mismatch.
	Strict Mode = iota
	// Lenient logs a warning and still tries to inflate the payload. The
	// result is flagged with IntegrityOK=false and must be treated as
	// untrusted.
	Lenient
)

func (m Mode) String() string {
	if m == Lenient {
		return "lenient"
	}
	return "strict"
}

// Decoded is the outcome of a successful Decode.
type Decoded struct {
	Payload     []byte
	IntegrityOK bool
	// Tags is the number of palette codepoints found, prefix included.
	Tags int
}

// Codec encodes and decodes Nahan-Tag streams. The zero value is ready to
// use and logs through slog.Default.
type Codec struct {
	Logger *slog.Logger
}

var defaultCodec Codec

func Encode(payload []byte, coverText string) (string, error) {
	return defaultCodec.Encode(payload, coverText)
}

func Decode(text string, mode Mode) (*Decoded, error) {
	return defaultCodec.Decode(text, mode)
}

func (c Codec) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

// Encode hides payload in coverText. The stream is
// prefix ++ pack5(deflate(payload) ++ crc32be(deflate(payload))), interleaved
// two tags after every grapheme of the cover. Tags left over when the cover
// runs out are appended at the end. The visible text is never altered.
func (c Codec) Encode(payload []byte, coverText string) (string, error) {
	stream, err := buildStream(payload)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.Grow(len(coverText) + len(stream)*4)
	next := 0
	g := graphemes.FromString(coverText)
	for g.Next() {
		b.WriteString(g.Value())
		for i := 0; i < TagsPerChar && next < len(stream); i++ {
			b.WriteRune(stream[next])
			next++
		}
	}
	for ; next < len(stream); next++ {
		b.WriteRune(stream[next])
	}

	c.logger().Debug("tag stream encoded",
		slog.Int("payload_bytes", len(payload)),
		slog.Int("tags", len(stream)),
		slog.Int("spilled", spilled(len(stream), coverText)))
	return b.String(), nil
}

func buildStream(payload []byte) ([]rune, error) {
	compressed, err := compress.Deflate(payload)
	if err != nil {
		return nil, err
	}
	data := make([]byte, len(compressed)+crcSize)
	copy(data, compressed)
	binary.BigEndian.PutUint32(data[len(compressed):], crc32.ChecksumIEEE(compressed))

	groups := pack5(data)
	stream := make([]rune, 0, prefixLen+len(groups))
	for _, p := range prefix {
		stream = append(stream, palette[p])
	}
	for _, g := range groups {
		stream = append(stream, palette[g])
	}
	return stream, nil
}

// Decode recovers a payload from any text that contains a tag stream. All
// runes outside the palette are ignored, so the visible text may have been
// edited or reordered as long as the tags survive in order.
func (c Codec) Decode(text string, mode Mode) (*Decoded, error) {
	groups := extract(text)
	if len(groups) < prefixLen || [prefixLen]byte(groups[:prefixLen]) != prefix {
		return nil, ErrNotATagMessage
	}

	data := unpack5(groups[prefixLen:])
	if len(data) <= crcSize {
		return nil, fmt.Errorf("%w: %d bytes after prefix", ErrCorruptedTransmission, len(data))
	}
	body := data[:len(data)-crcSize]
	want := binary.BigEndian.Uint32(data[len(data)-crcSize:])
	got := crc32.ChecksumIEEE(body)

	ok := got == want
	if !ok {
		if mode == Strict {
			return nil, fmt.Errorf("%w: crc32 %08x, expected %08x", ErrCorruptedTransmission, got, want)
		}
		c.logger().Warn("tag stream checksum mismatch, attempting lenient decode",
			slog.String("crc_got", fmt.Sprintf("%08x", got)),
			slog.String("crc_want", fmt.Sprintf("%08x", want)),
			slog.Int("tags", len(groups)))
	}

	payload, err := compress.Inflate(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptedTransmission, err)
	}
	return &Decoded{Payload: payload, IntegrityOK: ok, Tags: len(groups)}, nil
}

func extract(text string) []byte {
	var groups []byte
	for _, r := range text {
		if i, ok := paletteIndex[r]; ok {
			groups = append(groups, i)
		}
	}
	return groups
}

// HasPayload reports whether text starts a tag stream with the prefix signature.
func HasPayload(text string) bool {
	groups := make([]byte, 0, prefixLen)
	for _, r := range text {
		if i, ok := paletteIndex[r]; ok {
			groups = append(groups, i)
			if len(groups) == prefixLen {
				return [prefixLen]byte(groups) == prefix
			}
		}
	}
	return false
}

// Strip removes every palette codepoint, leaving the visible cover text.
func Strip(text string) string {
	return strings.Map(func(r rune) rune {
		if isTag(r) {
			return -1
		}
		return r
	}, text)
}

// TagCount is the exact number of tags Encode emits for a payload whose
// DEFLATE output is compressedLen bytes.
func TagCount(compressedLen int) int {
	return prefixLen + ((compressedLen+crcSize)*8+4)/5
}

// StreamLength compresses payload the way Encode does and returns the exact
// tag count of the resulting stream.
func StreamLength(payload []byte) (int, error) {
	compressed, err := compress.Deflate(payload)
	if err != nil {
		return 0, err
	}
	return TagCount(len(compressed)), nil
}

// CharsFor is the number of visible characters that carry tags inline.
func CharsFor(tags int) int {
	return (tags + TagsPerChar - 1) / TagsPerChar
}

func spilled(tags int, cover string) int {
	n := 0
	g := graphemes.FromString(cover)
	for g.Next() {
		n++
	}
	if over := tags - n*TagsPerChar; over > 0 {
		return over
	}
	return 0
}
