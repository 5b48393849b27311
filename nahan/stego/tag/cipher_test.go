package tag

import (
	"bytes"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/nahan-app/nahan/nahan/compress"
)

const cover = "بشنو این نی چون شکایت می‌کند\nاز جدایی‌ها حکایت می‌کند"

func quietCodec() Codec {
	return Codec{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func TestPaletteAndPrefix(t *testing.T) {
	p := Palette()
	if p[0] != 0xE0021 || p[31] != 0xE0040 {
		t.Fatalf("unexpected palette bounds %U..%U", p[0], p[31])
	}
	if Prefix() != string([]rune{0xE0021, 0xE0030, 0xE0040}) {
		t.Fatalf("unexpected prefix %q", Prefix())
	}
}

func TestPackUnpack(t *testing.T) {
	for n := 0; n < 40; n++ {
		data := make([]byte, n)
		for i := range data {
			data[i] = byte(i*37 + n)
		}
		groups := pack5(data)
		if len(groups) != (n*8+4)/5 {
			t.Fatalf("n=%d: expected %d groups, got %d", n, (n*8+4)/5, len(groups))
		}
		for _, g := range groups {
			if g > 31 {
				t.Fatalf("group out of range: %d", g)
			}
		}
		if got := unpack5(groups); !bytes.Equal(got, data) {
			t.Fatalf("n=%d: unpack mismatch", n)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	codec := quietCodec()
	all := make([]byte, 256)
	for i := range all {
		all[i] = byte(i)
	}
	payloads := [][]byte{{}, []byte("Hello"), all}
	covers := []string{cover, "", "x", "Shall I compare thee to a summer's day?"}

	for _, p := range payloads {
		for _, c := range covers {
			text, err := codec.Encode(p, c)
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			if Strip(text) != c {
				t.Fatalf("cover text was modified")
			}
			if !HasPayload(text) {
				t.Fatalf("HasPayload should detect the prefix")
			}
			d, err := codec.Decode(text, Strict)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if !bytes.Equal(d.Payload, p) || !d.IntegrityOK {
				t.Fatalf("round trip mismatch for %d bytes in %q", len(p), c)
			}
		}
	}
}

func TestInterleavingTwoPerGrapheme(t *testing.T) {
	text, err := quietCodec().Encode([]byte("hi"), "abc")
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	runes := []rune(text)
	if runes[0] != 'a' || !isTag(runes[1]) || !isTag(runes[2]) || runes[3] != 'b' {
		t.Fatalf("unexpected layout %q", runes[:4])
	}
	if runes[6] != 'c' {
		t.Fatalf("expected third character at index 6, got %q", runes[6])
	}
	compressed, _ := compress.Deflate([]byte("hi"))
	if got := len(runes) - 3; got != TagCount(len(compressed)) {
		t.Fatalf("expected %d tags, got %d", TagCount(len(compressed)), got)
	}
}

func TestGraphemeClustersAreOneCharacter(t *testing.T) {
	// "é" as e + combining acute must not be split by tags.
	text, _ := quietCodec().Encode([]byte("x"), "e\u0301z")
	runes := []rune(text)
	if runes[0] != 'e' || runes[1] != 0x0301 || !isTag(runes[2]) {
		t.Fatalf("tags were injected inside a grapheme cluster: %q", runes[:3])
	}
}

func TestDecodeSurvivesVisibleEdits(t *testing.T) {
	codec := quietCodec()
	text, _ := codec.Encode([]byte("secret"), "The quick brown fox")
	var b strings.Builder
	for _, r := range text {
		if isTag(r) {
			b.WriteRune(r)
		} else if r != ' ' {
			b.WriteRune(r + 1)
		}
	}
	d, err := codec.Decode("prefix noise "+b.String()+" suffix", Strict)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if string(d.Payload) != "secret" {
		t.Fatalf("unexpected payload %q", d.Payload)
	}
}

func TestNotATagMessage(t *testing.T) {
	codec := quietCodec()
	for _, s := range []string{"", "plain text", string([]rune{palette[1], palette[15], palette[31], palette[2]})} {
		if _, err := codec.Decode(s, Lenient); !errors.Is(err, ErrNotATagMessage) {
			t.Fatalf("Decode(%q): expected ErrNotATagMessage, got %v", s, err)
		}
		if HasPayload(s) {
			t.Fatalf("HasPayload(%q) should be false", s)
		}
	}
}

func TestTruncatedStream(t *testing.T) {
	text, _ := quietCodec().Encode([]byte("truncate me"), "")
	runes := []rune(text)
	if _, err := quietCodec().Decode(string(runes[:5]), Strict); !errors.Is(err, ErrCorruptedTransmission) {
		t.Fatalf("expected ErrCorruptedTransmission, got %v", err)
	}
}

// streamWithBadCRC builds a tag stream whose final CRC byte is flipped.
func streamWithBadCRC(t *testing.T, payload []byte) string {
	t.Helper()
	compressed, err := compress.Deflate(payload)
	if err != nil {
		t.Fatalf("Deflate: %v", err)
	}
	data := make([]byte, len(compressed)+crcSize)
	copy(data, compressed)
	binary.BigEndian.PutUint32(data[len(compressed):], crc32.ChecksumIEEE(compressed))
	data[len(data)-1] ^= 0xff

	runes := []rune(Prefix())
	for _, g := range pack5(data) {
		runes = append(runes, palette[g])
	}
	return string(runes)
}

func TestChecksumMismatchStrictVersusLenient(t *testing.T) {
	var logs bytes.Buffer
	codec := Codec{Logger: slog.New(slog.NewTextHandler(&logs, nil))}
	text := streamWithBadCRC(t, []byte("flip the crc"))

	if _, err := codec.Decode(text, Strict); !errors.Is(err, ErrCorruptedTransmission) {
		t.Fatalf("strict: expected ErrCorruptedTransmission, got %v", err)
	}

	d, err := codec.Decode(text, Lenient)
	if err != nil {
		t.Fatalf("lenient: %v", err)
	}
	if string(d.Payload) != "flip the crc" || d.IntegrityOK {
		t.Fatalf("lenient: unexpected result %+v", d)
	}
	if !strings.Contains(logs.String(), "level=WARN") {
		t.Fatalf("lenient decode must log a warning, got %q", logs.String())
	}
}

func TestLenientStillFailsWhenInflationFails(t *testing.T) {
	data := []byte{0xff, 0xff, 0xff, 0xff, 0, 0, 0, 0}
	runes := []rune(Prefix())
	for _, g := range pack5(data) {
		runes = append(runes, palette[g])
	}
	if _, err := quietCodec().Decode(string(runes), Lenient); !errors.Is(err, ErrCorruptedTransmission) {
		t.Fatalf("expected ErrCorruptedTransmission, got %v", err)
	}
}

func BenchmarkEncode(b *testing.B) {
	codec := quietCodec()
	payload := bytes.Repeat([]byte("payload"), 64)
	b.SetBytes(int64(len(payload)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = codec.Encode(payload, cover)
	}
}
