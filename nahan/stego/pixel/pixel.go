package pixel

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/draw"
)

var (
	ErrCapacityExceeded     = errors.New("pixel: payload exceeds carrier capacity")
	ErrInvalidPayloadLength = errors.New("pixel: invalid payload length")
	ErrIncompletePayload    = errors.New("pixel: incomplete payload")
)

const (
	lengthSize       = 4
	bitsPerChannel   = 2
	channelsPerPixel = 3
	bitsPerPixel     = bitsPerChannel * channelsPerPixel
	channelMask      = 1<<bitsPerChannel - 1
)

// CapacityBits is the number of payload bits an image of the given bounds can
// hold, length prefix included.
func CapacityBits(bounds image.Rectangle) int {
	return bounds.Dx() * bounds.Dy() * bitsPerPixel
}

// Capacity is the largest payload, in bytes, Embed accepts for bounds.
func Capacity(bounds image.Rectangle) int {
	n := CapacityBits(bounds)/8 - lengthSize
	if n < 0 {
		return 0
	}
	return n
}

// Embed writes [len:4 BE][payload] into the two low bits of the red, green
// and blue channels, pixel by pixel in row-major order. Alpha is never
// touched. img is left unmodified; the result is a fresh NRGBA copy.
func Embed(img image.Image, payload string) (*image.NRGBA, error) {
	bounds := img.Bounds()
	capacity := CapacityBits(bounds)
	required := (lengthSize + len(payload)) * 8
	if required > capacity {
		return nil, fmt.Errorf("%w: need %d bits, have %d", ErrCapacityExceeded, required, capacity)
	}

	frame := make([]byte, lengthSize+len(payload))
	binary.BigEndian.PutUint32(frame, uint32(len(payload)))
	copy(frame[lengthSize:], payload)

	out := toNRGBA(img)
	w := bitWriter{data: frame}
	for y := 0; y < out.Rect.Dy() && !w.done(); y++ {
		row := out.Pix[y*out.Stride:]
		for x := 0; x < out.Rect.Dx() && !w.done(); x++ {
			px := row[x*4 : x*4+channelsPerPixel]
			for c := range px {
				if w.done() {
					break
				}
				px[c] = px[c]&^channelMask | w.next()
			}
		}
	}
	return out, nil
}

// Extract reads a payload written by Embed.
func Extract(img image.Image) (string, error) {
	src := toNRGBA(img)
	capacity := CapacityBits(src.Rect)
	if capacity < lengthSize*8 {
		return "", fmt.Errorf("%w: carrier holds %d bits", ErrIncompletePayload, capacity)
	}

	r := bitReader{img: src}
	var header [lengthSize]byte
	r.read(header[:])
	length := binary.BigEndian.Uint32(header[:])
	if uint64(length) > uint64(capacity/8) {
		return "", fmt.Errorf("%w: %d bytes", ErrInvalidPayloadLength, length)
	}
	if (lengthSize+int(length))*8 > capacity {
		return "", fmt.Errorf("%w: %d bytes declared", ErrIncompletePayload, length)
	}

	payload := make([]byte, length)
	r.read(payload)
	return string(payload), nil
}

func toNRGBA(img image.Image) *image.NRGBA {
	b := img.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	if src, ok := img.(*image.NRGBA); ok {
		for y := 0; y < b.Dy(); y++ {
			start := src.PixOffset(b.Min.X, b.Min.Y+y)
			copy(out.Pix[y*out.Stride:(y+1)*out.Stride], src.Pix[start:start+b.Dx()*4])
		}
		return out
	}
	draw.Draw(out, out.Rect, img, b.Min, draw.Src)
	return out
}

type bitWriter struct {
	data []byte
	pos  int // in bits
}

func (w *bitWriter) done() bool { return w.pos >= len(w.data)*8 }

// next returns the following two bits, MSB first.
func (w *bitWriter) next() byte {
	b := w.data[w.pos/8] >> (6 - w.pos%8) & channelMask
	w.pos += bitsPerChannel
	return b
}

type bitReader struct {
	img *image.NRGBA
	ch  int // channel index across the whole image
}

func (r *bitReader) read(dst []byte) {
	for i := range dst {
		var b byte
		for j := 0; j < 8/bitsPerChannel; j++ {
			b = b<<bitsPerChannel | r.nextPair()
		}
		dst[i] = b
	}
}

func (r *bitReader) nextPair() byte {
	pixel, c := r.ch/channelsPerPixel, r.ch%channelsPerPixel
	w := r.img.Rect.Dx()
	off := (pixel/w)*r.img.Stride + (pixel%w)*4 + c
	r.ch++
	return r.img.Pix[off] & channelMask
}
