package pixel

import (
	"fmt"
	"image"
	"image/png"
	"io"

	// Carriers may arrive in any of these formats; output is always PNG.
	_ "image/gif"
	_ "image/jpeg"
)

// EncodePNG writes img losslessly. Lossy formats would destroy the payload.
func EncodePNG(w io.Writer, img image.Image) error {
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(w, img); err != nil {
		return fmt.Errorf("pixel: encode png: %w", err)
	}
	return nil
}

// DecodeImage reads a carrier image and reports its format.
func DecodeImage(r io.Reader) (image.Image, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("pixel: decode image: %w", err)
	}
	return img, format, nil
}
