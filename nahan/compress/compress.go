package compress

import (
	"bytes"
	"errors"
	"io"
	"sync"

	"github.com/klauspost/compress/flate"
	"github.com/pierrec/lz4/v4"
)

var (
	ErrCompressionFailed   = errors.New("compress: compression failed")
	ErrDecompressionFailed = errors.New("compress: decompression failed")
)

// MaxInflatedSize bounds the output of Inflate and UnLZ4 so a small hostile
// stream cannot expand without limit.
const MaxInflatedSize = 64 << 20

// deflatePool reuses DEFLATE writers; NewWriter allocates large tables.
var deflatePool = sync.Pool{
	New: func() interface{} {
		w, err := flate.NewWriter(nil, flate.BestCompression)
		if err != nil {
			panic(err)
		}
		return w
	},
}

var inflatePool = sync.Pool{
	New: func() interface{} {
		return flate.NewReader(bytes.NewReader(nil))
	},
}

var lz4WriterPool = sync.Pool{
	New: func() interface{} {
		return lz4.NewWriter(nil)
	},
}

var lz4ReaderPool = sync.Pool{
	New: func() interface{} {
		return lz4.NewReader(nil)
	},
}

// Deflate compresses data as a raw DEFLATE stream (RFC 1951, no zlib header).
func Deflate(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := deflatePool.Get().(*flate.Writer)
	defer deflatePool.Put(w)

	w.Reset(&buf)
	if _, err := w.Write(data); err != nil {
		return nil, ErrCompressionFailed
	}
	if err := w.Close(); err != nil {
		return nil, ErrCompressionFailed
	}
	return buf.Bytes(), nil
}

// Inflate decompresses a raw DEFLATE stream produced by Deflate.
func Inflate(data []byte) ([]byte, error) {
	r := inflatePool.Get().(io.ReadCloser)
	defer inflatePool.Put(r)

	if err := r.(flate.Resetter).Reset(bytes.NewReader(data), nil); err != nil {
		return nil, ErrDecompressionFailed
	}
	return readLimited(r)
}

// LZ4 compresses data into an LZ4 frame. It is used for image payloads where
// speed matters more than ratio.
func LZ4(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := lz4WriterPool.Get().(*lz4.Writer)
	defer lz4WriterPool.Put(w)

	w.Reset(&buf)
	_ = w.Apply(lz4.CompressionLevelOption(lz4.Level9))
	if _, err := w.Write(data); err != nil {
		return nil, ErrCompressionFailed
	}
	if err := w.Close(); err != nil {
		return nil, ErrCompressionFailed
	}
	return buf.Bytes(), nil
}

// UnLZ4 decompresses an LZ4 frame.
func UnLZ4(data []byte) ([]byte, error) {
	r := lz4ReaderPool.Get().(*lz4.Reader)
	defer lz4ReaderPool.Put(r)

	r.Reset(bytes.NewReader(data))
	return readLimited(r)
}

func readLimited(r io.Reader) ([]byte, error) {
	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(r, MaxInflatedSize+1))
	if err != nil {
		return nil, ErrDecompressionFailed
	}
	if n > MaxInflatedSize {
		return nil, ErrDecompressionFailed
	}
	return buf.Bytes(), nil
}
