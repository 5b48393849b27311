package erasure

import (
	"errors"

	"github.com/klauspost/reedsolomon"
)

var (
	ErrTooManyLost   = errors.New("erasure: too many carriers lost, cannot recover")
	ErrInvalidConfig = errors.New("erasure: invalid data/parity configuration")
	ErrShardHeader   = errors.New("erasure: inconsistent shard header")
)

// MaxShards is bounded by the one-byte index in the shard header.
const MaxShards = 255

// Codec wraps a Reed-Solomon encoder for a fixed data/parity split.
type Codec struct {
	enc          reedsolomon.Encoder
	dataShards   int
	parityShards int
}

// NewCodec creates a codec. Up to parityShards shards may be lost.
func NewCodec(dataShards, parityShards int) (*Codec, error) {
	if dataShards <= 0 || parityShards < 0 || dataShards+parityShards > MaxShards {
		return nil, ErrInvalidConfig
	}
	enc, err := reedsolomon.New(dataShards, parityShards)
	if err != nil {
		return nil, err
	}
	return &Codec{
		enc:          enc,
		dataShards:   dataShards,
		parityShards: parityShards,
	}, nil
}

func (c *Codec) DataShards() int   { return c.dataShards }
func (c *Codec) ParityShards() int { return c.parityShards }
func (c *Codec) TotalShards() int  { return c.dataShards + c.parityShards }

// EncodeData splits data into padded data shards and computes parity.
func (c *Codec) EncodeData(data []byte) ([][]byte, error) {
	// Split may reuse spare capacity of its input; never hand it the caller's slice.
	buf := make([]byte, max(len(data), 1))
	copy(buf, data)
	shards, err := c.enc.Split(buf)
	if err != nil {
		return nil, err
	}
	if err := c.enc.Encode(shards); err != nil {
		return nil, err
	}
	return shards, nil
}

// Reconstruct fills in the data shards that are nil.
func (c *Codec) Reconstruct(shards [][]byte) error {
	err := c.enc.ReconstructData(shards)
	if errors.Is(err, reedsolomon.ErrTooFewShards) {
		return ErrTooManyLost
	}
	return err
}

// Join concatenates the data shards and trims the padding.
func (c *Codec) Join(shards [][]byte, outSize int) []byte {
	data := make([]byte, 0, outSize)
	for i := 0; i < c.dataShards && len(data) < outSize; i++ {
		remaining := outSize - len(data)
		if remaining >= len(shards[i]) {
			data = append(data, shards[i]...)
		} else {
			data = append(data, shards[i][:remaining]...)
		}
	}
	return data
}
