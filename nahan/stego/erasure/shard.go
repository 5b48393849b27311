package erasure

import (
	"encoding/binary"
	"fmt"
)

// HeaderSize is the per-shard header: [index][total][data][origSize:4 BE].
const HeaderSize = 7

type header struct {
	index, total, data int
	origSize           int
}

func (h header) parity() int { return h.total - h.data }

func parseHeader(b []byte) (header, error) {
	if len(b) < HeaderSize {
		return header{}, fmt.Errorf("%w: %d bytes", ErrShardHeader, len(b))
	}
	h := header{
		index:    int(b[0]),
		total:    int(b[1]),
		data:     int(b[2]),
		origSize: int(binary.BigEndian.Uint32(b[3:7])),
	}
	if h.data == 0 || h.data > h.total || h.index >= h.total {
		return header{}, fmt.Errorf("%w: index %d, total %d, data %d", ErrShardHeader, h.index, h.total, h.data)
	}
	return h, nil
}

// CheckShard reports whether b starts with a well-formed shard header.
func CheckShard(b []byte) error {
	_, err := parseHeader(b)
	return err
}

// Split encodes payload into dataShards+parityShards self-describing shards.
// Any dataShards of them are enough for Join.
func Split(payload []byte, dataShards, parityShards int) ([][]byte, error) {
	codec, err := NewCodec(dataShards, parityShards)
	if err != nil {
		return nil, err
	}
	bodies, err := codec.EncodeData(payload)
	if err != nil {
		return nil, err
	}

	out := make([][]byte, len(bodies))
	for i, body := range bodies {
		shard := make([]byte, HeaderSize+len(body))
		shard[0] = byte(i)
		shard[1] = byte(codec.TotalShards())
		shard[2] = byte(dataShards)
		binary.BigEndian.PutUint32(shard[3:7], uint32(len(payload)))
		copy(shard[HeaderSize:], body)
		out[i] = shard
	}
	return out, nil
}

// Join reassembles a payload from shards produced by Split. Shards may be
// given in any order; nil entries stand for lost carriers.
func Join(shards [][]byte) ([]byte, error) {
	var (
		ref    header
		bodies [][]byte
		size   = -1
	)
	for _, s := range shards {
		if s == nil {
			continue
		}
		h, err := parseHeader(s)
		if err != nil {
			return nil, err
		}
		body := s[HeaderSize:]
		if bodies == nil {
			ref, size = h, len(body)
			bodies = make([][]byte, h.total)
		}
		if h.total != ref.total || h.data != ref.data || h.origSize != ref.origSize || len(body) != size {
			return nil, fmt.Errorf("%w: shard %d does not match shard set", ErrShardHeader, h.index)
		}
		if bodies[h.index] != nil {
			return nil, fmt.Errorf("%w: duplicate shard %d", ErrShardHeader, h.index)
		}
		bodies[h.index] = body
	}
	if bodies == nil {
		return nil, ErrTooManyLost
	}

	codec, err := NewCodec(ref.data, ref.parity())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrShardHeader, err)
	}
	if size*ref.data < ref.origSize {
		return nil, fmt.Errorf("%w: original size %d exceeds shard set", ErrShardHeader, ref.origSize)
	}
	if err := codec.Reconstruct(bodies); err != nil {
		return nil, err
	}
	return codec.Join(bodies, ref.origSize), nil
}
