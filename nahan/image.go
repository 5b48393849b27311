package nahan

import (
	"context"
	"fmt"
	"image"
	"log/slog"

	"github.com/nahan-app/nahan/nahan/packet"
	"github.com/nahan-app/nahan/nahan/stego/erasure"
	"github.com/nahan-app/nahan/nahan/stego/pixel"
	"github.com/nahan-app/nahan/nahan/textcodec"
	"github.com/nahan-app/nahan/nahan/workpool"
)

// HideImage embeds envelope as a message packet in a copy of carrier.
func (m *Messenger) HideImage(carrier image.Image, envelope []byte) (*image.NRGBA, error) {
	return m.embed(carrier, packet.NewMessage(envelope))
}

func (m *Messenger) embed(carrier image.Image, data []byte) (*image.NRGBA, error) {
	text, err := textcodec.Wrap(data, m.CompressImages)
	if err != nil {
		return nil, err
	}
	return pixel.Embed(carrier, text)
}

func extract(img image.Image) ([]byte, error) {
	text, err := pixel.Extract(img)
	if err != nil {
		return nil, err
	}
	return textcodec.Unwrap(text)
}

// RevealImage extracts and opens the packet in img.
func (m *Messenger) RevealImage(img image.Image) (*Message, error) {
	data, err := extract(img)
	if err != nil {
		return nil, err
	}
	return m.openPacket(data)
}

// HideImageSet spreads envelope over all carriers so that any
// len(carriers)-parity of the results are enough to reveal it. Carriers are
// embedded in parallel.
func (m *Messenger) HideImageSet(ctx context.Context, carriers []image.Image, envelope []byte, parity int) ([]*image.NRGBA, error) {
	dataShards := len(carriers) - parity
	if dataShards < 1 || parity < 0 {
		return nil, fmt.Errorf("%w: %d carriers, %d parity", ErrInvalidCarrierSet, len(carriers), parity)
	}
	shards, err := erasure.Split(packet.NewMessage(envelope), dataShards, parity)
	if err != nil {
		return nil, err
	}
	return workpool.Map(ctx, m.Workers, carriers, func(_ context.Context, i int, c image.Image) (*image.NRGBA, error) {
		out, err := m.embed(c, shards[i])
		if err != nil {
			return nil, fmt.Errorf("carrier %d: %w", i, err)
		}
		return out, nil
	})
}

// RevealImageSet reassembles a carrier set. Images that carry no readable
// shard count as lost, including images holding a payload that is not a
// shard.
func (m *Messenger) RevealImageSet(ctx context.Context, imgs []image.Image) (*Message, error) {
	shards, err := workpool.Map(ctx, m.Workers, imgs, func(_ context.Context, i int, img image.Image) ([]byte, error) {
		data, err := extract(img)
		if err != nil {
			m.logger().Debug("carrier skipped", slog.Int("index", i), slog.Any("error", err))
			return nil, nil
		}
		if err := erasure.CheckShard(data); err != nil {
			m.logger().Debug("carrier skipped", slog.Int("index", i), slog.Any("error", err))
			return nil, nil
		}
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	data, err := erasure.Join(shards)
	if err != nil {
		return nil, err
	}
	return m.openPacket(data)
}
