package storage

import (
	"bytes"
	"ecotracker/internal/storage/interfaces"
	"fmt"
	"github.com/klauspost/compress/zstd"
)

// maxStoreFileBytes bounds the decoded store file. A year of daily and
// hourly records is well under a megabyte.
const maxStoreFileBytes = 64 << 20

var zstdFrameMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// StoreCodec compresses the store file with zstd. Input that is not a zstd
// frame is returned as is, so a plain JSON store file still loads.
type StoreCodec struct {
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

func (c *StoreCodec) Compress(records []byte) ([]byte, error) {
	return c.encoder.EncodeAll(records, make([]byte, 0, len(records)/4)), nil
}

func (c *StoreCodec) Decompress(raw []byte) ([]byte, error) {
	if !bytes.HasPrefix(raw, zstdFrameMagic) {
		return raw, nil
	}
	records, err := c.decoder.DecodeAll(raw, nil)
	if err != nil {
		return nil, fmt.Errorf("zstd store file: %w", err)
	}
	return records, nil
}

func NewStoreCodec() (interfaces.CompressorInterface, error) {
	encoder, err := zstd.NewWriter(nil,
		zstd.WithEncoderLevel(zstd.SpeedFastest),
		zstd.WithEncoderCRC(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil,
		zstd.WithDecoderConcurrency(1),
		zstd.WithDecoderMaxMemory(maxStoreFileBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}
	return &StoreCodec{encoder: encoder, decoder: decoder}, nil
}
