package compress

import (
	"fmt"

	"github.com/klauspost/compress/zstd"
	"github.com/provide-io/gbadoom/go/tools/pkg/codec"
)

func init() {
	codec.Register(NewZstdCodec())
}

// ZstdCodec implements Zstandard compression
type ZstdCodec struct {
	codec.BaseCodec
}

// NewZstdCodec creates a new Zstandard codec
func NewZstdCodec() *ZstdCodec {
	return &ZstdCodec{
		BaseCodec: codec.BaseCodec{
			CodecName: "zstd",
			Suffix:    ".zst",
		},
	}
}

// Apply compresses data using Zstandard
func (c *ZstdCodec) Apply(input []byte) ([]byte, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		return nil, fmt.Errorf("creating zstd encoder: %w", err)
	}
	defer enc.Close()

	return enc.EncodeAll(input, nil), nil
}

// Reverse decompresses Zstandard data
func (c *ZstdCodec) Reverse(input []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("creating zstd decoder: %w", err)
	}
	defer dec.Close()

	data, err := dec.DecodeAll(input, nil)
	if err != nil {
		return nil, fmt.Errorf("reading zstd data: %w", err)
	}
	return data, nil
}
