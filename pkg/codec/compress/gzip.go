package compress

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"

	"github.com/provide-io/gbadoom/go/tools/pkg/codec"
)

func init() {
	codec.Register(NewGzipCodec())
}

// GzipCodec implements GZIP compression
type GzipCodec struct {
	codec.BaseCodec
}

// NewGzipCodec creates a new GZIP codec
func NewGzipCodec() *GzipCodec {
	return &GzipCodec{
		BaseCodec: codec.BaseCodec{
			CodecName: "gzip",
			Suffix:    ".gz",
		},
	}
}

// Apply compresses data using GZIP
func (c *GzipCodec) Apply(input []byte) ([]byte, error) {
	var buf bytes.Buffer

	gw := gzip.NewWriter(&buf)
	if _, err := gw.Write(input); err != nil {
		gw.Close()
		return nil, fmt.Errorf("writing gzip data: %w", err)
	}

	if err := gw.Close(); err != nil {
		return nil, fmt.Errorf("closing gzip writer: %w", err)
	}

	return buf.Bytes(), nil
}

// Reverse decompresses GZIP data
func (c *GzipCodec) Reverse(input []byte) ([]byte, error) {
	gr, err := gzip.NewReader(bytes.NewReader(input))
	if err != nil {
		return nil, fmt.Errorf("creating gzip reader: %w", err)
	}
	defer gr.Close()

	data, err := io.ReadAll(gr)
	if err != nil {
		return nil, fmt.Errorf("reading gzip data: %w", err)
	}

	return data, nil
}
