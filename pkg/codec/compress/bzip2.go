package compress

import (
	"bytes"
	"fmt"
	"io"

	"github.com/dsnet/compress/bzip2"
	"github.com/provide-io/gbadoom/go/tools/pkg/codec"
)

func init() {
	codec.Register(NewBzip2Codec())
}

// Bzip2Codec implements BZIP2 compression
type Bzip2Codec struct {
	codec.BaseCodec
}

// NewBzip2Codec creates a new BZIP2 codec
func NewBzip2Codec() *Bzip2Codec {
	return &Bzip2Codec{
		BaseCodec: codec.BaseCodec{
			CodecName: "bzip2",
			Suffix:    ".bz2",
		},
	}
}

// Apply compresses data using BZIP2
func (c *Bzip2Codec) Apply(input []byte) ([]byte, error) {
	var buf bytes.Buffer

	bw, err := bzip2.NewWriter(&buf, &bzip2.WriterConfig{Level: 9})
	if err != nil {
		return nil, fmt.Errorf("creating bzip2 writer: %w", err)
	}

	if _, err := bw.Write(input); err != nil {
		bw.Close()
		return nil, fmt.Errorf("writing bzip2 data: %w", err)
	}

	if err := bw.Close(); err != nil {
		return nil, fmt.Errorf("closing bzip2 writer: %w", err)
	}

	return buf.Bytes(), nil
}

// Reverse decompresses BZIP2 data
func (c *Bzip2Codec) Reverse(input []byte) ([]byte, error) {
	br, err := bzip2.NewReader(bytes.NewReader(input), &bzip2.ReaderConfig{})
	if err != nil {
		return nil, fmt.Errorf("creating bzip2 reader: %w", err)
	}
	defer br.Close()

	data, err := io.ReadAll(br)
	if err != nil {
		return nil, fmt.Errorf("reading bzip2 data: %w", err)
	}

	return data, nil
}
