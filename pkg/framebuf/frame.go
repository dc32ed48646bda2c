package framebuf

import (
	"fmt"
	"image"

	"github.com/hashicorp/go-hclog"

	"github.com/provide-io/gbadoom/go/tools/pkg/codec"
	perrors "github.com/provide-io/gbadoom/go/tools/pkg/errors"
)

// FrameError reports a frame file too short for its own header or pixels
type FrameError struct {
	Source string
	Part   string // "header" or "pixels"
	Got    int
	Want   int
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("truncated frame %s: %s needs %d bytes, got %d", e.Source, e.Part, e.Want, e.Got)
}

// Is makes FrameError match ErrTruncatedFrame
func (e *FrameError) Is(target error) bool {
	return target == perrors.ErrTruncatedFrame
}

// Frame is one decoded dump: its header and the pixels mapped through
// the frame's own palette.
type Frame struct {
	Header
	Source string
	Image  *image.Paletted
}

// Decoder turns raw frame files into Frames
type Decoder struct {
	logger hclog.Logger
}

// NewDecoder creates a decoder; a nil logger discards output
func NewDecoder(logger hclog.Logger) *Decoder {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Decoder{logger: logger}
}

// DecodeFile reads and decodes one frame file. Compressed dumps are
// decoded first when their extension names a registered codec.
func (d *Decoder) DecodeFile(path string) (*Frame, error) {
	data, err := codec.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return d.Decode(path, data)
}

// Decode parses a header followed by exactly width*height palette indices.
// Bytes past the pixel payload are ignored.
func (d *Decoder) Decode(source string, data []byte) (*Frame, error) {
	f := &Frame{Source: source}
	if err := f.Header.Unpack(data); err != nil {
		return nil, &FrameError{Source: source, Part: "header", Got: len(data), Want: HeaderSize}
	}

	pixels := data[HeaderSize:]
	n := f.PixelCount()
	if len(pixels) < n {
		return nil, &FrameError{Source: source, Part: "pixels", Got: len(pixels), Want: n}
	}
	if extra := len(pixels) - n; extra > 0 {
		d.logger.Debug("Ignoring trailing bytes", "source", source, "extra", extra)
	}

	img := image.NewPaletted(image.Rect(0, 0, int(f.Width), int(f.Height)), f.ColorPalette())
	copy(img.Pix, pixels[:n])
	f.Image = img

	d.logger.Trace("Decoded frame",
		"source", source,
		"seq", f.Sequence,
		"timestamp_ms", f.TimestampMS,
		"width", f.Width,
		"height", f.Height)

	return f, nil
}
