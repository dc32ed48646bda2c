package framebuf

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/provide-io/gbadoom/go/tools/pkg/codec"
	perrors "github.com/provide-io/gbadoom/go/tools/pkg/errors"
)

// RawExtension is the suffix of uncompressed framebuffer dumps
const RawExtension = ".raw"

// Order selects how decoded frames are sequenced
type Order string

const (
	// OrderName keeps discovery (filename) order
	OrderName Order = "name"
	// OrderSequence sorts by the header sequence number
	OrderSequence Order = "sequence"
)

// ParseOrder validates an --order value
func ParseOrder(s string) (Order, error) {
	switch o := Order(strings.ToLower(s)); o {
	case OrderName, OrderSequence:
		return o, nil
	case "":
		return OrderName, nil
	default:
		return "", fmt.Errorf("unknown frame order %q (want %q or %q)", s, OrderName, OrderSequence)
	}
}

// IsRawFile reports whether name is a frame dump, plain or compressed
func IsRawFile(name string) bool {
	return strings.EqualFold(filepath.Ext(codec.TrimExtension(name)), RawExtension)
}

// Discover lists the frame dumps in dir sorted by filename
func Discover(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || !IsRawFile(e.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

// Gap is a break in the sequence numbering between consecutive frames
type Gap struct {
	After  uint32
	Before uint32
}

// Load decodes every path, orders the frames and checks sequence
// continuity. A gap is logged and returned but never fails the load; a
// truncated frame aborts it.
func Load(paths []string, order Order, logger hclog.Logger) ([]*Frame, []Gap, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	if len(paths) == 0 {
		return nil, nil, perrors.ErrEmptyFrameSet
	}

	dec := NewDecoder(logger)
	frames := make([]*Frame, 0, len(paths))
	for _, p := range paths {
		f, err := dec.DecodeFile(p)
		if err != nil {
			return nil, nil, err
		}
		frames = append(frames, f)
	}

	if order == OrderSequence {
		sort.SliceStable(frames, func(i, j int) bool {
			return frames[i].Sequence < frames[j].Sequence
		})
	}

	gaps := CheckSequence(frames, logger)
	logger.Debug("Loaded frames", "count", len(frames), "order", string(order), "gaps", len(gaps))
	return frames, gaps, nil
}

// CheckSequence expects frame numbers 1, 2, 3, ... and warns for every
// frame whose number is not one more than its predecessor's.
func CheckSequence(frames []*Frame, logger hclog.Logger) []Gap {
	var gaps []Gap
	var last uint32
	for _, f := range frames {
		if f.Sequence != last+1 {
			logger.Warn("Missing frame(s)", "between", last, "and", f.Sequence, "source", f.Source)
			gaps = append(gaps, Gap{After: last, Before: f.Sequence})
		}
		last = f.Sequence
	}
	return gaps
}

// Timestamps returns the capture time of every frame in order
func Timestamps(frames []*Frame) []uint32 {
	ts := make([]uint32, len(frames))
	for i, f := range frames {
		ts[i] = f.TimestampMS
	}
	return ts
}
