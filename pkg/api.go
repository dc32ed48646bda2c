package pkg

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/provide-io/gbadoom/go/tools/internal/capture"
	"github.com/provide-io/gbadoom/go/tools/pkg/carray"
	"github.com/provide-io/gbadoom/go/tools/pkg/codec"
	perrors "github.com/provide-io/gbadoom/go/tools/pkg/errors"
	"github.com/provide-io/gbadoom/go/tools/pkg/framebuf"
	"github.com/provide-io/gbadoom/go/tools/pkg/output"
	"github.com/provide-io/gbadoom/go/tools/pkg/utils/permissions"
	"github.com/provide-io/gbadoom/go/tools/pkg/wad"

	// Registers the compression codecs used by --codec and compressed inputs
	_ "github.com/provide-io/gbadoom/go/tools/pkg/codec/compress"
)

// ExtractOptions configures ExtractArray
type ExtractOptions struct {
	Input  string
	Array  string
	Output string
	// Codec is a pipe-separated codec chain applied to the extracted bytes
	Codec string
	// Mode of the written files; zero selects permissions.DefaultFileMode
	Mode os.FileMode
}

// ExtractArray writes the bytes of the named C array in Input to Output
// and reports the count on stdout.
func ExtractArray(opts ExtractOptions, stdout io.Writer, logger hclog.Logger) (output.Result, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	if stdout == nil {
		stdout = io.Discard
	}

	chain, err := codec.ParseChain(opts.Codec)
	if err != nil {
		return output.Result{}, err
	}

	text, err := codec.ReadFile(opts.Input)
	if err != nil {
		return output.Result{}, err
	}
	logger.Debug("Read source", "path", opts.Input, "size", len(text))

	data, err := carray.Extract(text, opts.Array)
	if err != nil {
		return output.Result{}, fmt.Errorf("%s: %w", opts.Input, err)
	}
	logger.Info("Extracted array", "name", opts.Array, "bytes", len(data))

	blob, err := chain.Apply(data)
	if err != nil {
		return output.Result{}, err
	}
	if len(chain) > 0 {
		logger.Info("Encoded output", "codec", chain.String(), "bytes", len(blob))
		if !strings.HasSuffix(opts.Output, chain.Extension()) {
			logger.Warn("Output name does not end in the codec suffix", "output", opts.Output, "suffix", chain.Extension())
		}
	}

	res, err := output.WriteFile(opts.Output, blob, modeOrDefault(opts.Mode), logger)
	if err != nil {
		return res, err
	}

	fmt.Fprintf(stdout, "Wrote %d bytes to %s\n", len(data), opts.Output)
	return res, nil
}

// ArchiveOptions configures DumpArchive
type ArchiveOptions struct {
	Archive   string
	OutputDir string
	// Mode of the written files; zero selects permissions.DefaultFileMode
	Mode os.FileMode
	// List prints the lump directory to stdout
	List bool
	// Check compares existing sources instead of writing them
	Check bool
}

// DumpArchive generates <base>_lumps.h and <base>_lumps.cc for the lump
// directory of a WAD archive. Both files are rendered before either is
// written, so a malformed archive leaves OutputDir untouched.
func DumpArchive(opts ArchiveOptions, stdout io.Writer, logger hclog.Logger) ([]output.Result, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	if stdout == nil {
		stdout = io.Discard
	}

	reader, err := wad.NewReaderWithLogger(opts.Archive, logger)
	if err != nil {
		return nil, err
	}
	entries, err := reader.ReadDirectory()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opts.Archive, err)
	}

	if opts.List {
		PrintDirectory(stdout, entries)
	}

	sources := wad.Render(wad.BaseName(opts.Archive), entries)
	dir := opts.OutputDir
	if dir == "" {
		dir = "."
	}

	if opts.Check {
		return nil, VerifyArchiveSources(dir, sources, logger)
	}

	files := []output.File{
		{Path: filepath.Join(dir, sources.HeaderName), Data: sources.HeaderText},
		{Path: filepath.Join(dir, sources.SourceName), Data: sources.SourceText},
	}
	results, err := output.WriteAll(files, modeOrDefault(opts.Mode), logger)
	if err != nil {
		return results, err
	}

	logger.Info("Generated lump sources", "archive", opts.Archive, "lumps", len(entries), "dir", dir)
	return results, nil
}

// PrintDirectory writes one line per lump: index, name, offset, size
func PrintDirectory(w io.Writer, entries []wad.Entry) {
	fmt.Fprintf(w, "%5s  %-8s  %10s  %10s\n", "INDEX", "NAME", "FILEPOS", "SIZE")
	for i, e := range entries {
		fmt.Fprintf(w, "%5d  %-8s  %10d  %10d\n", i, e.Name(), e.FilePos, e.Size)
	}
}

// AnimationOptions configures AssembleFrames
type AnimationOptions struct {
	CaptureDir string
	// Output overrides <CaptureDir>/output.gif
	Output string
	Scale  int
	Order  framebuf.Order
	// Mode of the written files; zero selects permissions.DefaultFileMode
	Mode os.FileMode
}

// AssembleFrames turns <CaptureDir>/screenbuffers into an animated GIF,
// printing the capture frame rate on stdout before writing it.
func AssembleFrames(opts AnimationOptions, stdout io.Writer, logger hclog.Logger) (framebuf.Stats, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	if stdout == nil {
		stdout = io.Discard
	}

	paths := capture.New(opts.CaptureDir)
	paths.OutputOverride = opts.Output
	if err := paths.Validate(); err != nil {
		return framebuf.Stats{}, fmt.Errorf("%w: %v", perrors.ErrEmptyFrameSet, err)
	}

	files, err := framebuf.Discover(paths.ScreenBuffers())
	if err != nil {
		return framebuf.Stats{}, err
	}
	logger.Debug("Discovered frames", "dir", paths.ScreenBuffers(), "count", len(files))

	frames, _, err := framebuf.Load(files, opts.Order, logger)
	if err != nil {
		return framebuf.Stats{}, err
	}

	timestamps := framebuf.Timestamps(frames)
	stats, err := framebuf.ComputeStats(timestamps)
	if err != nil {
		return stats, err
	}
	fmt.Fprintf(stdout, "Read %d frames with average FPS: %.2f\n", stats.Frames, stats.AverageFPS)
	fmt.Fprintf(stdout, "90%% of the time FPS will be at least: %.2f\n", stats.Percentile90FPS)

	scale := opts.Scale
	if scale == 0 {
		scale = 1
	}
	anim, err := framebuf.Assemble(frames, framebuf.Durations(timestamps), scale)
	if err != nil {
		return stats, err
	}

	var buf bytes.Buffer
	if err := framebuf.Encode(&buf, anim); err != nil {
		return stats, err
	}
	if _, err := output.WriteFile(paths.Output(), buf.Bytes(), modeOrDefault(opts.Mode), logger); err != nil {
		return stats, err
	}

	fmt.Fprintf(stdout, "Saved animated GIF to %s\n", paths.Output())
	return stats, nil
}

func modeOrDefault(mode os.FileMode) os.FileMode {
	if mode == 0 {
		return permissions.DefaultFileMode
	}
	return mode
}
