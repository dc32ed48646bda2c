package pkg

import (
	"bytes"
	"errors"
	"fmt"
	"image/gif"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/provide-io/gbadoom/go/tools/pkg/carray"
	"github.com/provide-io/gbadoom/go/tools/pkg/codec"
	"github.com/provide-io/gbadoom/go/tools/pkg/codec/compress"
	perrors "github.com/provide-io/gbadoom/go/tools/pkg/errors"
	"github.com/provide-io/gbadoom/go/tools/pkg/framebuf"
	"github.com/provide-io/gbadoom/go/tools/pkg/wad"
)

func testLogger() hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:  "pkg_test",
		Level: hclog.Trace,
	})
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

func dirEntries(t *testing.T, dir string) []string {
	t.Helper()
	list, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(list))
	for _, e := range list {
		names = append(names, e.Name())
	}
	return names
}

const doomSource = `#include "annotations.h"

// Embedded shareware IWAD header
CONSTMEM const unsigned char doom1_wad[] = {
    0x49, 0x57, 0x41, 0x44, /* IWAD */
    2, 0, 0, 0,
    0xff
};
`

func TestExtractArray(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "doom1.c")
	out := filepath.Join(dir, "doom1.wad")
	writeFile(t, input, []byte(doomSource))

	var stdout bytes.Buffer
	res, err := ExtractArray(ExtractOptions{Input: input, Array: "doom1_wad", Output: out}, &stdout, testLogger())
	require.NoError(t, err)
	assert.Equal(t, 9, res.Size)
	assert.Equal(t, fmt.Sprintf("Wrote 9 bytes to %s\n", out), stdout.String())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, []byte{'I', 'W', 'A', 'D', 2, 0, 0, 0, 0xff}, data)

	info, err := os.Stat(out)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}

func TestExtractArrayCodecs(t *testing.T) {
	payload := bytes.Repeat([]byte{0, 1, 2, 3, 250}, 100)
	source := carray.Render("blob", payload)

	gz, err := compress.NewGzipCodec().Apply(source)
	require.NoError(t, err)

	testCases := []struct {
		name   string
		input  string
		data   []byte
		codec  string
		output string
	}{
		{"plain", "blob.c", source, "", "blob.bin"},
		{"gzip input", "blob.c.gz", gz, "", "blob.bin"},
		{"zstd output", "blob.c", source, "zstd", "blob.bin.zst"},
		{"bzip2 output", "blob.c", source, "bzip2", "blob.bin.bz2"},
		{"chained output", "blob.c", source, "bzip2|gzip", "blob.bin.bz2.gz"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			input := filepath.Join(dir, tc.input)
			out := filepath.Join(dir, tc.output)
			writeFile(t, input, tc.data)

			var stdout bytes.Buffer
			_, err := ExtractArray(ExtractOptions{Input: input, Array: "blob", Output: out, Codec: tc.codec}, &stdout, nil)
			require.NoError(t, err)
			assert.Contains(t, stdout.String(), "Wrote 500 bytes")

			got, err := codec.ReadFile(out)
			require.NoError(t, err)
			assert.Equal(t, payload, got)
		})
	}
}

func TestExtractArrayFailuresWriteNothing(t *testing.T) {
	testCases := []struct {
		name   string
		source string
		array  string
		target error
	}{
		{"missing array", doomSource, "doom2_wad", perrors.ErrArrayNotFound},
		{"prefix only", doomSource, "doom1", perrors.ErrArrayNotFound},
		{"out of range", "unsigned char x[] = { 1, 2, 256 };", "x", perrors.ErrOutOfRangeValue},
		{"negative", "unsigned char x[] = { 1, -1 };", "x", perrors.ErrOutOfRangeValue},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			input := filepath.Join(dir, "src.c")
			writeFile(t, input, []byte(tc.source))

			var stdout bytes.Buffer
			_, err := ExtractArray(ExtractOptions{Input: input, Array: tc.array, Output: filepath.Join(dir, "out.bin")}, &stdout, testLogger())
			assert.True(t, errors.Is(err, tc.target), "got %v", err)
			assert.Empty(t, stdout.String())
			assert.Equal(t, []string{"src.c"}, dirEntries(t, dir))
		})
	}

	_, err := ExtractArray(ExtractOptions{Input: "x.c", Array: "x", Output: "x.bin", Codec: "lzma"}, nil, nil)
	assert.Error(t, err)
}

func buildArchive(entries []wad.Entry) []byte {
	payload := bytes.Repeat([]byte{0x55}, 64)
	h := wad.Header{NumLumps: int32(len(entries)), InfoTableOfs: int32(wad.HeaderSize + len(payload))}
	copy(h.Identification[:], "IWAD")

	var buf bytes.Buffer
	buf.Write(h.Pack())
	buf.Write(payload)
	for i := range entries {
		buf.Write(entries[i].Pack())
	}
	return buf.Bytes()
}

func sampleLumps() []wad.Entry {
	return []wad.Entry{
		wad.NewEntry("PLAYPAL", 12, 10752),
		wad.NewEntry("COLORMAP", 10764, 8704),
		wad.NewEntry("E1M1", 0, 0),
		wad.NewEntry("THINGS", 19468, 1380),
	}
}

func TestDumpArchive(t *testing.T) {
	src := t.TempDir()
	archive := filepath.Join(src, "doom1.wad")
	writeFile(t, archive, buildArchive(sampleLumps()))
	outDir := t.TempDir()

	results, err := DumpArchive(ArchiveOptions{Archive: archive, OutputDir: outDir}, nil, testLogger())
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.False(t, results[0].Unchanged)
	assert.ElementsMatch(t, []string{"doom1_lumps.h", "doom1_lumps.cc"}, dirEntries(t, outDir))

	want := wad.Render("doom1", sampleLumps())
	header, err := os.ReadFile(filepath.Join(outDir, "doom1_lumps.h"))
	require.NoError(t, err)
	assert.Equal(t, string(want.HeaderText), string(header))
	assert.Contains(t, string(header), "#define WADLUMPS 4")

	source, err := os.ReadFile(filepath.Join(outDir, "doom1_lumps.cc"))
	require.NoError(t, err)
	assert.Equal(t, string(want.SourceText), string(source))

	parsed, err := wad.ParseSources(source)
	require.NoError(t, err)
	assert.Equal(t, sampleLumps(), parsed)

	// Regenerating is byte-identical and leaves both files alone
	results, err = DumpArchive(ArchiveOptions{Archive: archive, OutputDir: outDir}, nil, testLogger())
	require.NoError(t, err)
	for _, r := range results {
		assert.True(t, r.Unchanged, r.Path)
	}
}

func TestDumpArchiveCompressedInput(t *testing.T) {
	raw := buildArchive(sampleLumps())
	zst, err := compress.NewZstdCodec().Apply(raw)
	require.NoError(t, err)

	src := t.TempDir()
	archive := filepath.Join(src, "doom1.wad.zst")
	writeFile(t, archive, zst)
	outDir := t.TempDir()

	_, err = DumpArchive(ArchiveOptions{Archive: archive, OutputDir: outDir}, nil, nil)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"doom1_lumps.h", "doom1_lumps.cc"}, dirEntries(t, outDir))
}

func TestDumpArchiveList(t *testing.T) {
	archive := filepath.Join(t.TempDir(), "doom1.wad")
	writeFile(t, archive, buildArchive(sampleLumps()))

	var stdout bytes.Buffer
	_, err := DumpArchive(ArchiveOptions{Archive: archive, OutputDir: t.TempDir(), List: true}, &stdout, nil)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	require.Len(t, lines, 5)
	assert.Contains(t, lines[0], "NAME")
	assert.Equal(t, []string{"0", "PLAYPAL", "12", "10752"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"3", "THINGS", "19468", "1380"}, strings.Fields(lines[4]))
}

func TestDumpArchiveCheck(t *testing.T) {
	archive := filepath.Join(t.TempDir(), "doom1.wad")
	writeFile(t, archive, buildArchive(sampleLumps()))
	outDir := t.TempDir()
	opts := ArchiveOptions{Archive: archive, OutputDir: outDir, Check: true}

	_, err := DumpArchive(opts, nil, testLogger())
	assert.True(t, errors.Is(err, perrors.ErrStaleSources))
	assert.Empty(t, dirEntries(t, outDir), "check must not write")

	opts.Check = false
	_, err = DumpArchive(opts, nil, testLogger())
	require.NoError(t, err)

	opts.Check = true
	_, err = DumpArchive(opts, nil, testLogger())
	assert.NoError(t, err)

	writeFile(t, filepath.Join(outDir, "doom1_lumps.cc"), []byte("// edited\n"))
	_, err = DumpArchive(opts, nil, testLogger())
	assert.True(t, errors.Is(err, perrors.ErrStaleSources))
	assert.ErrorContains(t, err, "doom1_lumps.cc")
	assert.NotContains(t, err.Error(), "doom1_lumps.h")
}

func TestDumpArchiveTruncatedWritesNothing(t *testing.T) {
	full := buildArchive(sampleLumps())

	testCases := []struct {
		name   string
		data   []byte
		target error
	}{
		{"short header", full[:7], perrors.ErrTruncatedHeader},
		{"short directory", full[:len(full)-5], perrors.ErrTruncatedDirectoryEntry},
		{"directory missing", full[:wad.HeaderSize+64], perrors.ErrTruncatedDirectoryEntry},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			archive := filepath.Join(t.TempDir(), "doom1.wad")
			writeFile(t, archive, tc.data)
			outDir := t.TempDir()

			_, err := DumpArchive(ArchiveOptions{Archive: archive, OutputDir: outDir}, nil, testLogger())
			assert.True(t, errors.Is(err, tc.target), "got %v", err)
			assert.Empty(t, dirEntries(t, outDir))
		})
	}
}

func rawFrame(seq, ts uint32, pixels []byte) []byte {
	h := framebuf.Header{Sequence: seq, TimestampMS: ts, Width: 2, Height: 2}
	for i := range h.Palette {
		h.Palette[i] = framebuf.RGB{R: uint8(i), G: uint8(255 - i), B: 0x40}
	}
	return append(h.Pack(), pixels...)
}

func TestAssembleFrames(t *testing.T) {
	root := t.TempDir()
	frames := filepath.Join(root, "screenbuffers")
	writeFile(t, filepath.Join(frames, "scr00001.raw"), rawFrame(1, 0, []byte{0, 1, 2, 3}))
	writeFile(t, filepath.Join(frames, "scr00002.raw"), rawFrame(2, 100, []byte{3, 2, 1, 0}))
	writeFile(t, filepath.Join(frames, "scr00003.raw"), rawFrame(3, 250, []byte{9, 9, 9, 9}))
	writeFile(t, filepath.Join(frames, "README"), []byte("ignored"))

	var stdout bytes.Buffer
	stats, err := AssembleFrames(AnimationOptions{CaptureDir: root, Scale: 2}, &stdout, testLogger())
	require.NoError(t, err)
	assert.InDelta(t, 12.0, stats.AverageFPS, 1e-9)

	out := stdout.String()
	assert.Contains(t, out, "Read 3 frames with average FPS: 12.00\n")
	assert.Contains(t, out, "90% of the time FPS will be at least: 6.67\n")
	assert.Contains(t, out, "Saved animated GIF to "+filepath.Join(root, "output.gif"))

	f, err := os.Open(filepath.Join(root, "output.gif"))
	require.NoError(t, err)
	defer f.Close()

	anim, err := gif.DecodeAll(f)
	require.NoError(t, err)
	require.Len(t, anim.Image, 3)
	assert.Equal(t, []int{10, 15, 15}, anim.Delay)
	assert.Equal(t, 0, anim.LoopCount)
	assert.Equal(t, 4, anim.Config.Width)
	assert.Equal(t, 4, anim.Config.Height)
}

func TestAssembleFramesOptions(t *testing.T) {
	root := t.TempDir()
	frames := filepath.Join(root, "screenbuffers")
	// Name order disagrees with sequence order
	writeFile(t, filepath.Join(frames, "a.raw"), rawFrame(2, 40, []byte{0, 0, 0, 0}))
	writeFile(t, filepath.Join(frames, "b.raw"), rawFrame(1, 0, []byte{1, 1, 1, 1}))
	custom := filepath.Join(t.TempDir(), "demo.gif")

	var stdout bytes.Buffer
	stats, err := AssembleFrames(AnimationOptions{
		CaptureDir: root,
		Output:     custom,
		Scale:      1,
		Order:      framebuf.OrderSequence,
	}, &stdout, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(40), stats.ElapsedMS)

	_, err = os.Stat(filepath.Join(root, "output.gif"))
	assert.True(t, os.IsNotExist(err))

	data, err := os.ReadFile(custom)
	require.NoError(t, err)
	anim, err := gif.DecodeAll(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 2, anim.Config.Width)
	assert.Equal(t, []int{4, 4}, anim.Delay)
}

func TestAssembleFramesFailures(t *testing.T) {
	t.Run("no screenbuffers", func(t *testing.T) {
		root := t.TempDir()
		_, err := AssembleFrames(AnimationOptions{CaptureDir: root, Scale: 2}, nil, nil)
		assert.True(t, errors.Is(err, perrors.ErrEmptyFrameSet), "got %v", err)
		assert.ErrorContains(t, err, "screenbuffers")
		assert.Empty(t, dirEntries(t, root))
	})

	t.Run("empty", func(t *testing.T) {
		root := t.TempDir()
		require.NoError(t, os.Mkdir(filepath.Join(root, "screenbuffers"), 0o755))

		var stdout bytes.Buffer
		_, err := AssembleFrames(AnimationOptions{CaptureDir: root, Scale: 2}, &stdout, testLogger())
		assert.True(t, errors.Is(err, perrors.ErrEmptyFrameSet))
		assert.Empty(t, stdout.String())
		assert.Equal(t, []string{"screenbuffers"}, dirEntries(t, root))
	})

	t.Run("truncated frame", func(t *testing.T) {
		root := t.TempDir()
		frames := filepath.Join(root, "screenbuffers")
		writeFile(t, filepath.Join(frames, "scr00001.raw"), rawFrame(1, 0, []byte{0, 1, 2, 3}))
		writeFile(t, filepath.Join(frames, "scr00002.raw"), rawFrame(2, 10, []byte{0}))

		_, err := AssembleFrames(AnimationOptions{CaptureDir: root, Scale: 2}, nil, testLogger())
		assert.True(t, errors.Is(err, perrors.ErrTruncatedFrame))
		assert.Equal(t, []string{"screenbuffers"}, dirEntries(t, root))
	})
}
