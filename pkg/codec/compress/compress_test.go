package compress

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/provide-io/gbadoom/go/tools/pkg/codec"
)

func TestCodecRoundTrip(t *testing.T) {
	payload := bytes.Repeat([]byte{0x00, 0x10, 0x20, 0xff}, 1024)

	testCases := []struct {
		name string
		c    codec.Codec
	}{
		{"gzip", NewGzipCodec()},
		{"bzip2", NewBzip2Codec()},
		{"zstd", NewZstdCodec()},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			encoded, err := tc.c.Apply(payload)
			require.NoError(t, err)
			assert.Less(t, len(encoded), len(payload))

			decoded, err := tc.c.Reverse(encoded)
			require.NoError(t, err)
			assert.Equal(t, payload, decoded)
		})
	}
}

func TestRegistry(t *testing.T) {
	assert.Equal(t, []string{"bzip2", "gzip", "zstd"}, codec.Names())

	c, err := codec.Lookup("zstd")
	require.NoError(t, err)
	assert.Equal(t, ".zst", c.Extension())

	c, err = codec.Lookup(" GZIP ")
	require.NoError(t, err)
	assert.Equal(t, "gzip", c.Name())

	_, err = codec.Lookup("xz")
	assert.ErrorContains(t, err, "unknown codec")
}

func TestForPath(t *testing.T) {
	testCases := []struct {
		path     string
		expected string
		trimmed  string
	}{
		{"scr00001.raw", "", "scr00001.raw"},
		{"scr00001.raw.gz", "gzip", "scr00001.raw"},
		{"doom1.wad.BZ2", "bzip2", "doom1.wad"},
		{"frames/scr00002.raw.zst", "zstd", "frames/scr00002.raw"},
		{"doom1.wad.bz2.gz", "gzip", "doom1.wad"},
	}

	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			c := codec.ForPath(tc.path)
			if tc.expected == "" {
				assert.Nil(t, c)
			} else {
				require.NotNil(t, c)
				assert.Equal(t, tc.expected, c.Name())
			}
			assert.Equal(t, tc.trimmed, codec.TrimExtension(tc.path))
		})
	}
}

func TestChain(t *testing.T) {
	chain, err := codec.ParseChain("bzip2|gzip")
	require.NoError(t, err)
	require.Len(t, chain, 2)
	assert.Equal(t, "bzip2|gzip", chain.String())
	assert.Equal(t, ".bz2.gz", chain.Extension())

	payload := []byte("lump directory lump directory lump directory")
	encoded, err := chain.Apply(payload)
	require.NoError(t, err)

	// Outermost layer is gzip
	inner, err := NewGzipCodec().Reverse(encoded)
	require.NoError(t, err)
	plain, err := NewBzip2Codec().Reverse(inner)
	require.NoError(t, err)
	assert.Equal(t, payload, plain)

	decoded, err := chain.Reverse(encoded)
	require.NoError(t, err)
	assert.Equal(t, payload, decoded)

	empty, err := codec.ParseChain("raw")
	require.NoError(t, err)
	assert.Empty(t, empty)
	assert.Equal(t, "raw", empty.String())

	_, err = codec.ParseChain("gzip|lzma")
	assert.Error(t, err)
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	payload := []byte("IWAD")

	encoded, err := NewZstdCodec().Apply(payload)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.wad.zst"), encoded, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.wad"), payload, 0o644))

	data, err := codec.ReadFile(filepath.Join(dir, "a.wad.zst"))
	require.NoError(t, err)
	assert.Equal(t, payload, data)

	data, err = codec.ReadFile(filepath.Join(dir, "b.wad"))
	require.NoError(t, err)
	assert.Equal(t, payload, data)

	stacked, err := codec.ParseChain("bzip2|gzip")
	require.NoError(t, err)
	assert.Equal(t, stacked, codec.ChainForPath("d.wad.bz2.gz"))
	encoded, err = stacked.Apply(payload)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "d.wad.bz2.gz"), encoded, 0o644))
	data, err = codec.ReadFile(filepath.Join(dir, "d.wad.bz2.gz"))
	require.NoError(t, err)
	assert.Equal(t, payload, data)

	// Suffixes are undone right to left, so misordered ones fail
	require.NoError(t, os.WriteFile(filepath.Join(dir, "e.wad.gz.bz2"), encoded, 0o644))
	_, err = codec.ReadFile(filepath.Join(dir, "e.wad.gz.bz2"))
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "c.wad.gz"), payload, 0o644))
	_, err = codec.ReadFile(filepath.Join(dir, "c.wad.gz"))
	assert.ErrorContains(t, err, "decoding")
}
