package wad

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"

	perrors "github.com/provide-io/gbadoom/go/tools/pkg/errors"
)

// Entry is one lump directory record. The 8-byte lump name is carried as
// two little-endian words, low word first on disk.
type Entry struct {
	FilePos  int32
	Size     int32
	NameHigh uint32
	NameLow  uint32
}

// NewEntry builds an entry from a lump name of at most 8 bytes
func NewEntry(name string, filePos, size int32) Entry {
	high, low := NameWords(name)
	return Entry{FilePos: filePos, Size: size, NameHigh: high, NameLow: low}
}

// NameWords splits a lump name into its high and low words. The name is
// upper-cased and truncated or NUL-padded to 8 bytes.
func NameWords(name string) (high, low uint32) {
	var raw [8]byte
	copy(raw[:], strings.ToUpper(name))
	low = binary.LittleEndian.Uint32(raw[0:4])
	high = binary.LittleEndian.Uint32(raw[4:8])
	return high, low
}

// Name reassembles the lump name, trimmed at the first NUL
func (e Entry) Name() string {
	var raw [8]byte
	binary.LittleEndian.PutUint32(raw[0:4], e.NameLow)
	binary.LittleEndian.PutUint32(raw[4:8], e.NameHigh)
	if i := bytes.IndexByte(raw[:], 0); i >= 0 {
		return string(raw[:i])
	}
	return string(raw[:])
}

// Pack serializes the entry to bytes
func (e *Entry) Pack() []byte {
	buf := make([]byte, EntrySize)
	binary.LittleEndian.PutUint32(buf[0:4], uint32(e.FilePos))
	binary.LittleEndian.PutUint32(buf[4:8], uint32(e.Size))
	binary.LittleEndian.PutUint32(buf[8:12], e.NameLow)
	binary.LittleEndian.PutUint32(buf[12:16], e.NameHigh)
	return buf
}

// Unpack deserializes the entry from the first EntrySize bytes of data
func (e *Entry) Unpack(data []byte) error {
	if len(data) < EntrySize {
		return fmt.Errorf("%w: got %d bytes, need %d", perrors.ErrTruncatedDirectoryEntry, len(data), EntrySize)
	}

	e.FilePos = int32(binary.LittleEndian.Uint32(data[0:4]))
	e.Size = int32(binary.LittleEndian.Uint32(data[4:8]))
	e.NameLow = binary.LittleEndian.Uint32(data[8:12])
	e.NameHigh = binary.LittleEndian.Uint32(data[12:16])
	return nil
}

// Find returns the index of the first entry called name, or -1. The query
// is upper-cased like every lump name in an IWAD.
func Find(entries []Entry, name string) int {
	high, low := NameWords(name)
	for i, e := range entries {
		if e.NameLow == low && e.NameHigh == high {
			return i
		}
	}
	return -1
}
