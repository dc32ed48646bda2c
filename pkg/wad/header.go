// Package wad decodes the lump directory of a WAD archive and renders it
// as a pair of generated C sources.
package wad

import (
	"encoding/binary"
	"fmt"

	perrors "github.com/provide-io/gbadoom/go/tools/pkg/errors"
)

// Fixed sizes of the on-disk structures
const (
	HeaderSize = 12 // tag (4) + numlumps (4) + infotableofs (4)
	EntrySize  = 16 // filepos (4) + size (4) + name (8)
)

// Header is the fixed archive header. The identification tag is kept but
// never checked, so IWAD, PWAD and custom tags are all accepted.
type Header struct {
	Identification [4]byte
	NumLumps       int32
	InfoTableOfs   int32
}

// Tag returns the identification tag as a string
func (h *Header) Tag() string {
	return string(h.Identification[:])
}

// Pack serializes the header to bytes
func (h *Header) Pack() []byte {
	buf := make([]byte, HeaderSize)
	copy(buf[0:4], h.Identification[:])
	binary.LittleEndian.PutUint32(buf[4:8], uint32(h.NumLumps))
	binary.LittleEndian.PutUint32(buf[8:12], uint32(h.InfoTableOfs))
	return buf
}

// Unpack deserializes the header from the first HeaderSize bytes of data
func (h *Header) Unpack(data []byte) error {
	if len(data) < HeaderSize {
		return fmt.Errorf("%w: got %d bytes, need %d", perrors.ErrTruncatedHeader, len(data), HeaderSize)
	}

	copy(h.Identification[:], data[0:4])
	h.NumLumps = int32(binary.LittleEndian.Uint32(data[4:8]))
	h.InfoTableOfs = int32(binary.LittleEndian.Uint32(data[8:12]))
	return nil
}
