// Package framebuf decodes raw palette-indexed framebuffer dumps and
// assembles them into an animated GIF.
package framebuf

import (
	"encoding/binary"
	"fmt"
	"image/color"
)

// Fixed layout of a raw frame file
const (
	PaletteEntries = 256
	PaletteSize    = PaletteEntries * 3 // r, g, b per entry

	// sequence (4) + timestamp (4) + width (2) + height (2) + palette (768)
	HeaderSize = 12 + PaletteSize
)

// RGB is one palette entry
type RGB struct {
	R, G, B uint8
}

// Header is the preamble written in front of every framebuffer dump
type Header struct {
	Sequence    uint32
	TimestampMS uint32
	Width       uint16
	Height      uint16
	Palette     [PaletteEntries]RGB
}

// PixelCount is the number of index bytes that follow the header
func (h *Header) PixelCount() int {
	return int(h.Width) * int(h.Height)
}

// ColorPalette converts the header palette into an opaque color.Palette
func (h *Header) ColorPalette() color.Palette {
	pal := make(color.Palette, PaletteEntries)
	for i, c := range h.Palette {
		pal[i] = color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff}
	}
	return pal
}

// Pack serializes the header to bytes
func (h *Header) Pack() []byte {
	buf := make([]byte, HeaderSize)
	binary.LittleEndian.PutUint32(buf[0:4], h.Sequence)
	binary.LittleEndian.PutUint32(buf[4:8], h.TimestampMS)
	binary.LittleEndian.PutUint16(buf[8:10], h.Width)
	binary.LittleEndian.PutUint16(buf[10:12], h.Height)
	for i, c := range h.Palette {
		off := 12 + i*3
		buf[off] = c.R
		buf[off+1] = c.G
		buf[off+2] = c.B
	}
	return buf
}

// Unpack deserializes the header from the first HeaderSize bytes of data
func (h *Header) Unpack(data []byte) error {
	if len(data) < HeaderSize {
		return fmt.Errorf("header needs %d bytes, got %d", HeaderSize, len(data))
	}

	h.Sequence = binary.LittleEndian.Uint32(data[0:4])
	h.TimestampMS = binary.LittleEndian.Uint32(data[4:8])
	h.Width = binary.LittleEndian.Uint16(data[8:10])
	h.Height = binary.LittleEndian.Uint16(data[10:12])
	for i := range h.Palette {
		off := 12 + i*3
		h.Palette[i] = RGB{R: data[off], G: data[off+1], B: data[off+2]}
	}
	return nil
}
