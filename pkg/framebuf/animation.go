package framebuf

import (
	"fmt"
	"image"
	"image/gif"
	"io"

	xdraw "golang.org/x/image/draw"
)

// Scale enlarges m by an integer factor using nearest-neighbour sampling.
// The index plane is scaled directly, so every output pixel keeps the
// exact palette index of its source pixel.
func Scale(m *image.Paletted, factor int) *image.Paletted {
	if factor <= 1 {
		return m
	}

	b := m.Bounds()
	dr := image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor)

	src := &image.Gray{Pix: m.Pix, Stride: m.Stride, Rect: m.Rect}
	dst := image.NewGray(dr)
	xdraw.NearestNeighbor.Scale(dst, dr, src, b, xdraw.Src, nil)

	return &image.Paletted{Pix: dst.Pix, Stride: dst.Stride, Rect: dr, Palette: m.Palette}
}

// Assemble combines frames into a looping GIF. durationsMS holds one
// display time per frame in milliseconds; GIF delays are stored in
// hundredths of a second. Each frame keeps its own palette.
func Assemble(frames []*Frame, durationsMS []int, scale int) (*gif.GIF, error) {
	if len(frames) == 0 {
		return nil, fmt.Errorf("no frames to assemble")
	}
	if len(durationsMS) != len(frames) {
		return nil, fmt.Errorf("have %d durations for %d frames", len(durationsMS), len(frames))
	}
	if scale < 1 {
		return nil, fmt.Errorf("scale must be at least 1, got %d", scale)
	}

	g := &gif.GIF{LoopCount: 0}
	for i, f := range frames {
		img := Scale(f.Image, scale)
		b := img.Bounds()
		if b.Dx() > g.Config.Width {
			g.Config.Width = b.Dx()
		}
		if b.Dy() > g.Config.Height {
			g.Config.Height = b.Dy()
		}
		g.Image = append(g.Image, img)
		g.Delay = append(g.Delay, durationsMS[i]/10)
		g.Disposal = append(g.Disposal, gif.DisposalNone)
	}
	g.Config.ColorModel = frames[0].Image.Palette

	return g, nil
}

// Encode writes an assembled animation
func Encode(w io.Writer, g *gif.GIF) error {
	return gif.EncodeAll(w, g)
}
