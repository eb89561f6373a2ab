/*
Package pixel samples quantized RGB444 color values out of decoded raster
images regardless of their storage layout.

A Source describes the raster the way the decoding library delivered it:
bit depth, channel count, color interpretation, raw rows, and the color
table when the pixels are palette indices. One Sampler implementation
exists per supported (depth, channels, color type) tuple and is selected
once per image.
*/
package pixel

import (
	"errors"
	"fmt"
	"image"

	"github.com/benjihan/pngtopi1/stcolor"
)

// ErrUnsupported reports a (depth, channels, color type) combination
// outside the nine supported tuples.
var ErrUnsupported = errors.New("pixel: unsupported pixel format")

// ColorType is the color interpretation of a Source's samples.
type ColorType int

const (
	Gray ColorType = iota
	Indexed
	RGB
	RGBA
)

func (t ColorType) String() string {
	switch t {
	case Gray:
		return "gray"
	case Indexed:
		return "indexed"
	case RGB:
		return "rgb"
	case RGBA:
		return "rgba"
	}
	return fmt.Sprintf("colortype(%d)", int(t))
}

// RGB8 is one 8-bit color table entry of an indexed Source.
type RGB8 struct {
	R, G, B uint8
}

// Source is a decoded raster image. Row returns the raw packed samples
// of one line; Palette returns the color table of indexed sources and
// nil otherwise. The table stays owned by the source.
type Source interface {
	Width() int
	Height() int
	Depth() int    // bits per sample: 1, 2, 4 or 8
	Channels() int // samples per pixel: 1, 3 or 4
	Color() ColorType
	Row(y int) []byte
	Palette() []RGB8
}

// Sampler turns coordinates into one quantized RGB444 value.
// Coordinates must lie within the source's declared bounds; passing
// coordinates outside them is a caller bug, not a runtime condition.
type Sampler interface {
	At(x, y int) stcolor.Color
}

// New selects the sampler implementation matching src. The supported
// tuples are gray at depths 1, 2, 4 and 8, indexed at depths 2, 4 and 8,
// and 8-bit RGB and RGBA.
func New(src Source, m *stcolor.Model) (Sampler, error) {
	d, c, t := src.Depth(), src.Channels(), src.Color()
	switch {
	case t == Gray && c == 1:
		switch d {
		case 1:
			return gray1{src, m}, nil
		case 2:
			return gray2{src, m}, nil
		case 4:
			return gray4{src, m}, nil
		case 8:
			return gray8{src, m}, nil
		}
	case t == Indexed && c == 1:
		switch d {
		case 2:
			return indexed2{src, m}, nil
		case 4:
			return indexed4{src, m}, nil
		case 8:
			return indexed8{src, m}, nil
		}
	case t == RGB && c == 3 && d == 8:
		return rgb8{src, m}, nil
	case t == RGBA && c == 4 && d == 8:
		return rgba8{src, m}, nil
	}
	return nil, fmt.Errorf("%w: depth=%d channels=%d type=%s", ErrUnsupported, d, c, t)
}

// sub extracts the x-th depth-wide sample of a packed row, leftmost
// sample in the high bits as PNG stores them.
func sub(row []byte, x, depth int) uint8 {
	switch depth {
	case 4:
		return row[x>>1] >> ((1 - x&1) << 2) & 15
	case 2:
		return row[x>>2] >> ((3 - x&3) << 1) & 3
	default:
		return row[x>>3] >> (7 - x&7) & 1
	}
}

type gray1 struct {
	src Source
	m   *stcolor.Model
}

func (s gray1) At(x, y int) stcolor.Color {
	g := s.m.ExpandDepth(sub(s.src.Row(y), x, 1), 1)
	return s.m.Color(g, g, g)
}

type gray2 struct {
	src Source
	m   *stcolor.Model
}

func (s gray2) At(x, y int) stcolor.Color {
	g := s.m.ExpandDepth(sub(s.src.Row(y), x, 2), 2)
	return s.m.Color(g, g, g)
}

type gray4 struct {
	src Source
	m   *stcolor.Model
}

func (s gray4) At(x, y int) stcolor.Color {
	g := s.m.ExpandDepth(sub(s.src.Row(y), x, 4), 4)
	return s.m.Color(g, g, g)
}

type gray8 struct {
	src Source
	m   *stcolor.Model
}

func (s gray8) At(x, y int) stcolor.Color {
	g := s.src.Row(y)[x]
	return s.m.Color(g, g, g)
}

type indexed2 struct {
	src Source
	m   *stcolor.Model
}

func (s indexed2) At(x, y int) stcolor.Color {
	p := s.src.Palette()[sub(s.src.Row(y), x, 2)]
	return s.m.Color(p.R, p.G, p.B)
}

type indexed4 struct {
	src Source
	m   *stcolor.Model
}

func (s indexed4) At(x, y int) stcolor.Color {
	p := s.src.Palette()[sub(s.src.Row(y), x, 4)]
	return s.m.Color(p.R, p.G, p.B)
}

type indexed8 struct {
	src Source
	m   *stcolor.Model
}

func (s indexed8) At(x, y int) stcolor.Color {
	p := s.src.Palette()[s.src.Row(y)[x]]
	return s.m.Color(p.R, p.G, p.B)
}

type rgb8 struct {
	src Source
	m   *stcolor.Model
}

func (s rgb8) At(x, y int) stcolor.Color {
	row := s.src.Row(y)
	return s.m.Color(row[x*3], row[x*3+1], row[x*3+2])
}

type rgba8 struct {
	src Source
	m   *stcolor.Model
}

func (s rgba8) At(x, y int) stcolor.Color {
	row := s.src.Row(y)
	return s.m.Color(row[x*4], row[x*4+1], row[x*4+2])
}

// imageSource adapts the stdlib image types the PNG, GIF and JPEG
// decoders produce for 8-bit content.
type imageSource struct {
	pix      []byte
	stride   int
	w, h     int
	channels int
	color    ColorType
	pal      []RGB8
}

func (s *imageSource) Width() int       { return s.w }
func (s *imageSource) Height() int      { return s.h }
func (s *imageSource) Depth() int       { return 8 }
func (s *imageSource) Channels() int    { return s.channels }
func (s *imageSource) Color() ColorType { return s.color }
func (s *imageSource) Palette() []RGB8  { return s.pal }

func (s *imageSource) Row(y int) []byte {
	off := y * s.stride
	return s.pix[off : off+s.w*s.channels]
}

// FromImage wraps a decoded stdlib image as a Source. Gray, paletted,
// RGBA and NRGBA images are supported; alpha is ignored. Anything else
// (16-bit depths, YCbCr, gray+alpha) is outside the supported envelope.
func FromImage(m image.Image) (Source, error) {
	b := m.Bounds()
	switch im := m.(type) {
	case *image.Gray:
		return &imageSource{
			pix:      im.Pix[im.PixOffset(b.Min.X, b.Min.Y):],
			stride:   im.Stride,
			w:        b.Dx(),
			h:        b.Dy(),
			channels: 1,
			color:    Gray,
		}, nil
	case *image.Paletted:
		pal := make([]RGB8, len(im.Palette))
		for i, c := range im.Palette {
			r, g, b, _ := c.RGBA()
			pal[i] = RGB8{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)}
		}
		return &imageSource{
			pix:      im.Pix[im.PixOffset(b.Min.X, b.Min.Y):],
			stride:   im.Stride,
			w:        b.Dx(),
			h:        b.Dy(),
			channels: 1,
			color:    Indexed,
			pal:      pal,
		}, nil
	case *image.RGBA:
		return &imageSource{
			pix:      im.Pix[im.PixOffset(b.Min.X, b.Min.Y):],
			stride:   im.Stride,
			w:        b.Dx(),
			h:        b.Dy(),
			channels: 4,
			color:    RGBA,
		}, nil
	case *image.NRGBA:
		return &imageSource{
			pix:      im.Pix[im.PixOffset(b.Min.X, b.Min.Y):],
			stride:   im.Stride,
			w:        b.Dx(),
			h:        b.Dy(),
			channels: 4,
			color:    RGBA,
		}, nil
	}
	return nil, fmt.Errorf("%w: %T", ErrUnsupported, m)
}
