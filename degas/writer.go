package degas

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"io"

	"github.com/benjihan/pngtopi1/bitplane"
	"github.com/benjihan/pngtopi1/palette"
	"github.com/benjihan/pngtopi1/pixel"
	"github.com/benjihan/pngtopi1/rle"
	"github.com/benjihan/pngtopi1/stcolor"
)

// ErrDimensions reports an image whose size matches none of the three
// Degas resolutions.
var ErrDimensions = errors.New("degas: unsupported image dimensions")

// FromImage quantizes a decoded raster image into a Degas picture.
// The image dimensions select the format; the distinct quantized
// colors must fit the format's palette, there is no color reduction.
func FromImage(img image.Image, m *stcolor.Model) (*Picture, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	f, ok := ByDimensions(w, h)
	if !ok {
		return nil, fmt.Errorf("%w: %dx%d", ErrDimensions, w, h)
	}

	src, err := pixel.FromImage(img)
	if err != nil {
		return nil, err
	}
	s, err := pixel.New(src, m)
	if err != nil {
		return nil, err
	}
	tab, err := palette.Build(s, w, h, f.MaxColors())
	if err != nil {
		return nil, err
	}

	colors := make([]stcolor.Color, paletteSlot)
	copy(colors, tab.Slots(f.PaletteSize))

	pix := make([]uint8, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			idx, _ := tab.Index(s.At(x, y))
			pix[y*w+x] = idx
		}
	}

	return &Picture{Format: f, Colors: colors, Pix: pix}, nil
}

// Write writes p to w as a raw or compressed Degas file.
func Write(w io.Writer, p *Picture, compressed bool) error {
	f := p.Format.Variant(compressed)

	var hd [headerSize]byte
	binary.BigEndian.PutUint16(hd[:2], f.ID)
	for i, c := range p.Colors {
		binary.BigEndian.PutUint16(hd[2+2*i:], uint16(c))
	}
	if _, err := w.Write(hd[:]); err != nil {
		return err
	}

	packed := bitplane.Pack(p.Pix, f.Width, f.Height, f.Log2Planes)
	if !f.Compressed {
		_, err := w.Write(packed)
		return err
	}
	return compress(w, packed, f)
}

// compress RLE encodes the interleaved bitplane bytes one row-plane
// at a time, the unit the decoder's row budget is defined over.
func compress(w io.Writer, packed []byte, f Format) error {
	var (
		rowBytes = f.Width / 16 * 2 * f.Planes()
		rowPlane = make([]byte, f.Width/16*2)
		enc      = make([]byte, rle.MaxEncodedLen(len(rowPlane)))
	)
	for y := 0; y < f.Height; y++ {
		row := packed[y*rowBytes : (y+1)*rowBytes]
		for z := 0; z < f.Planes(); z++ {
			bitplane.ExtractRowPlane(rowPlane, row, z, f.Log2Planes)
			n := rle.EncodeRow(enc, rowPlane)
			if _, err := w.Write(enc[:n]); err != nil {
				return err
			}
		}
	}
	return nil
}

// Options configure Encode.
type Options struct {
	// Model selects the color conversion; nil means STf components
	// with left-bit replication.
	Model *stcolor.Model

	// Compress selects the PC variants over the raw PI ones.
	Compress bool
}

// Encode writes the Image m to w in Degas format. The image size
// picks the format: 320x200, 640x200 or 640x400.
func Encode(w io.Writer, m image.Image, o *Options) error {
	var opts Options
	if o != nil {
		opts = *o
	}
	if opts.Model == nil {
		opts.Model = stcolor.New(stcolor.Mode{Fill: stcolor.FillLeft})
	}
	p, err := FromImage(m, opts.Model)
	if err != nil {
		return err
	}
	return Write(w, p, opts.Compress)
}
