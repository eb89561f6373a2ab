package degas

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/benjihan/pngtopi1/bitplane"
	"github.com/benjihan/pngtopi1/rle"
	"github.com/benjihan/pngtopi1/stcolor"
)

var (
	// ErrMagic reports a header id that matches none of the six
	// Degas formats.
	ErrMagic = errors.New("degas: bad magic")

	// ErrShort reports a file smaller than its format allows.
	ErrShort = errors.New("degas: file too short")
)

// Picture is a decoded Degas image: one palette index per pixel plus
// the 16 stored palette words. Colors always holds all 16 words as
// read from or written to the file, so a picture re-encodes its
// header area bit-exactly; only the first Format.PaletteSize entries
// are meaningful.
type Picture struct {
	Format Format
	Colors []stcolor.Color
	Pix    []uint8
}

// STE reports whether any used palette word carries an STe extension
// bit, marking a picture that needs 4-bit color conversion.
func (p *Picture) STE() bool {
	for _, c := range p.Colors[:p.Format.PaletteSize] {
		if c.STE() {
			return true
		}
	}
	return false
}

// Image converts the picture to a stdlib image, expanding palette
// words through m. Monochrome pictures become grayscale, index 0
// black and index 1 white; the color formats become paletted images
// over their full palette capacity.
func (p *Picture) Image(m *stcolor.Model) image.Image {
	w, h := p.Format.Width, p.Format.Height
	if p.Format.PaletteSize == 0 {
		img := image.NewGray(image.Rect(0, 0, w, h))
		for i, idx := range p.Pix {
			if idx != 0 {
				img.Pix[i] = 0xFF
			}
		}
		return img
	}
	pal := make(color.Palette, p.Format.PaletteSize)
	for i := range pal {
		r, g, b := m.RGB(p.Colors[i])
		pal[i] = color.RGBA{r, g, b, 0xFF}
	}
	img := image.NewPaletted(image.Rect(0, 0, w, h), pal)
	copy(img.Pix, p.Pix)
	return img
}

// ReadPicture reads one Degas file from r. Compressed pixel data is
// expanded one row-plane at a time against the format's fixed row
// budget, so a corrupt stream fails with the offending row and plane.
func ReadPicture(r io.Reader) (*Picture, error) {
	var hd [headerSize]byte
	if _, err := io.ReadFull(r, hd[:]); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, fmt.Errorf("%w: missing header", ErrShort)
		}
		return nil, err
	}

	id := binary.BigEndian.Uint16(hd[:2])
	f, ok := ByID(id)
	if !ok {
		return nil, fmt.Errorf("%w: id 0x%04x", ErrMagic, id)
	}

	colors := make([]stcolor.Color, paletteSlot)
	for i := range colors {
		colors[i] = stcolor.Color(binary.BigEndian.Uint16(hd[2+2*i:]) & 0xFFF)
	}

	var packed []byte
	if !f.Compressed {
		packed = make([]byte, pixelBytes)
		if _, err := io.ReadFull(r, packed); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				return nil, fmt.Errorf("%w: want %d bytes for %s", ErrShort, f.MinSize, f.Name)
			}
			return nil, err
		}
	} else {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}
		if headerSize+len(data) < f.MinSize {
			return nil, fmt.Errorf("%w: got %d bytes, want at least %d for %s",
				ErrShort, headerSize+len(data), f.MinSize, f.Name)
		}
		if packed, err = decompress(data, f); err != nil {
			return nil, err
		}
	}

	return &Picture{
		Format: f,
		Colors: colors,
		Pix:    bitplane.Unpack(packed, f.Width, f.Height, f.Log2Planes),
	}, nil
}

// decompress expands an RLE pixel stream into the 32000 byte
// interleaved bitplane layout.
func decompress(data []byte, f Format) ([]byte, error) {
	var (
		packed   = make([]byte, pixelBytes)
		rowBytes = f.Width / 16 * 2 * f.Planes()
		rowPlane = make([]byte, f.Width/16*2)
		pos      = 0
	)
	for y := 0; y < f.Height; y++ {
		row := packed[y*rowBytes : (y+1)*rowBytes]
		for z := 0; z < f.Planes(); z++ {
			n, err := rle.DecodeRow(rowPlane, data[pos:])
			if err != nil {
				return nil, fmt.Errorf("degas: %s row %d plane %d: %w", f.Name, y, z, err)
			}
			pos += n
			bitplane.InsertRowPlane(row, rowPlane, z, f.Log2Planes)
		}
	}
	return packed, nil
}

// Decode reads a Degas picture from r and returns it as an
// image.Image. Palette words expand with left-bit replication, in
// STe precision when the palette uses STe bit patterns.
func Decode(r io.Reader) (image.Image, error) {
	p, err := ReadPicture(r)
	if err != nil {
		return nil, err
	}
	return p.Image(stcolor.New(stcolor.Mode{STE: p.STE(), Fill: stcolor.FillLeft})), nil
}

// DecodeConfig returns the color model and dimensions of a Degas
// picture without decoding the pixel data.
func DecodeConfig(r io.Reader) (image.Config, error) {
	var hd [headerSize]byte
	if _, err := io.ReadFull(r, hd[:]); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return image.Config{}, fmt.Errorf("%w: missing header", ErrShort)
		}
		return image.Config{}, err
	}

	id := binary.BigEndian.Uint16(hd[:2])
	f, ok := ByID(id)
	if !ok {
		return image.Config{}, fmt.Errorf("%w: id 0x%04x", ErrMagic, id)
	}

	if f.PaletteSize == 0 {
		return image.Config{
			ColorModel: color.GrayModel,
			Width:      f.Width,
			Height:     f.Height,
		}, nil
	}

	ste := false
	words := make([]stcolor.Color, f.PaletteSize)
	for i := range words {
		words[i] = stcolor.Color(binary.BigEndian.Uint16(hd[2+2*i:]) & 0xFFF)
		ste = ste || words[i].STE()
	}
	m := stcolor.New(stcolor.Mode{STE: ste, Fill: stcolor.FillLeft})

	pal := make(color.Palette, f.PaletteSize)
	for i, c := range words {
		r, g, b := m.RGB(c)
		pal[i] = color.RGBA{r, g, b, 0xFF}
	}
	return image.Config{
		ColorModel: pal,
		Width:      f.Width,
		Height:     f.Height,
	}, nil
}
