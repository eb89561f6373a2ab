package pngtopi1

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/benjihan/pngtopi1/degas"
	"github.com/benjihan/pngtopi1/pixel"
	"github.com/benjihan/pngtopi1/stcolor"
)

// Compression selects the output pixel data encoding.
type Compression int

const (
	// CompressAuto guesses from the output file extension, falling
	// back to raw for Degas output and converting Degas input to PNG.
	CompressAuto Compression = iota
	// CompressRaw forces the raw PI1, PI2 or PI3 variants.
	CompressRaw
	// CompressRLE forces the compressed PC1, PC2 or PC3 variants.
	CompressRLE
)

// ErrFormat reports an input file that is neither a supported raster
// image nor a Degas picture.
var ErrFormat = errors.New("pngtopi1: invalid image format")

// source is the decoded input, either a raster image or a Degas
// picture. Exactly one of image and picture is set.
type source struct {
	image   image.Image
	picture *degas.Picture
}

// Convert reads input and writes the converted image to output. An
// empty output derives the path from the input name: the Degas
// extension matching the chosen format, or ".png" for the reverse
// direction. With sameDir the derived path keeps the input directory
// instead of the current one.
func (c *Converter) Convert(input, output string, comp Compression, sameDir bool) error {
	src, err := c.readSource(input)
	if err != nil {
		return err
	}
	if src.picture != nil {
		if comp == CompressAuto {
			return c.writePNG(src.picture, input, output, sameDir)
		}
		return c.writeDegas(src.picture, input, output, comp, sameDir)
	}

	c.warnSTE(src.image)
	pic, err := degas.FromImage(src.image, c.model)
	if err != nil {
		return err
	}
	c.dumpPalette(pic)

	if comp == CompressAuto && output != "" {
		comp = guessCompression(output)
		if comp == CompressRLE {
			c.debug.Printf("guessed compression: rle")
		} else {
			c.debug.Printf("guessed compression: raw")
		}
	}
	return c.writeDegas(pic, input, output, comp, sameDir)
}

// readSource sniffs and decodes the input file. A leading Degas
// format id selects the Degas reader, anything else goes through the
// stdlib image decoders.
func (c *Converter) readSource(path string) (*source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	br := bufio.NewReader(f)
	magic, err := br.Peek(2)
	if err != nil {
		return nil, fmt.Errorf("%w -- %s", ErrFormat, path)
	}

	if _, ok := degas.ByID(binary.BigEndian.Uint16(magic)); ok {
		p, err := degas.ReadPicture(br)
		if err != nil {
			return nil, fmt.Errorf("%s -- %w", path, err)
		}
		c.info.Printf("input: %q %dx%dx%d type:%s", filepath.Base(path),
			p.Format.Width, p.Format.Height, p.Format.Planes(), p.Format.Name)
		return &source{picture: p}, nil
	}

	m, kind, err := image.Decode(br)
	if err != nil {
		return nil, fmt.Errorf("%w -- %s", ErrFormat, path)
	}
	b := m.Bounds()
	c.info.Printf("input: %q %dx%dx8 type:%s", filepath.Base(path), b.Dx(), b.Dy(), kind)
	return &source{image: m}, nil
}

// writeDegas resolves the output path and saves pic raw or
// compressed. CompressAuto means raw.
func (c *Converter) writeDegas(pic *degas.Picture, input, output string, comp Compression, sameDir bool) error {
	f := pic.Format.Variant(comp == CompressRLE)
	if output == "" {
		output = outputPath(input, sameDir, f.Ext())
		c.debug.Printf("automatic output: %q", output)
	}

	var buf bytes.Buffer
	if err := degas.Write(&buf, pic, f.Compressed); err != nil {
		return err
	}
	if err := os.WriteFile(output, buf.Bytes(), 0666); err != nil {
		return err
	}
	c.info.Printf("output: %q %dx%dx%d size:%d", output,
		f.Width, f.Height, f.Planes(), buf.Len())
	return nil
}

// writePNG converts a Degas picture back to a PNG file.
func (c *Converter) writePNG(pic *degas.Picture, input, output string, sameDir bool) error {
	if pic.STE() && c.model.Bits() == 3 {
		c.info.Printf("warning: STe palette converted with STf colors")
	}
	if output == "" {
		output = outputPath(input, sameDir, ".png")
		c.debug.Printf("automatic output: %q", output)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, pic.Image(c.model)); err != nil {
		return err
	}
	if err := os.WriteFile(output, buf.Bytes(), 0666); err != nil {
		return err
	}
	c.info.Printf("output: %q %dx%dx%d size:%d", output,
		pic.Format.Width, pic.Format.Height, pic.Format.Planes(), buf.Len())
	return nil
}

// warnSTE reports, without failing, a raster source using STe color
// precision while the active mode quantizes to 3 bits, since those
// low bits will not survive the conversion.
func (c *Converter) warnSTE(img image.Image) {
	if c.model.Bits() != 3 {
		return
	}
	src, err := pixel.FromImage(img)
	if err != nil {
		return
	}
	ste := stcolor.New(stcolor.Mode{STE: true, Fill: c.model.Mode().Fill})
	s, err := pixel.New(src, ste)
	if err != nil {
		return
	}
	for y := 0; y < src.Height(); y++ {
		for x := 0; x < src.Width(); x++ {
			if s.At(x, y).STE() {
				c.info.Printf("warning: STe colors detected, converting with STf colors")
				return
			}
		}
	}
}

// dumpPalette logs the stored palette words at debug verbosity.
func (c *Converter) dumpPalette(pic *degas.Picture) {
	for i, col := range pic.Colors[:pic.Format.PaletteSize] {
		c.debug.Printf("color #%02d $%03X", i, uint16(col))
	}
}
