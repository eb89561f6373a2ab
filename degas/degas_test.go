package degas

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/benjihan/pngtopi1/stcolor"
)

func TestByID(t *testing.T) {
	tests := []struct {
		id   uint16
		name string
	}{
		{0x0000, "PI1"},
		{0x0001, "PI2"},
		{0x0002, "PI3"},
		{0x8000, "PC1"},
		{0x8001, "PC2"},
		{0x8002, "PC3"},
	}
	for _, tt := range tests {
		f, ok := ByID(tt.id)
		require.True(t, ok)
		require.Equal(t, tt.name, f.Name)
		require.Equal(t, tt.id, f.ID)
	}

	_, ok := ByID(0x0003)
	require.False(t, ok)
	_, ok = ByID(0x8950) // PNG signature start
	require.False(t, ok)
}

func TestByDimensions(t *testing.T) {
	f, ok := ByDimensions(320, 200)
	require.True(t, ok)
	require.Equal(t, "PI1", f.Name)
	require.Equal(t, 4, f.Planes())
	require.Equal(t, 16, f.MaxColors())

	f, ok = ByDimensions(640, 200)
	require.True(t, ok)
	require.Equal(t, "PI2", f.Name)
	require.Equal(t, 4, f.MaxColors())

	f, ok = ByDimensions(640, 400)
	require.True(t, ok)
	require.Equal(t, "PI3", f.Name)
	require.Equal(t, 2, f.MaxColors())
	require.Equal(t, 0, f.PaletteSize)

	_, ok = ByDimensions(320, 240)
	require.False(t, ok)
}

func TestVariantAndExt(t *testing.T) {
	pi1, _ := ByID(0x0000)
	pc1 := pi1.Variant(true)
	require.Equal(t, "PC1", pc1.Name)
	require.Equal(t, pi1, pc1.Variant(false))
	require.Equal(t, pi1, pi1.Variant(false))

	require.Equal(t, ".pi1", pi1.Ext())
	require.Equal(t, ".pc1", pc1.Ext())
	pc3, _ := ByID(0x8002)
	require.Equal(t, ".pc3", pc3.Ext())
}

// testImage builds a 320x200 paletted image using exactly n distinct
// colors that stay distinct after 3-bit quantization, arranged so
// every color appears on every row.
func testImage(n int) *image.Paletted {
	pal := make(color.Palette, n)
	for i := range pal {
		pal[i] = color.RGBA{uint8(i&3) << 6, uint8(i>>2) << 6, 0, 0xFF}
	}
	img := image.NewPaletted(image.Rect(0, 0, 320, 200), pal)
	for y := 0; y < 200; y++ {
		for x := 0; x < 320; x++ {
			img.SetColorIndex(x, y, uint8((x/16+y)%n))
		}
	}
	return img
}

func TestEncodeRawPI1(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, testImage(16), nil))

	b := buf.Bytes()
	require.Len(t, b, 32034)
	require.Equal(t, byte(0x00), b[0])
	require.Equal(t, byte(0x00), b[1])
}

func TestHeaderPaletteWords(t *testing.T) {
	// A two color image: black and white. White quantizes to 0x777
	// under STf and sorts after black.
	img := image.NewPaletted(image.Rect(0, 0, 320, 200), color.Palette{
		color.RGBA{0, 0, 0, 0xFF},
		color.RGBA{0xFF, 0xFF, 0xFF, 0xFF},
	})
	for x := 0; x < 320; x++ {
		img.SetColorIndex(x, 0, 1)
	}

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, img, nil))

	b := buf.Bytes()
	require.Equal(t, []byte{0x00, 0x00}, b[2:4], "slot 0 black")
	require.Equal(t, []byte{0x07, 0x77}, b[4:6], "slot 1 STf white")
	require.Equal(t, bytes.Repeat([]byte{0}, 28), b[6:34], "unused slots zero")
}

func TestRoundTripRaw(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, testImage(16), nil))

	p, err := ReadPicture(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Equal(t, "PI1", p.Format.Name)

	var again bytes.Buffer
	require.NoError(t, Write(&again, p, false))
	require.Equal(t, buf.Bytes(), again.Bytes(), "pixel bytes survive decode and re-encode")
}

func TestCompressedMatchesRaw(t *testing.T) {
	img := testImage(16)

	var raw, comp bytes.Buffer
	require.NoError(t, Encode(&raw, img, nil))
	require.NoError(t, Encode(&comp, img, &Options{Compress: true}))

	require.GreaterOrEqual(t, comp.Len(), 1634, "PC1 minimum size")
	require.Equal(t, byte(0x80), comp.Bytes()[0])
	require.Equal(t, byte(0x00), comp.Bytes()[1])

	rp, err := ReadPicture(bytes.NewReader(raw.Bytes()))
	require.NoError(t, err)
	cp, err := ReadPicture(bytes.NewReader(comp.Bytes()))
	require.NoError(t, err)

	require.Equal(t, rp.Colors, cp.Colors)
	require.Equal(t, rp.Pix, cp.Pix, "RLE decoded bitplanes equal raw ones")
}

func TestRecompress(t *testing.T) {
	var raw bytes.Buffer
	require.NoError(t, Encode(&raw, testImage(7), nil))

	p, err := ReadPicture(bytes.NewReader(raw.Bytes()))
	require.NoError(t, err)

	var comp bytes.Buffer
	require.NoError(t, Write(&comp, p, true))
	p2, err := ReadPicture(bytes.NewReader(comp.Bytes()))
	require.NoError(t, err)

	var expanded bytes.Buffer
	require.NoError(t, Write(&expanded, p2, false))
	require.Equal(t, raw.Bytes(), expanded.Bytes())
}

// TestCompressWorstCaseRow compresses a monochrome image whose packed
// rows alternate one literal byte with a two-byte run, the pattern
// that maximizes RLE output. The encode buffer must absorb rows that
// compress to more than their raw length.
func TestCompressWorstCaseRow(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 640, 400))
	for y := 0; y < 400; y++ {
		for x := 0; x < 640; x++ {
			if (x/8)%3 == 0 {
				img.SetGray(x, y, color.Gray{0xFF})
			}
		}
	}

	var raw, comp bytes.Buffer
	require.NoError(t, Encode(&raw, img, nil))
	require.NoError(t, Encode(&comp, img, &Options{Compress: true}))
	require.Greater(t, comp.Len(), raw.Len(), "this image expands under RLE")

	rp, err := ReadPicture(bytes.NewReader(raw.Bytes()))
	require.NoError(t, err)
	cp, err := ReadPicture(bytes.NewReader(comp.Bytes()))
	require.NoError(t, err)
	require.Equal(t, rp.Pix, cp.Pix)
}

func TestReadPictureErrors(t *testing.T) {
	_, err := ReadPicture(bytes.NewReader([]byte{0x00}))
	require.ErrorIs(t, err, ErrShort)

	bad := make([]byte, 34)
	bad[0] = 0x12
	_, err = ReadPicture(bytes.NewReader(bad))
	require.ErrorIs(t, err, ErrMagic)

	// Valid PI1 header but truncated pixel data.
	short := make([]byte, 34+100)
	_, err = ReadPicture(bytes.NewReader(short))
	require.ErrorIs(t, err, ErrShort)

	// Valid PC1 header but an empty stream below the minimum size.
	pc1 := make([]byte, 34)
	pc1[0] = 0x80
	_, err = ReadPicture(bytes.NewReader(pc1))
	require.ErrorIs(t, err, ErrShort)
}

func TestFromImageRejectsDimensions(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 100, 100))
	m := stcolor.New(stcolor.Mode{Fill: stcolor.FillLeft})
	_, err := FromImage(img, m)
	require.ErrorIs(t, err, ErrDimensions)
}

func TestMonochrome(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 640, 400))
	for x := 0; x < 640; x++ {
		img.SetGray(x, 0, color.Gray{0xFF})
	}

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, img, nil))
	require.Len(t, buf.Bytes(), 32034)
	require.Equal(t, byte(0x02), buf.Bytes()[1])

	p, err := ReadPicture(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	out := p.Image(stcolor.New(stcolor.Mode{Fill: stcolor.FillLeft}))
	gray, ok := out.(*image.Gray)
	require.True(t, ok)
	require.Equal(t, uint8(0xFF), gray.GrayAt(10, 0).Y)
	require.Equal(t, uint8(0x00), gray.GrayAt(10, 10).Y)
}

func TestDecodeConfig(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, testImage(16), nil))

	cfg, err := DecodeConfig(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Equal(t, 320, cfg.Width)
	require.Equal(t, 200, cfg.Height)
	pal, ok := cfg.ColorModel.(color.Palette)
	require.True(t, ok)
	require.Len(t, pal, 16)
}

func TestPictureSTE(t *testing.T) {
	p := &Picture{Format: formats[0], Colors: make([]stcolor.Color, 16)}
	require.False(t, p.STE())
	p.Colors[3] = 0x800 // red STe extension bit
	require.True(t, p.STE())
}
