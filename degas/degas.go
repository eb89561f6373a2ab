/*
Package degas implements a Degas picture decoder and encoder.

Degas pictures come in six fixed-size variants: PI1 (320x200, 16
colors), PI2 (640x200, 4 colors) and PI3 (640x400, monochrome), plus
the run-length compressed PC1, PC2 and PC3 counterparts. Every file
starts with a 34 byte header: a big-endian format id followed by 16
big-endian palette words, present even for formats that use fewer or
no palette entries. The pixel data is either exactly 32000 bytes of
interleaved bitplanes or an RLE stream compressing those same bytes
one row-plane at a time.
*/
package degas

// Format describes one of the six Degas picture variants.
type Format struct {
	Name        string
	ID          uint16
	MinSize     int // smallest well-formed file in bytes
	Width       int
	Height      int
	Log2Planes  int
	PaletteSize int // palette words the format actually uses
	Compressed  bool
}

const (
	headerSize  = 34
	paletteSlot = 16
	pixelBytes  = 32000
)

var formats = [6]Format{
	{"PI1", 0x0000, 32034, 320, 200, 2, 16, false},
	{"PC1", 0x8000, 1634, 320, 200, 2, 16, true},
	{"PI2", 0x0001, 32034, 640, 200, 1, 4, false},
	{"PC2", 0x8001, 839, 640, 200, 1, 4, true},
	{"PI3", 0x0002, 32034, 640, 400, 0, 0, false},
	{"PC3", 0x8002, 854, 640, 400, 0, 0, true},
}

// ByID returns the format matching a file's magic id.
func ByID(id uint16) (Format, bool) {
	for _, f := range formats {
		if f.ID == id {
			return f, true
		}
	}
	return Format{}, false
}

// ByDimensions returns the raw format matching a picture size. Only
// the three exact width by height pairs are valid.
func ByDimensions(w, h int) (Format, bool) {
	for _, f := range formats {
		if !f.Compressed && f.Width == w && f.Height == h {
			return f, true
		}
	}
	return Format{}, false
}

// Variant returns the raw or compressed counterpart of f.
func (f Format) Variant(compressed bool) Format {
	if f.Compressed == compressed {
		return f
	}
	g, _ := ByID(f.ID ^ 0x8000)
	return g
}

// Planes returns the number of bitplanes: 4, 2 or 1.
func (f Format) Planes() int {
	return 1 << f.Log2Planes
}

// MaxColors returns how many distinct colors a picture may use: 16, 4
// or 2. The monochrome formats have no palette words but still index
// two fixed colors.
func (f Format) MaxColors() int {
	return 1 << f.Planes()
}

// Ext returns the conventional file extension, ".pi1" through ".pc3".
func (f Format) Ext() string {
	c := byte('i')
	if f.Compressed {
		c = 'c'
	}
	return string([]byte{'.', 'p', c, '3' - byte(f.Log2Planes)})
}

func (f Format) String() string {
	return f.Name
}
