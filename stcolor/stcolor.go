/*
Package stcolor converts color components between the 8-bit world of
decoded raster images and the 12-bit RGB444 color words of the Atari ST
hardware palette registers.

Two register conventions exist: the STf uses 3 bits per component in the
low bits of each nibble, the STe uses 4 bits per component with the extra
low bit stored in bit 3 of the nibble for backward compatibility. A Color
always carries the hardware nibble ordering so that palette words can be
written to and read from Degas files without further shuffling.
*/
package stcolor

// Fill selects how a quantized component is expanded back to 8 bits.
type Fill int

const (
	// FillZero pads the low bits with zeroes (3-bit 7 -> 0xE0).
	FillZero Fill = iota
	// FillLeft replicates the component bit pattern downwards
	// (3-bit 7 -> 0xFF, 3-bit 4 -> 0x92).
	FillLeft
	// FillFull rescales the component over the full 8-bit range,
	// rounding to nearest (3-bit 7 -> 0xFF).
	FillFull
)

// Mode is one of the six color conversion modes: STf (3 bits per
// component) or STe (4 bits per component), combined with a Fill policy.
type Mode struct {
	STE  bool
	Fill Fill
}

// Color is an opaque 12-bit RGB444 value, 4 bits per channel in R,G,B
// order, each nibble in hardware register layout.
type Color uint16

// White is the brightest representable color.
const White Color = 0xFFF

// ror4 rotates the low bit of a 4-bit group to its high bit, turning a
// plain component value into its hardware nibble. rol4 is the inverse.
func ror4(n uint8) uint8 {
	return (n&1)<<3 | (n>>1)&7
}

func rol4(n uint8) uint8 {
	return (n<<1)&0xe | n>>3
}

// Pack assembles three hardware nibbles into a Color.
func Pack(r, g, b uint8) Color {
	return Color(r&15)<<8 | Color(g&15)<<4 | Color(b&15)
}

// RGB returns the three hardware nibbles of c.
func (c Color) RGB() (r, g, b uint8) {
	return uint8(c >> 8 & 15), uint8(c >> 4 & 15), uint8(c & 15)
}

// STE reports whether any component of c uses the STe extension bit.
// Such a color cannot be represented exactly by a 3-bit conversion mode.
func (c Color) STE() bool {
	return c&0x888 != 0
}

// Luma is the ordering key used to assign palette indices: twice the red
// component plus four times the green plus the blue, each taken as its
// bit-rotated hardware nibble. Darker colors sort first.
func (c Color) Luma() int {
	r, g, b := c.RGB()
	return 2*int(r) + 4*int(g) + int(b)
}

// Model holds the component conversion tables for one Mode. A Model is
// built once per conversion run and never mutated afterwards, so it may
// be shared by concurrent conversions.
type Model struct {
	mode Mode
	to8  [16]uint8
	to4  [256]uint8
}

// New builds the expansion and quantization tables for mode.
func New(mode Mode) *Model {
	m := &Model{mode: mode}
	bits := m.Bits()
	for n := 0; n < 16; n++ {
		v := uint8(n) & 7
		if mode.STE {
			v = rol4(uint8(n))
		}
		m.to8[n] = expand(v, bits, mode.Fill)
	}
	for v := 0; v < 256; v++ {
		if mode.STE {
			m.to4[v] = ror4(uint8(v) >> 4)
		} else {
			m.to4[v] = uint8(v) >> 5
		}
	}
	return m
}

// Mode returns the mode the tables were built for.
func (m *Model) Mode() Mode {
	return m.mode
}

// Bits returns the component width of the active mode: 3 or 4.
func (m *Model) Bits() int {
	if m.mode.STE {
		return 4
	}
	return 3
}

// Expand converts a hardware nibble to an 8-bit component. In 3-bit
// modes the STe extension bit is ignored, losing information.
func (m *Model) Expand(n uint8) uint8 {
	return m.to8[n&15]
}

// Quantize converts an 8-bit component to a hardware nibble: the high
// nibble of v, bit-rotated in STe mode, reduced to 3 bits otherwise.
func (m *Model) Quantize(v uint8) uint8 {
	return m.to4[v]
}

// ExpandDepth widens a bits-wide value to 8 bits using the model's fill
// policy. Gray sources of depth 1, 2 and 4 are expanded this way before
// quantization.
func (m *Model) ExpandDepth(v uint8, bits int) uint8 {
	return expand(v, bits, m.mode.Fill)
}

// Color quantizes an 8-bit RGB triple into one Color word.
func (m *Model) Color(r, g, b uint8) Color {
	return Pack(m.to4[r], m.to4[g], m.to4[b])
}

// RGB expands a Color word into an 8-bit RGB triple.
func (m *Model) RGB(c Color) (r, g, b uint8) {
	cr, cg, cb := c.RGB()
	return m.to8[cr], m.to8[cg], m.to8[cb]
}

func expand(v uint8, bits int, fill Fill) uint8 {
	switch fill {
	case FillLeft:
		o := v << (8 - bits)
		for s := bits; s < 8; s <<= 1 {
			o |= o >> s
		}
		return o
	case FillFull:
		max := 1<<bits - 1
		return uint8((int(v)*255 + max/2) / max)
	default:
		return v << (8 - bits)
	}
}
