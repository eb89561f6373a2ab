// Package palette collects the distinct RGB444 colors of a sampled
// image into the fixed-capacity color table a Degas picture stores.
package palette

import (
	"errors"
	"fmt"
	"sort"

	"github.com/benjihan/pngtopi1/pixel"
	"github.com/benjihan/pngtopi1/stcolor"
)

// ErrTooManyColors reports an image with more distinct quantized colors
// than the target format can index.
var ErrTooManyColors = errors.New("palette: too many colors")

// Table holds the distinct colors of one picture in luminance order,
// darkest first, together with their pixel counts.
type Table struct {
	colors []stcolor.Color
	counts []uint32
	index  map[stcolor.Color]uint8
}

// Build samples every pixel of a w by h raster and collects the
// distinct quantized colors. More than capacity distinct colors is an
// error; nothing gets dropped or merged.
func Build(s pixel.Sampler, w, h, capacity int) (*Table, error) {
	var hist [4096]uint32
	n := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := s.At(x, y)
			if hist[c] == 0 {
				n++
			}
			hist[c]++
		}
	}
	if n > capacity {
		return nil, fmt.Errorf("%w: image has %d, format allows %d", ErrTooManyColors, n, capacity)
	}

	t := &Table{
		colors: make([]stcolor.Color, 0, n),
		counts: make([]uint32, 0, n),
		index:  make(map[stcolor.Color]uint8, n),
	}
	for c, k := range hist {
		if k != 0 {
			t.colors = append(t.colors, stcolor.Color(c))
			t.counts = append(t.counts, k)
		}
	}
	sort.Sort(byLuma{t.colors, t.counts})
	for i, c := range t.colors {
		t.index[c] = uint8(i)
	}
	return t, nil
}

// Len returns the number of distinct colors.
func (t *Table) Len() int { return len(t.colors) }

// Color returns the i-th color in luminance order.
func (t *Table) Color(i int) stcolor.Color { return t.colors[i] }

// Count returns how many pixels use the i-th color.
func (t *Table) Count(i int) uint32 { return t.counts[i] }

// Index returns the table position of c.
func (t *Table) Index(c stcolor.Color) (uint8, bool) {
	i, ok := t.index[c]
	return i, ok
}

// Slots returns the palette as stored on disk, padded to size words.
// Unused slots are zero; an empty table stores white in slot 0.
func (t *Table) Slots(size int) []stcolor.Color {
	out := make([]stcolor.Color, size)
	copy(out, t.colors)
	if len(t.colors) == 0 && size > 0 {
		out[0] = stcolor.White
	}
	return out
}

type byLuma struct {
	colors []stcolor.Color
	counts []uint32
}

func (s byLuma) Len() int { return len(s.colors) }

func (s byLuma) Less(i, j int) bool {
	if li, lj := s.colors[i].Luma(), s.colors[j].Luma(); li != lj {
		return li < lj
	}
	return s.colors[i] < s.colors[j]
}

func (s byLuma) Swap(i, j int) {
	s.colors[i], s.colors[j] = s.colors[j], s.colors[i]
	s.counts[i], s.counts[j] = s.counts[j], s.counts[i]
}
