/*
Package pngtopi1 converts raster images to and from the Atari ST Degas
picture formats PI1, PI2, PI3 and their compressed PC1, PC2, PC3
variants.

PNG, GIF and JPEG input is quantized to the palette of the Degas
format matching its dimensions; Degas input converts back to PNG, or
re-encodes raw or compressed when a compression is forced.
*/
package pngtopi1

import (
	"io"
	"log"

	"github.com/benjihan/pngtopi1/stcolor"
)

// Converter converts image files one at a time. The color model is
// fixed at construction and shared by every conversion, so one
// Converter may run conversions from several goroutines.
type Converter struct {
	model *stcolor.Model
	info  *log.Logger
	debug *log.Logger
}

// New returns a Converter using the given color conversion mode.
// Either logger may be nil to silence that tier.
func New(mode stcolor.Mode, info, debug *log.Logger) *Converter {
	if info == nil {
		info = log.New(io.Discard, "", 0)
	}
	if debug == nil {
		debug = log.New(io.Discard, "", 0)
	}
	return &Converter{
		model: stcolor.New(mode),
		info:  info,
		debug: debug,
	}
}
