/*
Package bitplane packs palette indices into the interleaved bitplane
words of the Atari ST framebuffer and back.

Each row splits into 16-pixel tiles. A tile stores one big-endian
16-bit word per plane, planes consecutive, and bit 15-k of plane z
holds bit z of the k-th pixel index. Widths are multiples of 16.
*/
package bitplane

import "encoding/binary"

// Pack converts a w by h matrix of palette indices into interleaved
// bitplane words. The result holds w*h*planes/8 bytes where
// planes = 1<<log2Planes.
func Pack(pix []uint8, w, h, log2Planes int) []byte {
	planes := 1 << log2Planes
	out := make([]byte, w*h*planes/8)
	o := 0
	for y := 0; y < h; y++ {
		row := pix[y*w : (y+1)*w]
		for x := 0; x < w; x += 16 {
			var words [4]uint16
			for k := 0; k < 16; k++ {
				idx := row[x+k]
				for z := 0; z < planes; z++ {
					words[z] |= uint16(idx>>z&1) << (15 - k)
				}
			}
			for z := 0; z < planes; z++ {
				binary.BigEndian.PutUint16(out[o:], words[z])
				o += 2
			}
		}
	}
	return out
}

// Unpack converts interleaved bitplane words back into one palette
// index per pixel.
func Unpack(data []byte, w, h, log2Planes int) []uint8 {
	planes := 1 << log2Planes
	pix := make([]uint8, w*h)
	o := 0
	for y := 0; y < h; y++ {
		row := pix[y*w : (y+1)*w]
		for x := 0; x < w; x += 16 {
			for z := 0; z < planes; z++ {
				word := binary.BigEndian.Uint16(data[o:])
				o += 2
				for k := 0; k < 16; k++ {
					row[x+k] |= uint8(word>>(15-k)&1) << z
				}
			}
		}
	}
	return pix
}

// ExtractRowPlane gathers the plane-z words of one packed row into dst,
// dropping the interleave. dst needs len(row)/planes bytes.
func ExtractRowPlane(dst, row []byte, plane, log2Planes int) {
	step := 2 << log2Planes
	i := 0
	for o := plane * 2; o < len(row); o += step {
		dst[i] = row[o]
		dst[i+1] = row[o+1]
		i += 2
	}
}

// InsertRowPlane scatters contiguous plane-z words from src back into
// the interleaved packed row. It is the inverse of ExtractRowPlane.
func InsertRowPlane(row, src []byte, plane, log2Planes int) {
	step := 2 << log2Planes
	i := 0
	for o := plane * 2; o < len(row); o += step {
		row[o] = src[i]
		row[o+1] = src[i+1]
		i += 2
	}
}
