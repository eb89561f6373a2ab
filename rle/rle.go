/*
Package rle implements the PackBits-style run-length coding used by the
compressed Degas picture formats.

A control byte c below 128 copies c+1 literal bytes. A control byte of
128 or more repeats the following byte 257-c times, so a fill covers 2
to 129 bytes and a fill of one byte cannot be expressed. Each encoded
unit covers exactly one row of one bitplane and never crosses into the
next.
*/
package rle

import (
	"errors"
	"fmt"
)

var (
	// ErrOverflow reports an opcode that would write past the end of
	// the row being decoded.
	ErrOverflow = errors.New("rle: opcode overflows row")

	// ErrTruncated reports an encoded stream that ends before the row
	// is complete.
	ErrTruncated = errors.New("rle: truncated stream")
)

// MaxEncodedLen returns the worst-case encoded size of n raw bytes.
// Input alternating a lone literal with a two-byte run costs four
// output bytes per three input bytes, since the literal needs its own
// copy opcode and the run its own fill opcode, so the bound is 2*n.
func MaxEncodedLen(n int) int {
	return 2 * n
}

// EncodeRow compresses one row-plane into dst and returns the number
// of bytes written. dst must hold at least MaxEncodedLen(len(src))
// bytes. Runs of two or more identical bytes become fills, everything
// else is copied literally.
func EncodeRow(dst, src []byte) int {
	w, lit := 0, 0
	for i := 0; i < len(src); {
		j := i + 1
		for j < len(src) && src[j] == src[i] {
			j++
		}
		if j-i < 2 {
			i = j
			continue
		}
		w += copyLiterals(dst[w:], src[lit:i])
		w += repeatByte(dst[w:], src[i], j-i)
		i, lit = j, j
	}
	return w + copyLiterals(dst[w:], src[lit:])
}

func copyLiterals(dst, src []byte) int {
	w := 0
	for len(src) > 0 {
		c := len(src)
		if c > 128 {
			c = 128
		}
		dst[w] = byte(c - 1)
		w++
		w += copy(dst[w:], src[:c])
		src = src[c:]
	}
	return w
}

// repeatByte emits fill opcodes for a run of n identical bytes. Chunks
// take up to 129 bytes, except that a remainder of exactly 130 splits
// 128+2 so no chunk of one is ever left over.
func repeatByte(dst []byte, v byte, n int) int {
	w := 0
	for n >= 2 {
		c := n
		if c > 129 {
			c = 129
			if n == 130 {
				c = 128
			}
		}
		dst[w] = byte(257 - c)
		dst[w+1] = v
		w += 2
		n -= c
	}
	return w
}

// DecodeRow expands opcodes from src until dst is full and returns how
// many bytes of src it consumed. Trailing src bytes are left untouched
// for the next row.
func DecodeRow(dst, src []byte) (int, error) {
	o, i := 0, 0
	for o < len(dst) {
		if i == len(src) {
			return i, fmt.Errorf("%w: got %d of %d row bytes", ErrTruncated, o, len(dst))
		}
		c := int(src[i])
		i++
		if c < 128 {
			n := c + 1
			if o+n > len(dst) {
				return i, fmt.Errorf("%w: %d literals at offset %d", ErrOverflow, n, o)
			}
			if i+n > len(src) {
				return i, fmt.Errorf("%w: %d literals missing", ErrTruncated, i+n-len(src))
			}
			copy(dst[o:], src[i:i+n])
			o += n
			i += n
		} else {
			n := 257 - c
			if o+n > len(dst) {
				return i, fmt.Errorf("%w: fill of %d at offset %d", ErrOverflow, n, o)
			}
			if i == len(src) {
				return i, fmt.Errorf("%w: fill value missing", ErrTruncated)
			}
			v := src[i]
			i++
			for k := 0; k < n; k++ {
				dst[o+k] = v
			}
			o += n
		}
	}
	return i, nil
}
