package pngtopi1

import (
	"path/filepath"
	"strings"
)

// outputPath derives an output file name from the input path: the
// input's base name with its last extension replaced by ext. A
// leading dot is part of the name, not an extension, so dotfiles keep
// their full name. With sameDir the result stays next to the input,
// otherwise it lands in the current directory.
func outputPath(input string, sameDir bool, ext string) string {
	base := filepath.Base(input)
	if dot := strings.LastIndexByte(base, '.'); dot > 0 {
		base = base[:dot]
	}
	if sameDir {
		return filepath.Join(filepath.Dir(input), base+ext)
	}
	return base + ext
}

// guessCompression picks a compression from an explicit output name:
// a four character ".pc1" to ".pc3" extension, any case, selects RLE
// and everything else selects raw.
func guessCompression(output string) Compression {
	ext := filepath.Ext(filepath.Base(output))
	if len(ext) == 4 {
		p := ext[1] | 0x20
		c := ext[2] | 0x20
		if p == 'p' && c == 'c' && ext[3] >= '1' && ext[3] <= '3' {
			return CompressRLE
		}
	}
	return CompressRaw
}
