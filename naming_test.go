package pngtopi1

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOutputPath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		sameDir bool
		ext     string
		want    string
	}{
		{"swap extension", "shot.png", false, ".pi1", "shot.pi1"},
		{"drop directory", filepath.Join("a", "b", "shot.png"), false, ".pi1", "shot.pi1"},
		{"keep directory", filepath.Join("a", "b", "shot.png"), true, ".pi1", filepath.Join("a", "b", "shot.pi1")},
		{"no extension", "shot", false, ".pc2", "shot.pc2"},
		{"dotfile keeps name", ".hidden", false, ".png", ".hidden.png"},
		{"dotfile in directory", filepath.Join("d", ".hidden"), true, ".png", filepath.Join("d", ".hidden.png")},
		{"last extension only", "a.b.c", false, ".pi3", "a.b.pi3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, outputPath(tt.input, tt.sameDir, tt.ext))
		})
	}
}

func TestGuessCompression(t *testing.T) {
	tests := []struct {
		output string
		want   Compression
	}{
		{"shot.pc1", CompressRLE},
		{"shot.pc2", CompressRLE},
		{"shot.pc3", CompressRLE},
		{"shot.PC3", CompressRLE},
		{"shot.Pc2", CompressRLE},
		{"shot.pi1", CompressRaw},
		{"shot.pc4", CompressRaw},
		{"shot.pc0", CompressRaw},
		{"shot.pcx1", CompressRaw},
		{"shot.png", CompressRaw},
		{"shot", CompressRaw},
		{"pc1", CompressRaw},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, guessCompression(tt.output), tt.output)
	}
}
