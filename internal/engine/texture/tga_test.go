package texture

import (
	"context"
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tgaHeader(kind byte, w, h int, bpp byte, descriptor byte) []byte {
	hdr := make([]byte, tgaHeaderSize)
	hdr[2] = kind
	hdr[12], hdr[13] = byte(w), byte(w>>8)
	hdr[14], hdr[15] = byte(h), byte(h>>8)
	hdr[16] = bpp
	hdr[17] = descriptor
	return hdr
}

func TestDecodeTGAUncompressedBottomUp(t *testing.T) {
	// 2x2, 24 bit, first stored row is the bottom row.
	data := tgaHeader(tgaTrueColor, 2, 2, 24, 0)
	data = append(data,
		0, 0, 255, 0, 255, 0, // bottom: red, green
		255, 0, 0, 255, 255, 255, // top: blue, white
	)

	img, err := decodeTGA(data)
	require.NoError(t, err)

	assert.Equal(t, color.RGBA{R: 255, A: 255}, img.RGBAAt(0, 1))
	assert.Equal(t, color.RGBA{G: 255, A: 255}, img.RGBAAt(1, 1))
	assert.Equal(t, color.RGBA{B: 255, A: 255}, img.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, img.RGBAAt(1, 0))
}

func TestDecodeTGARLETopDown(t *testing.T) {
	// 3x1, 32 bit: one run of two, then one raw pixel.
	data := tgaHeader(tgaTrueColorRLE, 3, 1, 32, 0x20)
	data = append(data,
		0x81, 255, 128, 128, 200,
		0x00, 10, 20, 30, 40,
	)

	img, err := decodeTGA(data)
	require.NoError(t, err)

	run := color.RGBA{R: 128, G: 128, B: 255, A: 200}
	assert.Equal(t, run, img.RGBAAt(0, 0))
	assert.Equal(t, run, img.RGBAAt(1, 0))
	assert.Equal(t, color.RGBA{R: 30, G: 20, B: 10, A: 40}, img.RGBAAt(2, 0))
}

func TestDecodeTGAErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"short header", []byte{0, 0, 2}},
		{"colour mapped", func() []byte { h := tgaHeader(tgaTrueColor, 1, 1, 24, 0); h[1] = 1; return h }()},
		{"grayscale", tgaHeader(3, 1, 1, 8, 0)},
		{"16 bit", tgaHeader(tgaTrueColor, 1, 1, 16, 0)},
		{"empty", tgaHeader(tgaTrueColor, 0, 1, 24, 0)},
		{"truncated pixels", append(tgaHeader(tgaTrueColor, 2, 1, 24, 0), 1, 2, 3)},
		{"truncated packets", append(tgaHeader(tgaTrueColorRLE, 2, 1, 24, 0), 0x80, 1, 2, 3)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeTGA(tt.data)
			if !errors.Is(err, ErrTGA) {
				t.Errorf("decodeTGA() error = %v, want ErrTGA", err)
			}
		})
	}
}

func TestIsTGA(t *testing.T) {
	tests := []struct {
		src  string
		want bool
	}{
		{"water.tga", true},
		{"/tmp/WATER.TGA", true},
		{"https://example.com/normals.tga?v=2", true},
		{"https://example.com/normals.jpg", false},
		{"file:///tmp/n.png", false},
	}
	for _, tt := range tests {
		if got := isTGA(tt.src); got != tt.want {
			t.Errorf("isTGA(%q) = %v, want %v", tt.src, got, tt.want)
		}
	}
}

func TestLoadTGAFile(t *testing.T) {
	data := tgaHeader(tgaTrueColor, 2, 2, 24, 0)
	for i := 0; i < 4; i++ {
		data = append(data, 255, 128, 128)
	}
	path := filepath.Join(t.TempDir(), "flat.tga")
	require.NoError(t, os.WriteFile(path, data, 0644))

	img, err := NewLoader(4).Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 4, img.Bounds().Dx())
	c := img.RGBAAt(2, 2)
	assert.InDelta(t, 128, int(c.R), 1)
	assert.InDelta(t, 255, int(c.B), 1)
}
