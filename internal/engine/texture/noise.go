package texture

import (
	"image"
	"math"

	"github.com/aquilax/go-perlin"
)

// Ripple normal map settings.
const (
	rippleAlpha    = 2
	rippleBeta     = 2
	rippleOctaves  = 3
	rippleCells    = 8
	rippleStrength = 6
)

// RippleNormal returns a seamlessly tiling size x size normal map built from
// Perlin noise. It stands in for the downloaded water normals until they
// arrive, or for good if the download fails.
func RippleNormal(size int, seed int64) *image.RGBA {
	if size <= 0 {
		return image.NewRGBA(image.Rect(0, 0, 0, 0))
	}

	p := perlin.NewPerlin(rippleAlpha, rippleBeta, rippleOctaves, seed)
	n := float64(size)

	// Blend four offset samples so opposite edges match.
	height := make([]float64, size*size)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			fx, fy := float64(x), float64(y)
			u, v := fx/n, fy/n
			s := func(dx, dy float64) float64 {
				return p.Noise2D((fx-dx)/n*rippleCells, (fy-dy)/n*rippleCells)
			}
			height[y*size+x] = s(0, 0)*(1-u)*(1-v) +
				s(n, 0)*u*(1-v) +
				s(0, n)*(1-u)*v +
				s(n, n)*u*v
		}
	}

	at := func(x, y int) float64 {
		x = (x + size) % size
		y = (y + size) % size
		return height[y*size+x]
	}

	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx := (at(x+1, y) - at(x-1, y)) * rippleStrength
			dy := (at(x, y+1) - at(x, y-1)) * rippleStrength
			nx, ny, nz := -dx, -dy, 1.0
			l := math.Sqrt(nx*nx + ny*ny + nz*nz)

			i := img.PixOffset(x, y)
			img.Pix[i] = encodeNormal(nx / l)
			img.Pix[i+1] = encodeNormal(ny / l)
			img.Pix[i+2] = encodeNormal(nz / l)
			img.Pix[i+3] = 255
		}
	}
	return img
}

// encodeNormal maps [-1,1] to [0,255].
func encodeNormal(v float64) uint8 {
	return uint8(math.Round((v*0.5 + 0.5) * 255))
}
