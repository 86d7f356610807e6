package texture

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"net/url"
	"path"
	"strings"
)

// TGA image types understood by decodeTGA.
const (
	tgaTrueColor    = 2
	tgaTrueColorRLE = 10
)

const tgaHeaderSize = 18

// ErrTGA is wrapped by every TGA decoding failure.
var ErrTGA = errors.New("tga")

// isTGA reports whether src names a .tga file. TGA has no magic number, so
// image.Decode cannot detect it.
func isTGA(src string) bool {
	p := src
	if u, err := url.Parse(src); err == nil && u.Path != "" {
		p = u.Path
	}
	return strings.EqualFold(path.Ext(p), ".tga")
}

// decodeTGA decodes 24 or 32 bit true-colour TGA, raw or run-length encoded.
func decodeTGA(data []byte) (*image.RGBA, error) {
	if len(data) < tgaHeaderSize {
		return nil, fmt.Errorf("%w: header truncated", ErrTGA)
	}

	idLength := int(data[0])
	mapped := data[1] != 0
	kind := data[2]
	width := int(data[12]) | int(data[13])<<8
	height := int(data[14]) | int(data[15])<<8
	bpp := int(data[16])
	topDown := data[17]&0x20 != 0

	switch {
	case mapped:
		return nil, fmt.Errorf("%w: colour-mapped images are not supported", ErrTGA)
	case kind != tgaTrueColor && kind != tgaTrueColorRLE:
		return nil, fmt.Errorf("%w: unsupported image type %d", ErrTGA, kind)
	case bpp != 24 && bpp != 32:
		return nil, fmt.Errorf("%w: unsupported bit depth %d", ErrTGA, bpp)
	case width == 0 || height == 0:
		return nil, fmt.Errorf("%w: empty image", ErrTGA)
	}

	offset := tgaHeaderSize + idLength
	if offset > len(data) {
		return nil, fmt.Errorf("%w: id field truncated", ErrTGA)
	}

	r := &tgaReader{
		img:     image.NewRGBA(image.Rect(0, 0, width, height)),
		data:    data[offset:],
		stride:  bpp / 8,
		topDown: topDown,
	}

	var err error
	if kind == tgaTrueColor {
		err = r.readRaw(width * height)
	} else {
		err = r.readRLE()
	}
	if err != nil {
		return nil, err
	}
	return r.img, nil
}

type tgaReader struct {
	img     *image.RGBA
	data    []byte
	pos     int
	pixel   int
	stride  int
	topDown bool
}

func (r *tgaReader) total() int {
	b := r.img.Bounds()
	return b.Dx() * b.Dy()
}

// next reads one BGR(A) pixel.
func (r *tgaReader) next() (color.RGBA, error) {
	if r.pos+r.stride > len(r.data) {
		return color.RGBA{}, fmt.Errorf("%w: pixel data truncated", ErrTGA)
	}
	p := r.data[r.pos : r.pos+r.stride]
	r.pos += r.stride

	c := color.RGBA{R: p[2], G: p[1], B: p[0], A: 255}
	if r.stride == 4 {
		c.A = p[3]
	}
	return c, nil
}

// put writes c at the current pixel. Rows are stored bottom-up unless the
// descriptor says otherwise.
func (r *tgaReader) put(c color.RGBA) {
	w := r.img.Bounds().Dx()
	h := r.img.Bounds().Dy()
	x, y := r.pixel%w, r.pixel/w
	if !r.topDown {
		y = h - 1 - y
	}
	r.img.SetRGBA(x, y, c)
	r.pixel++
}

func (r *tgaReader) readRaw(n int) error {
	for i := 0; i < n && r.pixel < r.total(); i++ {
		c, err := r.next()
		if err != nil {
			return err
		}
		r.put(c)
	}
	return nil
}

func (r *tgaReader) readRLE() error {
	for r.pixel < r.total() {
		if r.pos >= len(r.data) {
			return fmt.Errorf("%w: packet data truncated", ErrTGA)
		}
		header := r.data[r.pos]
		r.pos++
		count := int(header&0x7f) + 1

		if header&0x80 == 0 {
			if err := r.readRaw(count); err != nil {
				return err
			}
			continue
		}

		c, err := r.next()
		if err != nil {
			return err
		}
		for i := 0; i < count && r.pixel < r.total(); i++ {
			r.put(c)
		}
	}
	return nil
}
