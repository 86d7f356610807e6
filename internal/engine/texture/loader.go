// Package texture fetches, decodes and resamples texture images.
package texture

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"go.uber.org/zap"

	"github.com/Faultbox/glasspool/internal/logger"
)

// MaxDownloadBytes caps remote texture size.
const MaxDownloadBytes = 32 << 20

// ErrEmptySource is returned when no texture location is configured.
var ErrEmptySource = errors.New("empty texture source")

// Result is the outcome of an asynchronous load.
type Result struct {
	Image *image.RGBA
	Err   error
}

// Loader fetches, decodes and resamples textures to a fixed square size.
type Loader struct {
	Client *http.Client
	Size   int
}

// NewLoader creates a loader producing size x size images.
func NewLoader(size int) *Loader {
	return &Loader{
		Client: &http.Client{Timeout: 30 * time.Second},
		Size:   size,
	}
}

// Load fetches src (http(s) URL, file:// URL or local path) and returns it
// resampled to Size x Size.
func (l *Loader) Load(ctx context.Context, src string) (*image.RGBA, error) {
	data, err := Fetch(ctx, l.Client, src)
	if err != nil {
		return nil, err
	}

	var (
		img    image.Image
		format = "tga"
	)
	if isTGA(src) {
		img, err = decodeTGA(data)
	} else {
		img, format, err = image.Decode(bytes.NewReader(data))
	}
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", src, err)
	}

	b := img.Bounds()
	logger.Debug("texture decoded",
		zap.String("src", src),
		zap.String("format", format),
		zap.Int("width", b.Dx()),
		zap.Int("height", b.Dy()))

	return Resize(img, l.Size), nil
}

// LoadAsync runs Load in a goroutine. The channel receives exactly one
// Result and is then closed. Cancelling ctx aborts the download.
func (l *Loader) LoadAsync(ctx context.Context, src string) <-chan Result {
	out := make(chan Result, 1)
	go func() {
		defer close(out)
		img, err := l.Load(ctx, src)
		out <- Result{Image: img, Err: err}
	}()
	return out
}

// Fetch reads the raw bytes behind src.
func Fetch(ctx context.Context, client *http.Client, src string) ([]byte, error) {
	if src == "" {
		return nil, ErrEmptySource
	}

	u, err := url.Parse(src)
	if err != nil || u.Scheme == "" || len(u.Scheme) == 1 {
		// Plain path (a one-letter scheme is a Windows drive).
		return readFile(src)
	}

	switch u.Scheme {
	case "file":
		return readFile(u.Path)
	case "http", "https":
	default:
		return nil, fmt.Errorf("unsupported texture scheme %q", u.Scheme)
	}

	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", src, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: %s", src, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxDownloadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", src, err)
	}
	if len(data) > MaxDownloadBytes {
		return nil, fmt.Errorf("texture %s larger than %d bytes", src, MaxDownloadBytes)
	}
	return data, nil
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading texture: %w", err)
	}
	return data, nil
}

// Resize resamples img to size x size with Catmull-Rom filtering.
func Resize(img image.Image, size int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Src, nil)
	return dst
}
