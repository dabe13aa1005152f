package canvas

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"os"
	"sync"

	// decoders
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	cfg "github.com/OldSensei/simple-animation-viewer/pkg/config"
	"github.com/OldSensei/simple-animation-viewer/pkg/logger"
)

type Mode string

const (
	// Stretch scales the image to exactly fill the frame.
	Stretch Mode = "stretch"
	// Fit keeps the aspect ratio and letterboxes on black.
	Fit Mode = "fit"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", Stretch:
		return Stretch, nil
	case Fit:
		return Fit, nil
	default:
		return "", fmt.Errorf("unknown scale mode %q (expected stretch or fit)", s)
	}
}

var background = image.NewUniform(color.Black)

// Canvas composes images into fixed size frames.
type Canvas struct {
	width  int
	height int
	mode   Mode

	mu    sync.Mutex
	cache map[string]image.Image
}

type Option func(*Canvas)

// WithCache keeps every decoded image in memory, keyed by path.
func WithCache() Option {
	return func(c *Canvas) {
		c.cache = make(map[string]image.Image)
	}
}

func WithMode(m Mode) Option {
	return func(c *Canvas) {
		c.mode = m
	}
}

func New(width, height int, opts ...Option) *Canvas {
	c := &Canvas{width: width, height: height, mode: Stretch}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Canvas) Width() int  { return c.width }
func (c *Canvas) Height() int { return c.height }

// Load decodes the image at path, from cache when enabled.
func (c *Canvas) Load(path string) (image.Image, error) {
	if c.cache != nil {
		c.mu.Lock()
		img, ok := c.cache[path]
		c.mu.Unlock()
		if ok {
			return img, nil
		}
	}

	img, err := decode(path)
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		c.mu.Lock()
		c.cache[path] = img
		c.mu.Unlock()
	}
	return img, nil
}

func decode(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("cannot decode %s: %w", path, err)
	}
	logger.Log.WithField("scope", "canvas").Debugf("decoded %s (%s %dx%d)", path, format, img.Bounds().Dx(), img.Bounds().Dy())
	return img, nil
}

// Draw composes the image at path into a new frame.
func (c *Canvas) Draw(path string) (*image.RGBA, error) {
	img, err := c.Load(path)
	if err != nil {
		return nil, err
	}
	return c.Compose(img), nil
}

// Compose scales img into a width x height frame over a black background.
func (c *Canvas) Compose(img image.Image) *image.RGBA {
	frame := image.NewRGBA(image.Rect(0, 0, c.width, c.height))
	draw.Draw(frame, frame.Bounds(), background, image.Point{}, draw.Src)

	switch c.mode {
	case Fit:
		fw, fh := fitSize(img.Bounds().Dx(), img.Bounds().Dy(), c.width, c.height)
		fitted := imaging.Resize(img, fw, fh, imaging.Lanczos)
		offset := image.Pt((c.width-fw)/2, (c.height-fh)/2)
		draw.Draw(frame, fitted.Bounds().Add(offset), fitted, image.Point{}, draw.Over)
	default:
		draw.CatmullRom.Scale(frame, frame.Bounds(), img, img.Bounds(), draw.Over, nil)
	}
	return frame
}

// fitSize scales (sw, sh) to the largest size inside (w, h) with the same aspect ratio.
func fitSize(sw, sh, w, h int) (int, int) {
	if sw <= 0 || sh <= 0 {
		return w, h
	}
	scale := math.Min(float64(w)/float64(sw), float64(h)/float64(sh))
	fw := int(math.Round(float64(sw) * scale))
	fh := int(math.Round(float64(sh) * scale))
	return max(1, min(fw, w)), max(1, min(fh, h))
}

// PackRGB32 packs a frame into a top-down BGRX buffer, 4 bytes per pixel.
func PackRGB32(frame *image.RGBA) []byte {
	b := frame.Bounds()
	w, h := b.Dx(), b.Dy()
	stride := w * cfg.SizePixel
	buf := make([]byte, cfg.FrameSize(w, h))
	for y := 0; y < h; y++ {
		off := frame.PixOffset(b.Min.X, b.Min.Y+y)
		src := frame.Pix[off : off+stride]
		dst := buf[y*stride : (y+1)*stride]
		for x := 0; x < stride; x += cfg.SizePixel {
			dst[x] = src[x+2]
			dst[x+1] = src[x+1]
			dst[x+2] = src[x]
			dst[x+3] = 0xff
		}
	}
	return buf
}
