package canvas

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cfg "github.com/OldSensei/simple-animation-viewer/pkg/config"
)

func writePNG(t *testing.T, w, h int, c color.Color) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	path := filepath.Join(t.TempDir(), "frame.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, Stretch, m)

	m, err = ParseMode("fit")
	require.NoError(t, err)
	assert.Equal(t, Fit, m)

	_, err = ParseMode("crop")
	assert.Error(t, err)
}

func TestDrawStretch(t *testing.T) {
	path := writePNG(t, 4, 2, color.NRGBA{255, 0, 0, 255})
	c := New(16, 16)

	frame, err := c.Draw(path)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 16, 16), frame.Bounds())

	for _, p := range []image.Point{{0, 0}, {15, 15}, {8, 8}} {
		r, g, b, _ := frame.At(p.X, p.Y).RGBA()
		assert.Greater(t, r, uint32(0xf000), "pixel %v", p)
		assert.Less(t, g, uint32(0x1000))
		assert.Less(t, b, uint32(0x1000))
	}
}

func TestDrawFitLetterboxes(t *testing.T) {
	path := writePNG(t, 4, 2, color.NRGBA{0, 255, 0, 255})
	c := New(16, 16, WithMode(Fit))

	frame, err := c.Draw(path)
	require.NoError(t, err)

	// 4x2 fits as 16x8, centered vertically
	r, g, b, _ := frame.At(8, 0).RGBA()
	assert.Zero(t, r+g+b, "top bar should be black")
	_, g, _, _ = frame.At(8, 8).RGBA()
	assert.Greater(t, g, uint32(0xf000))
	r, g, b, _ = frame.At(8, 15).RGBA()
	assert.Zero(t, r+g+b, "bottom bar should be black")
}

func TestDrawMissingFile(t *testing.T) {
	_, err := New(8, 8).Draw(filepath.Join(t.TempDir(), "nope.png"))
	assert.Error(t, err)
}

func TestDrawNotAnImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.png")
	require.NoError(t, os.WriteFile(path, []byte("definitely not a png"), 0o644))
	_, err := New(8, 8).Draw(path)
	assert.Error(t, err)
}

func TestFitSize(t *testing.T) {
	testCases := []struct {
		sw, sh, w, h int
		wantW, wantH int
	}{
		{4, 2, 16, 16, 16, 8},
		{1920, 1080, 1280, 720, 1280, 720},
		{1000, 2000, 1920, 1080, 540, 1080},
		{0, 0, 10, 10, 10, 10},
	}
	for _, tc := range testCases {
		w, h := fitSize(tc.sw, tc.sh, tc.w, tc.h)
		assert.Equal(t, tc.wantW, w)
		assert.Equal(t, tc.wantH, h)
	}
}

func TestCache(t *testing.T) {
	path := writePNG(t, 2, 2, color.White)
	c := New(4, 4, WithCache())

	first, err := c.Load(path)
	require.NoError(t, err)
	require.NoError(t, os.Remove(path))

	second, err := c.Load(path)
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestPackRGB32(t *testing.T) {
	frame := image.NewRGBA(image.Rect(0, 0, 2, 1))
	frame.Set(0, 0, color.RGBA{10, 20, 30, 255})
	frame.Set(1, 0, color.RGBA{40, 50, 60, 255})

	buf := PackRGB32(frame)
	assert.Equal(t, []byte{30, 20, 10, 255, 60, 50, 40, 255}, buf)
	assert.Len(t, buf, cfg.FrameSize(2, 1))
}
