package video

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildArgs(t *testing.T) {
	o := Options{Width: 1920, Height: 1080, FPS: 30, BitrateKbps: 8000,
		Tags: map[string]string{"title": "walk", "comment": "sav:1"}}
	args := BuildArgs(o, "/tmp/out.mp4")
	joined := strings.Join(args, " ")

	assert.Contains(t, joined, "-f rawvideo -pix_fmt bgra -s 1920x1080 -r 30 -i pipe:0")
	assert.Contains(t, joined, "-c:v libx264 -b:v 8000k -pix_fmt yuv420p")
	assert.Contains(t, joined, "-metadata comment=sav:1 -metadata title=walk")
	assert.NotContains(t, joined, "pad=")
	assert.Equal(t, "/tmp/out.mp4", args[len(args)-1])
}

func TestBuildArgsOddSize(t *testing.T) {
	args := BuildArgs(Options{Width: 101, Height: 50, FPS: 25, BitrateKbps: 500}, "out.mp4")
	assert.Contains(t, strings.Join(args, " "), "-vf pad=ceil(iw/2)*2:ceil(ih/2)*2")
}

func TestNewFFmpegWriterValidates(t *testing.T) {
	_, err := NewFFmpegWriter(context.Background(), Options{Width: 0, Height: 10, FPS: 30, BitrateKbps: 1}, "x.mp4")
	assert.Error(t, err)

	_, err = NewFFmpegWriter(context.Background(),
		Options{Width: 16, Height: 16, FPS: 30, BitrateKbps: 100, FFmpeg: "definitely-not-ffmpeg-binary"},
		filepath.Join(t.TempDir(), "x.mp4"))
	assert.ErrorIs(t, err, ErrFFmpegMissing)
}

func newTestWriter(t *testing.T) (*FFmpegWriter, string) {
	t.Helper()
	if !Available("") {
		t.Skip("ffmpeg not installed")
	}
	out := filepath.Join(t.TempDir(), "out.mp4")
	w, err := NewFFmpegWriter(context.Background(), Options{Width: 32, Height: 16, FPS: 30, BitrateKbps: 200}, out)
	require.NoError(t, err)
	return w, out
}

func TestFFmpegWriterFinalize(t *testing.T) {
	w, out := newTestWriter(t)

	frame := make([]byte, 32*16*4)
	const d = TicksPerSecond / 30
	for i := int64(0); i < 10; i++ {
		require.NoError(t, w.WriteSample(Sample{Data: frame, Time: i * d, Duration: d}))
	}
	assert.Error(t, w.WriteSample(Sample{Data: frame[:10], Time: 10 * d, Duration: d}))
	assert.Error(t, w.WriteSample(Sample{Data: frame, Time: 0, Duration: d}))

	require.NoError(t, w.Finalize())
	info, err := os.Stat(out)
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	assert.ErrorIs(t, w.WriteSample(Sample{Data: frame}), ErrClosed)
	assert.ErrorIs(t, w.Finalize(), ErrClosed)
}

func TestFFmpegWriterAbort(t *testing.T) {
	w, out := newTestWriter(t)

	require.NoError(t, w.WriteSample(Sample{Data: make([]byte, 32*16*4), Duration: 1}))
	require.NoError(t, w.Abort())
	require.NoError(t, w.Abort())

	entries, err := os.ReadDir(filepath.Dir(out))
	require.NoError(t, err)
	assert.Empty(t, entries)
}
