package video

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"strconv"
	"strings"
	"sync"

	cfg "github.com/OldSensei/simple-animation-viewer/pkg/config"
	"github.com/OldSensei/simple-animation-viewer/pkg/logger"
	"github.com/OldSensei/simple-animation-viewer/pkg/storage"
)

var (
	ErrFFmpegMissing = errors.New("ffmpeg not found in PATH")
	ErrClosed        = errors.New("sink writer is closed")
)

// Ticks per second of sample times, 100ns units.
const TicksPerSecond = 10_000_000

// Sample is one packed frame with its presentation time and duration in 100ns units.
type Sample struct {
	Data     []byte
	Time     int64
	Duration int64
}

// SinkWriter multiplexes samples into a container file.
type SinkWriter interface {
	WriteSample(s Sample) error
	// Finalize flushes the stream and publishes the file.
	Finalize() error
	// Abort stops writing and removes anything partially written.
	Abort() error
}

type Options struct {
	Width       int
	Height      int
	FPS         int
	BitrateKbps int
	FFmpeg      string
	Tags        map[string]string
}

func (o Options) binary() string {
	if o.FFmpeg == "" {
		return cfg.FFmpegBinary
	}
	return o.FFmpeg
}

// Available reports whether the ffmpeg binary can be found.
func Available(binary string) bool {
	if binary == "" {
		binary = cfg.FFmpegBinary
	}
	_, err := exec.LookPath(binary)
	return err == nil
}

// BuildArgs returns the ffmpeg arguments that read raw BGRA frames from stdin
// and encode them as H.264 into an MP4 at out.
func BuildArgs(o Options, out string) []string {
	args := []string{
		"-y", "-hide_banner", "-loglevel", "error",
		"-f", "rawvideo",
		"-pix_fmt", "bgra",
		"-s", fmt.Sprintf("%dx%d", o.Width, o.Height),
		"-r", strconv.Itoa(o.FPS),
		"-i", "pipe:0",
		"-an",
		"-c:v", "libx264",
		"-b:v", fmt.Sprintf("%dk", o.BitrateKbps),
		"-pix_fmt", "yuv420p",
	}
	// yuv420p needs even dimensions
	if o.Width%2 != 0 || o.Height%2 != 0 {
		args = append(args, "-vf", "pad=ceil(iw/2)*2:ceil(ih/2)*2")
	}
	keys := make([]string, 0, len(o.Tags))
	for k := range o.Tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		args = append(args, "-metadata", k+"="+o.Tags[k])
	}
	return append(args, "-movflags", "+faststart", "-f", "mp4", out)
}

// FFmpegWriter feeds samples to an ffmpeg child process over stdin.
// The video is written to a temp file and renamed over the target on Finalize.
type FFmpegWriter struct {
	mu        sync.Mutex
	cmd       *exec.Cmd
	stdin     io.WriteCloser
	stderr    *strings.Builder
	target    string
	tmpPath   string
	frameSize int
	nextTime  int64
	samples   int
	closed    bool
}

func NewFFmpegWriter(ctx context.Context, o Options, target string) (*FFmpegWriter, error) {
	log := logger.Log.WithField("scope", "ffmpeg")

	if o.Width <= 0 || o.Height <= 0 || o.FPS <= 0 || o.BitrateKbps <= 0 {
		return nil, fmt.Errorf("invalid video options %dx%d@%d %dkbps", o.Width, o.Height, o.FPS, o.BitrateKbps)
	}
	bin, err := exec.LookPath(o.binary())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFFmpegMissing, err)
	}

	tmpPath, err := storage.TempPath(target)
	if err != nil {
		return nil, fmt.Errorf("cannot create temp output: %w", err)
	}

	args := BuildArgs(o, tmpPath)
	log.Debugf("Running ffmpeg command: %s %s", bin, strings.Join(args, " "))
	cmd := exec.CommandContext(ctx, bin, args...)
	stderr := &strings.Builder{}
	cmd.Stderr = stderr
	stdin, err := cmd.StdinPipe()
	if err != nil {
		_ = os.Remove(tmpPath)
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		_ = os.Remove(tmpPath)
		return nil, fmt.Errorf("failed to start ffmpeg: %w", err)
	}

	return &FFmpegWriter{
		cmd:       cmd,
		stdin:     stdin,
		stderr:    stderr,
		target:    target,
		tmpPath:   tmpPath,
		frameSize: cfg.FrameSize(o.Width, o.Height),
	}, nil
}

func (w *FFmpegWriter) WriteSample(s Sample) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}
	if len(s.Data) != w.frameSize {
		return fmt.Errorf("sample is %d bytes, frame needs %d", len(s.Data), w.frameSize)
	}
	if s.Time < w.nextTime {
		return fmt.Errorf("sample time %d goes backwards (expected >= %d)", s.Time, w.nextTime)
	}
	if _, err := w.stdin.Write(s.Data); err != nil {
		return fmt.Errorf("ffmpeg write: %w", err)
	}
	w.nextTime = s.Time + s.Duration
	w.samples++
	return nil
}

func (w *FFmpegWriter) Finalize() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}
	w.closed = true

	_ = w.stdin.Close()
	if err := w.cmd.Wait(); err != nil {
		_ = os.Remove(w.tmpPath)
		return fmt.Errorf("ffmpeg failed: %w%s", err, w.stderrTail())
	}
	logger.Log.WithField("scope", "ffmpeg").Debugf("wrote %d samples, %d ticks", w.samples, w.nextTime)
	return storage.CommitPath(w.tmpPath, w.target)
}

func (w *FFmpegWriter) Abort() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true

	_ = w.stdin.Close()
	if w.cmd.Process != nil {
		_ = w.cmd.Process.Kill()
	}
	_ = w.cmd.Wait()
	if err := os.Remove(w.tmpPath); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// stderrTail is only safe to call after cmd.Wait returned.
func (w *FFmpegWriter) stderrTail() string {
	msg := strings.TrimSpace(w.stderr.String())
	if msg == "" {
		return ""
	}
	if len(msg) > 512 {
		msg = msg[len(msg)-512:]
	}
	return ": " + msg
}
