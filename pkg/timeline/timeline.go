package timeline

import (
	"context"
	"sync"
	"time"

	cfg "github.com/OldSensei/simple-animation-viewer/pkg/config"
	"github.com/OldSensei/simple-animation-viewer/pkg/logger"
)

const MinInterval = cfg.MinTimerInterval * time.Millisecond

type OnFrameChanged func(name string)

type frame struct {
	name     string
	interval time.Duration
}

// Timeline plays named frames one after another, each for its own interval.
type Timeline struct {
	mu             sync.Mutex
	frames         []frame
	current        int
	looped         bool
	onFrameChanged OnFrameChanged

	// closed by Reset, wakes up a running Run
	stop chan struct{}
}

func New(onFrameChanged OnFrameChanged) *Timeline {
	return &Timeline{onFrameChanged: onFrameChanged, stop: make(chan struct{})}
}

func (t *Timeline) Add(name string, interval time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.frames = append(t.frames, frame{name, interval})
}

func (t *Timeline) SetLooped(v bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.looped = v
}

func (t *Timeline) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.frames)
}

// Frames returns the frame names in play order.
func (t *Timeline) Frames() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	names := make([]string, len(t.frames))
	for i, f := range t.frames {
		names[i] = f.name
	}
	return names
}

// Play rewinds and shows the first frame. With reverseAtEnd the frames are
// followed by the same frames backwards: a b c c b a.
func (t *Timeline) Play(looped, reverseAtEnd bool) (time.Duration, bool) {
	t.mu.Lock()
	t.looped = looped
	if reverseAtEnd {
		t.addReversed()
	}
	t.current = 0
	t.mu.Unlock()
	return t.Advance()
}

func (t *Timeline) addReversed() {
	frames := make([]frame, 0, len(t.frames)*2)
	frames = append(frames, t.frames...)
	for i := len(t.frames) - 1; i >= 0; i-- {
		frames = append(frames, t.frames[i])
	}
	t.frames = frames
}

// Advance shows the next frame and returns how long it should stay.
// It returns false once the last frame has been shown and looping is off.
func (t *Timeline) Advance() (time.Duration, bool) {
	t.mu.Lock()
	if t.current == len(t.frames) {
		if !t.looped || len(t.frames) == 0 {
			t.mu.Unlock()
			return 0, false
		}
		t.current = 0
	}
	f := t.frames[t.current]
	t.current++
	t.mu.Unlock()

	if t.onFrameChanged != nil {
		t.onFrameChanged(f.name)
	}
	if f.interval < MinInterval {
		return MinInterval, true
	}
	return f.interval, true
}

// Reset stops playback and clears all frames.
func (t *Timeline) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.frames = nil
	t.current = 0
	t.looped = false
	if t.stop != nil {
		close(t.stop)
	}
	t.stop = make(chan struct{})
}

func (t *Timeline) stopped() <-chan struct{} {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stop == nil {
		t.stop = make(chan struct{})
	}
	return t.stop
}

// Run starts playback and blocks until it finishes, ctx is done or Reset is called.
func (t *Timeline) Run(ctx context.Context, looped, reverseAtEnd bool) error {
	log := logger.Log.WithField("scope", "timeline")
	stop := t.stopped()

	wait, ok := t.Play(looped, reverseAtEnd)
	timer := time.NewTimer(wait)
	defer timer.Stop()
	for ok {
		select {
		case <-ctx.Done():
			log.Debug("timeline stopped")
			return ctx.Err()
		case <-stop:
			log.Debug("timeline reset")
			return nil
		case <-timer.C:
			wait, ok = t.Advance()
			timer.Reset(wait)
		}
	}
	return nil
}
