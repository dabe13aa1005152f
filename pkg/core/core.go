package core

import (
	"context"
	"errors"
	"sync"

	"github.com/OldSensei/simple-animation-viewer/pkg/logger"
	"github.com/OldSensei/simple-animation-viewer/pkg/tui"
	"github.com/OldSensei/simple-animation-viewer/pkg/video"
)

var log = logger.Log

var (
	ErrBusy           = errors.New("an export is already running")
	ErrInvalidOptions = errors.New("invalid export options")
	ErrNothingToDo    = errors.New("slideshow is empty")
)

// SinkFactory opens the sink an export writes to.
type SinkFactory func(ctx context.Context, o video.Options, out string) (video.SinkWriter, error)

func ffmpegSink(ctx context.Context, o video.Options, out string) (video.SinkWriter, error) {
	return video.NewFFmpegWriter(ctx, o, out)
}

type Core struct {
	ctx      context.Context
	eventsCh chan tui.Event
	newSink  SinkFactory

	// guards the running export
	mu     sync.Mutex
	cancel context.CancelFunc
}

type Option func(*Core)

func WithSinkFactory(f SinkFactory) Option {
	return func(c *Core) {
		c.newSink = f
	}
}

// NewCore creates a core bound to ctx. eventsCh may be nil when nobody renders progress.
func NewCore(ctx context.Context, eventsCh chan tui.Event, opts ...Option) *Core {
	c := &Core{
		ctx:      ctx,
		eventsCh: eventsCh,
		newSink:  ffmpegSink,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Core) send(ctx context.Context, e tui.Event) {
	if c.eventsCh == nil {
		return
	}
	select {
	case c.eventsCh <- e:
	case <-ctx.Done():
	}
}

// begin claims the single export slot.
func (c *Core) begin() (context.Context, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		return nil, ErrBusy
	}
	ctx, cancel := context.WithCancel(c.ctx)
	c.cancel = cancel
	return ctx, nil
}

func (c *Core) end() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

// Cancel stops the running export, if any.
func (c *Core) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		log.Debug("export cancel requested")
		c.cancel()
	}
}

// Running reports whether an export is in progress.
func (c *Core) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cancel != nil
}
