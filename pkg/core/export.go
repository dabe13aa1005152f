package core

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/OldSensei/simple-animation-viewer/pkg/canvas"
	cfg "github.com/OldSensei/simple-animation-viewer/pkg/config"
	"github.com/OldSensei/simple-animation-viewer/pkg/job"
	"github.com/OldSensei/simple-animation-viewer/pkg/meta"
	"github.com/OldSensei/simple-animation-viewer/pkg/slideshow"
	"github.com/OldSensei/simple-animation-viewer/pkg/storage"
	"github.com/OldSensei/simple-animation-viewer/pkg/tui"
	"github.com/OldSensei/simple-animation-viewer/pkg/video"
	"github.com/OldSensei/simple-animation-viewer/pkg/workers"
)

type ExportOptions struct {
	Output      string
	Width       int
	Height      int
	BitrateKbps int
	FPS         int
	Scale       canvas.Mode
	FFmpeg      string
	// Source is the definition file the slides came from, used for the video title.
	Source string
	// Workers composing frames ahead of the writer, 0 means one per CPU.
	Workers int
}

func DefaultExportOptions() ExportOptions {
	return ExportOptions{
		Output:      cfg.PathVideoOut,
		Width:       cfg.FrameWidth,
		Height:      cfg.FrameHeight,
		BitrateKbps: cfg.BitrateKbps,
		FPS:         cfg.FrameRate,
		Scale:       canvas.Stretch,
	}
}

func (o ExportOptions) Validate() error {
	switch {
	case o.Output == "":
		return fmt.Errorf("%w: output file is required", ErrInvalidOptions)
	case o.Width <= 0 || o.Height <= 0:
		return fmt.Errorf("%w: frame size %dx%d", ErrInvalidOptions, o.Width, o.Height)
	case o.BitrateKbps <= 0:
		return fmt.Errorf("%w: bitrate %d", ErrInvalidOptions, o.BitrateKbps)
	case o.FPS <= 0:
		return fmt.Errorf("%w: fps %d", ErrInvalidOptions, o.FPS)
	}
	return nil
}

func (o ExportOptions) workers(n int) int {
	w := o.Workers
	if w <= 0 {
		w = runtime.NumCPU()
	}
	return max(1, min(w, n))
}

// FrameCount is how many frames at fps cover d, rounded up.
func FrameCount(d time.Duration, fps int) int {
	ms := d.Milliseconds()
	if ms <= 0 {
		return 0
	}
	return int((ms*int64(fps) + 999) / 1000)
}

// SampleDuration is the length of one frame in 100ns units, truncated.
func SampleDuration(fps int) int64 {
	return video.TicksPerSecond / int64(fps)
}

// Export writes slides as a video:
// 1. workers compose and pack frames ahead, results land in resChs in slide order
// 2. every frame is repeated until it covers its slide duration
// 3. the sink is finalized, or aborted on error or cancel
func (c *Core) Export(slides []slideshow.Slide, o ExportOptions) (meta.Summary, error) {
	summary := meta.Summary{Output: o.Output, Slides: len(slides)}
	if err := o.Validate(); err != nil {
		return summary, err
	}
	if len(slides) == 0 {
		return summary, ErrNothingToDo
	}

	ctx, err := c.begin()
	if err != nil {
		return summary, err
	}
	defer c.end()

	log := log.WithField("scope", "core export")
	c.send(ctx, tui.NewEventSpin("Preparing video..."))

	md, err := meta.New(o.Source, slides)
	if err != nil {
		return summary, err
	}
	log.Debug(md.Print())

	sink, err := c.newSink(ctx, video.Options{
		Width:       o.Width,
		Height:      o.Height,
		FPS:         o.FPS,
		BitrateKbps: o.BitrateKbps,
		FFmpeg:      o.FFmpeg,
		Tags:        md.Tags(),
	}, o.Output)
	if err != nil {
		return summary, fmt.Errorf("cannot open video sink: %w", err)
	}

	frames, err := c.writeSlides(ctx, sink, slides, o)
	summary.Frames = frames
	summary.Duration = time.Duration(int64(frames)*SampleDuration(o.FPS)) * 100
	if err != nil {
		if abortErr := sink.Abort(); abortErr != nil {
			log.Warnf("cannot clean up partial video: %v", abortErr)
		}
		if errors.Is(err, context.Canceled) {
			log.Info("Export canceled")
		}
		return summary, err
	}

	c.send(ctx, tui.NewEventSpin("Finalizing video..."))
	if err := sink.Finalize(); err != nil {
		return summary, err
	}
	summary.Size = storage.Size(o.Output)
	c.send(ctx, tui.NewEventText(summary.Print()))
	return summary, nil
}

func (c *Core) writeSlides(ctx context.Context, sink video.SinkWriter, slides []slideshow.Slide, o ExportOptions) (int, error) {
	log := log.WithField("scope", "core export")

	// a failed slide stops the feeder and the workers too
	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	defer func() {
		cancel()
		wg.Wait()
	}()

	cv := canvas.New(o.Width, o.Height, canvas.WithMode(o.Scale))
	worker := workers.NewWorker(ctx, cv)

	resChs := make([]chan job.JobComposeRes, len(slides))
	for i := range resChs {
		resChs[i] = make(chan job.JobComposeRes, 1)
	}

	// bounded look-ahead so packed frames do not pile up in memory
	n := o.workers(len(slides))
	window := make(chan struct{}, n*2)
	jobs := make(chan job.JobCompose, n)

	log.Debugf("Starting %d workers", n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			worker.WorkerCompose(id, jobs, resChs)
		}(i + 1)
	}

	go func() {
		defer close(jobs)
		for i, s := range slides {
			select {
			case window <- struct{}{}:
			case <-ctx.Done():
				return
			}
			select {
			case jobs <- job.New(s, i):
			case <-ctx.Done():
				return
			}
		}
	}()

	sampleDuration := SampleDuration(o.FPS)
	var timestamp int64
	frames := 0
	for i, ch := range resChs {
		var res job.JobComposeRes
		select {
		case <-ctx.Done():
			return frames, ctx.Err()
		case res = <-ch:
		}
		<-window
		if res.Err != nil {
			return frames, fmt.Errorf("slide %d (%s): %w", i+1, slides[i].Name(), res.Err)
		}

		count := FrameCount(slides[i].Duration, o.FPS)
		for k := 0; k < count; k++ {
			if err := ctx.Err(); err != nil {
				return frames, err
			}
			err := sink.WriteSample(video.Sample{Data: res.Frame, Time: timestamp, Duration: sampleDuration})
			if err != nil {
				return frames, fmt.Errorf("cannot write frame %d: %w", frames+1, err)
			}
			timestamp += sampleDuration
			frames++
		}
		log.Debugf("slide %d/%d: %s, %d frames", i+1, len(slides), slides[i].Name(), count)

		percent := float64(i+1) / float64(len(slides))
		c.send(ctx, tui.NewEventBar(fmt.Sprintf("Writing video... %d/%d", i+1, len(slides)), percent))
	}
	return frames, nil
}
