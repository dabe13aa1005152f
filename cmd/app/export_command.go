package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli"

	"github.com/OldSensei/simple-animation-viewer/pkg/canvas"
	cfg "github.com/OldSensei/simple-animation-viewer/pkg/config"
	"github.com/OldSensei/simple-animation-viewer/pkg/core"
	"github.com/OldSensei/simple-animation-viewer/pkg/slideshow"
	"github.com/OldSensei/simple-animation-viewer/pkg/tui"
	"github.com/OldSensei/simple-animation-viewer/pkg/video"
)

var exportCommand = cli.Command{
	Name:      "export",
	Aliases:   []string{"e"},
	Usage:     "Render the slideshow to an H.264 MP4 video",
	ArgsUsage: "file" + cfg.FileExt,
	Flags: []cli.Flag{
		cli.StringFlag{Name: "output, o", Usage: "video file (default from settings)"},
		cli.IntFlag{Name: "width", Usage: "frame width in pixels"},
		cli.IntFlag{Name: "height", Usage: "frame height in pixels"},
		cli.IntFlag{Name: "bitrate, b", Usage: "average bitrate in kbps"},
		cli.IntFlag{Name: "fps", Usage: "frames per second"},
		cli.StringFlag{Name: "scale", Usage: "stretch or fit"},
		cli.IntFlag{Name: "workers, w", Usage: "frames composed in parallel (default one per CPU)"},
	},
	Action: func(c *cli.Context) error {
		file, err := getArg(c, 0, "slideshow file")
		if err != nil {
			return err
		}
		o, err := exportOptions(c)
		if err != nil {
			return err
		}
		o.Source = file

		if !video.Available(o.FFmpeg) {
			return fmt.Errorf("%w (looked for %q)", video.ErrFFmpegMissing, o.FFmpeg)
		}
		slides, err := slideshow.NewLibrary().LoadFile(file)
		if err != nil {
			return err
		}

		eventsCh := make(chan tui.Event)
		done := make(chan struct{})
		go func() {
			tui.New(eventsCh, ctx).Run()
			close(done)
		}()

		summary, err := core.NewCore(ctx, eventsCh).Export(slides, o)
		close(eventsCh)
		<-done

		if errors.Is(err, context.Canceled) {
			log.Warnf("export canceled, %s was not written", o.Output)
			return nil
		}
		if err != nil {
			return err
		}
		log.Debugf("wrote %d frames, %s of video", summary.Frames, summary.Duration)
		return nil
	},
}

// exportOptions starts from the settings file and applies the flags that were set.
func exportOptions(c *cli.Context) (core.ExportOptions, error) {
	v := settings.Video
	o := core.DefaultExportOptions()
	o.Output = v.Output
	o.Width, o.Height = v.Width, v.Height
	o.BitrateKbps = v.BitrateKbps
	o.FPS = v.FPS
	o.FFmpeg = v.FFmpeg
	scale := v.Scale

	if c.IsSet("output") {
		o.Output = c.String("output")
	}
	if c.IsSet("width") {
		o.Width = c.Int("width")
	}
	if c.IsSet("height") {
		o.Height = c.Int("height")
	}
	if c.IsSet("bitrate") {
		o.BitrateKbps = c.Int("bitrate")
	}
	if c.IsSet("fps") {
		o.FPS = c.Int("fps")
	}
	if c.IsSet("scale") {
		scale = c.String("scale")
	}
	o.Workers = c.Int("workers")

	mode, err := canvas.ParseMode(scale)
	if err != nil {
		return o, err
	}
	o.Scale = mode
	return o, o.Validate()
}
