package core

import (
	"fmt"
	"image"

	"github.com/OldSensei/simple-animation-viewer/pkg/canvas"
	cfg "github.com/OldSensei/simple-animation-viewer/pkg/config"
	"github.com/OldSensei/simple-animation-viewer/pkg/slideshow"
	"github.com/OldSensei/simple-animation-viewer/pkg/timeline"
	"github.com/OldSensei/simple-animation-viewer/pkg/tui"
)

// Frame is what the preview puts on screen. Err is set when the image
// behind Name is unknown or cannot be decoded.
type Frame struct {
	Name  string
	Image image.Image
	Err   error
}

type OnFrame func(f Frame)

// Preview plays rows on a timeline until it ends or the core context is done.
// Rows without a numeric duration are skipped. Images are loaded through a
// cached canvas as their frame comes up; onFrame nil reports them as events.
func (c *Core) Preview(lib *slideshow.Library, rows []slideshow.Row, looped, reverseAtEnd bool, onFrame OnFrame) error {
	log := log.WithField("scope", "core preview")
	cv := canvas.New(cfg.FrameWidth, cfg.FrameHeight, canvas.WithCache())

	shown := 0
	tl := timeline.New(func(name string) {
		shown++
		f := loadFrame(cv, lib, name)
		if f.Err != nil {
			log.Warnf("frame %s: %v", name, f.Err)
		}
		if onFrame != nil {
			onFrame(f)
			return
		}
		text := fmt.Sprintf("> %s", name)
		if f.Err != nil {
			text = fmt.Sprintf("> %s: %v", name, f.Err)
		}
		c.send(c.ctx, tui.NewEventText(text))
	})
	for _, row := range rows {
		if !slideshow.HasDuration(row.Duration) {
			log.Debugf("skipping %s, duration %q", row.Name, row.Duration)
			continue
		}
		tl.Add(row.Name, slideshow.ParseDuration(row.Duration))
	}
	if tl.Len() == 0 {
		return ErrNothingToDo
	}

	log.Debugf("playing %d frames, loop=%v reverse=%v", tl.Len(), looped, reverseAtEnd)
	err := tl.Run(c.ctx, looped, reverseAtEnd)
	log.Debugf("shown %d frames", shown)
	return err
}

func loadFrame(cv *canvas.Canvas, lib *slideshow.Library, name string) Frame {
	path, ok := lib.Path(name)
	if !ok {
		return Frame{Name: name, Err: fmt.Errorf("unknown image %q", name)}
	}
	img, err := cv.Load(path)
	return Frame{Name: name, Image: img, Err: err}
}
