package tui

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"github.com/OldSensei/simple-animation-viewer/pkg/logger"
)

const barMax = 1000

type TUI struct {
	ctx      context.Context
	eventsCh chan Event
	out      io.Writer
	tty      bool

	bar  *progressbar.ProgressBar
	mode eventType
}

func New(eventsCh chan Event, ctx context.Context) *TUI {
	return &TUI{
		ctx:      ctx,
		eventsCh: eventsCh,
		out:      os.Stderr,
		tty:      isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()),
	}
}

// NewWithWriter renders to w; interactive bars are drawn only when tty is set.
func NewWithWriter(eventsCh chan Event, ctx context.Context, w io.Writer, tty bool) *TUI {
	return &TUI{ctx: ctx, eventsCh: eventsCh, out: w, tty: tty}
}

// Run renders events until the channel is closed or ctx is done.
func (t *TUI) Run() {
	defer t.finish()
	for {
		select {
		case <-t.ctx.Done():
			return
		case event, ok := <-t.eventsCh:
			if !ok {
				return
			}
			t.render(event)
		}
	}
}

func (t *TUI) render(event Event) {
	if !t.tty {
		t.renderPlain(event)
		return
	}

	switch event.eventType {
	case eventTypeSpin:
		t.reset(-1, event.text)
		_ = t.bar.RenderBlank()
	case eventTypeBar:
		if t.bar == nil || t.mode != eventTypeBar {
			t.reset(barMax, event.text)
		}
		t.bar.Describe(event.text)
		_ = t.bar.Set(int(event.percent * barMax))
	case eventTypeText:
		t.finish()
		fmt.Fprintln(t.out, event.text)
	}
	t.mode = event.eventType
}

func (t *TUI) renderPlain(event Event) {
	log := logger.Log.WithField("scope", "tui")
	switch event.eventType {
	case eventTypeBar:
		log.Infof("%s (%.0f%%)", event.text, event.percent*100)
	default:
		log.Info(event.text)
	}
}

func (t *TUI) reset(n int, desc string) {
	t.finish()
	t.bar = progressbar.NewOptions(n,
		progressbar.OptionSetWriter(t.out),
		progressbar.OptionSetDescription(desc),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionClearOnFinish())
}

func (t *TUI) finish() {
	if t.bar == nil {
		return
	}
	_ = t.bar.Finish()
	t.bar = nil
}
