package tui

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEvents(t *testing.T) {
	e := NewEventBar("Exporting 1/2", 0.5)
	assert.True(t, e.IsBar())
	assert.Equal(t, "Exporting 1/2", e.Text())
	assert.Equal(t, 0.5, e.Percent())

	assert.False(t, NewEventSpin("x").IsBar())
	assert.False(t, NewEventText("x").IsBar())
}

func TestRunRendersUntilClosed(t *testing.T) {
	var out bytes.Buffer
	eventsCh := make(chan Event)
	ui := NewWithWriter(eventsCh, context.Background(), &out, true)

	done := make(chan struct{})
	go func() {
		ui.Run()
		close(done)
	}()

	eventsCh <- NewEventSpin("Preparing...")
	eventsCh <- NewEventBar("Exporting 1/2", 0.5)
	eventsCh <- NewEventBar("Exporting 2/2", 1)
	eventsCh <- NewEventText("All done")
	close(eventsCh)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("tui did not stop after channel close")
	}
	assert.Contains(t, out.String(), "All done")
}

func TestRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	ui := NewWithWriter(make(chan Event), ctx, &bytes.Buffer{}, false)

	done := make(chan struct{})
	go func() {
		ui.Run()
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("tui did not stop on cancel")
	}
}
