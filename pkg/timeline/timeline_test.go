package timeline

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu    sync.Mutex
	names []string
}

func (r *recorder) on(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.names = append(r.names, name)
}

func (r *recorder) get() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.names...)
}

func TestAdvanceOnce(t *testing.T) {
	rec := &recorder{}
	tl := New(rec.on)
	tl.Add("a", 100*time.Millisecond)
	tl.Add("b", 0)

	d, ok := tl.Play(false, false)
	require.True(t, ok)
	assert.Equal(t, 100*time.Millisecond, d)

	d, ok = tl.Advance()
	require.True(t, ok)
	assert.Equal(t, MinInterval, d)

	_, ok = tl.Advance()
	assert.False(t, ok)
	assert.Equal(t, []string{"a", "b"}, rec.get())
}

func TestAdvanceLooped(t *testing.T) {
	rec := &recorder{}
	tl := New(rec.on)
	tl.Add("a", time.Second)
	tl.Add("b", time.Second)

	_, ok := tl.Play(true, false)
	require.True(t, ok)
	for i := 0; i < 4; i++ {
		_, ok = tl.Advance()
		require.True(t, ok)
	}
	assert.Equal(t, []string{"a", "b", "a", "b", "a"}, rec.get())
}

func TestPlayReverse(t *testing.T) {
	tl := New(nil)
	tl.Add("a", time.Second)
	tl.Add("b", time.Second)
	tl.Add("c", time.Second)

	tl.Play(false, true)
	assert.Equal(t, []string{"a", "b", "c", "c", "b", "a"}, tl.Frames())
}

func TestEmptyTimeline(t *testing.T) {
	tl := New(nil)
	_, ok := tl.Play(true, true)
	assert.False(t, ok)
	assert.NoError(t, tl.Run(context.Background(), true, false))
}

func TestReset(t *testing.T) {
	tl := New(nil)
	tl.Add("a", time.Second)
	tl.SetLooped(true)
	tl.Reset()

	assert.Zero(t, tl.Len())
	_, ok := tl.Advance()
	assert.False(t, ok)
}

func TestRunPlaysAllFrames(t *testing.T) {
	rec := &recorder{}
	tl := New(rec.on)
	tl.Add("a", 0)
	tl.Add("b", 0)

	require.NoError(t, tl.Run(context.Background(), false, true))
	assert.Equal(t, []string{"a", "b", "b", "a"}, rec.get())
}

func TestRunStopsOnCancel(t *testing.T) {
	tl := New(nil)
	tl.Add("a", 0)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := tl.Run(ctx, true, false)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRunStopsOnReset(t *testing.T) {
	rec := &recorder{}
	tl := New(rec.on)
	tl.Add("long", 3*time.Second)
	tl.Add("next", 0)

	done := make(chan error, 1)
	go func() { done <- tl.Run(context.Background(), true, false) }()

	time.Sleep(50 * time.Millisecond)
	start := time.Now()
	tl.Reset()

	select {
	case err := <-done:
		assert.NoError(t, err)
		assert.Less(t, time.Since(start), 100*time.Millisecond)
	case <-time.After(time.Second):
		t.Fatal("timeline did not stop after reset")
	}
	assert.Equal(t, []string{"long"}, rec.get())
}

func TestRunAfterReset(t *testing.T) {
	tl := New(nil)
	tl.Add("a", time.Second)
	tl.Reset()
	tl.Add("b", 0)

	require.NoError(t, tl.Run(context.Background(), false, false))
	assert.Equal(t, []string{"b"}, tl.Frames())
}
