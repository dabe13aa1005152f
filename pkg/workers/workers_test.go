package workers

import (
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OldSensei/simple-animation-viewer/pkg/canvas"
	cfg "github.com/OldSensei/simple-animation-viewer/pkg/config"
	"github.com/OldSensei/simple-animation-viewer/pkg/job"
	"github.com/OldSensei/simple-animation-viewer/pkg/slideshow"
)

func TestWorkerCompose(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.png")
	f, err := os.Create(good)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, 3, 3))))
	require.NoError(t, f.Close())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c := canvas.New(4, 2)
	w := NewWorker(ctx, c)
	jobs := make(chan job.JobCompose)
	resChs := []chan job.JobComposeRes{make(chan job.JobComposeRes, 1), make(chan job.JobComposeRes, 1)}

	done := make(chan struct{})
	go func() {
		w.WorkerCompose(1, jobs, resChs)
		close(done)
	}()

	jobs <- job.New(slideshow.New(filepath.Join(dir, "missing.png"), time.Second), 1)
	jobs <- job.New(slideshow.New(good, time.Second), 0)
	close(jobs)

	res := <-resChs[0]
	require.NoError(t, res.Err)
	assert.Len(t, res.Frame, cfg.FrameSize(c.Width(), c.Height()))

	res = <-resChs[1]
	assert.Error(t, res.Err)
	assert.Nil(t, res.Frame)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not exit after jobs closed")
	}
}

func TestWorkerStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	w := NewWorker(ctx, canvas.New(2, 2))

	done := make(chan struct{})
	go func() {
		w.WorkerCompose(1, make(chan job.JobCompose), nil)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not exit on cancel")
	}
}
