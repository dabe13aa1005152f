package workers

import (
	"context"
	"fmt"
	"time"

	"github.com/OldSensei/simple-animation-viewer/pkg/canvas"
	"github.com/OldSensei/simple-animation-viewer/pkg/job"
	"github.com/OldSensei/simple-animation-viewer/pkg/logger"
)

var log = logger.Log

type Worker struct {
	ctx    context.Context
	canvas *canvas.Canvas
}

func NewWorker(ctx context.Context, c *canvas.Canvas) *Worker {
	return &Worker{
		ctx:    ctx,
		canvas: c,
	}
}

// WorkerCompose draws and packs frames. Every result goes to resChs[j.Idx],
// so the consumer can read them back in slide order.
func (w *Worker) WorkerCompose(id int, jobs <-chan job.JobCompose, resChs []chan job.JobComposeRes) {
	name := fmt.Sprintf("WorkerCompose #%d", id)
	log.Debugf("%s started", name)
	defer log.Debugf("%s finished", name)

	for {
		select {
		case <-w.ctx.Done():
			return
		case j, ok := <-jobs:
			if !ok {
				return
			}
			log.Debugf("%s got job %s", name, j.Print())

			now := time.Now()
			frame, err := w.canvas.Draw(j.Slide.Path)
			if err != nil {
				resChs[j.Idx] <- job.JobComposeRes{Err: err}
				continue
			}
			resChs[j.Idx] <- job.JobComposeRes{Frame: canvas.PackRGB32(frame)}
			log.Debugf("%s frame %d done. Took time: %s", name, j.Idx, time.Since(now))
		}
	}
}
