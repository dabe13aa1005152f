package job

import (
	"fmt"

	"github.com/OldSensei/simple-animation-viewer/pkg/slideshow"
)

// job for the compose worker
type JobCompose struct {
	Slide slideshow.Slide
	Idx   int
}

// res from the compose worker, a packed frame ready for the sink
type JobComposeRes struct {
	Frame []byte
	Err   error
}

func New(s slideshow.Slide, idx int) JobCompose {
	return JobCompose{Slide: s, Idx: idx}
}

func (j *JobCompose) Print() string {
	return fmt.Sprintf("Job: Idx: %d, Slide: %s", j.Idx, j.Slide)
}
