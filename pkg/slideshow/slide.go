package slideshow

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	cfg "github.com/OldSensei/simple-animation-viewer/pkg/config"
)

var ErrMalformedRow = errors.New("malformed slideshow row")

// Slide is one entry of a slideshow definition: an image and how long it stays on screen.
type Slide struct {
	Path     string
	Duration time.Duration
}

func New(path string, d time.Duration) Slide {
	return Slide{Path: path, Duration: d}
}

// Name is the base file name, the key the library resolves rows by.
func (s Slide) Name() string {
	return filepath.Base(s.Path)
}

// Ms returns the duration in whole milliseconds.
func (s Slide) Ms() int64 {
	return s.Duration.Milliseconds()
}

// Row serializes the slide as "path;ms".
func (s Slide) Row() string {
	return s.Path + string(cfg.Delimiter) + strconv.FormatInt(s.Ms(), 10)
}

func (s Slide) String() string {
	return fmt.Sprintf("%s (%dms)", s.Name(), s.Ms())
}

// ParseRow splits a line at the first delimiter into path and duration.
func ParseRow(line string) (Slide, error) {
	pos := strings.IndexByte(line, cfg.Delimiter)
	if pos < 0 {
		return Slide{}, fmt.Errorf("%w: no %q in %q", ErrMalformedRow, cfg.Delimiter, line)
	}
	return Slide{
		Path:     line[:pos],
		Duration: ParseDuration(line[pos+1:]),
	}, nil
}

// ParseDuration reads the leading decimal digits of text as milliseconds.
// Anything unparsable, including overflow of 32 bits, becomes zero.
func ParseDuration(text string) time.Duration {
	end := 0
	for end < len(text) && text[end] >= '0' && text[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}
	value, err := strconv.ParseUint(text[:end], 10, 64)
	if err != nil || value > math.MaxUint32 {
		return 0
	}
	return time.Duration(value) * time.Millisecond
}

// HasDuration reports whether text starts with a digit. Rows without one
// stay in the list but are left out of playback.
func HasDuration(text string) bool {
	return text != "" && text[0] >= '0' && text[0] <= '9'
}

// FormatDuration renders a duration the way rows carry it.
func FormatDuration(d time.Duration) string {
	return strconv.FormatInt(d.Milliseconds(), 10)
}

// Total sums the durations of all slides.
func Total(slides []Slide) time.Duration {
	var total time.Duration
	for _, s := range slides {
		total += s.Duration
	}
	return total
}
