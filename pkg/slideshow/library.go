package slideshow

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/OldSensei/simple-animation-viewer/pkg/logger"
	"github.com/OldSensei/simple-animation-viewer/pkg/storage"
)

// Library remembers which full path belongs to each file name.
// The first path registered for a name wins.
type Library struct {
	files map[string]string
}

func NewLibrary() *Library {
	return &Library{files: make(map[string]string)}
}

func (l *Library) register(s Slide) {
	p, ok := l.files[s.Name()]
	if !ok {
		l.files[s.Name()] = s.Path
		return
	}
	if p != s.Path {
		logger.Log.WithField("scope", "library").Warnf("%s already maps to %s, %s will resolve there too", s.Name(), p, s.Path)
	}
}

// Path returns the file registered for name.
func (l *Library) Path(name string) (string, bool) {
	p, ok := l.files[name]
	return p, ok
}

func (l *Library) Len() int {
	return len(l.files)
}

// LoadFolder lists the images of dir in natural name order, each with zero duration.
func (l *Library) LoadFolder(dir string) ([]Slide, error) {
	log := logger.Log.WithField("scope", "library")

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot read folder %s: %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		if !IsImage(e.Name()) {
			log.Debugf("skipping %s", e.Name())
			continue
		}
		names = append(names, e.Name())
	}
	sort.Slice(names, func(i, j int) bool { return naturalLess(names[i], names[j]) })

	slides := make([]Slide, 0, len(names))
	for _, name := range names {
		s := New(filepath.Join(dir, name), 0)
		l.register(s)
		slides = append(slides, s)
	}
	log.Debugf("loaded %d images from %s", len(slides), dir)
	return slides, nil
}

// LoadFile reads a slideshow definition, one "path;ms" row per line.
func (l *Library) LoadFile(path string) ([]Slide, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	slides, err := l.Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return slides, nil
}

// Read parses rows from r and registers every slide.
func (l *Library) Read(r io.Reader) ([]Slide, error) {
	var slides []Slide
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimRight(scanner.Text(), "\r")
		if lineNum == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}
		if line == "" {
			continue
		}
		s, err := ParseRow(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
		l.register(s)
		slides = append(slides, s)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return slides, nil
}

// Resolve turns rows back into slides. Rows whose name was never registered are dropped.
func (l *Library) Resolve(rows []Row) []Slide {
	slides := make([]Slide, 0, len(rows))
	for _, row := range rows {
		p, ok := l.Path(row.Name)
		if !ok {
			logger.Log.WithField("scope", "library").Warnf("unknown image %q, skipped", row.Name)
			continue
		}
		slides = append(slides, New(p, ParseDuration(row.Duration)))
	}
	return slides
}

// Save resolves rows and writes them to path, replacing the file.
func (l *Library) Save(path string, rows []Row) error {
	return WriteFile(path, l.Resolve(rows))
}

// WriteFile atomically writes slides as a definition file.
func WriteFile(path string, slides []Slide) error {
	tmp, err := storage.CreateTempFile(path)
	if err != nil {
		return err
	}
	if err := Write(tmp, slides); err != nil {
		storage.Discard(tmp)
		return err
	}
	return storage.Commit(tmp, path)
}

func Write(w io.Writer, slides []Slide) error {
	bw := bufio.NewWriter(w)
	for _, s := range slides {
		if _, err := bw.WriteString(s.Row() + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func IsImage(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tif", ".tiff", ".webp":
		return true
	default:
		return false
	}
}
