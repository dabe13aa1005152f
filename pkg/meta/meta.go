package meta

import (
	"bytes"
	"fmt"
	"hash/fnv"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/OldSensei/simple-animation-viewer/pkg/slideshow"
)

// Metadata is stamped into the exported video as container tags.
type Metadata struct {
	Title     string
	timestamp int64
	checksum  uint64
}

// New builds metadata for slides exported from the definition at source.
func New(source string, slides []slideshow.Slide) (Metadata, error) {
	var buf bytes.Buffer
	if err := slideshow.Write(&buf, slides); err != nil {
		return Metadata{}, err
	}
	checksum, err := generateChecksum(buf.Bytes())
	if err != nil {
		return Metadata{}, err
	}
	return Metadata{
		Title:     titleFrom(source),
		timestamp: time.Now().Unix(),
		checksum:  checksum,
	}, nil
}

func titleFrom(source string) string {
	if source == "" {
		return "slideshow"
	}
	base := filepath.Base(source)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func (m *Metadata) Print() string {
	return fmt.Sprintf("Title: %s, Timestamp: %d (%s), Checksum: %016x", m.Title, m.timestamp, m.FormatDatetime(), m.checksum)
}

func (m *Metadata) FormatDatetime() string {
	t := time.Unix(m.timestamp, 0)
	return t.Local().Format(time.RFC822)
}

// Tags returns the key/value pairs written into the container.
func (m *Metadata) Tags() map[string]string {
	return map[string]string{
		"title":         m.Title,
		"comment":       fmt.Sprintf("sav:%016x", m.checksum),
		"creation_time": time.Unix(m.timestamp, 0).UTC().Format(time.RFC3339),
	}
}

func generateChecksum(data []byte) (uint64, error) {
	hasher := fnv.New64a()
	_, err := hasher.Write(data)
	if err != nil {
		return 0, fmt.Errorf("meta: error writing to hasher: %w", err)
	}
	return hasher.Sum64(), nil
}

// Summary describes a finished export.
type Summary struct {
	Output   string
	Slides   int
	Frames   int
	Duration time.Duration
	Size     int64
}

func (s Summary) Print() string {
	return fmt.Sprintf("%s: %d slides, %s frames, %s, %s",
		s.Output, s.Slides, humanize.Comma(int64(s.Frames)), s.Duration.Round(time.Millisecond), humanize.Bytes(uint64(s.Size)))
}
