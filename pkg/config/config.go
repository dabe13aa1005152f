package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// NOTE: frames are packed top-down, 4 bytes per pixel
const (
	FrameWidth       = 1920
	FrameHeight      = 1080
	FrameRate        = 30
	SizePixel        = 4
	BitrateKbps      = 8000
	MinTimerInterval = 10 // ms

	// slideshow definition file
	FileExt   = ".sav"
	Delimiter = ';'

	PathVideoOut = "output.mp4"
	FFmpegBinary = "ffmpeg"

	EnvConfig = "SAV_CONFIG"
)

// FrameSize is the size in bytes of one packed width x height frame.
func FrameSize(width, height int) int {
	return width * height * SizePixel
}

type Video struct {
	Width       int    `toml:"width"`
	Height      int    `toml:"height"`
	BitrateKbps int    `toml:"bitrate_kbps"`
	FPS         int    `toml:"fps"`
	Scale       string `toml:"scale"`
	FFmpeg      string `toml:"ffmpeg"`
	Output      string `toml:"output"`
}

type Slideshow struct {
	DefaultDurationMs int `toml:"default_duration_ms"`
}

type Preview struct {
	Loop    bool `toml:"loop"`
	Reverse bool `toml:"reverse"`
}

// Config is the on-disk settings file. Every field is optional.
type Config struct {
	Video     Video     `toml:"video"`
	Slideshow Slideshow `toml:"slideshow"`
	Preview   Preview   `toml:"preview"`
}

func Default() Config {
	return Config{
		Video: Video{
			Width:       FrameWidth,
			Height:      FrameHeight,
			BitrateKbps: BitrateKbps,
			FPS:         FrameRate,
			Scale:       "stretch",
			FFmpeg:      FFmpegBinary,
			Output:      PathVideoOut,
		},
	}
}

// Load reads the config at path over the defaults. An empty path falls back
// to $SAV_CONFIG and then the user config dir; a missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if path == "" {
		path = defaultPath()
	}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var problems []string
	if c.Video.Width <= 0 || c.Video.Height <= 0 {
		problems = append(problems, "video width and height must be positive")
	}
	if c.Video.BitrateKbps <= 0 {
		problems = append(problems, "video bitrate_kbps must be positive")
	}
	if c.Video.FPS <= 0 {
		problems = append(problems, "video fps must be positive")
	}
	switch c.Video.Scale {
	case "", "stretch", "fit":
	default:
		problems = append(problems, fmt.Sprintf("video scale %q must be stretch or fit", c.Video.Scale))
	}
	if c.Slideshow.DefaultDurationMs < 0 {
		problems = append(problems, "slideshow default_duration_ms cannot be negative")
	}
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func defaultPath() string {
	if p := os.Getenv(EnvConfig); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "sav", "config.toml")
}
