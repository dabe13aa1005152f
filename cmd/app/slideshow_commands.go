package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli"

	cfg "github.com/OldSensei/simple-animation-viewer/pkg/config"
	"github.com/OldSensei/simple-animation-viewer/pkg/slideshow"
	"github.com/OldSensei/simple-animation-viewer/pkg/storage"
)

var scanCommand = cli.Command{
	Name:      "scan",
	Aliases:   []string{"s"},
	Usage:     "Create a slideshow from the images of a folder",
	ArgsUsage: "folder",
	Flags: []cli.Flag{
		cli.StringFlag{Name: "output, o", Usage: "slideshow file to write (default <folder>/<folder>" + cfg.FileExt + ")"},
		cli.IntFlag{Name: "duration, d", Value: -1, Usage: "duration of every image in ms (default from settings)"},
	},
	Action: func(c *cli.Context) error {
		dir, err := getArg(c, 0, "folder")
		if err != nil {
			return err
		}
		out := c.String("output")
		if out == "" {
			abs, err := filepath.Abs(dir)
			if err != nil {
				return err
			}
			out = filepath.Join(abs, filepath.Base(abs)+cfg.FileExt)
		}
		d := c.Int("duration")
		if d < 0 {
			d = settings.Slideshow.DefaultDurationMs
		}
		return scan(dir, out, time.Duration(d)*time.Millisecond)
	},
}

func scan(dir, out string, d time.Duration) error {
	slides, err := slideshow.NewLibrary().LoadFolder(dir)
	if err != nil {
		return err
	}
	if len(slides) == 0 {
		return fmt.Errorf("no images found in %s", dir)
	}
	for i := range slides {
		slides[i].Duration = d
	}
	if err := slideshow.WriteFile(out, slides); err != nil {
		return err
	}
	log.Infof("Saved %d images to %s", len(slides), out)
	return nil
}

var showCommand = cli.Command{
	Name:      "show",
	Aliases:   []string{"ls"},
	Usage:     "List the images and durations of a slideshow",
	ArgsUsage: "file" + cfg.FileExt,
	Action: func(c *cli.Context) error {
		file, err := getArg(c, 0, "slideshow file")
		if err != nil {
			return err
		}
		slides, err := slideshow.NewLibrary().LoadFile(file)
		if err != nil {
			return err
		}
		return show(os.Stdout, slides)
	},
}

func show(w io.Writer, slides []slideshow.Slide) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tNAME\tDURATION\tSIZE")
	for i, s := range slides {
		size := "missing"
		if n := storage.Size(s.Path); n > 0 {
			size = humanize.Bytes(uint64(n))
		}
		fmt.Fprintf(tw, "%d\t%s\t%dms\t%s\n", i+1, s.Name(), s.Ms(), size)
	}
	fmt.Fprintf(tw, "\t%d images\t%s\t\n", len(slides), slideshow.Total(slides))
	return tw.Flush()
}

// editRows loads a slideshow as rows, lets fn change them and saves the result.
func editRows(file string, fn func([]slideshow.Row) ([]slideshow.Row, error)) error {
	lib := slideshow.NewLibrary()
	slides, err := lib.LoadFile(file)
	if err != nil {
		return err
	}
	rows, err := fn(slideshow.Rows(slides))
	if err != nil {
		return err
	}
	return lib.Save(file, rows)
}

var setCommand = cli.Command{
	Name:      "set",
	Usage:     "Change how long an image is shown",
	ArgsUsage: "file" + cfg.FileExt + " name|# ms",
	Action: func(c *cli.Context) error {
		file, err := getArg(c, 0, "slideshow file")
		if err != nil {
			return err
		}
		key, err := getArg(c, 1, "image name or number")
		if err != nil {
			return err
		}
		value, err := getArg(c, 2, "duration")
		if err != nil {
			return err
		}
		return editRows(file, func(rows []slideshow.Row) ([]slideshow.Row, error) {
			i, err := slideshow.Find(rows, key)
			if err != nil {
				return nil, err
			}
			if slideshow.ParseDuration(value) == 0 && value != "0" {
				log.Warnf("%q is not a duration, %s gets no frames in the video", value, rows[i].Name)
			}
			return rows, slideshow.SetDuration(rows, i, value)
		})
	},
}

var moveCommand = cli.Command{
	Name:      "move",
	Aliases:   []string{"mv"},
	Usage:     "Move an image to another position",
	ArgsUsage: "file" + cfg.FileExt + " from to",
	Action: func(c *cli.Context) error {
		file, err := getArg(c, 0, "slideshow file")
		if err != nil {
			return err
		}
		from, err := getArg(c, 1, "from")
		if err != nil {
			return err
		}
		to, err := getArg(c, 2, "to")
		if err != nil {
			return err
		}
		return editRows(file, func(rows []slideshow.Row) ([]slideshow.Row, error) {
			f, err := slideshow.Find(rows, from)
			if err != nil {
				return nil, err
			}
			t, err := slideshow.Find(rows, to)
			if err != nil {
				return nil, err
			}
			return rows, slideshow.Move(rows, f, t)
		})
	},
}

var removeCommand = cli.Command{
	Name:      "remove",
	Aliases:   []string{"rm"},
	Usage:     "Drop an image from a slideshow",
	ArgsUsage: "file" + cfg.FileExt + " name|#",
	Action: func(c *cli.Context) error {
		file, err := getArg(c, 0, "slideshow file")
		if err != nil {
			return err
		}
		key, err := getArg(c, 1, "image name or number")
		if err != nil {
			return err
		}
		return editRows(file, func(rows []slideshow.Row) ([]slideshow.Row, error) {
			i, err := slideshow.Find(rows, key)
			if err != nil {
				return nil, err
			}
			return slideshow.Remove(rows, i)
		})
	},
}
