package main

import (
	"context"
	"errors"

	"github.com/urfave/cli"

	cfg "github.com/OldSensei/simple-animation-viewer/pkg/config"
	"github.com/OldSensei/simple-animation-viewer/pkg/core"
	"github.com/OldSensei/simple-animation-viewer/pkg/slideshow"
)

var playCommand = cli.Command{
	Name:      "play",
	Aliases:   []string{"p"},
	Usage:     "Preview the slideshow timing, printing each image as it comes up",
	ArgsUsage: "file" + cfg.FileExt,
	Flags: []cli.Flag{
		cli.BoolFlag{Name: "loop, l", Usage: "start over after the last image"},
		cli.BoolFlag{Name: "reverse, r", Usage: "play backwards after the last image"},
	},
	Action: func(c *cli.Context) error {
		file, err := getArg(c, 0, "slideshow file")
		if err != nil {
			return err
		}
		lib := slideshow.NewLibrary()
		slides, err := lib.LoadFile(file)
		if err != nil {
			return err
		}

		looped := c.Bool("loop") || settings.Preview.Loop
		reverse := c.Bool("reverse") || settings.Preview.Reverse
		err = core.NewCore(ctx, nil).Preview(lib, slideshow.Rows(slides), looped, reverse, func(f core.Frame) {
			if f.Err != nil {
				return
			}
			b := f.Image.Bounds()
			log.Infof("%s %dx%d", f.Name, b.Dx(), b.Dy())
		})
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}
