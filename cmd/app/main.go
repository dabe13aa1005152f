package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli"

	"github.com/OldSensei/simple-animation-viewer/pkg/config"
	"github.com/OldSensei/simple-animation-viewer/pkg/logger"
)

var app = cli.NewApp()
var log = logger.Log

// settings is loaded once in app.Before
var settings = config.Default()

// ctx is canceled on Ctrl-C
var ctx = context.Background()

func init() {
	app.Name = "sav"
	app.Usage = "Simple Animation Viewer: time a folder of images and export it as a video"
	app.UsageText = "sav [--config file] command [arguments]"
	app.HideVersion = true
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:   "config",
			Usage:  "settings file (TOML)",
			EnvVar: config.EnvConfig,
		},
		cli.BoolFlag{
			Name:  "verbose",
			Usage: "debug logging",
		},
	}
	app.Before = func(c *cli.Context) error {
		logger.SetVerbose(c.Bool("verbose"))
		s, err := config.Load(c.String("config"))
		if err != nil {
			return err
		}
		settings = s
		return nil
	}
	app.Commands = []cli.Command{
		scanCommand,
		showCommand,
		setCommand,
		moveCommand,
		removeCommand,
		playCommand,
		exportCommand,
	}
}

func getArg(c *cli.Context, i int, name string) (string, error) {
	v := c.Args().Get(i)
	if v == "" {
		return "", fmt.Errorf("%s is required", name)
	}
	return v, nil
}

func main() {
	var stop context.CancelFunc
	ctx, stop = signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := app.Run(os.Args)
	if err != nil {
		stop()
		log.Fatal(err)
	}
}
