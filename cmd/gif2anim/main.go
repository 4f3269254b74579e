package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/bodgit/gif2anim"
	"github.com/bodgit/gif2anim/profile"
	"github.com/hashicorp/go-hclog"
	"github.com/urfave/cli/v2"
)

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func newLogger(c *cli.Context) hclog.Logger {
	if !c.Bool("verbose") {
		return hclog.NewNullLogger()
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:   "gif2anim",
		Level:  hclog.Debug,
		Output: os.Stderr,
	})
}

func newConverter(c *cli.Context) (*gif2anim.Converter, func() error, error) {
	options := []gif2anim.Option{
		gif2anim.WithWorkers(c.Int("workers")),
	}

	closer := func() error { return nil }
	if db := c.String("db"); db != "" {
		cache, err := gif2anim.NewCache(db)
		if err != nil {
			return nil, nil, err
		}
		options = append(options, gif2anim.WithCache(cache))
		closer = cache.Close
	}

	return gif2anim.New(newLogger(c), options...), closer, nil
}

// Checks the arguments before anything is opened or created
func checkArgs(c *cli.Context) error {
	if c.NArg() < 3 {
		_ = cli.ShowCommandHelp(c, c.Command.Name)
		return cli.Exit(fmt.Sprintf("missing arguments, expected %s", c.Command.ArgsUsage), 1)
	}
	if _, err := profile.Lookup(c.Args().Get(2)); err != nil {
		return cli.Exit(fmt.Sprintf("invalid file format %q, must be one of: %s", c.Args().Get(2), strings.Join(profile.Tags(), ", ")), 1)
	}
	return nil
}

func newApp() *cli.App {
	app := cli.NewApp()

	app.Name = "gif2anim"
	app.Usage = "Animated GIF to display firmware animation converter"
	app.Version = "1.0.0"

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"GIF2ANIM_DB"},
			Usage:   "path to conversion cache database",
		},
		&cli.IntFlag{
			Name:  "workers",
			Usage: "number of frames to process in parallel",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:        "convert",
			Usage:       "Convert an animated GIF",
			Description: "FORMAT is one of " + strings.Join(profile.Tags(), ", "),
			ArgsUsage:   "INPUT OUTPUT FORMAT",
			Action: func(c *cli.Context) error {
				if err := checkArgs(c); err != nil {
					return err
				}

				conv, closer, err := newConverter(c)
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer closer()

				if err := conv.ConvertFile(c.Args().Get(0), c.Args().Get(1), c.Args().Get(2)); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "preview",
			Usage:       "Render an animated GIF as it will appear on the display",
			Description: "FORMAT is one of " + strings.Join(profile.Tags(), ", "),
			ArgsUsage:   "INPUT OUTPUT FORMAT",
			Action: func(c *cli.Context) error {
				if err := checkArgs(c); err != nil {
					return err
				}

				conv, closer, err := newConverter(c)
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer closer()

				if err := conv.PreviewFile(c.Args().Get(0), c.Args().Get(1), c.Args().Get(2)); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
		{
			Name:  "formats",
			Usage: "List the supported output formats",
			Action: func(c *cli.Context) error {
				for _, p := range profile.All() {
					fmt.Fprintln(c.App.Writer, p)
				}
				return nil
			},
		},
	}

	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
