package main

import (
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/sid-acryl/lookml-lineage/cmd"
)

var (
	version = "dev"
	commit  = ""
)

func main() {
	color.NoColor = false
	isDebug := false

	app := &cli.App{
		Name:     "lookml-lineage",
		Version:  version,
		Usage:    "Resolve upstream dataset and column lineage from parsed LookML views",
		Compiled: time.Now(),
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "debug",
				Usage:       "enable debug logging",
				Destination: &isDebug,
			},
		},
		Commands: []*cli.Command{
			cmd.Lineage(&isDebug),
			cmd.VersionCmd(commit),
		},
	}

	if err := app.Run(os.Args); err != nil {
		color.New(color.FgRed, color.Bold).Println(err)
		os.Exit(1)
	}
}
