package cmd

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

func VersionCmd(commit string) *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "print the version and build information",
		Action: func(c *cli.Context) error {
			fmt.Printf("Version: %s\n", c.App.Version)
			fmt.Printf("Git: %s\n", commit)
			return nil
		},
	}
}
