package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	root := &cli.Command{
		Name:  "folio",
		Usage: "Serve and manage a tag-filtered portfolio site",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log",
				Usage: "Log level: debug, info, warn, error",
				Value: "info",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			level, err := log.ParseLevel(cmd.String("log"))
			if err != nil {
				return ctx, err
			}
			log.SetLevel(level)
			return ctx, nil
		},
		Commands: []*cli.Command{
			serveCmd(),
			importCmd(),
			lsCmd(),
			{
				Name:  "version",
				Usage: "Print the folio version",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					fmt.Printf("folio %s\n", version)
					return nil
				},
			},
		},
	}

	if err := root.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
