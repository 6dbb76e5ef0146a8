package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/eringen/folio"
)

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the portfolio web server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "YAML config file; FOLIO_* environment variables override it",
				Value:   "folio.yaml",
			},
			&cli.StringFlag{
				Name:  "addr",
				Usage: "Listen address, overrides the config",
			},
			&cli.StringFlag{
				Name:  "static",
				Usage: "Directory for static assets and uploads",
				Value: "public",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := folio.LoadConfig(cmd.String("config"))
			if err != nil {
				return err
			}
			if addr := cmd.String("addr"); addr != "" {
				cfg.Addr = addr
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			app := folio.New(cfg, folio.DefaultViews(),
				folio.WithLogger(log.Default()),
				folio.WithStaticDir(cmd.String("static")),
			)
			defer app.Close()
			return app.Start(ctx)
		},
	}
}
