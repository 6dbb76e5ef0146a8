package main

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"

	"github.com/eringen/folio/content"
)

func importCmd() *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "Load YAML content documents into the SQLite store",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "dir",
				Usage: "Content directory holding bio.yaml and posts/",
				Value: "content",
			},
			&cli.StringFlag{
				Name:  "db",
				Usage: "SQLite database path",
				Value: "data/folio.db",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			src := content.NewDir(cmd.String("dir"), log.Default())
			posts, err := src.LoadAll()
			if err != nil {
				return err
			}
			bio, err := src.FetchBio(ctx)
			if err != nil {
				return err
			}

			store, err := content.NewStore(cmd.String("db"))
			if err != nil {
				return err
			}
			defer store.Close()

			n, err := importContent(ctx, store, posts, bio, progressbar.NewOptions(len(posts),
				progressbar.OptionSetDescription("Importing posts"),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
				progressbar.OptionClearOnFinish(),
			))
			if err != nil {
				return err
			}
			log.Info("import finished", "posts", n, "bio", bio != nil, "db", cmd.String("db"))
			return nil
		},
	}
}

// importContent saves posts and the bio, advancing bar once per post.
func importContent(ctx context.Context, w content.Writer, posts []content.Post, bio *content.Bio, bar *progressbar.ProgressBar) (int, error) {
	n := 0
	for _, p := range posts {
		bar.Describe(p.Slug)
		if _, err := w.SavePost(ctx, p); err != nil {
			return n, fmt.Errorf("import %s: %w", p.Slug, err)
		}
		n++
		_ = bar.Add(1)
	}
	_ = bar.Finish()
	if bio != nil {
		if err := w.SaveBio(ctx, *bio); err != nil {
			return n, fmt.Errorf("import bio: %w", err)
		}
	}
	return n, nil
}
