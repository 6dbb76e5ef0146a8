package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"github.com/eringen/folio/content"
	"github.com/eringen/folio/viewstate"
)

var (
	colorBright = lipgloss.AdaptiveColor{Light: "#0f172a", Dark: "#f1f5f9"}
	colorDim    = lipgloss.AdaptiveColor{Light: "#94a3b8", Dark: "#64748b"}
	colorTag    = lipgloss.AdaptiveColor{Light: "#7c3aed", Dark: "#a78bfa"}
	colorActive = lipgloss.AdaptiveColor{Light: "#059669", Dark: "#34d399"}

	styleTitle  = lipgloss.NewStyle().Foreground(colorBright).Bold(true)
	styleMeta   = lipgloss.NewStyle().Foreground(colorDim)
	styleTag    = lipgloss.NewStyle().Foreground(colorTag)
	styleActive = lipgloss.NewStyle().Foreground(colorActive).Bold(true)
	styleYear   = lipgloss.NewStyle().Foreground(colorDim).Width(6)
)

func lsCmd() *cli.Command {
	return &cli.Command{
		Name:  "ls",
		Usage: "List the posts a visitor would see for a tag filter",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "dir",
				Usage: "Read from a content directory instead of the database",
			},
			&cli.StringFlag{
				Name:  "db",
				Usage: "SQLite database path",
				Value: "data/folio.db",
			},
			&cli.StringFlag{
				Name:  "tags",
				Usage: "Comma-separated tag filter",
			},
			&cli.BoolFlag{
				Name:  "all",
				Usage: "Require every tag instead of any",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			var src content.Source
			if dir := cmd.String("dir"); dir != "" {
				src = content.NewDir(dir, log.Default())
			} else {
				store, err := content.NewStore(cmd.String("db"))
				if err != nil {
					return err
				}
				defer store.Close()
				src = store
			}
			posts, err := src.FetchPosts(ctx)
			if err != nil {
				return err
			}
			active := content.NormalizeTags(strings.Split(cmd.String("tags"), ","))
			printPosts(os.Stdout, posts, active, cmd.Bool("all"))
			return nil
		},
	}
}

// listed applies the same derivations as the home page.
func listed(posts []content.Post, active []string, all bool) []content.Post {
	if all {
		return viewstate.SortByDateDesc(viewstate.FilterAll(posts, active))
	}
	return viewstate.Visible(posts, active)
}

func printPosts(w io.Writer, posts []content.Post, active []string, all bool) {
	visible := listed(posts, active, all)
	for _, p := range visible {
		year := "-"
		if y := p.Year(); y > 0 {
			year = fmt.Sprint(y)
		}
		line := styleYear.Render(year) + styleTitle.Render(p.Title)
		if p.Subtitle != "" {
			line += " " + styleMeta.Render(p.Subtitle)
		}
		fmt.Fprintln(w, line)

		var tags []string
		for _, t := range p.Tags {
			if contains(active, t) {
				tags = append(tags, styleActive.Render(t))
			} else {
				tags = append(tags, styleTag.Render(t))
			}
		}
		meta := styleMeta.Render(p.Link())
		if !p.CreatedAt.IsZero() {
			meta += styleMeta.Render(" · added " + humanize.Time(p.CreatedAt))
		}
		fmt.Fprintln(w, "      "+meta)
		if len(tags) > 0 {
			fmt.Fprintln(w, "      "+strings.Join(tags, styleMeta.Render(", ")))
		}
	}
	fmt.Fprintln(w, styleMeta.Render(fmt.Sprintf("%d of %d posts", len(visible), len(posts))))
}

func contains(vals []string, v string) bool {
	for _, s := range vals {
		if s == v {
			return true
		}
	}
	return false
}
