package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/schollz/progressbar/v3"

	"github.com/ryanm101/gamehub/internal/catalog"
	"github.com/ryanm101/gamehub/internal/view"
)

func handleGamesCommand(ctx context.Context, args []string) error {
	fs, flags := newQueryFlagSet("games")
	pages := fs.Int("pages", 1, "number of pages to fetch")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *pages < 1 {
		return fmt.Errorf("--pages must be at least 1")
	}

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	q, err := flags.query(ctx, a.ref)
	if err != nil {
		return err
	}

	cache := catalog.NewCache(a.src, cfg.PageSize)
	defer cache.Close()

	v, err := cache.NewView(q)
	if err != nil {
		return err
	}
	defer v.Close()

	var bar *progressbar.ProgressBar
	if *pages > 1 && !outputCfg.Quiet && !outputCfg.JSON {
		bar = progressbar.Default(int64(*pages), "Fetching pages")
	}

	snap, err := v.Await(ctx)
	for err == nil && len(snap.Pages) < *pages && snap.HasMore {
		if bar != nil {
			_ = bar.Set(len(snap.Pages))
		}
		snap, err = v.FetchNext(ctx)
	}
	if bar != nil {
		_ = bar.Finish()
	}
	if err != nil {
		return err
	}

	cards := view.Cards(snap.Games())
	if outputCfg.JSON {
		PrintResult(cards)
		return nil
	}

	PrintInfo("%s\n\n", q.Heading())
	rows := make([][]string, 0, len(cards))
	for _, c := range cards {
		rows = append(rows, cardRow(c))
	}
	PrintTable([]string{"ID", "Name", "Score", "Platforms", "Slug"}, rows)
	if snap.HasMore {
		PrintInfo("\nMore results available (use --pages %d)\n", len(snap.Pages)+1)
	}
	return nil
}

func cardRow(c view.Card) []string {
	score := "-"
	if b, ok := c.Score.Get(); ok {
		score = b.String()
	}
	var names []string
	for _, p := range c.Platforms.OrElse(nil) {
		names = append(names, p.Name)
	}
	return []string{strconv.Itoa(c.ID), c.Name, score, strings.Join(names, ", "), c.Slug}
}
