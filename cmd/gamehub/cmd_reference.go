package main

import (
	"context"
	"strconv"

	"github.com/ryanm101/gamehub/internal/view"
)

func handleGenresCommand(ctx context.Context) error {
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	genres, err := a.ref.Genres(ctx)
	if err != nil {
		return err
	}

	if outputCfg.JSON {
		PrintResult(genres)
		return nil
	}
	rows := make([][]string, 0, len(genres))
	for _, g := range genres {
		rows = append(rows, []string{strconv.Itoa(g.ID), view.GenreName(g), g.Slug})
	}
	PrintTable([]string{"ID", "Name", "Slug"}, rows)
	return nil
}

func handlePlatformsCommand(ctx context.Context) error {
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	platforms, err := a.ref.ParentPlatforms(ctx)
	if err != nil {
		return err
	}

	if outputCfg.JSON {
		PrintResult(platforms)
		return nil
	}
	rows := make([][]string, 0, len(platforms))
	for _, p := range platforms {
		rows = append(rows, []string{strconv.Itoa(p.ID), view.PlatformName(p), p.Slug, view.IconFor(p).Icon})
	}
	PrintTable([]string{"ID", "Name", "Slug", "Icon"}, rows)
	return nil
}
