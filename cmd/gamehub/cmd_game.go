package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/ryanm101/gamehub/internal/catalog"
	"github.com/ryanm101/gamehub/internal/view"
)

func handleGameCommand(ctx context.Context, slug string) error {
	src, err := openSource(ctx, cfg)
	if err != nil {
		return err
	}

	d, err := src.Game(ctx, slug)
	if err != nil {
		return err
	}
	detail := view.NewDetail(d)

	if outputCfg.JSON {
		PrintResult(detail)
		return nil
	}

	fmt.Printf("%s\n", detail.Name)
	fmt.Printf("  ID:         %d\n", detail.ID)
	if b, ok := detail.Score.Get(); ok {
		fmt.Printf("  Metascore:  %s\n", b)
	}
	if detail.Released != "" {
		fmt.Printf("  Released:   %s\n", detail.Released)
	}
	if len(detail.Genres) > 0 {
		fmt.Printf("  Genres:     %s\n", strings.Join(detail.Genres, ", "))
	}
	if len(detail.Publishers) > 0 {
		fmt.Printf("  Publishers: %s\n", strings.Join(detail.Publishers, ", "))
	}
	if detail.Website != "" {
		fmt.Printf("  Website:    %s\n", detail.Website)
	}
	if detail.Description != "" {
		fmt.Println()
		fmt.Println(detail.Description)
	}
	return nil
}

func handleTrailerCommand(ctx context.Context, rawID string) error {
	id, err := strconv.Atoi(rawID)
	if err != nil || id <= 0 {
		return fmt.Errorf("invalid game id %q", rawID)
	}

	src, err := openSource(ctx, cfg)
	if err != nil {
		return err
	}

	t, err := catalog.LoadTrailer(ctx, src, id)
	if err != nil {
		return err
	}

	tr, ok := view.NewTrailer(t).Get()
	if !ok {
		if outputCfg.JSON {
			PrintResult(nil)
			return nil
		}
		PrintInfo("No trailer for game %d\n", id)
		return nil
	}

	if outputCfg.JSON {
		PrintResult(tr)
		return nil
	}
	fmt.Printf("%s\n", tr.Name)
	if tr.Playable() {
		fmt.Printf("  Video:  %s\n", tr.Src)
	} else {
		fmt.Printf("  Watch:  %s\n", tr.Link)
	}
	fmt.Printf("  Poster: %s\n", tr.Poster)
	return nil
}
