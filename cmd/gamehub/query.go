package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/ryanm101/gamehub/internal/game"
	"github.com/ryanm101/gamehub/internal/option"
)

// queryFlags holds the filter flags shared by listing commands.
type queryFlags struct {
	genre    int
	platform int
	ordering string
	search   string
}

func newQueryFlagSet(name string) (*flag.FlagSet, *queryFlags) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	f := &queryFlags{}
	fs.IntVar(&f.genre, "genre", 0, "genre id")
	fs.IntVar(&f.platform, "platform", 0, "parent platform id")
	fs.StringVar(&f.ordering, "ordering", "", "sort order (e.g. -rating, name)")
	fs.StringVar(&f.search, "search", "", "search text")
	return fs, f
}

type referenceLister interface {
	Genres(ctx context.Context) ([]game.Genre, error)
	ParentPlatforms(ctx context.Context) ([]game.Platform, error)
}

// query builds the query, resolving ids to names through ref.
func (f *queryFlags) query(ctx context.Context, ref referenceLister) (game.Query, error) {
	q := game.Query{
		SortOrder:  game.NormalizeOrdering(f.ordering),
		SearchText: game.NormalizeSearch(f.search),
	}
	if !validOrdering(q.SortOrder) {
		return q, fmt.Errorf("unknown ordering %q", f.ordering)
	}

	if f.genre > 0 {
		genres, err := ref.Genres(ctx)
		if err != nil {
			return q, fmt.Errorf("failed to list genres: %w", err)
		}
		g, ok := findByID(genres, f.genre, func(g game.Genre) int { return g.ID })
		if !ok {
			return q, fmt.Errorf("unknown genre id %d", f.genre)
		}
		q.Genre = option.Some(g)
	}

	if f.platform > 0 {
		platforms, err := ref.ParentPlatforms(ctx)
		if err != nil {
			return q, fmt.Errorf("failed to list platforms: %w", err)
		}
		p, ok := findByID(platforms, f.platform, func(p game.Platform) int { return p.ID })
		if !ok {
			return q, fmt.Errorf("unknown platform id %d", f.platform)
		}
		q.Platform = option.Some(p)
	}

	return q, nil
}

func validOrdering(ordering string) bool {
	for _, o := range game.SortOrders {
		if o.Value == ordering {
			return true
		}
	}
	return false
}

func findByID[T any](items []T, id int, idOf func(T) int) (T, bool) {
	for _, it := range items {
		if idOf(it) == id {
			return it, true
		}
	}
	var zero T
	return zero, false
}
