package web

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/ryanm101/gamehub/internal/game"
	"github.com/ryanm101/gamehub/internal/option"
)

// parseQuery reads the filter parameters genre, platform, ordering and
// search. Genre and platform ids are resolved against the given lists so
// headings carry names; unknown ids are kept without a name.
func parseQuery(v url.Values, genres []game.Genre, platforms []game.Platform) (game.Query, error) {
	var q game.Query

	id, ok, err := optionalID(v, "genre")
	if err != nil {
		return q, err
	}
	if ok {
		q.Genre = option.Some(findGenre(genres, id))
	}

	id, ok, err = optionalID(v, "platform")
	if err != nil {
		return q, err
	}
	if ok {
		q.Platform = option.Some(findPlatform(platforms, id))
	}

	q.SortOrder = game.NormalizeOrdering(v.Get("ordering"))
	q.SearchText = strings.TrimSpace(v.Get("search"))
	return q, nil
}

func optionalID(v url.Values, name string) (int, bool, error) {
	raw := strings.TrimSpace(v.Get(name))
	if raw == "" {
		return 0, false, nil
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, false, fmt.Errorf("%w: %s must be a positive id", errBadRequest, name)
	}
	return id, true, nil
}

func findGenre(genres []game.Genre, id int) game.Genre {
	for _, g := range genres {
		if g.ID == id {
			return g
		}
	}
	return game.Genre{ID: id}
}

func findPlatform(platforms []game.Platform, id int) game.Platform {
	for _, p := range platforms {
		if p.ID == id {
			return p
		}
	}
	return game.Platform{ID: id}
}
