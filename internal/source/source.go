// Package source defines the remote games API boundary.
package source

import (
	"context"

	"github.com/ryanm101/gamehub/internal/game"
	"github.com/ryanm101/gamehub/internal/option"
)

// DefaultPageSize is the page size the upstream API uses when unset.
const DefaultPageSize = 20

// Source fetches catalog data from a remote games API.
//
// Implementations do not cache and do not retry. Errors wrap one of the
// sentinel errors of this package.
type Source interface {
	// Name returns the source name (e.g. "rawg").
	Name() string
	// Games fetches one page. An absent cursor means the first page.
	Games(ctx context.Context, q game.Query, cursor option.Value[game.Cursor], pageSize int) (game.Page, error)
	// Trailers fetches the trailer collection of a game.
	Trailers(ctx context.Context, gameID int) (game.TrailerSet, error)
	// Game fetches the detail record of a game by slug.
	Game(ctx context.Context, slug string) (game.GameDetail, error)
	// Genres lists the genres the source can filter by.
	Genres(ctx context.Context) ([]game.Genre, error)
	// ParentPlatforms lists the platform families the source can filter by.
	ParentPlatforms(ctx context.Context) ([]game.Platform, error)
}
