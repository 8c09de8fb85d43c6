package catalog

import (
	"context"

	"github.com/ryanm101/gamehub/internal/game"
	"github.com/ryanm101/gamehub/internal/option"
	"github.com/ryanm101/gamehub/internal/source"
)

// LoadTrailer fetches a game's trailers and picks the first one. A game
// without trailers yields an absent value and no error.
func LoadTrailer(ctx context.Context, src source.Source, gameID int) (option.Value[game.Trailer], error) {
	set, err := src.Trailers(ctx, gameID)
	if err != nil {
		return option.None[game.Trailer](), err
	}
	return set.First(), nil
}
