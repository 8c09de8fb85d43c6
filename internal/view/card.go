// Package view turns catalog data into display-ready values shared by the
// web and terminal front ends.
package view

import (
	"github.com/ryanm101/gamehub/internal/game"
	"github.com/ryanm101/gamehub/internal/media"
	"github.com/ryanm101/gamehub/internal/option"
)

// Card is one game tile of the grid.
type Card struct {
	ID        int
	Name      string
	Slug      string
	Href      string
	Image     string
	Platforms option.Value[[]PlatformIcon] // absent: no icon row
	Score     option.Value[ScoreBadge]     // absent: no badge
}

// NewCard builds the card for g.
func NewCard(g game.Game) Card {
	return Card{
		ID:        g.ID,
		Name:      g.Name,
		Slug:      g.Slug,
		Href:      GameHref(g.Slug),
		Image:     media.CroppedImageURL(g.BackgroundImage),
		Platforms: option.Map(g.Platforms(), PlatformIcons),
		Score:     option.Map(g.Metacritic, NewScoreBadge),
	}
}

// Cards builds a card per game, keeping the first occurrence of each id.
func Cards(games []game.Game) []Card {
	seen := make(map[int]struct{}, len(games))
	out := make([]Card, 0, len(games))
	for _, g := range games {
		if _, dup := seen[g.ID]; dup {
			continue
		}
		seen[g.ID] = struct{}{}
		out = append(out, NewCard(g))
	}
	return out
}

// GameHref is the detail page path of a game.
func GameHref(slug string) string {
	return "/games/" + slug
}
