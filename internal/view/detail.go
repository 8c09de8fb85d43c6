package view

import "github.com/ryanm101/gamehub/internal/game"

// Detail is the game detail page model.
type Detail struct {
	Card
	Description string
	Released    string
	Website     string
	Genres      []string
	Publishers  []string
}

// NewDetail builds the detail model of d.
func NewDetail(d game.GameDetail) Detail {
	out := Detail{
		Card:        NewCard(d.Game),
		Description: d.DescriptionRaw,
		Released:    d.Released,
		Website:     d.Website,
	}
	for _, g := range d.Genres {
		out.Genres = append(out.Genres, GenreName(g))
	}
	for _, p := range d.Publishers {
		out.Publishers = append(out.Publishers, p.Name)
	}
	return out
}
