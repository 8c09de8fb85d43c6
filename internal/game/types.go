// Package game holds the catalog data model shared by sources and views.
package game

import (
	"github.com/ryanm101/gamehub/internal/option"
)

// Platform is a platform family such as "PlayStation" or "PC".
type Platform struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// ParentPlatform wraps a Platform the way the upstream API nests it.
type ParentPlatform struct {
	Platform Platform `json:"platform"`
}

// Genre is a game genre.
type Genre struct {
	ID              int    `json:"id"`
	Name            string `json:"name"`
	Slug            string `json:"slug"`
	ImageBackground string `json:"image_background,omitempty"`
}

// Publisher is a game publisher.
type Publisher struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Game is an immutable snapshot of one catalog entry.
type Game struct {
	ID              int                            `json:"id"`
	Name            string                         `json:"name"`
	Slug            string                         `json:"slug"`
	BackgroundImage option.Value[string]           `json:"background_image"`
	Metacritic      option.Value[int]              `json:"metacritic"`
	ParentPlatforms option.Value[[]ParentPlatform] `json:"parent_platforms"`
}

// Platforms unwraps the parent platform list. Absent stays absent.
func (g Game) Platforms() option.Value[[]Platform] {
	return option.Map(g.ParentPlatforms, func(pp []ParentPlatform) []Platform {
		out := make([]Platform, 0, len(pp))
		for _, p := range pp {
			out = append(out, p.Platform)
		}
		return out
	})
}

// GameDetail is a Game with the fields only the detail endpoint returns.
type GameDetail struct {
	Game
	DescriptionRaw string      `json:"description_raw"`
	Released       string      `json:"released"`
	Website        string      `json:"website"`
	Genres         []Genre     `json:"genres"`
	Publishers     []Publisher `json:"publishers"`
}

// Cursor is an opaque next-page token issued by a source.
type Cursor string

// Page is one batch of games plus the cursor for the next batch.
type Page struct {
	Games []Game
	Next  option.Value[Cursor]
	Count int
}

// HasNext reports whether the source announced a further page.
func (p Page) HasNext() bool {
	return p.Next.IsPresent()
}

// Trailer is one trailer with resolution-keyed video URLs.
type Trailer struct {
	ID      int               `json:"id"`
	Name    string            `json:"name"`
	Preview string            `json:"preview"`
	Data    map[string]string `json:"data"`
}

// TrailerSet is the trailer collection of one game.
type TrailerSet struct {
	Count   int       `json:"count"`
	Results []Trailer `json:"results"`
}

// First returns the first trailer, if any.
func (s TrailerSet) First() option.Value[Trailer] {
	if len(s.Results) == 0 {
		return option.None[Trailer]()
	}
	return option.Some(s.Results[0])
}
