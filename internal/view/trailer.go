package view

import (
	"github.com/ryanm101/gamehub/internal/game"
	"github.com/ryanm101/gamehub/internal/option"
)

// Trailer is a video with its poster frame. Src is a file a video element
// can play. Link is a page hosting the video, set only when there is no
// Src.
type Trailer struct {
	Name   string
	Src    string
	Link   string
	Poster string
}

// Playable reports whether t can be played inline.
func (t Trailer) Playable() bool { return t.Src != "" }

// NewTrailer selects the 480p variant of t, falling back to the largest
// one, then to a watch page. A trailer with none of these is treated as
// absent.
func NewTrailer(t option.Value[game.Trailer]) option.Value[Trailer] {
	tr, ok := t.Get()
	if !ok {
		return option.None[Trailer]()
	}
	src := tr.Data["480"]
	if src == "" {
		src = tr.Data["max"]
	}
	if src != "" {
		return option.Some(Trailer{Name: tr.Name, Src: src, Poster: tr.Preview})
	}
	if link := tr.Data["watch"]; link != "" {
		return option.Some(Trailer{Name: tr.Name, Link: link, Poster: tr.Preview})
	}
	return option.None[Trailer]()
}
