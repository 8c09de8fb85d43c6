package view

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ryanm101/gamehub/internal/game"
)

// GenericIcon is used for platforms without a dedicated icon.
const GenericIcon = "device"

// platformIcons maps parent platform slugs to icon names.
var platformIcons = map[string]string{
	"pc":          "windows",
	"playstation": "playstation",
	"xbox":        "xbox",
	"nintendo":    "nintendo",
	"mac":         "apple",
	"linux":       "linux",
	"android":     "android",
	"ios":         "phone",
	"web":         "globe",
}

// PlatformIcon is a platform badge.
type PlatformIcon struct {
	Slug string
	Name string
	Icon string
}

// IconFor returns the badge of p.
func IconFor(p game.Platform) PlatformIcon {
	icon, ok := platformIcons[p.Slug]
	if !ok {
		icon = GenericIcon
	}
	name := p.Name
	if name == "" {
		name = DisplayName(p.Slug)
	}
	return PlatformIcon{Slug: p.Slug, Name: name, Icon: icon}
}

// PlatformIcons returns a badge per platform, in order.
func PlatformIcons(ps []game.Platform) []PlatformIcon {
	out := make([]PlatformIcon, 0, len(ps))
	for _, p := range ps {
		out = append(out, IconFor(p))
	}
	return out
}

var titleCaser = cases.Title(language.English)

// DisplayName turns a slug such as "role-playing-games-rpg" into
// "Role Playing Games Rpg".
func DisplayName(slug string) string {
	return titleCaser.String(strings.ReplaceAll(slug, "-", " "))
}

// GenreName returns the display name of g.
func GenreName(g game.Genre) string {
	if g.Name != "" {
		return g.Name
	}
	return DisplayName(g.Slug)
}

// PlatformName returns the display name of p.
func PlatformName(p game.Platform) string {
	if p.Name != "" {
		return p.Name
	}
	return DisplayName(p.Slug)
}
