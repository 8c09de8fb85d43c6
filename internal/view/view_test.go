package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ryanm101/gamehub/internal/game"
	"github.com/ryanm101/gamehub/internal/media"
	"github.com/ryanm101/gamehub/internal/option"
)

func TestNewCard(t *testing.T) {
	g := game.Game{
		ID:              3498,
		Name:            "Grand Theft Auto V",
		Slug:            "grand-theft-auto-v",
		BackgroundImage: option.Some("https://media.rawg.io/media/games/456/abc.jpg"),
		Metacritic:      option.Some(92),
		ParentPlatforms: option.Some([]game.ParentPlatform{
			{Platform: game.Platform{ID: 1, Name: "PC", Slug: "pc"}},
			{Platform: game.Platform{ID: 2, Name: "PlayStation", Slug: "playstation"}},
		}),
	}

	c := NewCard(g)
	assert.Equal(t, 3498, c.ID)
	assert.Equal(t, "/games/grand-theft-auto-v", c.Href)
	assert.Equal(t, "https://media.rawg.io/media/crop/600/400/games/456/abc.jpg", c.Image)

	icons, ok := c.Platforms.Get()
	require.True(t, ok)
	assert.Equal(t, []PlatformIcon{
		{Slug: "pc", Name: "PC", Icon: "windows"},
		{Slug: "playstation", Name: "PlayStation", Icon: "playstation"},
	}, icons)

	score, ok := c.Score.Get()
	require.True(t, ok)
	assert.Equal(t, ScoreBadge{Score: 92, Tone: ToneGreen}, score)
}

func TestNewCardAbsentFields(t *testing.T) {
	c := NewCard(game.Game{ID: 1, Name: "Bare", Slug: "bare"})

	assert.False(t, c.Platforms.IsPresent(), "no platform row")
	assert.False(t, c.Score.IsPresent(), "no badge")
	assert.Equal(t, media.PlaceholderImage, c.Image)
}

func TestCardsDeduplicates(t *testing.T) {
	games := []game.Game{{ID: 1, Name: "a"}, {ID: 2, Name: "b"}, {ID: 1, Name: "a again"}, {ID: 3, Name: "c"}}

	cards := Cards(games)
	require.Len(t, cards, 3)
	assert.Equal(t, "a", cards[0].Name)
	assert.Equal(t, 2, cards[1].ID)
	assert.Equal(t, 3, cards[2].ID)
}

func TestIconFor(t *testing.T) {
	tests := []struct {
		slug string
		icon string
	}{
		{"pc", "windows"},
		{"playstation", "playstation"},
		{"xbox", "xbox"},
		{"nintendo", "nintendo"},
		{"mac", "apple"},
		{"linux", "linux"},
		{"android", "android"},
		{"ios", "phone"},
		{"web", "globe"},
		{"atari", GenericIcon},
		{"", GenericIcon},
	}

	for _, tt := range tests {
		t.Run(tt.slug, func(t *testing.T) {
			assert.Equal(t, tt.icon, IconFor(game.Platform{Slug: tt.slug}).Icon)
		})
	}
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Role Playing Games Rpg", DisplayName("role-playing-games-rpg"))
	assert.Equal(t, "Sega", IconFor(game.Platform{Slug: "sega"}).Name)
	assert.Equal(t, "Action", GenreName(game.Genre{Slug: "action"}))
	assert.Equal(t, "RPG", GenreName(game.Genre{Name: "RPG", Slug: "role-playing-games-rpg"}))
	assert.Equal(t, "Xbox", PlatformName(game.Platform{Slug: "xbox"}))
}

func TestNewScoreBadge(t *testing.T) {
	tests := []struct {
		score int
		tone  Tone
	}{
		{100, ToneGreen},
		{76, ToneGreen},
		{75, ToneYellow},
		{61, ToneYellow},
		{60, ToneNeutral},
		{0, ToneNeutral},
	}

	for _, tt := range tests {
		b := NewScoreBadge(tt.score)
		assert.Equal(t, tt.tone, b.Tone, "score %d", tt.score)
	}
	assert.Equal(t, "88", NewScoreBadge(88).String())
}

func TestNewTrailer(t *testing.T) {
	tr := option.Some(game.Trailer{
		ID:      7,
		Name:    "Launch",
		Preview: "https://media.rawg.io/media/stories-previews/p.jpg",
		Data:    map[string]string{"480": "https://steamcdn/480.mp4", "max": "https://steamcdn/max.mp4"},
	})

	got, ok := NewTrailer(tr).Get()
	require.True(t, ok)
	assert.Equal(t, "https://steamcdn/480.mp4", got.Src)
	assert.Equal(t, "https://media.rawg.io/media/stories-previews/p.jpg", got.Poster)

	maxOnly := option.Some(game.Trailer{Data: map[string]string{"max": "m.mp4"}})
	got, ok = NewTrailer(maxOnly).Get()
	require.True(t, ok)
	assert.Equal(t, "m.mp4", got.Src)

	assert.True(t, got.Playable())

	hosted := option.Some(game.Trailer{
		Name:    "Reveal",
		Preview: "https://img.youtube.com/vi/abc/hqdefault.jpg",
		Data:    map[string]string{"watch": "https://www.youtube.com/watch?v=abc"},
	})
	got, ok = NewTrailer(hosted).Get()
	require.True(t, ok)
	assert.False(t, got.Playable(), "a watch page is not a video file")
	assert.Empty(t, got.Src)
	assert.Equal(t, "https://www.youtube.com/watch?v=abc", got.Link)

	assert.False(t, NewTrailer(option.None[game.Trailer]()).IsPresent())
	assert.False(t, NewTrailer(option.Some(game.Trailer{ID: 1})).IsPresent())
}

func TestNewDetail(t *testing.T) {
	d := NewDetail(game.GameDetail{
		Game:           game.Game{ID: 1, Name: "Portal", Slug: "portal"},
		DescriptionRaw: "Think with portals.",
		Released:       "2007-10-09",
		Genres:         []game.Genre{{Name: "Puzzle"}, {Slug: "action"}},
		Publishers:     []game.Publisher{{Name: "Valve"}},
	})

	assert.Equal(t, "/games/portal", d.Href)
	assert.Equal(t, []string{"Puzzle", "Action"}, d.Genres)
	assert.Equal(t, []string{"Valve"}, d.Publishers)
	assert.Equal(t, "Think with portals.", d.Description)
}
