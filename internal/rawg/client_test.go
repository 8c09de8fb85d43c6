package rawg

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ryanm101/gamehub/internal/game"
	"github.com/ryanm101/gamehub/internal/option"
	"github.com/ryanm101/gamehub/internal/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := New(srv.URL+"/api", "test-key", WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	return c, srv
}

func TestNew_Validation(t *testing.T) {
	_, err := New("not a url", "k")
	assert.Error(t, err)

	_, err = New("https://api.rawg.io/api", "")
	assert.Error(t, err)

	c, err := New("https://api.rawg.io/api/", "k")
	require.NoError(t, err)
	assert.Equal(t, "rawg", c.Name())
}

func TestGames_FirstPageParams(t *testing.T) {
	var srvURL string
	c, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/games", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "test-key", q.Get("key"))
		assert.Equal(t, "4", q.Get("genres"))
		assert.Equal(t, "2", q.Get("parent_platforms"))
		assert.Equal(t, "-metacritic", q.Get("ordering"))
		assert.Equal(t, "zelda breath", q.Get("search"))
		assert.Equal(t, "20", q.Get("page_size"))

		_, _ = fmt.Fprintf(w, `{
			"count": 42,
			"next": "%s/api/games?key=test-key&page=2&page_size=20",
			"results": [
				{"id": 1, "name": "One", "slug": "one", "metacritic": 91,
				 "background_image": "https://media.rawg.io/media/games/1.jpg",
				 "parent_platforms": [{"platform": {"id": 1, "name": "PC", "slug": "pc"}}]},
				{"id": 2, "name": "Two", "slug": "two", "metacritic": null}
			]
		}`, srvURL)
	})
	srvURL = srv.URL

	q := game.Query{
		Genre:      option.Some(game.Genre{ID: 4, Name: "Action"}),
		Platform:   option.Some(game.Platform{ID: 2, Name: "PlayStation"}),
		SortOrder:  " -Metacritic",
		SearchText: " zelda   breath ",
	}
	page, err := c.Games(context.Background(), q, option.None[game.Cursor](), 20)
	require.NoError(t, err)

	assert.Equal(t, 42, page.Count)
	require.Len(t, page.Games, 2)
	assert.Equal(t, "One", page.Games[0].Name)
	assert.Equal(t, option.Some(91), page.Games[0].Metacritic)
	assert.False(t, page.Games[1].Metacritic.IsPresent())
	assert.False(t, page.Games[1].ParentPlatforms.IsPresent())
	assert.True(t, page.HasNext())
}

func TestGames_FollowsCursor(t *testing.T) {
	var calls int
	c, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		_, _ = w.Write([]byte(`{"count": 3, "next": null, "results": [{"id": 3, "name": "Three"}]}`))
	})

	cursor := option.Some(game.Cursor(srv.URL + "/api/games?page=2&page_size=20"))
	page, err := c.Games(context.Background(), game.Query{}, cursor, 20)
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.False(t, page.HasNext(), "null next means no further page")
	require.Len(t, page.Games, 1)
	assert.Equal(t, 3, page.Games[0].ID)
}

func TestGames_RejectsForeignCursor(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})

	_, err := c.Games(context.Background(), game.Query{}, option.Some(game.Cursor("https://evil.example.com/api/games?page=2")), 20)
	require.Error(t, err)
	assert.True(t, errors.Is(err, source.ErrDecode))
}

func TestGames_APIError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"detail": "try later"}`))
	})

	_, err := c.Games(context.Background(), game.Query{}, option.None[game.Cursor](), 20)
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "try later", apiErr.Detail)
	assert.NotContains(t, apiErr.URL, "test-key", "API key must be redacted")
	assert.True(t, errors.Is(err, source.ErrUpstream))
	assert.Contains(t, err.Error(), "try later")
}

func TestGames_AuthAndNotFound(t *testing.T) {
	tests := []struct {
		status   int
		sentinel error
	}{
		{http.StatusUnauthorized, source.ErrAuth},
		{http.StatusNotFound, source.ErrNotFound},
		{http.StatusInternalServerError, source.ErrUpstream},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			})
			_, err := c.Games(context.Background(), game.Query{}, option.None[game.Cursor](), 20)
			assert.True(t, errors.Is(err, tt.sentinel))
		})
	}
}

func TestGames_DecodeError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results": "nope"`))
	})

	_, err := c.Games(context.Background(), game.Query{}, option.None[game.Cursor](), 20)
	assert.True(t, errors.Is(err, source.ErrDecode))
}

func TestGames_NetworkError(t *testing.T) {
	c, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	srv.Close()

	_, err := c.Games(context.Background(), game.Query{}, option.None[game.Cursor](), 20)
	assert.True(t, errors.Is(err, source.ErrNetwork))
}

func TestTrailers(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/games/3498/movies", r.URL.Path)
		_, _ = w.Write([]byte(`{"count": 1, "results": [{"id": 16432, "name": "Trailer", "preview": "https://media.rawg.io/p.jpg", "data": {"480": "https://steamcdn/480.mp4", "max": "https://steamcdn/max.mp4"}}]}`))
	})

	set, err := c.Trailers(context.Background(), 3498)
	require.NoError(t, err)

	first, ok := set.First().Get()
	require.True(t, ok)
	assert.Equal(t, "https://steamcdn/480.mp4", first.Data["480"])
	assert.Equal(t, "https://media.rawg.io/p.jpg", first.Preview)
}

func TestTrailers_Empty(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"count": 0, "results": []}`))
	})

	set, err := c.Trailers(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, set.First().IsPresent())
}

func TestGame(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/games/portal-2", r.URL.Path)
		_, _ = w.Write([]byte(`{"id": 4200, "name": "Portal 2", "slug": "portal-2", "metacritic": 95,
			"description_raw": "Puzzles.", "released": "2011-04-18",
			"genres": [{"id": 7, "name": "Puzzle", "slug": "puzzle"}],
			"publishers": [{"id": 1, "name": "Valve"}]}`))
	})

	detail, err := c.Game(context.Background(), "portal-2")
	require.NoError(t, err)
	assert.Equal(t, 4200, detail.ID)
	assert.Equal(t, "Portal 2", detail.Name)
	assert.Equal(t, "Puzzles.", detail.DescriptionRaw)
	assert.Equal(t, "Valve", detail.Publishers[0].Name)

	_, err = c.Game(context.Background(), " ")
	assert.True(t, errors.Is(err, source.ErrNotFound))
}

func TestGenresAndPlatforms(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/genres":
			_, _ = w.Write([]byte(`{"count": 2, "results": [{"id": 4, "name": "Action", "slug": "action"}, {"id": 51, "name": "Indie", "slug": "indie"}]}`))
		case "/api/platforms/lists/parents":
			_, _ = w.Write([]byte(`{"count": 1, "results": [{"id": 1, "name": "PC", "slug": "pc", "platforms": [{"id": 4}]}]}`))
		default:
			http.NotFound(w, r)
		}
	})

	genres, err := c.Genres(context.Background())
	require.NoError(t, err)
	assert.Len(t, genres, 2)
	assert.Equal(t, "indie", genres[1].Slug)

	platforms, err := c.ParentPlatforms(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []game.Platform{{ID: 1, Name: "PC", Slug: "pc"}}, platforms)
}
