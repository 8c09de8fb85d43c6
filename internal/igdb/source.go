// Package igdb implements source.Source on top of the IGDB API.
package igdb

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Henry-Sarabia/igdb/v2"
	"github.com/ryanm101/gamehub/internal/game"
	"github.com/ryanm101/gamehub/internal/metrics"
	"github.com/ryanm101/gamehub/internal/option"
	"github.com/ryanm101/gamehub/internal/source"
	"github.com/ryanm101/gamehub/internal/tracing"
)

const name = "igdb"

var gameFields = []string{
	"id", "name", "slug", "summary", "first_release_date", "aggregated_rating",
	"cover", "platforms", "genres", "url",
}

// Source implements source.Source for IGDB.
type Source struct {
	client *igdb.Client
}

// New authenticates with Twitch and returns an IGDB source.
func New(ctx context.Context, clientID, clientSecret string, hc *http.Client) (*Source, error) {
	if clientID == "" || clientSecret == "" {
		return nil, fmt.Errorf("IGDB Client ID and Secret are required")
	}
	if hc == nil {
		hc = http.DefaultClient
	}

	token, err := fetchToken(ctx, hc, twitchTokenURL, clientID, clientSecret)
	if err != nil {
		return nil, &source.Error{Source: name, Op: "authenticate", Err: err}
	}

	return NewWithClient(igdb.NewClient(clientID, token, hc)), nil
}

// NewWithClient wraps an existing IGDB client.
func NewWithClient(c *igdb.Client) *Source {
	return &Source{client: c}
}

var _ source.Source = (*Source)(nil)

func (s *Source) Name() string {
	return name
}

// Games fetches one page. Cursors are decimal offsets.
func (s *Source) Games(ctx context.Context, q game.Query, cursor option.Value[game.Cursor], pageSize int) (game.Page, error) {
	const op = "list games"
	if pageSize <= 0 {
		pageSize = source.DefaultPageSize
	}

	offset := 0
	if c, ok := cursor.Get(); ok {
		n, err := strconv.Atoi(string(c))
		if err != nil || n < 0 {
			return game.Page{}, &source.Error{Source: name, Op: op, Err: fmt.Errorf("%w: bad cursor %q", source.ErrDecode, c)}
		}
		offset = n
	}

	opts := []igdb.Option{
		igdb.SetFields(gameFields...),
		igdb.SetLimit(pageSize),
		igdb.SetOffset(offset),
	}
	opts = append(opts, filterOptions(q)...)

	var games []*igdb.Game
	err := s.call(ctx, op, func() error {
		var err error
		if text := game.NormalizeSearch(q.SearchText); text != "" {
			// IGDB does not sort search results.
			games, err = s.client.Games.Search(text, opts...)
		} else {
			if order, ok := orderOption(q.SortOrder); ok {
				opts = append(opts, order)
			}
			games, err = s.client.Games.Index(opts...)
		}
		return err
	})
	if err != nil {
		return game.Page{}, err
	}

	covers := s.coverURLs(ctx, games)

	page := game.Page{Games: make([]game.Game, 0, len(games)), Count: offset + len(games)}
	for _, g := range games {
		page.Games = append(page.Games, convertGame(g, covers[g.Cover]))
	}
	if len(games) == pageSize {
		page.Next = option.Some(game.Cursor(strconv.Itoa(offset + pageSize)))
	}
	return page, nil
}

// Trailers lists the game's videos as trailers.
func (s *Source) Trailers(ctx context.Context, gameID int) (game.TrailerSet, error) {
	var videos []*igdb.GameVideo
	err := s.call(ctx, "list trailers", func() error {
		var err error
		videos, err = s.client.GameVideos.Index(
			igdb.SetFields("id", "game", "name", "video_id"),
			igdb.SetFilter("game", igdb.OpEquals, strconv.Itoa(gameID)),
		)
		return err
	})
	if err != nil {
		return game.TrailerSet{}, err
	}

	set := game.TrailerSet{Results: make([]game.Trailer, 0, len(videos))}
	for _, v := range videos {
		set.Results = append(set.Results, convertVideo(v))
	}
	set.Count = len(set.Results)
	return set, nil
}

// Game fetches a game by slug.
func (s *Source) Game(ctx context.Context, slug string) (game.GameDetail, error) {
	const op = "get game"
	slug = strings.TrimSpace(slug)
	if slug == "" || strings.ContainsAny(slug, `"\`) {
		return game.GameDetail{}, &source.Error{Source: name, Op: op, Err: fmt.Errorf("%w: slug %q", source.ErrNotFound, slug)}
	}

	var games []*igdb.Game
	err := s.call(ctx, op, func() error {
		var err error
		games, err = s.client.Games.Index(
			igdb.SetFields(gameFields...),
			igdb.SetFilter("slug", igdb.OpEquals, strconv.Quote(slug)),
			igdb.SetLimit(1),
		)
		return err
	})
	if err != nil {
		return game.GameDetail{}, err
	}
	if len(games) == 0 {
		return game.GameDetail{}, &source.Error{Source: name, Op: op, Err: fmt.Errorf("%w: slug %q", source.ErrNotFound, slug)}
	}

	g := games[0]
	covers := s.coverURLs(ctx, games)
	detail := game.GameDetail{
		Game:           convertGame(g, covers[g.Cover]),
		DescriptionRaw: g.Summary,
		Website:        g.URL,
	}
	if g.FirstReleaseDate != 0 {
		detail.Released = time.Unix(int64(g.FirstReleaseDate), 0).UTC().Format("2006-01-02")
	}
	return detail, nil
}

// Genres lists IGDB genres.
func (s *Source) Genres(ctx context.Context) ([]game.Genre, error) {
	var genres []*igdb.Genre
	err := s.call(ctx, "list genres", func() error {
		var err error
		genres, err = s.client.Genres.Index(
			igdb.SetFields("id", "name", "slug"),
			igdb.SetLimit(50),
			igdb.SetOrder("name", igdb.OrderAscending),
		)
		return err
	})
	if err != nil {
		return nil, err
	}

	out := make([]game.Genre, 0, len(genres))
	for _, g := range genres {
		out = append(out, game.Genre{ID: g.ID, Name: g.Name, Slug: g.Slug})
	}
	return out, nil
}

// ParentPlatforms returns the fixed platform family table.
func (s *Source) ParentPlatforms(context.Context) ([]game.Platform, error) {
	out := make([]game.Platform, 0, len(families))
	for _, f := range families {
		out = append(out, f.platform)
	}
	return out, nil
}

// coverURLs resolves cover ids to image URLs in one request. Failures
// leave games without images.
func (s *Source) coverURLs(ctx context.Context, games []*igdb.Game) map[int]string {
	ids := make([]int, 0, len(games))
	for _, g := range games {
		if g.Cover != 0 {
			ids = append(ids, g.Cover)
		}
	}
	urls := make(map[int]string, len(ids))
	if len(ids) == 0 {
		return urls
	}

	var covers []*igdb.Cover
	err := s.call(ctx, "list covers", func() error {
		var err error
		covers, err = s.client.Covers.List(ids, igdb.SetFields("id", "image_id"))
		return err
	})
	if err != nil {
		return urls
	}
	for _, c := range covers {
		if c.ImageID != "" {
			urls[c.ID] = imageURL(c.ImageID)
		}
	}
	return urls
}

// call runs one IGDB request with tracing, metrics, and error mapping.
// The IGDB client is not context aware, so ctx is only checked up front.
func (s *Source) call(ctx context.Context, op string, fn func() error) (err error) {
	_, span := tracing.StartSpan(ctx, "igdb."+strings.ReplaceAll(op, " ", "_"))
	start := time.Now()
	defer func() {
		metrics.RecordAPIRequest(name, op, source.Class(err), start)
		tracing.RecordError(span, err)
		span.End()
	}()

	if err := ctx.Err(); err != nil {
		return &source.Error{Source: name, Op: op, Err: fmt.Errorf("%w: %v", source.ErrNetwork, err)}
	}

	err = fn()
	switch {
	case err == nil:
		return nil
	case errors.Is(err, igdb.ErrNoResults):
		// An empty result set is not a failure.
		return nil
	default:
		return &source.Error{Source: name, Op: op, Err: fmt.Errorf("%w: %v", source.ErrUpstream, err)}
	}
}

func convertGame(g *igdb.Game, cover string) game.Game {
	out := game.Game{
		ID:   g.ID,
		Name: g.Name,
		Slug: g.Slug,
	}
	if cover != "" {
		out.BackgroundImage = option.Some(cover)
	}
	if g.AggregatedRating > 0 {
		out.Metacritic = option.Some(int(math.Round(g.AggregatedRating)))
	}
	if pp := parentPlatforms(g.Platforms); len(pp) > 0 {
		out.ParentPlatforms = option.Some(pp)
	}
	return out
}

func convertVideo(v *igdb.GameVideo) game.Trailer {
	return game.Trailer{
		ID:      v.ID,
		Name:    v.Name,
		Preview: "https://img.youtube.com/vi/" + v.VideoID + "/hqdefault.jpg",
		Data: map[string]string{
			"watch": "https://www.youtube.com/watch?v=" + v.VideoID,
		},
	}
}

func imageURL(imageID string) string {
	return "https://images.igdb.com/igdb/image/upload/t_screenshot_big/" + imageID + ".jpg"
}

// filterOptions maps genre and platform filters onto IGDB filters.
func filterOptions(q game.Query) []igdb.Option {
	var opts []igdb.Option
	if g, ok := q.Genre.Get(); ok {
		opts = append(opts, igdb.SetFilter("genres", igdb.OpEquals, strconv.Itoa(g.ID)))
	}
	if p, ok := q.Platform.Get(); ok {
		if members, ok := familyMembers(p.ID); ok {
			vals := make([]string, 0, len(members))
			for _, id := range members {
				vals = append(vals, strconv.Itoa(id))
			}
			opts = append(opts, igdb.SetFilter("platforms", igdb.OpContainsAtLeast, vals...))
		}
	}
	return opts
}

// orderOption maps an ordering value onto an IGDB sort.
func orderOption(ordering string) (igdb.Option, bool) {
	switch game.NormalizeOrdering(ordering) {
	case "-added":
		return igdb.SetOrder("created_at", igdb.OrderDescending), true
	case "name":
		return igdb.SetOrder("name", igdb.OrderAscending), true
	case "-released":
		return igdb.SetOrder("first_release_date", igdb.OrderDescending), true
	case "-metacritic":
		return igdb.SetOrder("aggregated_rating", igdb.OrderDescending), true
	case "-rating":
		return igdb.SetOrder("total_rating", igdb.OrderDescending), true
	default:
		return nil, false
	}
}
