package catalog

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ryanm101/gamehub/internal/game"
	"github.com/ryanm101/gamehub/internal/option"
	"github.com/stretchr/testify/mock"
)

// gamesCall is one pending Games request of a scriptedSource.
type gamesCall struct {
	query  game.Query
	cursor option.Value[game.Cursor]
	reply  chan gamesResult
}

type gamesResult struct {
	page game.Page
	err  error
}

func (c gamesCall) respond(page game.Page, err error) {
	c.reply <- gamesResult{page: page, err: err}
}

// scriptedSource blocks every Games call until the test answers it.
type scriptedSource struct {
	calls chan gamesCall
	count atomic.Int32
}

func newScriptedSource() *scriptedSource {
	return &scriptedSource{calls: make(chan gamesCall, 16)}
}

func (s *scriptedSource) Name() string { return "scripted" }

func (s *scriptedSource) Games(ctx context.Context, q game.Query, cursor option.Value[game.Cursor], _ int) (game.Page, error) {
	s.count.Add(1)
	call := gamesCall{query: q, cursor: cursor, reply: make(chan gamesResult, 1)}
	s.calls <- call
	select {
	case r := <-call.reply:
		return r.page, r.err
	case <-ctx.Done():
		return game.Page{}, ctx.Err()
	}
}

func (s *scriptedSource) Trailers(context.Context, int) (game.TrailerSet, error) {
	return game.TrailerSet{}, nil
}

func (s *scriptedSource) Game(context.Context, string) (game.GameDetail, error) {
	return game.GameDetail{}, nil
}

func (s *scriptedSource) Genres(context.Context) ([]game.Genre, error) { return nil, nil }

func (s *scriptedSource) ParentPlatforms(context.Context) ([]game.Platform, error) { return nil, nil }

// next returns the next pending call or fails the test.
func (s *scriptedSource) next(t *testing.T) gamesCall {
	t.Helper()
	select {
	case c := <-s.calls:
		return c
	case <-time.After(2 * time.Second):
		t.Fatal("expected a Games request")
		return gamesCall{}
	}
}

// expectIdle fails the test if a request arrives shortly.
func (s *scriptedSource) expectIdle(t *testing.T) {
	t.Helper()
	select {
	case c := <-s.calls:
		t.Fatalf("unexpected Games request with cursor %v", c.cursor)
	case <-time.After(50 * time.Millisecond):
	}
}

// makePage builds a page of n games with ids from first. When next is
// true the page carries a cursor naming the following id.
func makePage(first, n int, next bool) game.Page {
	p := game.Page{Count: 100}
	for i := 0; i < n; i++ {
		id := first + i
		p.Games = append(p.Games, game.Game{ID: id, Name: fmt.Sprintf("Game %d", id), Slug: fmt.Sprintf("game-%d", id)})
	}
	if next {
		p.Next = option.Some(game.Cursor(fmt.Sprintf("from=%d", first+n)))
	}
	return p
}

// MockSource is a testify mock of source.Source.
type MockSource struct {
	mock.Mock
}

func (m *MockSource) Name() string { return "mock" }

func (m *MockSource) Games(ctx context.Context, q game.Query, cursor option.Value[game.Cursor], pageSize int) (game.Page, error) {
	args := m.Called(q, cursor, pageSize)
	return args.Get(0).(game.Page), args.Error(1)
}

func (m *MockSource) Trailers(ctx context.Context, gameID int) (game.TrailerSet, error) {
	args := m.Called(gameID)
	return args.Get(0).(game.TrailerSet), args.Error(1)
}

func (m *MockSource) Game(ctx context.Context, slug string) (game.GameDetail, error) {
	args := m.Called(slug)
	return args.Get(0).(game.GameDetail), args.Error(1)
}

func (m *MockSource) Genres(ctx context.Context) ([]game.Genre, error) {
	args := m.Called()
	return args.Get(0).([]game.Genre), args.Error(1)
}

func (m *MockSource) ParentPlatforms(ctx context.Context) ([]game.Platform, error) {
	args := m.Called()
	return args.Get(0).([]game.Platform), args.Error(1)
}
