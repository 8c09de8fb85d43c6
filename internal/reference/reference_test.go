package reference

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ryanm101/gamehub/internal/game"
	"github.com/ryanm101/gamehub/internal/metrics"
	"github.com/ryanm101/gamehub/internal/option"
	"github.com/ryanm101/gamehub/internal/source"
	"github.com/ryanm101/gamehub/internal/store"
)

type MockSource struct {
	mock.Mock
}

func (m *MockSource) Name() string { return "rawg" }

func (m *MockSource) Games(context.Context, game.Query, option.Value[game.Cursor], int) (game.Page, error) {
	return game.Page{}, nil
}

func (m *MockSource) Trailers(context.Context, int) (game.TrailerSet, error) {
	return game.TrailerSet{}, nil
}

func (m *MockSource) Game(context.Context, string) (game.GameDetail, error) {
	return game.GameDetail{}, nil
}

func (m *MockSource) Genres(ctx context.Context) ([]game.Genre, error) {
	args := m.Called()
	g, _ := args.Get(0).([]game.Genre)
	return g, args.Error(1)
}

func (m *MockSource) ParentPlatforms(ctx context.Context) ([]game.Platform, error) {
	args := m.Called()
	p, _ := args.Get(0).([]game.Platform)
	return p, args.Error(1)
}

var genres = []game.Genre{
	{ID: 4, Name: "Action", Slug: "action"},
	{ID: 51, Name: "Indie", Slug: "indie"},
}

func newTestService(t *testing.T, src *MockSource) (*Service, *store.DB, *time.Time) {
	t.Helper()
	db, err := store.Open(context.Background(), filepath.Join(t.TempDir(), "ref.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc := New(src, db, time.Hour)
	svc.now = func() time.Time { return now }
	return svc, db, &now
}

func TestGenresFetchesThenServesStored(t *testing.T) {
	src := new(MockSource)
	src.On("Genres").Return(genres, nil).Once()
	svc, _, now := newTestService(t, src)
	ctx := context.Background()

	got, err := svc.Genres(ctx)
	require.NoError(t, err)
	assert.Equal(t, genres, got)

	hits := testutil.ToFloat64(metrics.ReferenceLookups.WithLabelValues("genres", "hit"))
	*now = now.Add(30 * time.Minute)
	got, err = svc.Genres(ctx)
	require.NoError(t, err)
	assert.Equal(t, genres, got)
	assert.Equal(t, hits+1, testutil.ToFloat64(metrics.ReferenceLookups.WithLabelValues("genres", "hit")))

	src.AssertExpectations(t)
}

func TestGenresRefreshWhenStale(t *testing.T) {
	src := new(MockSource)
	src.On("Genres").Return(genres, nil).Once()
	refreshed := []game.Genre{{ID: 5, Name: "RPG", Slug: "role-playing-games-rpg"}}
	src.On("Genres").Return(refreshed, nil).Once()
	svc, db, now := newTestService(t, src)
	ctx := context.Background()

	_, err := svc.Genres(ctx)
	require.NoError(t, err)

	*now = now.Add(2 * time.Hour)
	got, err := svc.Genres(ctx)
	require.NoError(t, err)
	assert.Equal(t, refreshed, got)

	stored, at, err := db.Genres(ctx, "rawg")
	require.NoError(t, err)
	assert.Equal(t, refreshed, stored)
	assert.True(t, now.Equal(at))
	src.AssertExpectations(t)
}

func TestGenresStaleFallback(t *testing.T) {
	src := new(MockSource)
	src.On("Genres").Return(genres, nil).Once()
	src.On("Genres").Return(nil, source.ErrNetwork).Once()
	svc, _, now := newTestService(t, src)
	ctx := context.Background()

	_, err := svc.Genres(ctx)
	require.NoError(t, err)

	*now = now.Add(48 * time.Hour)
	got, err := svc.Genres(ctx)
	require.NoError(t, err, "stale rows hide the failure")
	assert.Equal(t, genres, got)
	src.AssertExpectations(t)
}

func TestGenresErrorWithoutRows(t *testing.T) {
	src := new(MockSource)
	src.On("Genres").Return(nil, source.ErrUpstream).Once()
	svc, _, _ := newTestService(t, src)

	got, err := svc.Genres(context.Background())
	assert.True(t, errors.Is(err, source.ErrUpstream))
	assert.Nil(t, got)
}

func TestParentPlatforms(t *testing.T) {
	platforms := []game.Platform{{ID: 1, Name: "PC", Slug: "pc"}, {ID: 7, Name: "Nintendo", Slug: "nintendo"}}
	src := new(MockSource)
	src.On("ParentPlatforms").Return(platforms, nil).Once()
	svc, _, _ := newTestService(t, src)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		got, err := svc.ParentPlatforms(ctx)
		require.NoError(t, err)
		assert.Equal(t, platforms, got)
	}
	src.AssertExpectations(t)
}

func TestNewDefaultTTL(t *testing.T) {
	svc := New(new(MockSource), nil, 0)
	assert.Equal(t, DefaultTTL, svc.ttl)
}

// slowSource holds Genres until release is closed or its ctx ends.
type slowSource struct {
	MockSource
	entered chan struct{}
	release chan struct{}
}

func (s *slowSource) Genres(ctx context.Context) ([]game.Genre, error) {
	select {
	case s.entered <- struct{}{}:
	default:
	}
	select {
	case <-s.release:
		return genres, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func TestGenresRefreshSurvivesCancelledCaller(t *testing.T) {
	db, err := store.Open(context.Background(), filepath.Join(t.TempDir(), "ref.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	src := &slowSource{entered: make(chan struct{}, 1), release: make(chan struct{})}
	svc := New(src, db, time.Hour)

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err := svc.Genres(ctxA)
		errA <- err
	}()
	<-src.entered

	type result struct {
		genres []game.Genre
		err    error
	}
	resB := make(chan result, 1)
	go func() {
		g, err := svc.Genres(context.Background())
		resB <- result{g, err}
	}()

	cancelA()
	select {
	case err := <-errA:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("cancelled caller did not return")
	}

	time.Sleep(20 * time.Millisecond)
	close(src.release)

	select {
	case r := <-resB:
		require.NoError(t, r.err)
		assert.Equal(t, genres, r.genres)
	case <-time.After(2 * time.Second):
		t.Fatal("second caller did not return")
	}

	stored, _, err := db.Genres(context.Background(), "rawg")
	require.NoError(t, err)
	assert.Equal(t, genres, stored)
}
