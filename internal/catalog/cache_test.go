package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ryanm101/gamehub/internal/game"
	"github.com/ryanm101/gamehub/internal/source"
)

func TestCacheSharesFeedPerQuery(t *testing.T) {
	src := newScriptedSource()
	cache := NewCache(src, 20)
	defer cache.Close()

	a, err := cache.Acquire(actionQuery())
	require.NoError(t, err)
	b, err := cache.Acquire(game.Query{Genre: actionQuery().Genre, SortOrder: " "})
	require.NoError(t, err)

	assert.Same(t, a, b, "equal keys share a feed")
	assert.Equal(t, 1, cache.Len())
	src.next(t)
	src.expectIdle(t)

	cache.Release(a)
	assert.Equal(t, 1, cache.Len(), "still referenced")
	cache.Release(b)
	assert.Equal(t, 0, cache.Len())
}

func TestCacheDistinctQueries(t *testing.T) {
	src := newScriptedSource()
	cache := NewCache(src, 20)
	defer cache.Close()

	_, err := cache.Acquire(actionQuery())
	require.NoError(t, err)
	_, err = cache.Acquire(game.Query{SearchText: "zelda"})
	require.NoError(t, err)

	assert.Equal(t, 2, cache.Len())
	src.next(t)
	src.next(t)
}

func TestCacheClosed(t *testing.T) {
	src := newScriptedSource()
	cache := NewCache(src, 0)
	assert.Equal(t, source.DefaultPageSize, cache.pageSize)
	assert.Same(t, src, cache.Source())

	cache.Close()
	_, err := cache.Acquire(actionQuery())
	assert.ErrorIs(t, err, ErrClosed)

	cache.Release(nil)
}
