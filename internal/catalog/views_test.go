package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewsOpenGetClose(t *testing.T) {
	src := newScriptedSource()
	cache := NewCache(src, 20)
	defer cache.Close()
	views := NewViews(cache, time.Minute)

	id, v, err := views.Open(actionQuery())
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	src.next(t)

	got, ok := views.Get(id)
	require.True(t, ok)
	assert.Same(t, v, got)
	assert.Equal(t, 1, views.Len())

	views.Close(id)
	_, ok = views.Get(id)
	assert.False(t, ok)
	assert.Equal(t, 0, cache.Len())
}

func TestViewsSweep(t *testing.T) {
	src := newScriptedSource()
	cache := NewCache(src, 20)
	defer cache.Close()
	views := NewViews(cache, time.Minute)

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	views.now = func() time.Time { return now }

	idle, _, err := views.Open(actionQuery())
	require.NoError(t, err)
	busy, _, err := views.Open(actionQuery())
	require.NoError(t, err)
	src.next(t)

	now = now.Add(50 * time.Second)
	_, ok := views.Get(busy)
	require.True(t, ok)

	assert.Equal(t, 1, views.Sweep(now.Add(30*time.Second)))
	_, ok = views.Get(idle)
	assert.False(t, ok)
	assert.Equal(t, 1, cache.Len(), "busy view still holds the feed")

	assert.Equal(t, 0, views.Sweep(now.Add(30*time.Second)))
}

func TestViewsRunClosesOnShutdown(t *testing.T) {
	src := newScriptedSource()
	cache := NewCache(src, 20)
	defer cache.Close()
	views := NewViews(cache, time.Minute)

	_, _, err := views.Open(actionQuery())
	require.NoError(t, err)
	src.next(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		views.Run(ctx, 10*time.Millisecond)
		close(done)
	}()
	cancel()
	<-done

	assert.Equal(t, 0, views.Len())
	assert.Equal(t, 0, cache.Len())
}

func TestViewsShared(t *testing.T) {
	src := newScriptedSource()
	cache := NewCache(src, 20)
	defer cache.Close()
	views := NewViews(cache, time.Minute)

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	views.now = func() time.Time { return now }

	first, err := views.Shared(actionQuery())
	require.NoError(t, err)
	src.next(t)

	again, err := views.Shared(actionQuery())
	require.NoError(t, err)
	assert.Same(t, first, again)
	assert.Equal(t, 1, views.Len())
	src.expectIdle(t)

	assert.Equal(t, 1, views.Sweep(now.Add(2*time.Minute)))
	assert.Equal(t, 0, cache.Len())

	reopened, err := views.Shared(actionQuery())
	require.NoError(t, err)
	src.next(t)
	assert.NotSame(t, first, reopened)
	assert.Equal(t, 1, views.Len())
}
