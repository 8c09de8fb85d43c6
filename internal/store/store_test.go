package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ryanm101/gamehub/internal/game"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestOpen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	db, err := Open(context.Background(), dbPath)
	require.NoError(t, err, "should open database without error")
	defer func() { _ = db.Close() }()

	_, err = os.Stat(dbPath)
	assert.NoError(t, err, "database file should exist")
	assert.Equal(t, dbPath, db.Path())
}

func TestSchema(t *testing.T) {
	db := openTestDB(t)

	var version int
	err := db.Conn().QueryRow("SELECT MAX(version) FROM schema_version").Scan(&version)
	require.NoError(t, err)
	assert.Equal(t, 1, version)

	for _, table := range []string{"schema_version", "genres", "parent_platforms"} {
		var name string
		err := db.Conn().QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?",
			table,
		).Scan(&name)
		assert.NoError(t, err, "table %s should exist", table)
	}
}

func TestReopenKeepsVersion(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	db, err := Open(context.Background(), dbPath)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = Open(context.Background(), dbPath)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	var rows int
	require.NoError(t, db.Conn().QueryRow("SELECT COUNT(*) FROM schema_version").Scan(&rows))
	assert.Equal(t, 1, rows, "migration runs once")
}

func TestGenres(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	got, at, err := db.Genres(ctx, "rawg")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.True(t, at.IsZero())

	fetched := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	genres := []game.Genre{
		{ID: 4, Name: "Action", Slug: "action", ImageBackground: "https://media.rawg.io/a.jpg"},
		{ID: 51, Name: "Indie", Slug: "indie"},
	}
	require.NoError(t, db.ReplaceGenres(ctx, "rawg", genres, fetched))

	got, at, err = db.Genres(ctx, "rawg")
	require.NoError(t, err)
	assert.Equal(t, genres, got, "order is preserved")
	assert.True(t, fetched.Equal(at))

	other, _, err := db.Genres(ctx, "igdb")
	require.NoError(t, err)
	assert.Empty(t, other, "sources are kept apart")

	require.NoError(t, db.ReplaceGenres(ctx, "rawg", genres[1:], fetched.Add(time.Hour)))
	got, at, err = db.Genres(ctx, "rawg")
	require.NoError(t, err)
	assert.Equal(t, genres[1:], got, "replace drops old rows")
	assert.True(t, fetched.Add(time.Hour).Equal(at))
}

func TestParentPlatforms(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	fetched := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	platforms := []game.Platform{
		{ID: 1, Name: "PC", Slug: "pc"},
		{ID: 2, Name: "PlayStation", Slug: "playstation"},
		{ID: 3, Name: "Xbox", Slug: "xbox"},
	}
	require.NoError(t, db.ReplaceParentPlatforms(ctx, "rawg", platforms, fetched))

	got, at, err := db.ParentPlatforms(ctx, "rawg")
	require.NoError(t, err)
	assert.Equal(t, platforms, got)
	assert.True(t, fetched.Equal(at))

	require.NoError(t, db.ReplaceParentPlatforms(ctx, "rawg", nil, fetched))
	got, at, err = db.ParentPlatforms(ctx, "rawg")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.True(t, at.IsZero())
}
