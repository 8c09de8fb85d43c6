package store

import (
	"context"
	"fmt"
	"time"

	"github.com/ryanm101/gamehub/internal/game"
)

// Genres returns the stored genres of src in upstream order, and when they
// were fetched. No rows yields a nil slice and the zero time.
func (db *DB) Genres(ctx context.Context, src string) ([]game.Genre, time.Time, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, name, slug, COALESCE(image_background, ''), fetched_at
		FROM genres WHERE source = ? ORDER BY position
	`, src)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to query genres: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var (
		out     []game.Genre
		fetched int64
	)
	for rows.Next() {
		var g game.Genre
		if err := rows.Scan(&g.ID, &g.Name, &g.Slug, &g.ImageBackground, &fetched); err != nil {
			return nil, time.Time{}, fmt.Errorf("failed to scan genre: %w", err)
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to read genres: %w", err)
	}
	if len(out) == 0 {
		return nil, time.Time{}, nil
	}
	return out, time.Unix(fetched, 0), nil
}

// ReplaceGenres stores genres as the complete list of src.
func (db *DB) ReplaceGenres(ctx context.Context, src string, genres []game.Genre, fetchedAt time.Time) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM genres WHERE source = ?", src); err != nil {
		return fmt.Errorf("failed to clear genres: %w", err)
	}
	for i, g := range genres {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO genres (source, id, position, name, slug, image_background, fetched_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, src, g.ID, i, g.Name, g.Slug, g.ImageBackground, fetchedAt.Unix()); err != nil {
			return fmt.Errorf("failed to insert genre %d: %w", g.ID, err)
		}
	}

	return tx.Commit()
}

// ParentPlatforms returns the stored parent platforms of src and when they
// were fetched.
func (db *DB) ParentPlatforms(ctx context.Context, src string) ([]game.Platform, time.Time, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, name, slug, fetched_at
		FROM parent_platforms WHERE source = ? ORDER BY position
	`, src)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to query platforms: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var (
		out     []game.Platform
		fetched int64
	)
	for rows.Next() {
		var p game.Platform
		if err := rows.Scan(&p.ID, &p.Name, &p.Slug, &fetched); err != nil {
			return nil, time.Time{}, fmt.Errorf("failed to scan platform: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to read platforms: %w", err)
	}
	if len(out) == 0 {
		return nil, time.Time{}, nil
	}
	return out, time.Unix(fetched, 0), nil
}

// ReplaceParentPlatforms stores platforms as the complete list of src.
func (db *DB) ReplaceParentPlatforms(ctx context.Context, src string, platforms []game.Platform, fetchedAt time.Time) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM parent_platforms WHERE source = ?", src); err != nil {
		return fmt.Errorf("failed to clear platforms: %w", err)
	}
	for i, p := range platforms {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO parent_platforms (source, id, position, name, slug, fetched_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`, src, p.ID, i, p.Name, p.Slug, fetchedAt.Unix()); err != nil {
			return fmt.Errorf("failed to insert platform %d: %w", p.ID, err)
		}
	}

	return tx.Commit()
}
