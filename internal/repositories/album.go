package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/desertthunder/catalogdb/internal/shared"
)

// AlbumRepository persists albums keyed by (artist, title).
type AlbumRepository struct {
	base
}

// FindID returns the id of the artist's album with the given title, or [ErrNotFound].
func (r *AlbumRepository) FindID(ctx context.Context, artistID int64, title string) (int64, error) {
	query := `
		SELECT id FROM albums
		WHERE artist_id = ? AND title = ?
	`
	id, err := r.lookupID(ctx, query, artistID, title)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return 0, fmt.Errorf("failed to query album: %w", err)
	}
	return id, err
}

// Create inserts an album. releaseDate is "YYYY-MM-DD" or "" for NULL.
func (r *AlbumRepository) Create(ctx context.Context, artistID int64, title, releaseDate string, genreID int64) (int64, error) {
	query := `
		INSERT INTO albums (title, artist_id, release_date, genre_id)
		VALUES (?, ?, ?, ?)
		RETURNING id
	`
	id, err := r.insertID(ctx, query, title, artistID, shared.NullDate(releaseDate), genreID)
	if err != nil {
		return 0, fmt.Errorf("failed to insert album %q: %w", title, err)
	}
	return id, nil
}

// Count returns the number of albums.
func (r *AlbumRepository) Count(ctx context.Context) (int, error) {
	return countRows(ctx, r.base, "albums")
}
