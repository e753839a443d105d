package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/desertthunder/catalogdb/internal/shared"
)

// SongRepository persists singles and album tracks.
//
// A song's (artist, title) pair is unique whether or not it belongs to an album.
type SongRepository struct {
	base
}

// FindID returns the id of the artist's song with the given title, or [ErrNotFound].
func (r *SongRepository) FindID(ctx context.Context, artistID int64, title string) (int64, error) {
	query := `
		SELECT id FROM songs
		WHERE title = ? AND artist_id = ?
	`
	id, err := r.lookupID(ctx, query, title, artistID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return 0, fmt.Errorf("failed to query song: %w", err)
	}
	return id, err
}

// FindByTitleAndArtist resolves a song from its title and artist name, or [ErrNotFound].
func (r *SongRepository) FindByTitleAndArtist(ctx context.Context, title, artistName string) (int64, error) {
	query := `
		SELECT s.id
		FROM songs s
		JOIN artists a ON s.artist_id = a.id
		WHERE s.title = ? AND a.name = ?
	`
	id, err := r.lookupID(ctx, query, title, artistName)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return 0, fmt.Errorf("failed to query song: %w", err)
	}
	return id, err
}

// CreateSingle inserts a song with no album. releaseDate is "YYYY-MM-DD" or "" for NULL.
func (r *SongRepository) CreateSingle(ctx context.Context, artistID int64, title, releaseDate string) (int64, error) {
	query := `
		INSERT INTO songs (title, artist_id, album_id, single_release_date)
		VALUES (?, ?, NULL, ?)
		RETURNING id
	`
	id, err := r.insertID(ctx, query, title, artistID, shared.NullDate(releaseDate))
	if err != nil {
		return 0, fmt.Errorf("failed to insert single %q: %w", title, err)
	}
	return id, nil
}

// CreateTrack inserts a song that belongs to an album.
func (r *SongRepository) CreateTrack(ctx context.Context, artistID, albumID int64, title string) (int64, error) {
	query := `
		INSERT INTO songs (title, artist_id, album_id, single_release_date)
		VALUES (?, ?, ?, NULL)
		RETURNING id
	`
	id, err := r.insertID(ctx, query, title, artistID, albumID)
	if err != nil {
		return 0, fmt.Errorf("failed to insert track %q: %w", title, err)
	}
	return id, nil
}

// AddGenre tags a song with a genre. Existing (song, genre) pairs are ignored.
// Returns whether a new association was written.
func (r *SongRepository) AddGenre(ctx context.Context, songID, genreID int64) (bool, error) {
	query := `
		INSERT INTO song_genres (song_id, genre_id)
		VALUES (?, ?)
		ON CONFLICT DO NOTHING
	`
	result, err := r.q.ExecContext(ctx, r.d.Rebind(query), songID, genreID)
	if err != nil {
		return false, fmt.Errorf("failed to tag song %d with genre %d: %w", songID, genreID, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return rows > 0, nil
}

// Genres returns the genre names attached to a song in ascending order.
func (r *SongRepository) Genres(ctx context.Context, songID int64) ([]string, error) {
	query := `
		SELECT g.name
		FROM song_genres sg
		JOIN genres g ON sg.genre_id = g.id
		WHERE sg.song_id = ?
		ORDER BY g.name ASC
	`
	return queryStrings(ctx, r.base, query, songID)
}

// Count returns the number of songs.
func (r *SongRepository) Count(ctx context.Context) (int, error) {
	return countRows(ctx, r.base, "songs")
}
