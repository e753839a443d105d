package repositories

import (
	"context"
	"fmt"
)

// RatingRepository persists ratings, at most one per (user, song).
type RatingRepository struct {
	base
}

// Exists reports whether the user already rated the song.
func (r *RatingRepository) Exists(ctx context.Context, userID, songID int64) (bool, error) {
	query := `
		SELECT id FROM ratings
		WHERE user_id = ? AND song_id = ?
	`
	found, err := r.exists(ctx, query, userID, songID)
	if err != nil {
		return false, fmt.Errorf("failed to query rating: %w", err)
	}
	return found, nil
}

// Create inserts a rating. date is "YYYY-MM-DD".
func (r *RatingRepository) Create(ctx context.Context, userID, songID int64, value int, date string) (int64, error) {
	query := `
		INSERT INTO ratings (user_id, song_id, rating_value, rating_date)
		VALUES (?, ?, ?, ?)
		RETURNING id
	`
	id, err := r.insertID(ctx, query, userID, songID, value, date)
	if err != nil {
		return 0, fmt.Errorf("failed to insert rating: %w", err)
	}
	return id, nil
}

// Count returns the number of ratings.
func (r *RatingRepository) Count(ctx context.Context) (int, error) {
	return countRows(ctx, r.base, "ratings")
}
