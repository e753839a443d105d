package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/desertthunder/catalogdb/internal/models"
)

// ReportRepository answers the catalog's aggregate queries.
//
// All ranking queries take a result cap n; a non-positive n yields an empty
// result without touching the database.
type ReportRepository struct {
	base
}

// TopSongGenres counts distinct songs per genre, ordered by count descending then name.
func (r *ReportRepository) TopSongGenres(ctx context.Context, n int) ([]models.GenreCount, error) {
	if n <= 0 {
		return []models.GenreCount{}, nil
	}

	query := `
		SELECT g.name, COUNT(DISTINCT sg.song_id) AS cnt
		FROM genres g
		JOIN song_genres sg ON sg.genre_id = g.id
		GROUP BY g.id, g.name
		ORDER BY cnt DESC, g.name ASC
		LIMIT ?
	`
	return scanAll(ctx, r.base, query, []any{n}, func(rows *sql.Rows) (models.GenreCount, error) {
		var gc models.GenreCount
		err := rows.Scan(&gc.Genre, &gc.Count)
		return gc, err
	})
}

// MostProlificArtists counts songs per artist by effective release year: a
// single's own date, or its album's date for album tracks. Songs with no
// usable date are not counted.
func (r *ReportRepository) MostProlificArtists(ctx context.Context, years models.YearRange, n int) ([]models.ArtistCount, error) {
	if n <= 0 {
		return []models.ArtistCount{}, nil
	}

	query := fmt.Sprintf(`
		SELECT a.name, COUNT(s.id) AS cnt
		FROM artists a
		JOIN songs s ON s.artist_id = a.id
		LEFT JOIN albums al ON s.album_id = al.id
		WHERE (
			s.album_id IS NULL
			AND s.single_release_date IS NOT NULL
			AND %s BETWEEN ? AND ?
		) OR (
			s.album_id IS NOT NULL
			AND al.release_date IS NOT NULL
			AND %s BETWEEN ? AND ?
		)
		GROUP BY a.id, a.name
		ORDER BY cnt DESC, a.name ASC
		LIMIT ?
	`, r.d.Year("s.single_release_date"), r.d.Year("al.release_date"))

	args := []any{years.Start, years.End, years.Start, years.End, n}
	return scanAll(ctx, r.base, query, args, func(rows *sql.Rows) (models.ArtistCount, error) {
		var ac models.ArtistCount
		err := rows.Scan(&ac.Artist, &ac.Count)
		return ac, err
	})
}

// ArtistsLastSingleInYear returns, in name order, the artists whose most recent
// single was released in year. Album tracks are ignored.
func (r *ReportRepository) ArtistsLastSingleInYear(ctx context.Context, year int) ([]string, error) {
	query := fmt.Sprintf(`
		SELECT a.name
		FROM artists a
		JOIN songs s
		  ON s.artist_id = a.id
		 AND s.album_id IS NULL
		 AND s.single_release_date IS NOT NULL
		GROUP BY a.id, a.name
		HAVING %s = ?
		ORDER BY a.name ASC
	`, r.d.Year("MAX(s.single_release_date)"))

	return queryStrings(ctx, r.base, query, year)
}

// AlbumAndSingleArtists returns, in name order, artists with at least one
// single and at least one album track.
func (r *ReportRepository) AlbumAndSingleArtists(ctx context.Context) ([]string, error) {
	query := `
		SELECT a.name
		FROM artists a
		WHERE EXISTS (
			SELECT 1 FROM songs s WHERE s.artist_id = a.id AND s.album_id IS NULL
		) AND EXISTS (
			SELECT 1 FROM songs s WHERE s.artist_id = a.id AND s.album_id IS NOT NULL
		)
		ORDER BY a.name ASC
	`
	return queryStrings(ctx, r.base, query)
}

// MostRatedSongs counts ratings per song dated within years, ordered by count
// descending, then title, then artist.
func (r *ReportRepository) MostRatedSongs(ctx context.Context, years models.YearRange, n int) ([]models.SongRatingCount, error) {
	if n <= 0 {
		return []models.SongRatingCount{}, nil
	}

	query := fmt.Sprintf(`
		SELECT s.title, a.name, COUNT(r.id) AS cnt
		FROM ratings r
		JOIN songs s ON r.song_id = s.id
		JOIN artists a ON s.artist_id = a.id
		WHERE %s BETWEEN ? AND ?
		GROUP BY s.id, s.title, a.name
		ORDER BY cnt DESC, s.title ASC, a.name ASC
		LIMIT ?
	`, r.d.Year("r.rating_date"))

	args := []any{years.Start, years.End, n}
	return scanAll(ctx, r.base, query, args, func(rows *sql.Rows) (models.SongRatingCount, error) {
		var sc models.SongRatingCount
		err := rows.Scan(&sc.Title, &sc.Artist, &sc.Count)
		return sc, err
	})
}

// MostEngagedUsers counts ratings per user dated within years, ordered by
// count descending then username.
func (r *ReportRepository) MostEngagedUsers(ctx context.Context, years models.YearRange, n int) ([]models.UserRatingCount, error) {
	if n <= 0 {
		return []models.UserRatingCount{}, nil
	}

	query := fmt.Sprintf(`
		SELECT u.username, COUNT(r.id) AS cnt
		FROM ratings r
		JOIN users u ON r.user_id = u.id
		WHERE %s BETWEEN ? AND ?
		GROUP BY u.id, u.username
		ORDER BY cnt DESC, u.username ASC
		LIMIT ?
	`, r.d.Year("r.rating_date"))

	args := []any{years.Start, years.End, n}
	return scanAll(ctx, r.base, query, args, func(rows *sql.Rows) (models.UserRatingCount, error) {
		var uc models.UserRatingCount
		err := rows.Scan(&uc.Username, &uc.Count)
		return uc, err
	})
}

// scanAll runs query and maps every row through scan.
func scanAll[T any](ctx context.Context, b base, query string, args []any, scan func(*sql.Rows) (T, error)) ([]T, error) {
	rows, err := b.q.QueryContext(ctx, b.d.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query: %w", err)
	}
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		out = append(out, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return out, nil
}
