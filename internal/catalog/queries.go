package catalog

import (
	"context"
	"fmt"

	"github.com/desertthunder/catalogdb/internal/models"
	"github.com/desertthunder/catalogdb/internal/shared"
)

// TopSongGenres returns up to n genres ordered by the number of distinct songs
// tagged with them, most first. Ties are broken by genre name.
func (c *Catalog) TopSongGenres(ctx context.Context, n int) ([]models.GenreCount, error) {
	return c.Store().Reports.TopSongGenres(ctx, n)
}

// MostProlificArtists returns up to n artists ordered by how many of their songs
// have an effective release year within years.
func (c *Catalog) MostProlificArtists(ctx context.Context, years models.YearRange, n int) ([]models.ArtistCount, error) {
	if err := validYears(years); err != nil {
		return nil, err
	}
	return c.Store().Reports.MostProlificArtists(ctx, years, n)
}

// ArtistsLastSingleInYear returns the artists whose most recent single was
// released in year.
func (c *Catalog) ArtistsLastSingleInYear(ctx context.Context, year int) ([]string, error) {
	return c.Store().Reports.ArtistsLastSingleInYear(ctx, year)
}

// AlbumAndSingleArtists returns the artists with at least one album and one single.
func (c *Catalog) AlbumAndSingleArtists(ctx context.Context) ([]string, error) {
	return c.Store().Reports.AlbumAndSingleArtists(ctx)
}

// MostRatedSongs returns up to n songs ordered by ratings received within years.
func (c *Catalog) MostRatedSongs(ctx context.Context, years models.YearRange, n int) ([]models.SongRatingCount, error) {
	if err := validYears(years); err != nil {
		return nil, err
	}
	return c.Store().Reports.MostRatedSongs(ctx, years, n)
}

// MostEngagedUsers returns up to n users ordered by ratings given within years.
func (c *Catalog) MostEngagedUsers(ctx context.Context, years models.YearRange, n int) ([]models.UserRatingCount, error) {
	if err := validYears(years); err != nil {
		return nil, err
	}
	return c.Store().Reports.MostEngagedUsers(ctx, years, n)
}

func validYears(years models.YearRange) error {
	if err := years.Validate(); err != nil {
		return fmt.Errorf("%w: %w", shared.ErrInvalidInput, err)
	}
	return nil
}
