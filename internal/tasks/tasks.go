package tasks

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/catalogdb/internal/catalog"
	"github.com/desertthunder/catalogdb/internal/formatter"
	"github.com/desertthunder/catalogdb/internal/models"
)

// Report is a named catalog query rendered as a table.
type Report struct {
	Name string
	Run  func(ctx context.Context, c *catalog.Catalog) (*formatter.Table, error)
}

// ReportParams parameterises [StandardReports].
//
// Year defaults to Years.End when zero.
type ReportParams struct {
	Years models.YearRange
	Year  int
	Limit int
}

// StandardReports returns one report per catalog query.
func StandardReports(p ReportParams) []Report {
	year := p.Year
	if year == 0 {
		year = p.Years.End
	}

	return []Report{
		TopGenresReport(p.Limit),
		ProlificArtistsReport(p.Years, p.Limit),
		LastSingleReport(year),
		AlbumAndSingleReport(),
		MostRatedReport(p.Years, p.Limit),
		MostEngagedReport(p.Years, p.Limit),
	}
}

// TopGenresReport ranks genres by song count.
func TopGenresReport(n int) Report {
	return Report{
		Name: "top_genres",
		Run: func(ctx context.Context, c *catalog.Catalog) (*formatter.Table, error) {
			counts, err := c.TopSongGenres(ctx, n)
			if err != nil {
				return nil, err
			}
			return formatter.GenreCounts(fmt.Sprintf("Top %d song genres", n), counts), nil
		},
	}
}

// ProlificArtistsReport ranks artists by songs released in years.
func ProlificArtistsReport(years models.YearRange, n int) Report {
	return Report{
		Name: "prolific_artists",
		Run: func(ctx context.Context, c *catalog.Catalog) (*formatter.Table, error) {
			counts, err := c.MostProlificArtists(ctx, years, n)
			if err != nil {
				return nil, err
			}
			return formatter.ArtistCounts(fmt.Sprintf("Most prolific artists, %s", years), counts), nil
		},
	}
}

// LastSingleReport lists artists whose latest single came out in year.
func LastSingleReport(year int) Report {
	return Report{
		Name: "last_single",
		Run: func(ctx context.Context, c *catalog.Catalog) (*formatter.Table, error) {
			names, err := c.ArtistsLastSingleInYear(ctx, year)
			if err != nil {
				return nil, err
			}
			return formatter.Names(fmt.Sprintf("Artists whose last single was in %d", year), "Artist", names), nil
		},
	}
}

// AlbumAndSingleReport lists artists with both album tracks and singles.
func AlbumAndSingleReport() Report {
	return Report{
		Name: "album_and_single",
		Run: func(ctx context.Context, c *catalog.Catalog) (*formatter.Table, error) {
			names, err := c.AlbumAndSingleArtists(ctx)
			if err != nil {
				return nil, err
			}
			return formatter.Names("Artists with albums and singles", "Artist", names), nil
		},
	}
}

// MostRatedReport ranks songs by ratings received in years.
func MostRatedReport(years models.YearRange, n int) Report {
	return Report{
		Name: "most_rated",
		Run: func(ctx context.Context, c *catalog.Catalog) (*formatter.Table, error) {
			counts, err := c.MostRatedSongs(ctx, years, n)
			if err != nil {
				return nil, err
			}
			return formatter.SongRatingCounts(fmt.Sprintf("Most rated songs, %s", years), counts), nil
		},
	}
}

// MostEngagedReport ranks users by ratings given in years.
func MostEngagedReport(years models.YearRange, n int) Report {
	return Report{
		Name: "most_engaged",
		Run: func(ctx context.Context, c *catalog.Catalog) (*formatter.Table, error) {
			counts, err := c.MostEngagedUsers(ctx, years, n)
			if err != nil {
				return nil, err
			}
			return formatter.UserRatingCounts(fmt.Sprintf("Most engaged users, %s", years), counts), nil
		},
	}
}

// Exporter runs reports against a catalog.
type Exporter struct {
	catalog *catalog.Catalog
	logger  *log.Logger
}

// NewExporter creates an [Exporter]. A nil logger falls back to [log.Default].
func NewExporter(c *catalog.Catalog, logger *log.Logger) *Exporter {
	if logger == nil {
		logger = log.Default()
	}
	return &Exporter{catalog: c, logger: logger}
}

// sendProgress sends a progress update through the channel without blocking.
func (e *Exporter) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}
