package main

import (
	"context"
	"fmt"
	"reflect"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/catalogdb/internal/catalog"
	"github.com/desertthunder/catalogdb/internal/models"
	"github.com/desertthunder/catalogdb/internal/shared"
	"github.com/urfave/cli/v3"
)

// scenario is one demo check. It runs against an empty catalog.
type scenario struct {
	name string
	run  func(ctx context.Context, c *catalog.Catalog) error
}

// Demo replays the loader and query scenarios against a private in-memory
// catalog and prints a mark for each one.
func (r *Runner) Demo(ctx context.Context, cmd *cli.Command) error {
	config := shared.DefaultConfig()
	config.Database.Driver = shared.DriverSQLite3
	config.Database.DSN = ":memory:"

	logger := shared.WithLogger(r.logger, "component", "demo")
	if !cmd.Bool("verbose") {
		logger.SetLevel(log.WarnLevel)
	}

	c, err := catalog.Open(config, logger)
	if err != nil {
		return fmt.Errorf("failed to open demo catalog: %w", err)
	}
	defer c.Close()

	r.writePlainHeader("Catalog demo")

	failed := 0
	scenarios := demoScenarios()
	for _, s := range scenarios {
		err := c.ClearDatabase(ctx)
		if err == nil {
			err = s.run(ctx, c)
		}

		r.writePlain("%s %s\n", r.palette.Mark(err == nil), s.name)
		if err != nil {
			failed++
			r.writePlain("    %s\n", r.palette.Err(err.Error()))
		}
	}

	r.writePlain("\n%d/%d scenarios passed\n", len(scenarios)-failed, len(scenarios))
	if failed > 0 {
		return fmt.Errorf("%d demo scenarios failed", failed)
	}
	return nil
}

func demoScenarios() []scenario {
	return []scenario{
		{"duplicate single for the same artist is rejected", demoDuplicateSingle},
		{"duplicate album keeps the existing album", demoDuplicateAlbum},
		{"album containing an existing single is rejected", demoAlbumWithSingle},
		{"album sharing a song with another album is rejected", demoAlbumsSharingSong},
		{"ratings are checked for duplicates, raters, songs and range", demoRatings},
		{"unknown raters are created by default", demoCreateRater},
		{"top song genres", demoTopGenres},
		{"artists with albums and singles", demoAlbumAndSingle},
		{"most rated songs", demoMostRated},
		{"most engaged users", demoMostEngaged},
	}
}

func demoDuplicateSingle(ctx context.Context, c *catalog.Catalog) error {
	bad, err := c.LoadSingles(ctx, []models.Single{demoSingle("Same Song", "Artist A", "2020-01-01", "Rock")})
	if err := expectSet(bad, err); err != nil {
		return err
	}

	bad, err = c.LoadSingles(ctx, []models.Single{demoSingle("Same Song", "Artist A", "2020-02-02", "Rock")})
	return expectSet(bad, err, models.SongKey{Artist: "Artist A", Title: "Same Song"})
}

func demoDuplicateAlbum(ctx context.Context, c *catalog.Catalog) error {
	bad, err := c.LoadAlbums(ctx, []models.Album{demoAlbum("Album One", "Artist A", "2020-05-01", "Rock", "Track 1", "Track 2")})
	if err := expectSet(bad, err); err != nil {
		return err
	}

	bad, err = c.LoadAlbums(ctx, []models.Album{demoAlbum("Album One", "Artist A", "2021-01-01", "Rock", "Other 1")})
	return expectSet(bad, err, models.AlbumKey{Artist: "Artist A", Title: "Album One"})
}

func demoAlbumWithSingle(ctx context.Context, c *catalog.Catalog) error {
	bad, err := c.LoadSingles(ctx, []models.Single{demoSingle("Hit", "Artist A", "2020-01-01", "Rock")})
	if err := expectSet(bad, err); err != nil {
		return err
	}

	albums, err := c.LoadAlbums(ctx, []models.Album{demoAlbum("Problem Album", "Artist A", "2021-01-01", "Rock", "Hit", "Other")})
	return expectSet(albums, err, models.AlbumKey{Artist: "Artist A", Title: "Problem Album"})
}

func demoAlbumsSharingSong(ctx context.Context, c *catalog.Catalog) error {
	bad, err := c.LoadAlbums(ctx, []models.Album{demoAlbum("First Album", "Artist B", "2020-01-01", "Jazz", "Shared", "Unique 1")})
	if err := expectSet(bad, err); err != nil {
		return err
	}

	bad, err = c.LoadAlbums(ctx, []models.Album{demoAlbum("Second Album", "Artist B", "2021-01-01", "Jazz", "Shared", "Unique 2")})
	return expectSet(bad, err, models.AlbumKey{Artist: "Artist B", Title: "Second Album"})
}

func seedRatingScenario(ctx context.Context, c *catalog.Catalog) error {
	res, err := c.LoadBatch(ctx, models.Batch{
		Singles: []models.Single{demoSingle("Single X", "Artist A", "2020-01-01", "Rock")},
		Albums:  []models.Album{demoAlbum("Album One", "Artist A", "2020-02-01", "Rock", "Track 1")},
		Users:   []string{"alice", "bob"},
	})
	if err != nil {
		return err
	}
	if res.Rejected() != 0 {
		return fmt.Errorf("setup rejected %d records", res.Rejected())
	}
	return nil
}

func demoRatings(ctx context.Context, c *catalog.Catalog) error {
	if err := seedRatingScenario(ctx, c); err != nil {
		return err
	}

	strict := c.Configure(func(o *catalog.Options) { o.CreateMissingRaters = false })
	key := func(user, title string) models.RatingKey {
		return models.RatingKey{Username: user, Title: title, Artist: "Artist A"}
	}

	for _, step := range []struct {
		rating models.Rating
		want   []models.RatingKey
	}{
		{demoRating("alice", "Single X", 5, "2021-01-01"), nil},
		{demoRating("alice", "Single X", 4, "2021-02-02"), []models.RatingKey{key("alice", "Single X")}},
		{demoRating("charlie", "Single X", 3, "2021-03-03"), []models.RatingKey{key("charlie", "Single X")}},
		{demoRating("alice", "Nonexistent Song", 4, "2021-04-04"), []models.RatingKey{key("alice", "Nonexistent Song")}},
		{demoRating("alice", "Single X", 0, "2021-05-05"), []models.RatingKey{key("alice", "Single X")}},
	} {
		bad, err := strict.LoadRatings(ctx, []models.Rating{step.rating})
		if err := expectSet(bad, err, step.want...); err != nil {
			return fmt.Errorf("%s rating %q: %w", step.rating.Username, step.rating.Song.Title, err)
		}
	}
	return nil
}

func demoCreateRater(ctx context.Context, c *catalog.Catalog) error {
	if err := seedRatingScenario(ctx, c); err != nil {
		return err
	}

	bad, err := c.LoadRatings(ctx, []models.Rating{demoRating("charlie", "Single X", 3, "2021-03-03")})
	if err := expectSet(bad, err); err != nil {
		return err
	}

	stats, err := c.Stats(ctx)
	if err != nil {
		return err
	}
	if stats.Users != 3 {
		return fmt.Errorf("expected 3 users, got %d", stats.Users)
	}
	return nil
}

// seedQueryScenario loads the shared query dataset.
func seedQueryScenario(ctx context.Context, c *catalog.Catalog) error {
	rate := func(user, title, artist string, value int, date string) models.Rating {
		return models.Rating{
			Username: user,
			Song:     models.SongRef{Title: title, Artist: artist},
			Value:    value,
			Date:     models.MustDate(date),
		}
	}

	res, err := c.LoadBatch(ctx, models.Batch{
		Singles: []models.Single{
			demoSingle("Rock Single", "Artist A", "2020-01-01", "Rock"),
			demoSingle("Pop Single", "Artist B", "2020-02-01", "Pop"),
			demoSingle("Dual Genre", "Artist C", "2021-03-01", "Rock", "Jazz"),
		},
		Albums: []models.Album{
			demoAlbum("Rock Album", "Artist A", "2020-04-01", "Rock", "Album Rock 1", "Album Rock 2"),
			demoAlbum("Jazz Album", "Artist C", "2021-05-01", "Jazz", "Album Jazz 1"),
		},
		Users: []string{"alice", "bob", "carol"},
		Ratings: []models.Rating{
			rate("alice", "Rock Single", "Artist A", 5, "2021-01-01"),
			rate("bob", "Rock Single", "Artist A", 4, "2021-01-02"),
			rate("alice", "Pop Single", "Artist B", 3, "2021-02-01"),
			rate("alice", "Dual Genre", "Artist C", 4, "2021-03-01"),
			rate("bob", "Dual Genre", "Artist C", 5, "2021-03-02"),
			rate("carol", "Dual Genre", "Artist C", 5, "2021-03-03"),
			rate("carol", "Album Rock 1", "Artist A", 4, "2021-04-01"),
			rate("bob", "Album Jazz 1", "Artist C", 4, "2021-05-01"),
		},
	})
	if err != nil {
		return err
	}
	if res.Rejected() != 0 {
		return fmt.Errorf("setup rejected %d records", res.Rejected())
	}
	return nil
}

func demoTopGenres(ctx context.Context, c *catalog.Catalog) error {
	if err := seedQueryScenario(ctx, c); err != nil {
		return err
	}
	got, err := c.TopSongGenres(ctx, 10)
	return expectRows(got, err, []models.GenreCount{
		{Genre: "Rock", Count: 4},
		{Genre: "Jazz", Count: 2},
		{Genre: "Pop", Count: 1},
	})
}

func demoAlbumAndSingle(ctx context.Context, c *catalog.Catalog) error {
	if err := seedQueryScenario(ctx, c); err != nil {
		return err
	}
	got, err := c.AlbumAndSingleArtists(ctx)
	return expectRows(got, err, []string{"Artist A", "Artist C"})
}

func demoMostRated(ctx context.Context, c *catalog.Catalog) error {
	if err := seedQueryScenario(ctx, c); err != nil {
		return err
	}
	got, err := c.MostRatedSongs(ctx, models.Years(2021, 2021), 2)
	return expectRows(got, err, []models.SongRatingCount{
		{Title: "Dual Genre", Artist: "Artist C", Count: 3},
		{Title: "Rock Single", Artist: "Artist A", Count: 2},
	})
}

func demoMostEngaged(ctx context.Context, c *catalog.Catalog) error {
	if err := seedQueryScenario(ctx, c); err != nil {
		return err
	}
	got, err := c.MostEngagedUsers(ctx, models.Years(2021, 2021), 10)
	return expectRows(got, err, []models.UserRatingCount{
		{Username: "alice", Count: 3},
		{Username: "bob", Count: 3},
		{Username: "carol", Count: 2},
	})
}

func demoSingle(title, artist, date string, genres ...string) models.Single {
	return models.Single{Title: title, Artist: artist, Genres: genres, ReleaseDate: models.MustDate(date)}
}

func demoAlbum(title, artist, date, genre string, songs ...string) models.Album {
	return models.Album{Title: title, Artist: artist, Genre: genre, ReleaseDate: models.DatePtr(date), Songs: songs}
}

func demoRating(user, title string, value int, date string) models.Rating {
	return models.Rating{
		Username: user,
		Song:     models.SongRef{Title: title, Artist: "Artist A"},
		Value:    value,
		Date:     models.MustDate(date),
	}
}

func expectSet[K models.Key[K]](got models.Set[K], err error, want ...K) error {
	if err != nil {
		return err
	}
	if expected := models.SetOf(want...); !got.Equal(expected) {
		return fmt.Errorf("expected rejections %s, got %s", expected, got)
	}
	return nil
}

func expectRows[T any](got []T, err error, want []T) error {
	if err != nil {
		return err
	}
	if !reflect.DeepEqual(got, want) {
		return fmt.Errorf("expected %v, got %v", want, got)
	}
	return nil
}
