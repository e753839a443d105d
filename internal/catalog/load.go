package catalog

import (
	"context"
	"slices"
	"strings"

	"github.com/desertthunder/catalogdb/internal/models"
	"github.com/desertthunder/catalogdb/internal/repositories"
	"github.com/desertthunder/catalogdb/internal/shared"
)

// LoadSingles stores each single, creating its artist and genres on demand.
// A single is rejected when its artist already has a song with the same title.
func (c *Catalog) LoadSingles(ctx context.Context, singles []models.Single) (models.SongKeySet, error) {
	return run(ctx, c, "singles", singles, loadSingle)
}

func loadSingle(ctx context.Context, s *repositories.Store, single models.Single, b *batch[models.SongKey]) error {
	key := single.Key()
	if b.normalize {
		single = normalizeSingle(single)
	}
	if isBlank(single.Title) || isBlank(single.Artist) || hasBlank(single.Genres) {
		b.reject(key, reasonMissingField)
		return nil
	}

	artistID, _, err := s.Artists.GetOrCreate(ctx, single.Artist)
	if err != nil {
		return err
	}

	ok, err := found(lookup(s.Songs.FindID(ctx, artistID, single.Title)))
	if err != nil {
		return err
	}
	if ok {
		b.reject(key, reasonDuplicateSong)
		return nil
	}

	songID, err := s.Songs.CreateSingle(ctx, artistID, single.Title, models.FormatDate(single.ReleaseDate))
	if err != nil {
		return err
	}
	return tagSong(ctx, s, songID, single.Genres...)
}

// LoadAlbums stores each album and its tracks. An album is rejected when the
// artist already has an album with that title or when any track title collides
// with an existing song by the artist. Rejection never undoes work: tracks that
// do not collide are stored, against the existing album when there is one.
func (c *Catalog) LoadAlbums(ctx context.Context, albums []models.Album) (models.AlbumKeySet, error) {
	return run(ctx, c, "albums", albums, loadAlbum)
}

func loadAlbum(ctx context.Context, s *repositories.Store, album models.Album, b *batch[models.AlbumKey]) error {
	key := album.Key()
	if b.normalize {
		album = normalizeAlbum(album)
	}
	if isBlank(album.Title) || isBlank(album.Artist) || isBlank(album.Genre) {
		b.reject(key, reasonMissingField)
		return nil
	}

	artistID, _, err := s.Artists.GetOrCreate(ctx, album.Artist)
	if err != nil {
		return err
	}

	genreID, _, err := s.Genres.GetOrCreate(ctx, album.Genre)
	if err != nil {
		return err
	}

	albumID, err := s.Albums.FindID(ctx, artistID, album.Title)
	ok, err := found(err)
	if err != nil {
		return err
	}
	if ok {
		b.reject(key, reasonDuplicateAlbum)
	} else {
		albumID, err = s.Albums.Create(ctx, artistID, album.Title, models.FormatDatePtr(album.ReleaseDate), genreID)
		if err != nil {
			return err
		}
	}

	for _, title := range album.Songs {
		if isBlank(title) {
			b.reject(key, reasonMissingField)
			continue
		}

		ok, err := found(lookup(s.Songs.FindID(ctx, artistID, title)))
		if err != nil {
			return err
		}
		if ok {
			b.reject(key, reasonDuplicateTrack)
			b.logger.Debug("skipped track", "album", key, "track", title)
			continue
		}

		songID, err := s.Songs.CreateTrack(ctx, artistID, albumID, title)
		if err != nil {
			return err
		}
		if _, err := s.Songs.AddGenre(ctx, songID, genreID); err != nil {
			return err
		}
	}
	return nil
}

// LoadUsers stores each username. Existing usernames are rejected.
func (c *Catalog) LoadUsers(ctx context.Context, usernames []string) (models.UsernameSet, error) {
	return run(ctx, c, "users", usernames, loadUser)
}

func loadUser(ctx context.Context, s *repositories.Store, username string, b *batch[models.Username]) error {
	key := models.Username(username)
	if b.normalize {
		username = shared.NormalizeName(username)
	}
	if isBlank(username) {
		b.reject(key, reasonMissingField)
		return nil
	}

	exists, err := s.Users.Exists(ctx, username)
	if err != nil {
		return err
	}
	if exists {
		b.reject(key, reasonDuplicateUser)
		return nil
	}

	_, err = s.Users.Create(ctx, username)
	return err
}

// LoadRatings stores each rating. Checks run in order and the first failing one
// rejects the rating: value range, user (created when
// [Options.CreateMissingRaters] is set), song existence, prior rating.
func (c *Catalog) LoadRatings(ctx context.Context, ratings []models.Rating) (models.RatingKeySet, error) {
	createUsers := c.opts.CreateMissingRaters
	return run(ctx, c, "ratings", ratings,
		func(ctx context.Context, s *repositories.Store, r models.Rating, b *batch[models.RatingKey]) error {
			return loadRating(ctx, s, r, b, createUsers)
		})
}

func loadRating(ctx context.Context, s *repositories.Store, r models.Rating, b *batch[models.RatingKey], createUsers bool) error {
	key := r.Key()
	if b.normalize {
		r = normalizeRating(r)
	}
	if !r.InRange() {
		b.reject(key, reasonOutOfRange)
		return nil
	}
	if isBlank(r.Username) || isBlank(r.Song.Title) || isBlank(r.Song.Artist) || r.Date.IsZero() {
		b.reject(key, reasonMissingField)
		return nil
	}

	var userID int64
	if createUsers {
		id, created, err := s.Users.GetOrCreate(ctx, r.Username)
		if err != nil {
			return err
		}
		if created {
			b.logger.Debug("created rater", "username", r.Username)
		}
		userID = id
	} else {
		id, err := s.Users.FindID(ctx, r.Username)
		ok, err := found(err)
		if err != nil {
			return err
		}
		if !ok {
			b.reject(key, reasonUnknownUser)
			return nil
		}
		userID = id
	}

	songID, err := s.Songs.FindByTitleAndArtist(ctx, r.Song.Title, r.Song.Artist)
	ok, err := found(err)
	if err != nil {
		return err
	}
	if !ok {
		b.reject(key, reasonUnknownSong)
		return nil
	}

	rated, err := s.Ratings.Exists(ctx, userID, songID)
	if err != nil {
		return err
	}
	if rated {
		b.reject(key, reasonAlreadyRated)
		return nil
	}

	_, err = s.Ratings.Create(ctx, userID, songID, r.Value, models.FormatDate(r.Date))
	return err
}

// BatchResult holds the rejection sets of a [Catalog.LoadBatch] call.
type BatchResult struct {
	Singles models.SongKeySet   `json:"singles"`
	Albums  models.AlbumKeySet  `json:"albums"`
	Users   models.UsernameSet  `json:"users"`
	Ratings models.RatingKeySet `json:"ratings"`
}

// Rejected returns the total number of rejected records.
func (r *BatchResult) Rejected() int {
	return r.Singles.Len() + r.Albums.Len() + r.Users.Len() + r.Ratings.Len()
}

// LoadBatch loads singles, albums, users and ratings, in that order, so that
// ratings can reference songs and users from the same batch.
func (c *Catalog) LoadBatch(ctx context.Context, in models.Batch) (*BatchResult, error) {
	var (
		res BatchResult
		err error
	)
	if res.Singles, err = c.LoadSingles(ctx, in.Singles); err != nil {
		return nil, err
	}
	if res.Albums, err = c.LoadAlbums(ctx, in.Albums); err != nil {
		return nil, err
	}
	if res.Users, err = c.LoadUsers(ctx, in.Users); err != nil {
		return nil, err
	}
	if res.Ratings, err = c.LoadRatings(ctx, in.Ratings); err != nil {
		return nil, err
	}
	return &res, nil
}

func tagSong(ctx context.Context, s *repositories.Store, songID int64, genres ...string) error {
	for _, genre := range genres {
		genreID, _, err := s.Genres.GetOrCreate(ctx, genre)
		if err != nil {
			return err
		}
		if _, err := s.Songs.AddGenre(ctx, songID, genreID); err != nil {
			return err
		}
	}
	return nil
}

// lookup drops the id from a lookup result.
func lookup(_ int64, err error) error { return err }

// isBlank reports whether s is empty or only whitespace.
func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func hasBlank(names []string) bool {
	return slices.ContainsFunc(names, isBlank)
}

func normalizeSingle(s models.Single) models.Single {
	s.Title = shared.NormalizeName(s.Title)
	s.Artist = shared.NormalizeName(s.Artist)
	genres := make([]string, len(s.Genres))
	for i, g := range s.Genres {
		genres[i] = shared.NormalizeName(g)
	}
	s.Genres = genres
	return s
}

func normalizeAlbum(a models.Album) models.Album {
	a.Title = shared.NormalizeName(a.Title)
	a.Artist = shared.NormalizeName(a.Artist)
	a.Genre = shared.NormalizeName(a.Genre)
	songs := make([]string, len(a.Songs))
	for i, t := range a.Songs {
		songs[i] = shared.NormalizeName(t)
	}
	a.Songs = songs
	return a
}

func normalizeRating(r models.Rating) models.Rating {
	r.Username = shared.NormalizeName(r.Username)
	r.Song.Title = shared.NormalizeName(r.Song.Title)
	r.Song.Artist = shared.NormalizeName(r.Song.Artist)
	return r
}
