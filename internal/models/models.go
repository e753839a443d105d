package models

import (
	"fmt"
	"time"
)

// DateLayout is the civil date format used for every stored date.
const DateLayout = "2006-01-02"

// Single is a song with no album association.
type Single struct {
	Title       string    `toml:"title" json:"title"`
	Genres      []string  `toml:"genres" json:"genres"`
	Artist      string    `toml:"artist" json:"artist"`
	ReleaseDate time.Time `toml:"release_date" json:"release_date"`
}

// Key returns the single's natural key.
func (s Single) Key() SongKey {
	return SongKey{Artist: s.Artist, Title: s.Title}
}

// Album is an album record with its track titles.
// ReleaseDate is optional; Genre applies to every track.
type Album struct {
	Title       string     `toml:"title" json:"title"`
	Artist      string     `toml:"artist" json:"artist"`
	ReleaseDate *time.Time `toml:"release_date" json:"release_date,omitempty"`
	Genre       string     `toml:"genre" json:"genre"`
	Songs       []string   `toml:"songs" json:"songs"`
}

// Key returns the album's natural key.
func (a Album) Key() AlbumKey {
	return AlbumKey{Artist: a.Artist, Title: a.Title}
}

// SongRef identifies a song by title and artist name.
type SongRef struct {
	Title  string `toml:"title" json:"title"`
	Artist string `toml:"artist" json:"artist"`
}

// Rating is a user's score for a song on a given date.
type Rating struct {
	Username string    `toml:"username" json:"username"`
	Song     SongRef   `toml:"song" json:"song"`
	Value    int       `toml:"value" json:"value"`
	Date     time.Time `toml:"date" json:"date"`
}

// Key returns the rating's natural key.
func (r Rating) Key() RatingKey {
	return RatingKey{Username: r.Username, Title: r.Song.Title, Artist: r.Song.Artist}
}

// InRange reports whether the rating value lies in [MinRating, MaxRating].
func (r Rating) InRange() bool {
	return r.Value >= MinRating && r.Value <= MaxRating
}

// Inclusive bounds for a rating value.
const (
	MinRating = 1
	MaxRating = 5
)

// Batch groups every kind of load record, in the order they are loaded.
type Batch struct {
	Singles []Single `toml:"singles" json:"singles,omitempty"`
	Albums  []Album  `toml:"albums" json:"albums,omitempty"`
	Users   []string `toml:"users" json:"users,omitempty"`
	Ratings []Rating `toml:"ratings" json:"ratings,omitempty"`
}

// Empty reports whether the batch holds no records.
func (b Batch) Empty() bool {
	return len(b.Singles) == 0 && len(b.Albums) == 0 && len(b.Users) == 0 && len(b.Ratings) == 0
}

// YearRange is an inclusive range of calendar years.
type YearRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Years builds a [YearRange].
func Years(start, end int) YearRange {
	return YearRange{Start: start, End: end}
}

// Validate checks the range is ordered.
func (y YearRange) Validate() error {
	if y.Start > y.End {
		return fmt.Errorf("year range start %d is after end %d", y.Start, y.End)
	}
	return nil
}

// Contains reports whether year falls in the range.
func (y YearRange) Contains(year int) bool {
	return year >= y.Start && year <= y.End
}

func (y YearRange) String() string {
	return fmt.Sprintf("%d-%d", y.Start, y.End)
}

// FormatDate renders t in [DateLayout], or "" for the zero time.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

// FormatDatePtr is [FormatDate] for optional dates.
func FormatDatePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return FormatDate(*t)
}

// ParseDate parses a "YYYY-MM-DD" string.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// MustDate parses a "YYYY-MM-DD" string and panics on failure.
// Intended for literal batches.
func MustDate(s string) time.Time {
	t, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return t
}

// DatePtr returns a pointer to the parsed date.
func DatePtr(s string) *time.Time {
	t := MustDate(s)
	return &t
}
