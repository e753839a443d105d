package models

// GenreCount is a genre with the number of distinct songs tagged with it.
type GenreCount struct {
	Genre string `json:"genre"`
	Count int    `json:"count"`
}

// ArtistCount is an artist with a song count.
type ArtistCount struct {
	Artist string `json:"artist"`
	Count  int    `json:"count"`
}

// SongRatingCount is a song with the number of ratings it received.
type SongRatingCount struct {
	Title  string `json:"title"`
	Artist string `json:"artist"`
	Count  int    `json:"count"`
}

// UserRatingCount is a user with the number of ratings they made.
type UserRatingCount struct {
	Username string `json:"username"`
	Count    int    `json:"count"`
}
