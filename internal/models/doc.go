// Package models defines the catalog's input records, natural keys and query results.
//
// The package contains three categories of types:
//
// 1. Batch records: what callers hand to the loaders
//   - [Single] : a song with no album and its own release date
//   - [Album] : an album with its genre and track titles
//   - [Rating] : one user's score for a song identified by [SongRef]
//   - [Batch] : all four kinds together, as read from a batch file
//
// 2. Natural keys and rejection sets
//   - [SongKey], [AlbumKey], [Username], [RatingKey] identify records a load declined
//   - [Set] is the rejection set returned by every loader
//
// 3. Query rows: [GenreCount], [ArtistCount], [SongRatingCount], [UserRatingCount]
package models
