// Package repositories implements SQL persistence for the music catalog.
//
// Every repository runs against a [Querier], which is either a *sql.DB or a
// *sql.Tx, so the catalog can decide where transaction boundaries fall.
// Statements are written with "?" placeholders and rebound through the
// [shared.Dialect] so the same code serves SQLite and PostgreSQL.
//
// Key Implementations:
//   - [ArtistRepository], [GenreRepository] : get-or-create by unique name
//   - [UserRepository] : username lookups and explicit creation
//   - [AlbumRepository] : (artist, title) lookups and inserts
//   - [SongRepository] : singles, album tracks and genre tags
//   - [RatingRepository] : one rating per (user, song)
//   - [ReportRepository] : the read-only aggregate queries
//
// [ClearDatabase] empties every table in dependency order.
package repositories
