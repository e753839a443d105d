// Package catalog is the loader and query facade over the music catalog store.
//
// # Loading
//
// Each loader takes an in-memory batch and returns a rejection set: the natural
// keys of records it declined to persist. Rejections are expected outcomes and
// never errors. Backend failures abort the call and are returned as errors.
//
//   - [Catalog.LoadSingles] : rejects (artist, title) already used by that artist
//   - [Catalog.LoadAlbums] : rejects (artist, album title) for an existing album or
//     for any conflicting track, while non-conflicting tracks are still stored
//   - [Catalog.LoadUsers] : rejects existing usernames
//   - [Catalog.LoadRatings] : rejects out-of-range values, unknown songs and repeat ratings
//
// By default every record commits in its own transaction, so earlier accepted
// records survive a later failure. [Options.Atomic] runs the whole batch in one
// transaction instead.
//
// # Rating users
//
// Rating loads create a missing user on the fly when [Options.CreateMissingRaters]
// is set (the default). Explicit user loads never do this implicitly, so the two
// entry points disagree about whether an unknown username is an error; callers
// that want strict behaviour turn the option off.
//
// # Queries
//
// The aggregate queries ([Catalog.TopSongGenres], [Catalog.MostRatedSongs], ...)
// are read-only and run directly against the database.
package catalog
