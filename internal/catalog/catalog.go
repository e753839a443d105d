package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/catalogdb/internal/repositories"
	"github.com/desertthunder/catalogdb/internal/shared"
)

// Options controls loader behaviour.
type Options struct {
	Atomic              bool        // Atomic runs a whole batch in a single transaction
	CreateMissingRaters bool        // CreateMissingRaters lets rating loads create unknown users
	NormalizeNames      bool        // NormalizeNames collapses whitespace in names before lookups
	ProgressEvery       int         // ProgressEvery logs progress every N records (0 disables)
	Logger              *log.Logger // Logger defaults to [shared.NewLogger] on stderr
}

// DefaultOptions returns the options matching the observed loader behaviour.
func DefaultOptions() Options {
	return Options{CreateMissingRaters: true}
}

// OptionsFromConfig maps the [shared.LoaderConfig] onto [Options].
func OptionsFromConfig(cfg shared.LoaderConfig, logger *log.Logger) Options {
	return Options{
		Atomic:              cfg.Atomic,
		CreateMissingRaters: cfg.CreateMissingRaters,
		NormalizeNames:      cfg.NormalizeNames,
		ProgressEvery:       cfg.ProgressEvery,
		Logger:              logger,
	}
}

// Catalog owns a database handle and exposes the loaders and queries.
type Catalog struct {
	db      *sql.DB
	dialect shared.Dialect
	opts    Options
	logger  *log.Logger
}

// New wraps an open database. The schema is assumed to be migrated.
func New(db *sql.DB, dialect shared.Dialect, opts Options) *Catalog {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	return &Catalog{
		db:      db,
		dialect: dialect,
		opts:    opts,
		logger:  opts.Logger,
	}
}

// Open connects using the config, applies pending migrations and returns a ready [Catalog].
func Open(cfg *shared.Config, logger *log.Logger) (*Catalog, error) {
	db, dialect, err := shared.OpenDatabase(cfg.Database)
	if err != nil {
		return nil, err
	}

	applied, err := shared.RunMigrations(db, dialect)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	c := New(db, dialect, OptionsFromConfig(cfg.Loader, logger))
	if applied > 0 {
		c.logger.Debug("applied migrations", "count", applied, "dialect", dialect.Name())
	}
	return c, nil
}

// Close releases the database handle.
func (c *Catalog) Close() error {
	return c.db.Close()
}

// Options returns the options the catalog was built with.
func (c *Catalog) Options() Options {
	return c.opts
}

// Configure returns a catalog sharing the same database with its options
// adjusted by fn. Closing either catalog closes the shared database.
func (c *Catalog) Configure(fn func(*Options)) *Catalog {
	opts := c.opts
	fn(&opts)
	return New(c.db, c.dialect, opts)
}

// Store returns repositories bound directly to the database (no transaction).
func (c *Catalog) Store() *repositories.Store {
	return repositories.NewStore(c.db, c.dialect)
}

// ClearDatabase empties every catalog table. Schema and migration history are kept.
func (c *Catalog) ClearDatabase(ctx context.Context) error {
	if err := repositories.ClearDatabase(ctx, c.db, c.dialect); err != nil {
		return fmt.Errorf("failed to clear database: %w", err)
	}
	c.logger.Info("database cleared")
	return nil
}

// Stats holds row counts for each entity.
type Stats struct {
	Artists int `json:"artists"`
	Genres  int `json:"genres"`
	Users   int `json:"users"`
	Albums  int `json:"albums"`
	Songs   int `json:"songs"`
	Ratings int `json:"ratings"`
}

// Stats counts the rows in every entity table.
func (c *Catalog) Stats(ctx context.Context) (*Stats, error) {
	s := c.Store()
	var stats Stats
	counters := []struct {
		dst *int
		fn  func(context.Context) (int, error)
	}{
		{&stats.Artists, s.Artists.Count},
		{&stats.Genres, s.Genres.Count},
		{&stats.Users, s.Users.Count},
		{&stats.Albums, s.Albums.Count},
		{&stats.Songs, s.Songs.Count},
		{&stats.Ratings, s.Ratings.Count},
	}
	for _, counter := range counters {
		n, err := counter.fn(ctx)
		if err != nil {
			return nil, err
		}
		*counter.dst = n
	}
	return &stats, nil
}
