package main

import (
	"context"
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/desertthunder/catalogdb/internal/catalog"
	"github.com/desertthunder/catalogdb/internal/formatter"
	"github.com/desertthunder/catalogdb/internal/models"
	"github.com/desertthunder/catalogdb/internal/shared"
	"github.com/urfave/cli/v3"
)

// loadResult is what a load action reports: a JSON payload and the tables
// rendered for every other format.
type loadResult struct {
	payload any
	tables  []*formatter.Table
}

type loadFunc func(ctx context.Context, c *catalog.Catalog, batch models.Batch) (*loadResult, error)

// readBatch decodes a TOML batch file. Dates are TOML local dates (release_date = 2020-01-01).
func readBatch(path string) (models.Batch, error) {
	var batch models.Batch
	if path == "" {
		return batch, fmt.Errorf("%w: --file", shared.ErrMissingArgument)
	}

	meta, err := toml.DecodeFile(path, &batch)
	if err != nil {
		return batch, fmt.Errorf("failed to parse batch file %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return batch, fmt.Errorf("%w: unknown keys in %s: %v", shared.ErrInvalidInput, path, undecoded)
	}
	return batch, nil
}

// outputFormat resolves --format, with --json taking precedence.
func outputFormat(cmd *cli.Command) (formatter.Format, error) {
	if cmd.Bool("json") {
		return formatter.FormatJSON, nil
	}
	return formatter.ParseFormat(cmd.String("format"))
}

func (r *Runner) runLoad(ctx context.Context, cmd *cli.Command, kind string, fn loadFunc) error {
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}

	batch, err := readBatch(cmd.String("file"))
	if err != nil {
		return err
	}

	c, done, err := r.open(ctx, cmd)
	if err != nil {
		return err
	}
	defer done()

	c = c.Configure(func(o *catalog.Options) {
		if cmd.IsSet("atomic") {
			o.Atomic = cmd.Bool("atomic")
		}
		if cmd.Bool("strict") {
			o.CreateMissingRaters = false
		}
	})

	r.logger.Debug("loading", "kind", kind, "file", cmd.String("file"), "atomic", c.Options().Atomic)
	result, err := fn(ctx, c, batch)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", kind, err)
	}

	if format == formatter.FormatJSON {
		return r.writeJSON(result.payload, true)
	}
	for _, t := range result.tables {
		if err := r.writeTable(t, format); err != nil {
			return err
		}
	}
	return nil
}

// LoadSingles loads the singles section of a batch file.
func (r *Runner) LoadSingles(ctx context.Context, cmd *cli.Command) error {
	return r.runLoad(ctx, cmd, "singles", func(ctx context.Context, c *catalog.Catalog, b models.Batch) (*loadResult, error) {
		bad, err := c.LoadSingles(ctx, b.Singles)
		if err != nil {
			return nil, err
		}
		return &loadResult{payload: bad, tables: []*formatter.Table{singlesTable(bad)}}, nil
	})
}

// LoadAlbums loads the albums section of a batch file.
func (r *Runner) LoadAlbums(ctx context.Context, cmd *cli.Command) error {
	return r.runLoad(ctx, cmd, "albums", func(ctx context.Context, c *catalog.Catalog, b models.Batch) (*loadResult, error) {
		bad, err := c.LoadAlbums(ctx, b.Albums)
		if err != nil {
			return nil, err
		}
		return &loadResult{payload: bad, tables: []*formatter.Table{albumsTable(bad)}}, nil
	})
}

// LoadUsers loads the users list of a batch file.
func (r *Runner) LoadUsers(ctx context.Context, cmd *cli.Command) error {
	return r.runLoad(ctx, cmd, "users", func(ctx context.Context, c *catalog.Catalog, b models.Batch) (*loadResult, error) {
		bad, err := c.LoadUsers(ctx, b.Users)
		if err != nil {
			return nil, err
		}
		return &loadResult{payload: bad, tables: []*formatter.Table{usersTable(bad)}}, nil
	})
}

// LoadRatings loads the ratings section of a batch file.
func (r *Runner) LoadRatings(ctx context.Context, cmd *cli.Command) error {
	return r.runLoad(ctx, cmd, "ratings", func(ctx context.Context, c *catalog.Catalog, b models.Batch) (*loadResult, error) {
		bad, err := c.LoadRatings(ctx, b.Ratings)
		if err != nil {
			return nil, err
		}
		return &loadResult{payload: bad, tables: []*formatter.Table{ratingsTable(bad)}}, nil
	})
}

// LoadBatch loads every section of a batch file in dependency order.
func (r *Runner) LoadBatch(ctx context.Context, cmd *cli.Command) error {
	return r.runLoad(ctx, cmd, "batch", func(ctx context.Context, c *catalog.Catalog, b models.Batch) (*loadResult, error) {
		if b.Empty() {
			r.logger.Warn("batch file has no records", "file", cmd.String("file"))
		}
		res, err := c.LoadBatch(ctx, b)
		if err != nil {
			return nil, err
		}
		return &loadResult{
			payload: res,
			tables: []*formatter.Table{
				singlesTable(res.Singles),
				albumsTable(res.Albums),
				usersTable(res.Users),
				ratingsTable(res.Ratings),
			},
		}, nil
	})
}

func singlesTable(bad models.SongKeySet) *formatter.Table {
	return formatter.Rejections("Rejected singles", bad, formatter.SongKeyHeaders...)
}

func albumsTable(bad models.AlbumKeySet) *formatter.Table {
	return formatter.Rejections("Rejected albums", bad, formatter.AlbumKeyHeaders...)
}

func usersTable(bad models.UsernameSet) *formatter.Table {
	return formatter.Rejections("Rejected users", bad, formatter.UsernameHeaders...)
}

func ratingsTable(bad models.RatingKeySet) *formatter.Table {
	return formatter.Rejections("Rejected ratings", bad, formatter.RatingKeyHeaders...)
}
