package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/catalogdb/internal/models"
	"github.com/desertthunder/catalogdb/internal/repositories"
	"github.com/desertthunder/catalogdb/internal/shared"
	"golang.org/x/time/rate"
)

// Rejection reasons, logged at debug level.
const (
	reasonMissingField   = "missing required field"
	reasonDuplicateSong  = "artist already has a song with this title"
	reasonDuplicateAlbum = "artist already has an album with this title"
	reasonDuplicateTrack = "artist already has a song with a track title"
	reasonDuplicateUser  = "username already exists"
	reasonOutOfRange     = "rating value out of range"
	reasonUnknownUser    = "user does not exist"
	reasonUnknownSong    = "song does not exist"
	reasonAlreadyRated   = "user already rated this song"
)

// batch tracks the state of a single loader call.
type batch[K models.Key[K]] struct {
	kind      string
	logger    *log.Logger
	normalize bool // normalize names before lookups
	rejected  models.Set[K]
	accepted  int
	current   bool // current record was rejected
	total     int
	progress  *rate.Sometimes
}

func newBatch[K models.Key[K]](c *Catalog, kind string, total int) *batch[K] {
	b := &batch[K]{
		kind:      kind,
		logger:    shared.WithLogger(c.logger, "batch", shared.GenerateID(), "kind", kind),
		normalize: c.opts.NormalizeNames,
		rejected:  make(models.Set[K]),
		total:     total,
	}
	if every := c.opts.ProgressEvery; every > 0 && total > every {
		b.progress = &rate.Sometimes{Every: every}
	}
	return b
}

// reject records key in the rejection set and marks the current record rejected.
func (b *batch[K]) reject(key K, reason string) {
	b.rejected.Add(key)
	b.current = true
	b.logger.Debug("rejected", "key", key, "reason", reason)
}

func (b *batch[K]) tick(processed int) {
	if b.progress == nil {
		return
	}
	b.progress.Do(func() {
		b.logger.Info("progress", "processed", processed, "total", b.total)
	})
}

// loadFunc persists one record through store, calling b.reject for declined records.
// A returned error aborts the batch.
type loadFunc[R any, K models.Key[K]] func(ctx context.Context, store *repositories.Store, rec R, b *batch[K]) error

// run drives load over records. Each record gets its own transaction unless
// the catalog is atomic, in which case one transaction covers every record.
func run[R any, K models.Key[K]](ctx context.Context, c *Catalog, kind string, records []R, load loadFunc[R, K]) (models.Set[K], error) {
	b := newBatch[K](c, kind, len(records))
	if len(records) == 0 {
		return b.rejected, nil
	}

	each := func(store *repositories.Store, i int, rec R) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		b.current = false
		if err := load(ctx, store, rec, b); err != nil {
			return fmt.Errorf("%s record %d: %w", kind, i, err)
		}
		if !b.current {
			b.accepted++
		}
		b.tick(i + 1)
		return nil
	}

	var err error
	if c.opts.Atomic {
		err = shared.WithTx(ctx, c.db, func(tx *sql.Tx) error {
			store := repositories.NewStore(tx, c.dialect)
			for i, rec := range records {
				if err := each(store, i, rec); err != nil {
					return err
				}
			}
			return nil
		})
	} else {
		for i, rec := range records {
			err = shared.WithTx(ctx, c.db, func(tx *sql.Tx) error {
				return each(repositories.NewStore(tx, c.dialect), i, rec)
			})
			if err != nil {
				break
			}
		}
	}

	if err != nil {
		b.logger.Error("batch aborted", "error", err, "atomic", c.opts.Atomic)
		return nil, err
	}

	b.logger.Info("batch loaded",
		"records", len(records), "accepted", b.accepted, "rejected", b.rejected.Len())
	return b.rejected, nil
}

// found converts a lookup error into a presence flag. Only [repositories.ErrNotFound]
// counts as absence; any other error is returned.
func found(err error) (bool, error) {
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, repositories.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}
