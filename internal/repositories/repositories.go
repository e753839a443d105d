package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/desertthunder/catalogdb/internal/shared"
)

var (
	// ErrNotFound is returned by lookups that match no row.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate wraps unique constraint violations the caller did not screen for.
	ErrDuplicate = errors.New("duplicate")
)

// Tables lists every catalog table, children before parents.
var Tables = []string{"ratings", "song_genres", "songs", "albums", "users", "genres", "artists"}

// Querier is the subset of *sql.DB and *sql.Tx the repositories need.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store bundles every repository over one [Querier].
type Store struct {
	Artists *ArtistRepository
	Genres  *GenreRepository
	Users   *UserRepository
	Albums  *AlbumRepository
	Songs   *SongRepository
	Ratings *RatingRepository
	Reports *ReportRepository
}

// NewStore creates a [Store] whose repositories all run on q.
func NewStore(q Querier, d shared.Dialect) *Store {
	b := base{q: q, d: d}
	return &Store{
		Artists: newArtistRepository(b),
		Genres:  newGenreRepository(b),
		Users:   newUserRepository(b),
		Albums:  &AlbumRepository{base: b},
		Songs:   &SongRepository{base: b},
		Ratings: &RatingRepository{base: b},
		Reports: &ReportRepository{base: b},
	}
}

type base struct {
	q Querier
	d shared.Dialect
}

// lookupID runs a single-column id query, mapping no rows to [ErrNotFound].
func (b base) lookupID(ctx context.Context, query string, args ...any) (int64, error) {
	var id int64
	err := b.q.QueryRowContext(ctx, b.d.Rebind(query), args...).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	return id, nil
}

// insertID runs an INSERT ... RETURNING id statement.
func (b base) insertID(ctx context.Context, query string, args ...any) (int64, error) {
	var id int64
	err := b.q.QueryRowContext(ctx, b.d.Rebind(query), args...).Scan(&id)
	if err != nil {
		if b.d.IsUniqueViolation(err) {
			return 0, fmt.Errorf("%w: %w", ErrDuplicate, err)
		}
		return 0, err
	}
	return id, nil
}

func (b base) exists(ctx context.Context, query string, args ...any) (bool, error) {
	_, err := b.lookupID(ctx, query, args...)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

// named implements get-or-create for tables keyed by a unique name column.
type named struct {
	base
	entity string
	table  string
	column string
}

// FindID returns the id for name or [ErrNotFound].
func (n named) FindID(ctx context.Context, name string) (int64, error) {
	id, err := n.lookupID(ctx, fmt.Sprintf("SELECT id FROM %s WHERE %s = ?", n.table, n.column), name)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return 0, fmt.Errorf("failed to query %s: %w", n.entity, err)
	}
	return id, err
}

// Create inserts name and returns its id.
func (n named) Create(ctx context.Context, name string) (int64, error) {
	id, err := n.insertID(ctx, fmt.Sprintf("INSERT INTO %s (%s) VALUES (?) RETURNING id", n.table, n.column), name)
	if err != nil {
		return 0, fmt.Errorf("failed to insert %s %q: %w", n.entity, name, err)
	}
	return id, nil
}

// GetOrCreate returns the id for name, inserting it first when absent.
// created reports whether a row was inserted.
func (n named) GetOrCreate(ctx context.Context, name string) (id int64, created bool, err error) {
	id, err = n.FindID(ctx, name)
	if err == nil {
		return id, false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return 0, false, err
	}
	id, err = n.Create(ctx, name)
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}

// Count returns the number of rows in the table.
func (n named) Count(ctx context.Context) (int, error) {
	return countRows(ctx, n.base, n.table)
}

// ArtistRepository persists artists by unique name.
type ArtistRepository struct{ named }

// newArtistRepository creates an [ArtistRepository].
func newArtistRepository(b base) *ArtistRepository {
	return &ArtistRepository{named{base: b, entity: "artist", table: "artists", column: "name"}}
}

// GenreRepository persists genres by unique name.
type GenreRepository struct{ named }

// newGenreRepository creates a [GenreRepository].
func newGenreRepository(b base) *GenreRepository {
	return &GenreRepository{named{base: b, entity: "genre", table: "genres", column: "name"}}
}

// ClearDatabase deletes every row from every catalog table.
//
// Foreign key enforcement is suspended for the duration where the dialect
// needs it and is always restored before returning.
func ClearDatabase(ctx context.Context, db *sql.DB, d shared.Dialect) (err error) {
	conn, err := db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer conn.Close()

	if stmt := d.DisableForeignKeys(); stmt != "" {
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to disable foreign keys: %w", err)
		}
		defer func() {
			if _, enableErr := conn.ExecContext(context.WithoutCancel(ctx), d.EnableForeignKeys()); enableErr != nil && err == nil {
				err = fmt.Errorf("failed to enable foreign keys: %w", enableErr)
			}
		}()
	}

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	for _, table := range Tables {
		if _, err := tx.ExecContext(ctx, d.TruncateTable(table)); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	for _, stmt := range d.ResetSequences(Tables) {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to reset sequences: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit reset: %w", err)
	}
	return nil
}

// queryStrings runs a single-column text query.
func queryStrings(ctx context.Context, b base, query string, args ...any) ([]string, error) {
	rows, err := b.q.QueryContext(ctx, b.d.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query: %w", err)
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		out = append(out, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return out, nil
}

func countRows(ctx context.Context, b base, table string) (int, error) {
	var count int
	if err := b.q.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", table, err)
	}
	return count, nil
}
