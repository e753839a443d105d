package shared

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
)

// Supported database/sql driver names.
const (
	DriverSQLite3  = "sqlite3"
	DriverSQLite   = "sqlite"
	DriverPostgres = "pgx"
)

// Dialect captures the SQL differences between the supported backends.
//
// Queries are written with "?" placeholders and passed through [Dialect.Rebind]
// before execution.
type Dialect interface {
	Name() string               // Name returns the migration directory for the dialect
	Driver() string             // Driver returns the database/sql driver name
	Rebind(query string) string // Rebind rewrites "?" placeholders for the backend
	Year(expr string) string    // Year returns an integer year expression for a date column
	DisableForeignKeys() string // DisableForeignKeys returns the statement that suspends FK checks, if any
	EnableForeignKeys() string  // EnableForeignKeys returns the statement that restores FK checks, if any
	TruncateTable(table string) string
	ResetSequences(tables []string) []string
	IsUniqueViolation(err error) bool
}

// DialectFor returns the [Dialect] for a driver name.
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case DriverSQLite3, DriverSQLite:
		return SQLiteDialect{driver: driver}, nil
	case DriverPostgres, "postgres", "postgresql":
		return PostgresDialect{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}
}

// SQLiteDialect serves both the cgo (sqlite3) and pure Go (sqlite) drivers.
type SQLiteDialect struct {
	driver string
}

// NewSQLiteDialect returns a dialect bound to the given SQLite driver name.
func NewSQLiteDialect(driver string) SQLiteDialect {
	return SQLiteDialect{driver: driver}
}

func (d SQLiteDialect) Name() string { return "sqlite" }

func (d SQLiteDialect) Driver() string {
	if d.driver == "" {
		return DriverSQLite3
	}
	return d.driver
}

func (SQLiteDialect) Rebind(query string) string { return query }

func (SQLiteDialect) Year(expr string) string {
	return fmt.Sprintf("CAST(strftime('%%Y', %s) AS INTEGER)", expr)
}

func (SQLiteDialect) DisableForeignKeys() string { return "PRAGMA foreign_keys = OFF" }

func (SQLiteDialect) EnableForeignKeys() string { return "PRAGMA foreign_keys = ON" }

func (SQLiteDialect) TruncateTable(table string) string {
	return "DELETE FROM " + table
}

func (SQLiteDialect) ResetSequences(tables []string) []string {
	quoted := make([]string, len(tables))
	for i, t := range tables {
		quoted[i] = "'" + t + "'"
	}
	return []string{"DELETE FROM sqlite_sequence WHERE name IN (" + strings.Join(quoted, ", ") + ")"}
}

// IsUniqueViolation reports UNIQUE and PRIMARY KEY constraint failures from either SQLite driver.
func (SQLiteDialect) IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return strings.Contains(err.Error(), "UNIQUE constraint")
}

// PostgresDialect targets PostgreSQL through the pgx stdlib driver.
type PostgresDialect struct{}

func (PostgresDialect) Name() string   { return "postgres" }
func (PostgresDialect) Driver() string { return DriverPostgres }

// Rebind rewrites "?" placeholders to "$1", "$2", ... skipping quoted literals.
func (PostgresDialect) Rebind(query string) string {
	var b strings.Builder
	b.Grow(len(query) + 8)

	n := 0
	inQuote := false
	for i := 0; i < len(query); i++ {
		c := query[i]
		switch {
		case c == '\'':
			inQuote = !inQuote
			b.WriteByte(c)
		case c == '?' && !inQuote:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func (PostgresDialect) Year(expr string) string {
	return fmt.Sprintf("CAST(EXTRACT(YEAR FROM %s) AS INTEGER)", expr)
}

// TRUNCATE ... CASCADE handles referential ordering, so no toggle is needed.
func (PostgresDialect) DisableForeignKeys() string { return "" }
func (PostgresDialect) EnableForeignKeys() string  { return "" }

func (PostgresDialect) TruncateTable(table string) string {
	return "TRUNCATE TABLE " + table + " RESTART IDENTITY CASCADE"
}

func (PostgresDialect) ResetSequences([]string) []string { return nil }

func (PostgresDialect) IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
