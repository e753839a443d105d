package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestDialectFor(t *testing.T) {
	tc := []struct {
		driver   string
		wantName string
		wantErr  bool
	}{
		{driver: "sqlite3", wantName: "sqlite"},
		{driver: "sqlite", wantName: "sqlite"},
		{driver: "pgx", wantName: "postgres"},
		{driver: "postgres", wantName: "postgres"},
		{driver: "mysql", wantErr: true},
		{driver: "", wantErr: true},
	}

	for _, tt := range tc {
		t.Run(tt.driver, func(t *testing.T) {
			d, err := DialectFor(tt.driver)
			if tt.wantErr {
				if !errors.Is(err, ErrUnsupportedDriver) {
					t.Fatalf("expected ErrUnsupportedDriver, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if d.Name() != tt.wantName {
				t.Errorf("Name() = %s, want %s", d.Name(), tt.wantName)
			}
		})
	}

	d, _ := DialectFor("sqlite")
	if d.Driver() != DriverSQLite {
		t.Errorf("expected pure Go driver to be kept, got %s", d.Driver())
	}
	if (SQLiteDialect{}).Driver() != DriverSQLite3 {
		t.Error("zero SQLiteDialect should default to sqlite3")
	}
}

func TestPostgresRebind(t *testing.T) {
	tc := []struct {
		name  string
		input string
		want  string
	}{
		{name: "no placeholders", input: "SELECT 1", want: "SELECT 1"},
		{name: "sequential", input: "SELECT id FROM songs WHERE title = ? AND artist_id = ?", want: "SELECT id FROM songs WHERE title = $1 AND artist_id = $2"},
		{name: "quoted literal", input: "SELECT '?' FROM t WHERE a = ?", want: "SELECT '?' FROM t WHERE a = $1"},
		{name: "limit", input: "LIMIT ?", want: "LIMIT $1"},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := (PostgresDialect{}).Rebind(tt.input); got != tt.want {
				t.Errorf("Rebind() = %q, want %q", got, tt.want)
			}
		})
	}

	if got := NewSQLiteDialect(DriverSQLite3).Rebind("a = ?"); got != "a = ?" {
		t.Errorf("sqlite Rebind should be identity, got %q", got)
	}
}

func TestDialectStatements(t *testing.T) {
	sqlite := NewSQLiteDialect(DriverSQLite3)
	pg := PostgresDialect{}

	if got := sqlite.Year("r.rating_date"); got != "CAST(strftime('%Y', r.rating_date) AS INTEGER)" {
		t.Errorf("sqlite Year() = %q", got)
	}
	if got := pg.Year("r.rating_date"); got != "CAST(EXTRACT(YEAR FROM r.rating_date) AS INTEGER)" {
		t.Errorf("postgres Year() = %q", got)
	}

	if sqlite.DisableForeignKeys() == "" || sqlite.EnableForeignKeys() == "" {
		t.Error("sqlite must toggle foreign keys")
	}
	if pg.DisableForeignKeys() != "" || pg.EnableForeignKeys() != "" {
		t.Error("postgres relies on TRUNCATE CASCADE")
	}

	if got := pg.TruncateTable("songs"); got != "TRUNCATE TABLE songs RESTART IDENTITY CASCADE" {
		t.Errorf("postgres TruncateTable() = %q", got)
	}
	if got := sqlite.ResetSequences([]string{"songs", "albums"}); len(got) != 1 || got[0] != "DELETE FROM sqlite_sequence WHERE name IN ('songs', 'albums')" {
		t.Errorf("sqlite ResetSequences() = %v", got)
	}
}

func TestIsUniqueViolation(t *testing.T) {
	t.Run("postgres", func(t *testing.T) {
		pg := PostgresDialect{}
		wrapped := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})
		if !pg.IsUniqueViolation(wrapped) {
			t.Error("expected 23505 to be a unique violation")
		}
		if pg.IsUniqueViolation(&pgconn.PgError{Code: "23503"}) {
			t.Error("foreign key violation is not a unique violation")
		}
		if pg.IsUniqueViolation(errors.New("boom")) {
			t.Error("plain error is not a unique violation")
		}
	})

	t.Run("sqlite", func(t *testing.T) {
		dialect := NewSQLiteDialect(DriverSQLite3)
		db, err := NewDatabase(dialect, ":memory:")
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		if _, err := db.Exec("CREATE TABLE t (name TEXT UNIQUE)"); err != nil {
			t.Fatalf("create table: %v", err)
		}
		if _, err := db.Exec("INSERT INTO t (name) VALUES ('a')"); err != nil {
			t.Fatalf("insert: %v", err)
		}
		_, err = db.Exec("INSERT INTO t (name) VALUES ('a')")
		if !dialect.IsUniqueViolation(err) {
			t.Errorf("expected unique violation, got %v", err)
		}
		if dialect.IsUniqueViolation(nil) {
			t.Error("nil is not a unique violation")
		}
	})
}
