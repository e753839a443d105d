package catalog

import (
	"context"
	"errors"
	"io"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/desertthunder/catalogdb/internal/shared"
)

var (
	userLookup = regexp.QuoteMeta("SELECT id FROM users WHERE username = $1")
	userInsert = regexp.QuoteMeta("INSERT INTO users (username) VALUES ($1) RETURNING id")
)

func setupMockCatalog(t *testing.T, atomic bool) (*Catalog, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}

	opts := DefaultOptions()
	opts.Atomic = atomic
	opts.Logger = shared.NewLogger(io.Discard)

	c := New(db, shared.PostgresDialect{}, opts)
	t.Cleanup(func() { c.Close() })
	return c, mock
}

func TestBackendFailure(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("server closed the connection")

	t.Run("PerRecordKeepsEarlierCommits", func(t *testing.T) {
		c, mock := setupMockCatalog(t, false)

		mock.ExpectBegin()
		mock.ExpectQuery(userLookup).WithArgs("alice").WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectQuery(userInsert).WithArgs("alice").WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
		mock.ExpectCommit()
		mock.ExpectBegin()
		mock.ExpectQuery(userLookup).WithArgs("bob").WillReturnError(boom)
		mock.ExpectRollback()

		bad, err := c.LoadUsers(ctx, []string{"alice", "bob", "carol"})
		if !errors.Is(err, boom) {
			t.Fatalf("expected backend error, got %v", err)
		}
		if bad != nil {
			t.Errorf("expected rejection set to be discarded, got %v", bad)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet sqlmock expectations: %v", err)
		}
	})

	t.Run("AtomicRollsBackEverything", func(t *testing.T) {
		c, mock := setupMockCatalog(t, true)

		mock.ExpectBegin()
		mock.ExpectQuery(userLookup).WithArgs("alice").WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectQuery(userInsert).WithArgs("alice").WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
		mock.ExpectQuery(userLookup).WithArgs("bob").WillReturnError(boom)
		mock.ExpectRollback()

		if _, err := c.LoadUsers(ctx, []string{"alice", "bob"}); !errors.Is(err, boom) {
			t.Fatalf("expected backend error, got %v", err)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet sqlmock expectations: %v", err)
		}
	})

	t.Run("AtomicCommitsOnce", func(t *testing.T) {
		c, mock := setupMockCatalog(t, true)

		mock.ExpectBegin()
		mock.ExpectQuery(userLookup).WithArgs("alice").WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectQuery(userInsert).WithArgs("alice").WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
		mock.ExpectQuery(userLookup).WithArgs("alice").WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
		mock.ExpectCommit()

		bad, err := c.LoadUsers(ctx, []string{"alice", "alice"})
		if err != nil {
			t.Fatalf("LoadUsers failed: %v", err)
		}
		assertSet(t, bad, "alice")
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet sqlmock expectations: %v", err)
		}
	})

	t.Run("BeginFailure", func(t *testing.T) {
		c, mock := setupMockCatalog(t, false)

		mock.ExpectBegin().WillReturnError(boom)

		if _, err := c.LoadUsers(ctx, []string{"alice"}); !errors.Is(err, boom) {
			t.Fatalf("expected backend error, got %v", err)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet sqlmock expectations: %v", err)
		}
	})

	t.Run("CommitFailure", func(t *testing.T) {
		c, mock := setupMockCatalog(t, false)

		mock.ExpectBegin()
		mock.ExpectQuery(userLookup).WithArgs("alice").WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectQuery(userInsert).WithArgs("alice").WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
		mock.ExpectCommit().WillReturnError(boom)

		if _, err := c.LoadUsers(ctx, []string{"alice"}); !errors.Is(err, boom) {
			t.Fatalf("expected backend error, got %v", err)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet sqlmock expectations: %v", err)
		}
	})

	t.Run("QueryFailure", func(t *testing.T) {
		c, mock := setupMockCatalog(t, false)

		mock.ExpectQuery("FROM artists a").WillReturnError(boom)

		if _, err := c.AlbumAndSingleArtists(ctx); !errors.Is(err, boom) {
			t.Fatalf("expected backend error, got %v", err)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet sqlmock expectations: %v", err)
		}
	})

	t.Run("ClearFailure", func(t *testing.T) {
		c, mock := setupMockCatalog(t, false)

		mock.ExpectBegin()
		mock.ExpectExec("TRUNCATE TABLE ratings").WillReturnError(boom)
		mock.ExpectRollback()

		if err := c.ClearDatabase(ctx); !errors.Is(err, boom) {
			t.Fatalf("expected backend error, got %v", err)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet sqlmock expectations: %v", err)
		}
	})
}
