package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"recipe_memo/internal/platform/database/migrations"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
	"github.com/pressly/goose/v3"
)

// Store is the single-file SQLite database holding users, invitations and
// recipes.
type Store struct {
	db *sql.DB
}

var gooseSetup sync.Once

// Open opens (creating if needed) the database file at path and brings its
// schema up to date. It is safe to call on every process start: applied
// migrations are skipped and each one re-checks the live layout first.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite3", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := migrate(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

// dsn adds the connection parameters every pooled connection needs: a busy
// timeout so writers wait on the file lock, and immediate transactions so a
// transaction takes the write lock up front.
func dsn(path string) string {
	return path + "?_busy_timeout=5000&_journal_mode=WAL&_foreign_keys=on&_txlock=immediate"
}

func migrate(ctx context.Context, db *sql.DB) error {
	var setupErr error
	gooseSetup.Do(func() {
		goose.SetBaseFS(migrations.Migrations)
		goose.SetLogger(gooseLogger{})
		setupErr = goose.SetDialect("sqlite3")
	})
	if setupErr != nil {
		return setupErr
	}
	return goose.UpContext(ctx, db, ".")
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// DB returns the underlying pool, for callers that run one statement at a
// time (the operator CLI).
func (s *Store) DB() *sql.DB {
	return s.db
}

// Acquire reserves one connection for the lifetime of a request. The caller
// must Close it.
func (s *Store) Acquire(ctx context.Context) (*sql.Conn, error) {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	return conn, nil
}

// SchemaVersion returns the latest applied migration version.
func (s *Store) SchemaVersion(ctx context.Context) (int64, error) {
	return goose.GetDBVersionContext(ctx, s.db)
}

// gooseLogger sends migration progress to slog at debug level.
type gooseLogger struct{}

func (gooseLogger) Printf(format string, v ...interface{}) {
	slog.Debug(strings.TrimSpace(fmt.Sprintf(format, v...)), "component", "migrations")
}

func (gooseLogger) Fatalf(format string, v ...interface{}) {
	slog.Error(strings.TrimSpace(fmt.Sprintf(format, v...)), "component", "migrations")
	os.Exit(1)
}
