package storage

import (
	"context"
	"embed"
	"fmt"
	"sync"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// DB wraps a sqlx.DB and provides repository methods for profiles,
// sessions, and feedback. Both sqlite (default) and postgres are
// supported; queries are written with ? placeholders and rebound per
// driver.
type DB struct {
	conn   *sqlx.DB
	driver string

	// sessionLocks serializes read-modify-write refinement appends per
	// session ID so concurrent appends never lose entries.
	sessionLocks sync.Map
}

// Open connects to the configured database. driver is "sqlite" or
// "postgres".
func Open(ctx context.Context, driver, dsn string) (*DB, error) {
	sqlxDriver, err := sqlxDriverName(driver)
	if err != nil {
		return nil, err
	}

	conn, err := sqlx.Open(sqlxDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if driver == "sqlite" {
		// A single connection avoids SQLITE_BUSY under concurrent writers.
		conn.SetMaxOpenConns(1)
	}
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &DB{conn: conn, driver: driver}, nil
}

func sqlxDriverName(driver string) (string, error) {
	switch driver {
	case "sqlite":
		return "sqlite", nil
	case "postgres":
		return "pgx", nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", driver)
	}
}

// Close closes the underlying connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Migrate applies all pending schema migrations from the embedded
// migration files.
func (db *DB) Migrate() error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("loading migrations: %w", err)
	}

	var target database.Driver
	switch db.driver {
	case "postgres":
		target, err = migratepg.WithInstance(db.conn.DB, &migratepg.Config{})
	default:
		target, err = migratesqlite.WithInstance(db.conn.DB, &migratesqlite.Config{})
	}
	if err != nil {
		return fmt.Errorf("creating migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, db.driver, target)
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}

func (db *DB) lockSession(sessionID string) *sync.Mutex {
	mu, _ := db.sessionLocks.LoadOrStore(sessionID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// Timestamps are stored as RFC 3339 text so the schema stays portable
// across sqlite and postgres. The write layout keeps a fixed-width
// fractional second: RFC3339Nano trims trailing zeros, which breaks
// lexicographic ordering within a second ("…00.1Z" sorts after
// "…00.12Z"), and every "latest" query orders by these columns.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing stored timestamp %q: %w", s, err)
	}
	return t, nil
}
