// Package localdb implements the durable local store on SQLite: the
// participants and registrations mirrors, the outbox queue and the kv
// settings table.
package localdb

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/mattn/go-sqlite3"

	"github.com/jlsanzbreton/puebla-bot/internal/domain"
	"github.com/jlsanzbreton/puebla-bot/internal/ports/output"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

var _ output.LocalStore = (*Store)(nil)

// Store is the SQLite-backed local store. Safe for concurrent use; SQLite
// supports one writer at a time, so the pool is capped at one connection.
type Store struct {
	db  *sql.DB
	bus output.Bus

	queries // implicit single-operation transactions
}

// Open creates or opens the database at path, applies pragmas and runs the
// embedded migrations. bus may be nil; when set, every committed transaction
// publishes "store-changed:<table>" for the collections it touched.
func Open(path string, bus output.Bus) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open local db: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping local db: %w", err)
	}

	// Single writer avoids SQLITE_BUSY under concurrent transactions.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, err
	}
	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, err
	}

	s := &Store{db: db, bus: bus}
	s.queries = queries{db: db, touch: s.publishTouched}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// RunInTx runs fn inside one SQLite transaction. On commit, the bus is told
// which collections changed; on error everything rolls back.
func (s *Store) RunInTx(ctx context.Context, fn func(tx output.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() // no-op after commit

	touched := map[string]bool{}
	q := queries{db: tx, touch: func(table string) { touched[table] = true }}
	if err := fn(&q); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	for table := range touched {
		s.publishTouched(table)
	}
	return nil
}

func (s *Store) publishTouched(table string) {
	if s.bus != nil {
		s.bus.Publish(domain.TopicStoreChanged + ":" + table)
	}
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("apply %q: %w", pragma, err)
		}
	}
	return nil
}

// runMigrations applies all pending embedded migrations.
func runMigrations(db *sql.DB) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("migration source: %w", err)
	}
	driver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("migration init: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up: %w", err)
	}
	return nil
}
