// Package store opens the agent's local SQLite database, applies embedded
// migrations, and hands out collection repositories.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/dverbovy/tabstock/internal/dbx"
	"github.com/dverbovy/tabstock/internal/device/migrations"
	"github.com/dverbovy/tabstock/internal/device/repositories/deviceusers"
	"github.com/dverbovy/tabstock/internal/device/repositories/items"
	"github.com/dverbovy/tabstock/internal/device/repositories/movements"
	"github.com/dverbovy/tabstock/internal/device/repositories/queue"
)

// Store owns the local database handle. Repositories are constructed per
// call against either the pooled handle or a transaction, so a mutation can
// span collections atomically via dbx.WithTx.
type Store struct {
	db *sql.DB
}

func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	return goose.UpContext(ctx, db, ".")
}

// Open opens (creating if necessary) the database at dsn and migrates it.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := RunMigrations(ctx, db); err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) Items(db dbx.DBTX) items.Repository {
	return items.NewSQLiteRepository(db)
}

func (s *Store) Movements(db dbx.DBTX) movements.Repository {
	return movements.NewSQLiteRepository(db)
}

func (s *Store) DeviceUsers(db dbx.DBTX) deviceusers.Repository {
	return deviceusers.NewSQLiteRepository(db)
}

func (s *Store) Queue(db dbx.DBTX) queue.Repository {
	return queue.NewSQLiteRepository(db)
}
