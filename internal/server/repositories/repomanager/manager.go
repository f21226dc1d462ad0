// Package repomanager bundles the server repositories behind one factory so
// services can run any of them against a *sql.DB or an open transaction.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dverbovy/tabstock/internal/dbx"
	"github.com/dverbovy/tabstock/internal/server/repositories/categories"
	"github.com/dverbovy/tabstock/internal/server/repositories/deviceusers"
	"github.com/dverbovy/tabstock/internal/server/repositories/items"
	"github.com/dverbovy/tabstock/internal/server/repositories/movements"
)

type RepositoryManager interface {
	Items(db dbx.DBTX) items.Repository
	Movements(db dbx.DBTX) movements.Repository
	DeviceUsers(db dbx.DBTX) deviceusers.Repository
	Categories(db dbx.DBTX) categories.Repository
	RunMigrations(ctx context.Context, db *sql.DB) error
}
