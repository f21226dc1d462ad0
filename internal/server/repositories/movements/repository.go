// Package movements provides the PostgreSQL-backed repository for the
// append-only stock movement ledger.
package movements

import (
	"context"

	"github.com/dverbovy/tabstock/internal/server/models"
)

type Repository interface {
	GetAll(ctx context.Context) ([]*models.Movement, error)
	GetByItemID(ctx context.Context, itemID string) ([]*models.Movement, error)
	CreateOrUpdate(ctx context.Context, m *models.Movement) error
}
