package movements

import (
	"context"

	"github.com/dverbovy/tabstock/internal/device/models"
)

// Repository describes storage operations for the local movement ledger.
// Movements are immutable once created; CreateOrUpdate exists so pull-phase
// replays stay idempotent.
type Repository interface {
	CreateOrUpdate(ctx context.Context, m *models.StockMovement) error
	GetAll(ctx context.Context) ([]models.StockMovement, error)

	// GetByItemID returns an item's movement history, oldest first.
	GetByItemID(ctx context.Context, itemID string) ([]models.StockMovement, error)
}
