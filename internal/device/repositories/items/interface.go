package items

import (
	"context"

	"github.com/dverbovy/tabstock/internal/device/models"
)

// Repository describes storage operations for locally cached inventory
// items. Implementations perform no validation; callers pre-validate.
type Repository interface {
	// GetAll returns every cached item.
	GetAll(ctx context.Context) ([]models.InventoryItem, error)

	// GetByID returns an item by id, or common.ErrNotFound.
	GetByID(ctx context.Context, id string) (*models.InventoryItem, error)

	// CreateOrUpdate upserts an item by id.
	CreateOrUpdate(ctx context.Context, item *models.InventoryItem) error

	// DeleteByID removes an item. Missing rows are not an error: deletes
	// replayed from the queue must be idempotent.
	DeleteByID(ctx context.Context, id string) error
}
