// Package items provides the PostgreSQL-backed repository for the items
// collection. SKU uniqueness and the category foreign key are enforced here
// by the database and surfaced as typed errors.
package items

import (
	"context"

	"github.com/dverbovy/tabstock/internal/server/models"
)

type Repository interface {
	GetAll(ctx context.Context) ([]*models.Item, error)
	GetByID(ctx context.Context, id string) (*models.Item, error)
	GetBySKU(ctx context.Context, sku string) (*models.Item, error)
	CreateOrUpdate(ctx context.Context, item *models.Item) error
	DeleteByID(ctx context.Context, id string) error
}
