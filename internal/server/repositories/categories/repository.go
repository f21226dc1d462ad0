// Package categories provides the PostgreSQL-backed repository for the
// category lookup table. Devices read it; administration happens elsewhere.
package categories

import (
	"context"

	"github.com/dverbovy/tabstock/internal/server/models"
)

type Repository interface {
	GetAll(ctx context.Context) ([]*models.Category, error)
	CreateOrUpdate(ctx context.Context, c *models.Category) error
}
