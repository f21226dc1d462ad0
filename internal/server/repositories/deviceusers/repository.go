// Package deviceusers provides the PostgreSQL-backed repository for device
// user identities.
package deviceusers

import (
	"context"

	"github.com/dverbovy/tabstock/internal/server/models"
)

type Repository interface {
	GetAll(ctx context.Context) ([]*models.DeviceUser, error)
	CreateOrUpdate(ctx context.Context, u *models.DeviceUser) error
}
