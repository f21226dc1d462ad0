package deviceusers

import (
	"context"

	"github.com/dverbovy/tabstock/internal/device/models"
)

// Repository describes storage operations for local actor identities.
type Repository interface {
	CreateOrUpdate(ctx context.Context, u *models.DeviceUser) error
	GetAll(ctx context.Context) ([]models.DeviceUser, error)
}
