// Package remote implements the agent-side client for the server's sync API.
package remote

import (
	"context"

	"github.com/dverbovy/tabstock/internal/device/models"
)

// Client is the remote store as seen by the mutation service and the sync
// engine. Every call is an independent network round trip; upserts are
// idempotent by id so queue entries can be replayed.
type Client interface {
	// Ping probes server reachability. Drives the online flag.
	Ping(ctx context.Context) error

	// Register obtains a device identity and access token for the sync API.
	Register(ctx context.Context, deviceName string) (string, error)

	UpsertItem(ctx context.Context, item *models.InventoryItem) error
	DeleteItem(ctx context.Context, id string) error
	ListItems(ctx context.Context) ([]models.InventoryItem, error)

	UpsertMovement(ctx context.Context, m *models.StockMovement) error
	ListMovements(ctx context.Context) ([]models.StockMovement, error)

	UpsertDeviceUser(ctx context.Context, u *models.DeviceUser) error
	ListDeviceUsers(ctx context.Context) ([]models.DeviceUser, error)

	// PresignImage asks the server for a presigned PUT URL for an item
	// reference image. Returns the storage key and the URL.
	PresignImage(ctx context.Context, itemID string) (string, string, error)
}
