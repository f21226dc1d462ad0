package httpapi

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/dverbovy/tabstock/internal/logging"
	sc "github.com/dverbovy/tabstock/internal/server/config"
	"github.com/dverbovy/tabstock/internal/server/models"
	"github.com/dverbovy/tabstock/internal/server/services"
)

type fakeInventory struct {
	onApply        func(services.StockChange) (*services.StockChangeResult, error)
	onUpsertItem   func(*models.Item) error
	onDeleteItem   func(string) error
	onUpsertMove   func(*models.Movement) error
	listItems      []*models.Item
	listMovements  []*models.Movement
	listUsers      []*models.DeviceUser
	listCategories []*models.Category

	upsertedItems []*models.Item
	upsertedUsers []*models.DeviceUser
}

func (f *fakeInventory) ApplyStockChange(ctx context.Context, change services.StockChange) (*services.StockChangeResult, error) {
	if f.onApply != nil {
		return f.onApply(change)
	}
	return nil, errors.New("unexpected call")
}

func (f *fakeInventory) UpsertItem(ctx context.Context, item *models.Item) error {
	f.upsertedItems = append(f.upsertedItems, item)
	if f.onUpsertItem != nil {
		return f.onUpsertItem(item)
	}
	return nil
}

func (f *fakeInventory) DeleteItem(ctx context.Context, id string) error {
	if f.onDeleteItem != nil {
		return f.onDeleteItem(id)
	}
	return nil
}

func (f *fakeInventory) ListItems(ctx context.Context) ([]*models.Item, error) {
	return f.listItems, nil
}

func (f *fakeInventory) UpsertMovement(ctx context.Context, m *models.Movement) error {
	if f.onUpsertMove != nil {
		return f.onUpsertMove(m)
	}
	return nil
}

func (f *fakeInventory) ListMovements(ctx context.Context) ([]*models.Movement, error) {
	return f.listMovements, nil
}

func (f *fakeInventory) UpsertDeviceUser(ctx context.Context, u *models.DeviceUser) error {
	f.upsertedUsers = append(f.upsertedUsers, u)
	return nil
}

func (f *fakeInventory) ListDeviceUsers(ctx context.Context) ([]*models.DeviceUser, error) {
	return f.listUsers, nil
}

func (f *fakeInventory) ListCategories(ctx context.Context) ([]*models.Category, error) {
	return f.listCategories, nil
}

type fakeRegistrar struct {
	deviceID string
	token    string
	err      error
}

func (f *fakeRegistrar) Register(ctx context.Context, deviceName string) (string, string, error) {
	return f.deviceID, f.token, f.err
}

type fakePresigner struct {
	key string
	url string
	err error
}

func (f *fakePresigner) GetPresignedPutURL(ctx context.Context, itemID string) (string, string, error) {
	return f.key, f.url, f.err
}

func testConfig() *sc.Config {
	return &sc.Config{
		SecretKey:                   "test-secret",
		AccessTokenValidityDuration: time.Hour,
		WebhookSecret:               "hook-secret",
		AdminPinSalt:                "salt",
	}
}

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewJSONHandler(io.Discard, nil)))
}
