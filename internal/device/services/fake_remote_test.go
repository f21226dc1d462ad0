package services

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dverbovy/tabstock/internal/device/models"
	"github.com/dverbovy/tabstock/internal/device/store"
	"github.com/dverbovy/tabstock/internal/logging"
)

// fakeRemote implements remote.Client with per-method hooks and call
// recording.
type fakeRemote struct {
	pingErr error

	onUpsertItem     func(*models.InventoryItem) error
	onDeleteItem     func(string) error
	onUpsertMovement func(*models.StockMovement) error
	onUpsertUser     func(*models.DeviceUser) error

	upsertedItems     []models.InventoryItem
	deletedItems      []string
	upsertedMovements []models.StockMovement
	upsertedUsers     []models.DeviceUser

	listItems     []models.InventoryItem
	listMovements []models.StockMovement
	listUsers     []models.DeviceUser
}

func (f *fakeRemote) Ping(ctx context.Context) error { return f.pingErr }

func (f *fakeRemote) Register(ctx context.Context, name string) (string, error) {
	return "device-1", nil
}

func (f *fakeRemote) UpsertItem(ctx context.Context, item *models.InventoryItem) error {
	if f.onUpsertItem != nil {
		if err := f.onUpsertItem(item); err != nil {
			return err
		}
	}
	f.upsertedItems = append(f.upsertedItems, *item)
	return nil
}

func (f *fakeRemote) DeleteItem(ctx context.Context, id string) error {
	if f.onDeleteItem != nil {
		if err := f.onDeleteItem(id); err != nil {
			return err
		}
	}
	f.deletedItems = append(f.deletedItems, id)
	return nil
}

func (f *fakeRemote) ListItems(ctx context.Context) ([]models.InventoryItem, error) {
	return f.listItems, nil
}

func (f *fakeRemote) UpsertMovement(ctx context.Context, m *models.StockMovement) error {
	if f.onUpsertMovement != nil {
		if err := f.onUpsertMovement(m); err != nil {
			return err
		}
	}
	f.upsertedMovements = append(f.upsertedMovements, *m)
	return nil
}

func (f *fakeRemote) ListMovements(ctx context.Context) ([]models.StockMovement, error) {
	return f.listMovements, nil
}

func (f *fakeRemote) UpsertDeviceUser(ctx context.Context, u *models.DeviceUser) error {
	if f.onUpsertUser != nil {
		if err := f.onUpsertUser(u); err != nil {
			return err
		}
	}
	f.upsertedUsers = append(f.upsertedUsers, *u)
	return nil
}

func (f *fakeRemote) ListDeviceUsers(ctx context.Context) ([]models.DeviceUser, error) {
	return f.listUsers, nil
}

func (f *fakeRemote) PresignImage(ctx context.Context, itemID string) (string, string, error) {
	return "key", "http://example.invalid/put", nil
}

type testEnv struct {
	store  *store.Store
	remote *fakeRemote
	state  *SyncState
	inv    *InventoryService
	engine *SyncEngine
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	st, err := store.Open(context.Background(), filepath.Join(t.TempDir(), "agent.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	state := NewSyncState()
	rc := &fakeRemote{}

	return &testEnv{
		store:  st,
		remote: rc,
		state:  state,
		inv:    NewInventoryService(st, rc, state, logger),
		engine: NewSyncEngine(st, rc, state, logger),
	}
}

func (e *testEnv) unsynced(t *testing.T) []*models.OutboundQueueEntry {
	t.Helper()
	entries, err := e.store.Queue(e.store.DB()).GetUnsynced(context.Background())
	require.NoError(t, err)
	return entries
}
