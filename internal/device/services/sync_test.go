package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dverbovy/tabstock/internal/common"
	"github.com/dverbovy/tabstock/internal/device/models"
)

func TestTriggerSync_NoopWhileOffline(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.inv.AddItem(context.Background(), ItemDraft{Name: "W", SKU: "S"})
	require.NoError(t, err)

	require.NoError(t, env.engine.TriggerSync(context.Background()))
	assert.Empty(t, env.remote.upsertedItems)
	assert.Len(t, env.unsynced(t), 1)
}

func TestTriggerSync_DrainConvergenceAndGC(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	item, err := env.inv.AddItem(ctx, ItemDraft{Name: "W", SKU: "S", InitialQuantity: 1})
	require.NoError(t, err)
	_, err = env.inv.UpdateQuantity(ctx, item.ID, 2, models.MovementAdd, MovementOptions{})
	require.NoError(t, err)
	_, err = env.inv.AddDeviceUser(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, env.unsynced(t), 4)

	// first pass fails every remote write; entries stay queued
	boom := errors.New("network down mid-request")
	env.remote.onUpsertItem = func(*models.InventoryItem) error { return boom }
	env.remote.onUpsertMovement = func(*models.StockMovement) error { return boom }
	env.remote.onUpsertUser = func(*models.DeviceUser) error { return boom }
	env.state.setOnline(true)

	require.NoError(t, env.engine.TriggerSync(ctx))
	assert.Len(t, env.unsynced(t), 4, "failed entries remain for the next pass")

	// remote recovers; one more pass drains and purges everything
	env.remote.onUpsertItem = nil
	env.remote.onUpsertMovement = nil
	env.remote.onUpsertUser = nil

	require.NoError(t, env.engine.TriggerSync(ctx))
	assert.Empty(t, env.unsynced(t))

	var total int
	require.NoError(t, env.store.DB().QueryRow(`SELECT COUNT(*) FROM outbound_queue`).Scan(&total))
	assert.Equal(t, 0, total, "synced entries are garbage collected")

	assert.NotEmpty(t, env.remote.upsertedItems)
	assert.NotEmpty(t, env.remote.upsertedMovements)
	assert.NotEmpty(t, env.remote.upsertedUsers)
}

func TestTriggerSync_ReplayIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.inv.AddItem(ctx, ItemDraft{Name: "W", SKU: "S"})
	require.NoError(t, err)
	env.state.setOnline(true)

	require.NoError(t, env.engine.TriggerSync(ctx))
	require.NoError(t, env.engine.TriggerSync(ctx))

	assert.Len(t, env.remote.upsertedItems, 1, "drained entry must not replay once synced")
}

func TestTriggerSync_FKDowngradeRetry(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	item, err := env.inv.AddItem(ctx, ItemDraft{Name: "W", SKU: "S"})
	require.NoError(t, err)
	actor := "ghost-user"
	_, err = env.inv.UpdateQuantity(ctx, item.ID, 1, models.MovementAdd, MovementOptions{ActorID: &actor})
	require.NoError(t, err)

	// reject writes that still carry the unknown user reference
	env.remote.onUpsertMovement = func(m *models.StockMovement) error {
		if m.DeviceUserID != nil {
			return &common.ForeignKeyError{Column: "device_user_id"}
		}
		return nil
	}
	env.state.setOnline(true)

	require.NoError(t, env.engine.TriggerSync(ctx))

	require.Len(t, env.remote.upsertedMovements, 1)
	assert.Nil(t, env.remote.upsertedMovements[0].DeviceUserID, "retry must strip the user reference")
	assert.Empty(t, env.unsynced(t), "downgraded entry is marked synced")
}

func TestTriggerSync_FKOnOtherColumnIsNotDowngraded(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	item, err := env.inv.AddItem(ctx, ItemDraft{Name: "W", SKU: "S"})
	require.NoError(t, err)
	_, err = env.inv.UpdateQuantity(ctx, item.ID, 1, models.MovementAdd, MovementOptions{})
	require.NoError(t, err)

	env.remote.onUpsertMovement = func(m *models.StockMovement) error {
		return &common.ForeignKeyError{Column: "item_id"}
	}
	env.state.setOnline(true)

	require.NoError(t, env.engine.TriggerSync(ctx))

	var movementPending bool
	for _, e := range env.unsynced(t) {
		if e.Table == models.TableMovements {
			movementPending = true
		}
	}
	assert.True(t, movementPending, "item FK failures are not downgraded")
}

func TestTriggerSync_PoisonsAfterMaxAttempts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.inv.AddItem(ctx, ItemDraft{Name: "W", SKU: "S"})
	require.NoError(t, err)

	env.remote.onUpsertItem = func(*models.InventoryItem) error { return errors.New("permanently broken") }
	env.state.setOnline(true)

	for i := 0; i < maxQueueAttempts; i++ {
		require.NoError(t, env.engine.TriggerSync(ctx))
	}

	assert.Empty(t, env.unsynced(t), "poisoned entry no longer drains")

	poisoned, err := env.engine.ListPoisoned(ctx)
	require.NoError(t, err)
	require.Len(t, poisoned, 1)
	assert.Equal(t, maxQueueAttempts, poisoned[0].Attempts)
}

func TestTriggerSync_PullOverwritesLocal(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	item, err := env.inv.AddItem(ctx, ItemDraft{Name: "Local Name", SKU: "S", InitialQuantity: 1})
	require.NoError(t, err)

	serverCopy := *item
	serverCopy.Name = "Server Name"
	serverCopy.CurrentQuantity = 42
	env.remote.listItems = []models.InventoryItem{serverCopy}
	env.remote.listUsers = []models.DeviceUser{{ID: "u9", Name: "warehouse", CreatedAt: time.Now().UTC()}}
	env.remote.listMovements = []models.StockMovement{{
		ID: "m9", ItemID: item.ID, Type: models.MovementAdd, Quantity: 42,
		EntryMethod: models.EntryMethodManual, CreatedAt: time.Now().UTC(),
	}}
	env.state.setOnline(true)

	require.NoError(t, env.engine.TriggerSync(ctx))

	got, err := env.store.Items(env.store.DB()).GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Server Name", got.Name, "remote is authoritative once reached")
	assert.Equal(t, int64(42), got.CurrentQuantity)

	users, err := env.store.DeviceUsers(env.store.DB()).GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "warehouse", users[0].Name)

	movements, err := env.store.Movements(env.store.DB()).GetByItemID(ctx, item.ID)
	require.NoError(t, err)
	require.Len(t, movements, 1)
}

func TestTriggerSync_DeleteReplayTolerant(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	item, err := env.inv.AddItem(ctx, ItemDraft{Name: "W", SKU: "S"})
	require.NoError(t, err)
	require.NoError(t, env.inv.DeleteItem(ctx, item.ID))

	// the insert may land first, then the delete; a delete for a record the
	// server never saw still counts as applied
	env.remote.onDeleteItem = func(string) error { return common.ErrNotFound }
	env.state.setOnline(true)

	require.NoError(t, env.engine.TriggerSync(ctx))
	assert.Empty(t, env.unsynced(t))
}

func TestSetOnline_EdgeTriggersSync(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.inv.AddItem(ctx, ItemDraft{Name: "W", SKU: "S"})
	require.NoError(t, err)

	env.engine.SetOnline(ctx, true)
	assert.Len(t, env.remote.upsertedItems, 1, "offline-to-online edge drains the queue")

	// staying online does not re-trigger
	env.remote.upsertedItems = nil
	env.engine.SetOnline(ctx, true)
	assert.Empty(t, env.remote.upsertedItems)
}

func TestSyncState_NonReentrant(t *testing.T) {
	s := NewSyncState()
	require.True(t, s.tryBegin())
	assert.False(t, s.tryBegin(), "concurrent trigger must be dropped")
	s.end()
	assert.True(t, s.tryBegin())
}
