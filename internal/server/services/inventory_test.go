package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dverbovy/tabstock/internal/common"
	"github.com/dverbovy/tabstock/internal/server/models"
)

func newInventoryService(t *testing.T) (*InventoryService, *fakeRepoManager) {
	t.Helper()
	repos := newFakeRepoManager()
	svc := NewInventoryService(nil, repos, disabledCache(), discardLogger())
	return svc, repos
}

func seedItem(repos *fakeRepoManager, name, sku string, qty int64) *models.Item {
	now := time.Now().UTC()
	item := &models.Item{
		ID: "i1", Name: name, SKU: sku, CurrentQuantity: qty,
		Condition: "good", LowStockThreshold: 5, CreatedAt: now, UpdatedAt: now,
	}
	repos.items.byID[item.ID] = item
	return item
}

func TestApplyStockChange_AddToExisting(t *testing.T) {
	svc, repos := newInventoryService(t)
	seedItem(repos, "Widget", "W-100", 5)

	res, err := svc.ApplyStockChange(context.Background(), StockChange{
		Action: "add", ItemName: "Widget", SKU: "W-100", Amount: 3,
	})
	require.NoError(t, err)

	assert.False(t, res.Created)
	assert.Equal(t, int64(5), res.QuantityBefore)
	assert.Equal(t, int64(8), res.QuantityAfter)
	assert.Equal(t, int64(8), repos.items.byID["i1"].CurrentQuantity)

	require.Len(t, repos.movements.rows, 1)
	m := repos.movements.rows[0]
	assert.Equal(t, "add", m.Type)
	assert.Equal(t, "manual", m.EntryMethod)
	require.NotNil(t, m.Condition)
	assert.Equal(t, "good", *m.Condition, "webhook default condition")
}

func TestApplyStockChange_RemoveGoesNegative(t *testing.T) {
	svc, repos := newInventoryService(t)
	seedItem(repos, "Widget", "W-100", 2)

	res, err := svc.ApplyStockChange(context.Background(), StockChange{
		Action: "remove", ItemName: "Widget", SKU: "W-100", Amount: 5,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(-3), res.QuantityAfter, "arithmetic is unclamped")
}

func TestApplyStockChange_NameIsCaseInsensitive(t *testing.T) {
	svc, repos := newInventoryService(t)
	seedItem(repos, "Widget", "W-100", 5)

	_, err := svc.ApplyStockChange(context.Background(), StockChange{
		Action: "add", ItemName: "wIdGeT", SKU: "W-100", Amount: 1,
	})
	require.NoError(t, err)
}

func TestApplyStockChange_NameMismatchRejected(t *testing.T) {
	svc, repos := newInventoryService(t)
	seedItem(repos, "Widget", "W-100", 5)

	_, err := svc.ApplyStockChange(context.Background(), StockChange{
		Action: "add", ItemName: "Gadget", SKU: "W-100", Amount: 1,
	})
	assert.ErrorIs(t, err, common.ErrValidation)
	assert.Equal(t, int64(5), repos.items.byID["i1"].CurrentQuantity, "mismatch must not mutate")
}

func TestApplyStockChange_AddCreatesMissingItem(t *testing.T) {
	svc, repos := newInventoryService(t)

	cond := "new"
	res, err := svc.ApplyStockChange(context.Background(), StockChange{
		Action: "add", ItemName: "Fresh", SKU: "F-1", Amount: 7, Condition: &cond,
	})
	require.NoError(t, err)

	assert.True(t, res.Created)
	assert.Equal(t, int64(0), res.QuantityBefore)
	assert.Equal(t, int64(7), res.QuantityAfter)
	require.NotNil(t, res.Item.CategoryID)
	assert.Equal(t, common.UncategorizedCategoryID, *res.Item.CategoryID)

	require.Len(t, repos.movements.rows, 1, "creation records the initial movement")
	assert.Equal(t, "add", repos.movements.rows[0].Type)
	assert.Equal(t, "new", *repos.movements.rows[0].Condition)
}

func TestApplyStockChange_RemoveFromMissingRejected(t *testing.T) {
	svc, _ := newInventoryService(t)

	_, err := svc.ApplyStockChange(context.Background(), StockChange{
		Action: "remove", ItemName: "Ghost", SKU: "G-1", Amount: 1,
	})
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestApplyStockChange_Validation(t *testing.T) {
	svc, _ := newInventoryService(t)
	ctx := context.Background()

	_, err := svc.ApplyStockChange(ctx, StockChange{Action: "add", ItemName: "W", SKU: "S", Amount: 0})
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = svc.ApplyStockChange(ctx, StockChange{Action: "add", SKU: "S", Amount: 1})
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = svc.ApplyStockChange(ctx, StockChange{Action: "add", ItemName: "W", Amount: 1})
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestDeleteItem_MissingPropagates(t *testing.T) {
	svc, _ := newInventoryService(t)

	err := svc.DeleteItem(context.Background(), "nope")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestUpsertAndListPassThrough(t *testing.T) {
	svc, repos := newInventoryService(t)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, svc.UpsertItem(ctx, &models.Item{ID: "i1", Name: "Widget", SKU: "W-100", CreatedAt: now, UpdatedAt: now}))
	require.NoError(t, svc.UpsertDeviceUser(ctx, &models.DeviceUser{ID: "u1", Name: "alice", CreatedAt: now}))
	require.NoError(t, svc.UpsertMovement(ctx, &models.Movement{ID: "m1", ItemID: "i1", Type: "add", Quantity: 1, EntryMethod: "manual", CreatedAt: now}))

	// movement replay is a no-op
	require.NoError(t, svc.UpsertMovement(ctx, &models.Movement{ID: "m1", ItemID: "i1", Type: "add", Quantity: 1, EntryMethod: "manual", CreatedAt: now}))

	items, err := svc.ListItems(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 1)

	users, err := svc.ListDeviceUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)

	movements, err := svc.ListMovements(ctx)
	require.NoError(t, err)
	assert.Len(t, movements, 1)
	_ = repos
}
