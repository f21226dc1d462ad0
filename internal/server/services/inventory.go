// Package services holds the server-side business logic: the webhook stock
// mutation path, the sync collection pass-through, device registration and
// presigned image uploads.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dverbovy/tabstock/internal/common"
	"github.com/dverbovy/tabstock/internal/dbx"
	"github.com/dverbovy/tabstock/internal/logging"
	"github.com/dverbovy/tabstock/internal/server/cache"
	"github.com/dverbovy/tabstock/internal/server/models"
	"github.com/dverbovy/tabstock/internal/server/repositories/repomanager"
)

// StockChange is a validated webhook mutation request.
type StockChange struct {
	Action    string
	ItemName  string
	SKU       string
	Amount    int64
	Condition *string
}

// StockChangeResult reports the mutation back to the caller, including the
// before/after quantities for client display.
type StockChangeResult struct {
	Item           *models.Item
	Movement       *models.Movement
	Created        bool
	QuantityBefore int64
	QuantityAfter  int64
}

type InventoryService struct {
	db     dbx.DBTX
	repos  repomanager.RepositoryManager
	cache  *cache.ItemCache
	logger logging.Logger
}

func NewInventoryService(db dbx.DBTX, repos repomanager.RepositoryManager, itemCache *cache.ItemCache, logger logging.Logger) *InventoryService {
	return &InventoryService{db: db, repos: repos, cache: itemCache, logger: logger}
}

// getBySKU reads through the cache. Cache failures degrade to the database.
func (s *InventoryService) getBySKU(ctx context.Context, sku string) (*models.Item, error) {
	if item, err := s.cache.GetBySKU(ctx, sku); err == nil {
		return item, nil
	} else if !errors.Is(err, cache.ErrMiss) {
		s.logger.Warn(ctx, "cache read failed", "sku", sku, "error", err)
	}

	item, err := s.repos.Items(s.db).GetBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Put(ctx, item); err != nil {
		s.logger.Warn(ctx, "cache write failed", "sku", sku, "error", err)
	}
	return item, nil
}

// ApplyStockChange performs the webhook add/remove mutation. Items are looked
// up by SKU; the case-insensitive name check guards against SKU reuse. A
// missing item is created on add and rejected on remove. Quantity arithmetic
// is unclamped, matching the device-side rule that negative stock is a
// warning, not an error.
func (s *InventoryService) ApplyStockChange(ctx context.Context, change StockChange) (*StockChangeResult, error) {
	if change.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be a positive integer", common.ErrValidation)
	}
	if change.ItemName == "" || change.SKU == "" {
		return nil, fmt.Errorf("%w: item_name and sku are required", common.ErrValidation)
	}

	now := time.Now().UTC()
	condition := "good"
	if change.Condition != nil {
		condition = *change.Condition
	}

	item, err := s.getBySKU(ctx, change.SKU)
	if errors.Is(err, common.ErrNotFound) {
		if change.Action == "remove" {
			return nil, fmt.Errorf("%w: no item with sku %s", common.ErrNotFound, change.SKU)
		}
		return s.createFromWebhook(ctx, change, condition, now)
	}
	if err != nil {
		return nil, err
	}

	if !strings.EqualFold(item.Name, change.ItemName) {
		return nil, fmt.Errorf("%w: item name does not match sku %s", common.ErrValidation, change.SKU)
	}

	before := item.CurrentQuantity
	if change.Action == "add" {
		item.CurrentQuantity += change.Amount
	} else {
		item.CurrentQuantity -= change.Amount
	}
	item.UpdatedAt = now

	movement := &models.Movement{
		ID:          uuid.NewString(),
		ItemID:      item.ID,
		Type:        change.Action,
		Quantity:    change.Amount,
		EntryMethod: "manual",
		Condition:   &condition,
		CreatedAt:   now,
	}

	if err := s.repos.Items(s.db).CreateOrUpdate(ctx, item); err != nil {
		return nil, err
	}
	if err := s.repos.Movements(s.db).CreateOrUpdate(ctx, movement); err != nil {
		return nil, err
	}

	if err := s.cache.Put(ctx, item); err != nil {
		s.logger.Warn(ctx, "cache write failed", "sku", item.SKU, "error", err)
	}

	return &StockChangeResult{
		Item: item, Movement: movement,
		QuantityBefore: before, QuantityAfter: item.CurrentQuantity,
	}, nil
}

func (s *InventoryService) createFromWebhook(ctx context.Context, change StockChange, condition string, now time.Time) (*StockChangeResult, error) {
	categoryID := common.UncategorizedCategoryID
	item := &models.Item{
		ID:                uuid.NewString(),
		Name:              change.ItemName,
		SKU:               change.SKU,
		CurrentQuantity:   change.Amount,
		CategoryID:        &categoryID,
		Condition:         condition,
		LowStockThreshold: 5,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	movement := &models.Movement{
		ID:          uuid.NewString(),
		ItemID:      item.ID,
		Type:        "add",
		Quantity:    change.Amount,
		EntryMethod: "manual",
		Condition:   &condition,
		CreatedAt:   now,
	}

	if err := s.repos.Items(s.db).CreateOrUpdate(ctx, item); err != nil {
		return nil, err
	}
	if err := s.repos.Movements(s.db).CreateOrUpdate(ctx, movement); err != nil {
		return nil, err
	}

	if err := s.cache.Put(ctx, item); err != nil {
		s.logger.Warn(ctx, "cache write failed", "sku", item.SKU, "error", err)
	}

	return &StockChangeResult{
		Item: item, Movement: movement, Created: true,
		QuantityBefore: 0, QuantityAfter: item.CurrentQuantity,
	}, nil
}

// Sync collection pass-through. Devices upsert by id; the server is the
// source of truth that everyone pulls back from. Cache entries are dropped
// on every item write so the webhook path never sees stale quantities.

func (s *InventoryService) UpsertItem(ctx context.Context, item *models.Item) error {
	if err := s.repos.Items(s.db).CreateOrUpdate(ctx, item); err != nil {
		return err
	}
	if err := s.cache.Invalidate(ctx, item.SKU); err != nil {
		s.logger.Warn(ctx, "cache invalidation failed", "sku", item.SKU, "error", err)
	}
	return nil
}

func (s *InventoryService) DeleteItem(ctx context.Context, id string) error {
	item, err := s.repos.Items(s.db).GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repos.Items(s.db).DeleteByID(ctx, id); err != nil {
		return err
	}
	if err := s.cache.Invalidate(ctx, item.SKU); err != nil {
		s.logger.Warn(ctx, "cache invalidation failed", "sku", item.SKU, "error", err)
	}
	return nil
}

func (s *InventoryService) ListItems(ctx context.Context) ([]*models.Item, error) {
	return s.repos.Items(s.db).GetAll(ctx)
}

func (s *InventoryService) UpsertMovement(ctx context.Context, m *models.Movement) error {
	return s.repos.Movements(s.db).CreateOrUpdate(ctx, m)
}

func (s *InventoryService) ListMovements(ctx context.Context) ([]*models.Movement, error) {
	return s.repos.Movements(s.db).GetAll(ctx)
}

func (s *InventoryService) UpsertDeviceUser(ctx context.Context, u *models.DeviceUser) error {
	return s.repos.DeviceUsers(s.db).CreateOrUpdate(ctx, u)
}

func (s *InventoryService) ListDeviceUsers(ctx context.Context) ([]*models.DeviceUser, error) {
	return s.repos.DeviceUsers(s.db).GetAll(ctx)
}

func (s *InventoryService) ListCategories(ctx context.Context) ([]*models.Category, error) {
	return s.repos.Categories(s.db).GetAll(ctx)
}
