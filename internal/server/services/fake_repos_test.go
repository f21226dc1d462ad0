package services

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"sort"

	"github.com/dverbovy/tabstock/internal/common"
	"github.com/dverbovy/tabstock/internal/dbx"
	"github.com/dverbovy/tabstock/internal/logging"
	"github.com/dverbovy/tabstock/internal/server/cache"
	"github.com/dverbovy/tabstock/internal/server/models"
	"github.com/dverbovy/tabstock/internal/server/repositories/categories"
	"github.com/dverbovy/tabstock/internal/server/repositories/deviceusers"
	"github.com/dverbovy/tabstock/internal/server/repositories/items"
	"github.com/dverbovy/tabstock/internal/server/repositories/movements"
)

type fakeItemRepo struct {
	byID map[string]*models.Item
	// failNext, when set, is returned by the next write and cleared
	failNext error
}

func (r *fakeItemRepo) GetAll(ctx context.Context) ([]*models.Item, error) {
	var out []*models.Item
	for _, it := range r.byID {
		cp := *it
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeItemRepo) GetByID(ctx context.Context, id string) (*models.Item, error) {
	it, ok := r.byID[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *it
	return &cp, nil
}

func (r *fakeItemRepo) GetBySKU(ctx context.Context, sku string) (*models.Item, error) {
	for _, it := range r.byID {
		if it.SKU == sku {
			cp := *it
			return &cp, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *fakeItemRepo) CreateOrUpdate(ctx context.Context, item *models.Item) error {
	if r.failNext != nil {
		err := r.failNext
		r.failNext = nil
		return err
	}
	cp := *item
	r.byID[item.ID] = &cp
	return nil
}

func (r *fakeItemRepo) DeleteByID(ctx context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return common.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

type fakeMovementRepo struct {
	rows []*models.Movement
}

func (r *fakeMovementRepo) GetAll(ctx context.Context) ([]*models.Movement, error) {
	return append([]*models.Movement(nil), r.rows...), nil
}

func (r *fakeMovementRepo) GetByItemID(ctx context.Context, itemID string) ([]*models.Movement, error) {
	var out []*models.Movement
	for _, m := range r.rows {
		if m.ItemID == itemID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMovementRepo) CreateOrUpdate(ctx context.Context, m *models.Movement) error {
	for _, existing := range r.rows {
		if existing.ID == m.ID {
			return nil
		}
	}
	cp := *m
	r.rows = append(r.rows, &cp)
	return nil
}

type fakeUserRepo struct {
	byID map[string]*models.DeviceUser
}

func (r *fakeUserRepo) GetAll(ctx context.Context) ([]*models.DeviceUser, error) {
	var out []*models.DeviceUser
	for _, u := range r.byID {
		out = append(out, u)
	}
	return out, nil
}

func (r *fakeUserRepo) CreateOrUpdate(ctx context.Context, u *models.DeviceUser) error {
	cp := *u
	r.byID[u.ID] = &cp
	return nil
}

type fakeCategoryRepo struct {
	rows []*models.Category
}

func (r *fakeCategoryRepo) GetAll(ctx context.Context) ([]*models.Category, error) {
	return append([]*models.Category(nil), r.rows...), nil
}

func (r *fakeCategoryRepo) CreateOrUpdate(ctx context.Context, c *models.Category) error {
	r.rows = append(r.rows, c)
	return nil
}

type fakeRepoManager struct {
	items      *fakeItemRepo
	movements  *fakeMovementRepo
	users      *fakeUserRepo
	categories *fakeCategoryRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		items:      &fakeItemRepo{byID: map[string]*models.Item{}},
		movements:  &fakeMovementRepo{},
		users:      &fakeUserRepo{byID: map[string]*models.DeviceUser{}},
		categories: &fakeCategoryRepo{},
	}
}

func (m *fakeRepoManager) Items(db dbx.DBTX) items.Repository             { return m.items }
func (m *fakeRepoManager) Movements(db dbx.DBTX) movements.Repository    { return m.movements }
func (m *fakeRepoManager) DeviceUsers(db dbx.DBTX) deviceusers.Repository { return m.users }
func (m *fakeRepoManager) Categories(db dbx.DBTX) categories.Repository  { return m.categories }
func (m *fakeRepoManager) RunMigrations(ctx context.Context, db *sql.DB) error { return nil }

func discardLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewJSONHandler(io.Discard, nil)))
}

func disabledCache() *cache.ItemCache {
	c, _ := cache.NewItemCache(context.Background(), "")
	return c
}
