package items

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dverbovy/tabstock/internal/common"
	"github.com/dverbovy/tabstock/internal/dbx"
	"github.com/dverbovy/tabstock/internal/device/models"
)

// SQLiteRepository implements Repository over a DBTX (*sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const itemColumns = `id, name, sku, current_quantity, category_id, condition, low_stock_threshold, image_url, created_at, updated_at`

func scanItem(row interface{ Scan(...any) error }) (*models.InventoryItem, error) {
	var item models.InventoryItem
	err := row.Scan(&item.ID, &item.Name, &item.SKU, &item.CurrentQuantity,
		&item.CategoryID, &item.Condition, &item.LowStockThreshold,
		&item.ImageURL, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// CreateOrUpdate upserts an item by id. On conflict every mutable column is
// replaced: during the pull phase the remote copy is authoritative.
func (r *SQLiteRepository) CreateOrUpdate(ctx context.Context, item *models.InventoryItem) error {
	query := ` INSERT INTO items (` + itemColumns + `)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				name = excluded.name,
				sku = excluded.sku,
				current_quantity = excluded.current_quantity,
				category_id = excluded.category_id,
				condition = excluded.condition,
				low_stock_threshold = excluded.low_stock_threshold,
				image_url = excluded.image_url,
				updated_at = excluded.updated_at
	`
	_, err := r.db.ExecContext(ctx, query,
		item.ID, item.Name, item.SKU, item.CurrentQuantity, item.CategoryID,
		item.Condition, item.LowStockThreshold, item.ImageURL,
		item.CreatedAt, item.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert item: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.InventoryItem, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+itemColumns+` FROM items ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to select items: %w", err)
	}
	defer rows.Close()

	var result []models.InventoryItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.InventoryItem, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM items WHERE id=?`, id)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query row scan failed: %w", err)
	}
	return item, nil
}

func (r *SQLiteRepository) DeleteByID(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM items WHERE id=?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	return nil
}
