package movements

import (
	"context"
	"fmt"

	"github.com/dverbovy/tabstock/internal/dbx"
	"github.com/dverbovy/tabstock/internal/device/models"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const movementColumns = `id, item_id, device_user_id, type, quantity, entry_method, ai_confidence, note, condition, created_at`

func (r *SQLiteRepository) CreateOrUpdate(ctx context.Context, m *models.StockMovement) error {
	query := ` INSERT INTO stock_movements (` + movementColumns + `)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO NOTHING
	`
	_, err := r.db.ExecContext(ctx, query,
		m.ID, m.ItemID, m.DeviceUserID, m.Type, m.Quantity, m.EntryMethod,
		m.AIConfidence, m.Note, m.Condition, m.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert movement: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) selectMovements(ctx context.Context, query string, args ...any) ([]models.StockMovement, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select movements: %w", err)
	}
	defer rows.Close()

	var result []models.StockMovement
	for rows.Next() {
		var m models.StockMovement
		if err := rows.Scan(&m.ID, &m.ItemID, &m.DeviceUserID, &m.Type,
			&m.Quantity, &m.EntryMethod, &m.AIConfidence, &m.Note,
			&m.Condition, &m.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.StockMovement, error) {
	return r.selectMovements(ctx, `SELECT `+movementColumns+` FROM stock_movements ORDER BY created_at`)
}

func (r *SQLiteRepository) GetByItemID(ctx context.Context, itemID string) ([]models.StockMovement, error) {
	return r.selectMovements(ctx, `SELECT `+movementColumns+` FROM stock_movements WHERE item_id=? ORDER BY created_at`, itemID)
}
