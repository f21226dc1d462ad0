package movements

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dverbovy/tabstock/internal/common"
	"github.com/dverbovy/tabstock/internal/dbx"
	"github.com/dverbovy/tabstock/internal/server/models"
)

// PostgresRepository implements movement storage over a dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const movementColumns = `id, item_id, device_user_id, type, quantity, entry_method, ai_confidence, note, condition, created_at`

// mapError surfaces foreign key violations with the violated column so the
// sync engine can distinguish a missing device user from a missing item.
// Constraint names follow the postgres default <table>_<column>_fkey.
func mapError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23503" {
		return err
	}
	column := strings.TrimSuffix(strings.TrimPrefix(pgErr.ConstraintName, "stock_movements_"), "_fkey")
	return &common.ForeignKeyError{Column: column}
}

func (r *PostgresRepository) GetAll(ctx context.Context) ([]*models.Movement, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+movementColumns+` FROM stock_movements ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to select movements: %w", err)
	}
	defer rows.Close()

	var result []*models.Movement
	for rows.Next() {
		var m models.Movement
		if err := rows.Scan(
			&m.ID, &m.ItemID, &m.DeviceUserID, &m.Type, &m.Quantity,
			&m.EntryMethod, &m.AIConfidence, &m.Note, &m.Condition, &m.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) GetByItemID(ctx context.Context, itemID string) ([]*models.Movement, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+movementColumns+` FROM stock_movements WHERE item_id=$1 ORDER BY created_at`, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to select movements: %w", err)
	}
	defer rows.Close()

	var result []*models.Movement
	for rows.Next() {
		var m models.Movement
		if err := rows.Scan(
			&m.ID, &m.ItemID, &m.DeviceUserID, &m.Type, &m.Quantity,
			&m.EntryMethod, &m.AIConfidence, &m.Note, &m.Condition, &m.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// CreateOrUpdate inserts a movement. Movements are immutable, so a replayed
// insert with a known id is a no-op rather than an update.
func (r *PostgresRepository) CreateOrUpdate(ctx context.Context, m *models.Movement) error {
	query := `
		INSERT INTO stock_movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO NOTHING;
	`
	_, err := r.db.ExecContext(ctx, query,
		m.ID, m.ItemID, m.DeviceUserID, m.Type, m.Quantity,
		m.EntryMethod, m.AIConfidence, m.Note, m.Condition, m.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert movement: %w", mapError(err))
	}
	return nil
}
