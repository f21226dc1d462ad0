package deviceusers

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

func (r *SQLiteRepository) CreateOrUpdate(ctx context.Context, u *models.DeviceUser) error {
	query := ` INSERT INTO device_users (id, name, created_at)
			VALUES (?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET name = excluded.name
	`
	_, err := r.db.ExecContext(ctx, query, u.ID, u.Name, u.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert device user: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.DeviceUser, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, created_at FROM device_users ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to select device users: %w", err)
	}
	defer rows.Close()

	var result []models.DeviceUser
	for rows.Next() {
		var u models.DeviceUser
		if err := rows.Scan(&u.ID, &u.Name, &u.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
