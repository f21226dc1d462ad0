package deviceusers

import (
	"context"
	"fmt"

	"github.com/dverbovy/tabstock/internal/dbx"
	"github.com/dverbovy/tabstock/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetAll(ctx context.Context) ([]*models.DeviceUser, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, created_at FROM device_users ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to select device users: %w", err)
	}
	defer rows.Close()

	var result []*models.DeviceUser
	for rows.Next() {
		var u models.DeviceUser
		if err := rows.Scan(&u.ID, &u.Name, &u.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, &u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) CreateOrUpdate(ctx context.Context, u *models.DeviceUser) error {
	query := `
		INSERT INTO device_users (id, name, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name;
	`
	if _, err := r.db.ExecContext(ctx, query, u.ID, u.Name, u.CreatedAt); err != nil {
		return fmt.Errorf("failed to upsert device user: %w", err)
	}
	return nil
}
