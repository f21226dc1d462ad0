package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/dverbovy/tabstock/internal/dbx"
	"github.com/dverbovy/tabstock/internal/device/models"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const queueColumns = `id, table_name, action, record_id, payload, synced, attempts, poisoned, created_at, synced_at`

func (r *SQLiteRepository) Append(ctx context.Context, e *models.OutboundQueueEntry) error {
	query := ` INSERT INTO outbound_queue (table_name, action, record_id, payload, synced, attempts, poisoned, created_at)
			VALUES (?, ?, ?, ?, 0, 0, 0, ?)
	`
	res, err := r.db.ExecContext(ctx, query, e.Table, e.Action, e.RecordID, string(e.Payload), e.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to append queue entry: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get queue entry id: %w", err)
	}
	e.ID = id
	return nil
}

func (r *SQLiteRepository) selectEntries(ctx context.Context, query string, args ...any) ([]*models.OutboundQueueEntry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select queue entries: %w", err)
	}
	defer rows.Close()

	var result []*models.OutboundQueueEntry
	for rows.Next() {
		e := &models.OutboundQueueEntry{}
		var payload string
		if err := rows.Scan(&e.ID, &e.Table, &e.Action, &e.RecordID, &payload,
			&e.Synced, &e.Attempts, &e.Poisoned, &e.CreatedAt, &e.SyncedAt); err != nil {
			return nil, err
		}
		e.Payload = []byte(payload)
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) GetUnsynced(ctx context.Context) ([]*models.OutboundQueueEntry, error) {
	return r.selectEntries(ctx, `SELECT `+queueColumns+` FROM outbound_queue WHERE synced=0 AND poisoned=0 ORDER BY id`)
}

func (r *SQLiteRepository) ListPoisoned(ctx context.Context) ([]*models.OutboundQueueEntry, error) {
	return r.selectEntries(ctx, `SELECT `+queueColumns+` FROM outbound_queue WHERE poisoned=1 ORDER BY id`)
}

func (r *SQLiteRepository) MarkSynced(ctx context.Context, id int64) error {
	query := `UPDATE outbound_queue SET synced=1, synced_at=? WHERE id=?`
	res, err := r.db.ExecContext(ctx, query, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to mark entry synced: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra != 1 {
		return fmt.Errorf("wrong rows affected count: %d", ra)
	}
	return nil
}

func (r *SQLiteRepository) IncrementAttempts(ctx context.Context, id int64) (int, error) {
	_, err := r.db.ExecContext(ctx, `UPDATE outbound_queue SET attempts=attempts+1 WHERE id=?`, id)
	if err != nil {
		return 0, fmt.Errorf("failed to increment attempts: %w", err)
	}
	var attempts int
	if err := r.db.QueryRowContext(ctx, `SELECT attempts FROM outbound_queue WHERE id=?`, id).Scan(&attempts); err != nil {
		return 0, fmt.Errorf("failed to read attempts: %w", err)
	}
	return attempts, nil
}

func (r *SQLiteRepository) MarkPoisoned(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `UPDATE outbound_queue SET poisoned=1 WHERE id=?`, id)
	if err != nil {
		return fmt.Errorf("failed to mark entry poisoned: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteSynced(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM outbound_queue WHERE synced=1`)
	if err != nil {
		return 0, fmt.Errorf("failed to purge synced entries: %w", err)
	}
	return res.RowsAffected()
}
