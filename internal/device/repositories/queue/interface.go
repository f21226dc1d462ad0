package queue

import (
	"context"

	"github.com/dverbovy/tabstock/internal/device/models"
)

// Repository describes the outbound change queue: the only record of local
// work that has not yet reached the remote store.
type Repository interface {
	// Append adds an unsynced entry and fills in its assigned id.
	Append(ctx context.Context, e *models.OutboundQueueEntry) error

	// GetUnsynced returns entries with synced=0 and poisoned=0, in creation
	// order, so same-record writes replay in the order they were made.
	GetUnsynced(ctx context.Context) ([]*models.OutboundQueueEntry, error)

	// MarkSynced flags one entry as applied remotely.
	MarkSynced(ctx context.Context, id int64) error

	// IncrementAttempts bumps an entry's failure counter and returns the new
	// value.
	IncrementAttempts(ctx context.Context, id int64) (int, error)

	// MarkPoisoned excludes an entry from future drains. Poisoned entries
	// are kept for operator reconciliation, not deleted.
	MarkPoisoned(ctx context.Context, id int64) error

	// ListPoisoned returns entries parked by MarkPoisoned.
	ListPoisoned(ctx context.Context) ([]*models.OutboundQueueEntry, error)

	// DeleteSynced purges entries already applied remotely, returning the
	// number removed.
	DeleteSynced(ctx context.Context) (int64, error)
}
