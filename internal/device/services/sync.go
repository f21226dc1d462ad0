package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dverbovy/tabstock/internal/common"
	"github.com/dverbovy/tabstock/internal/device/models"
	"github.com/dverbovy/tabstock/internal/device/remote"
	"github.com/dverbovy/tabstock/internal/device/store"
	"github.com/dverbovy/tabstock/internal/logging"
)

// maxQueueAttempts is the failure count after which a queue entry is parked
// as poisoned instead of retrying forever.
const maxQueueAttempts = 10

// userReferenceColumn is the nullable foreign key the downgrade retry
// defends against: movements whose acting user never reached the server.
const userReferenceColumn = "device_user_id"

// SyncEngine owns the SyncState and runs the push, pull, and garbage
// collection phases against the remote store.
type SyncEngine struct {
	store  *store.Store
	remote remote.Client
	state  *SyncState
	logger logging.Logger
}

func NewSyncEngine(st *store.Store, rc remote.Client, state *SyncState, logger logging.Logger) *SyncEngine {
	return &SyncEngine{store: st, remote: rc, state: state, logger: logger}
}

func (e *SyncEngine) State() *SyncState { return e.state }

// SetOnline updates the connectivity flag. The offline-to-online edge
// triggers a sync pass.
func (e *SyncEngine) SetOnline(ctx context.Context, online bool) {
	was := e.state.setOnline(online)
	if online && !was {
		e.logger.Info(ctx, "connectivity restored, triggering sync")
		if err := e.TriggerSync(ctx); err != nil {
			e.logger.Error(ctx, "sync after reconnect failed", "error", err)
		}
	}
	if !online && was {
		e.logger.Info(ctx, "connectivity lost, queueing mutations locally")
	}
}

// TriggerSync runs one full pass: push unsynced queue entries, pull the
// canonical collections, purge synced entries. It is a no-op while offline
// or when another pass is already running.
func (e *SyncEngine) TriggerSync(ctx context.Context) error {
	if !e.state.Online() {
		return nil
	}
	if !e.state.tryBegin() {
		return nil
	}
	defer e.state.end()

	if err := e.push(ctx); err != nil {
		return fmt.Errorf("push phase failed: %w", err)
	}
	if err := e.pull(ctx); err != nil {
		return fmt.Errorf("pull phase failed: %w", err)
	}
	if err := e.gc(ctx); err != nil {
		return fmt.Errorf("queue gc failed: %w", err)
	}
	return nil
}

// push drains unsynced queue entries in creation order. A failed entry stays
// unsynced for the next pass; after maxQueueAttempts failures it is parked
// as poisoned for operator reconciliation. A single bad entry never aborts
// the pass.
func (e *SyncEngine) push(ctx context.Context) error {
	qrepo := e.store.Queue(e.store.DB())

	entries, err := qrepo.GetUnsynced(ctx)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if err := e.dispatch(ctx, entry); err != nil {
			e.logger.Warn(ctx, "queue entry dispatch failed",
				"id", entry.ID, "table", entry.Table, "action", entry.Action, "error", err)

			attempts, aerr := qrepo.IncrementAttempts(ctx, entry.ID)
			if aerr != nil {
				return aerr
			}
			if attempts >= maxQueueAttempts {
				e.logger.Error(ctx, "queue entry poisoned after repeated failures",
					"id", entry.ID, "table", entry.Table, "record_id", entry.RecordID, "attempts", attempts)
				if perr := qrepo.MarkPoisoned(ctx, entry.ID); perr != nil {
					return perr
				}
			}
			continue
		}
		if err := qrepo.MarkSynced(ctx, entry.ID); err != nil {
			return err
		}
	}
	return nil
}

// dispatch applies one queue entry to the remote store.
func (e *SyncEngine) dispatch(ctx context.Context, entry *models.OutboundQueueEntry) error {
	switch entry.Table {
	case models.TableItems:
		switch entry.Action {
		case models.ActionInsert, models.ActionUpdate:
			var item models.InventoryItem
			if err := json.Unmarshal(entry.Payload, &item); err != nil {
				return fmt.Errorf("malformed item payload: %w", err)
			}
			return e.remote.UpsertItem(ctx, &item)
		case models.ActionDelete:
			err := e.remote.DeleteItem(ctx, entry.RecordID)
			if errors.Is(err, common.ErrNotFound) {
				// already gone remotely; replaying the delete is a success
				return nil
			}
			return err
		}

	case models.TableMovements:
		if entry.Action != models.ActionInsert {
			return fmt.Errorf("unsupported action %q for movements", entry.Action)
		}
		var m models.StockMovement
		if err := json.Unmarshal(entry.Payload, &m); err != nil {
			return fmt.Errorf("malformed movement payload: %w", err)
		}
		return e.pushMovement(ctx, &m)

	case models.TableDeviceUsers:
		if entry.Action != models.ActionInsert && entry.Action != models.ActionUpdate {
			return fmt.Errorf("unsupported action %q for device users", entry.Action)
		}
		var u models.DeviceUser
		if err := json.Unmarshal(entry.Payload, &u); err != nil {
			return fmt.Errorf("malformed device user payload: %w", err)
		}
		return e.remote.UpsertDeviceUser(ctx, &u)
	}

	return fmt.Errorf("unknown queue table %q", entry.Table)
}

// pushMovement upserts a movement with the foreign-key downgrade retry: when
// the server rejects the write on the user-reference column, the attribution
// is stripped and the write retried once. The movement survives; only the
// actor link is lost.
func (e *SyncEngine) pushMovement(ctx context.Context, m *models.StockMovement) error {
	err := e.remote.UpsertMovement(ctx, m)
	if err == nil {
		return nil
	}

	var fk *common.ForeignKeyError
	if errors.As(err, &fk) && fk.Column == userReferenceColumn && m.DeviceUserID != nil {
		e.logger.Warn(ctx, "movement rejected on user reference, retrying without attribution",
			"movement_id", m.ID, "device_user_id", *m.DeviceUserID)
		downgraded := *m
		downgraded.DeviceUserID = nil
		return e.remote.UpsertMovement(ctx, &downgraded)
	}
	return err
}

// pull refreshes the local cache from the remote collections. The remote
// copy overwrites local state unconditionally: last writer wins, and remote
// is authoritative once reached.
func (e *SyncEngine) pull(ctx context.Context) error {
	db := e.store.DB()

	remoteItems, err := e.remote.ListItems(ctx)
	if err != nil {
		return err
	}
	itemRepo := e.store.Items(db)
	for i := range remoteItems {
		if err := itemRepo.CreateOrUpdate(ctx, &remoteItems[i]); err != nil {
			return err
		}
	}

	remoteUsers, err := e.remote.ListDeviceUsers(ctx)
	if err != nil {
		return err
	}
	userRepo := e.store.DeviceUsers(db)
	for i := range remoteUsers {
		if err := userRepo.CreateOrUpdate(ctx, &remoteUsers[i]); err != nil {
			return err
		}
	}

	remoteMovements, err := e.remote.ListMovements(ctx)
	if err != nil {
		return err
	}
	movementRepo := e.store.Movements(db)
	for i := range remoteMovements {
		if err := movementRepo.CreateOrUpdate(ctx, &remoteMovements[i]); err != nil {
			return err
		}
	}

	return nil
}

func (e *SyncEngine) gc(ctx context.Context) error {
	n, err := e.store.Queue(e.store.DB()).DeleteSynced(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		e.logger.Debug(ctx, "purged synced queue entries", "count", n)
	}
	return nil
}

// ListPoisoned surfaces parked queue entries for manual reconciliation.
func (e *SyncEngine) ListPoisoned(ctx context.Context) ([]*models.OutboundQueueEntry, error) {
	return e.store.Queue(e.store.DB()).ListPoisoned(ctx)
}

// StartOnlineWatcher probes the server every interval and flips the online
// flag on state changes. Blocks until ctx is cancelled.
func (e *SyncEngine) StartOnlineWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			e.SetOnline(ctx, e.remote.Ping(ctx) == nil)
		case <-ctx.Done():
			return
		}
	}
}

// StartInitialSync waits for the store to settle, probes connectivity once,
// and runs the first pass if the server is reachable.
func (e *SyncEngine) StartInitialSync(ctx context.Context, delay time.Duration) {
	select {
	case <-time.After(delay):
	case <-ctx.Done():
		return
	}
	if e.remote.Ping(ctx) == nil {
		e.SetOnline(ctx, true)
		if err := e.TriggerSync(ctx); err != nil {
			e.logger.Error(ctx, "initial sync failed", "error", err)
		}
	}
}
