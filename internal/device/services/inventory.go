// Package services contains the inventory mutation service and the
// synchronization engine that reconciles the local store with the remote
// API.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dverbovy/tabstock/internal/common"
	"github.com/dverbovy/tabstock/internal/dbx"
	"github.com/dverbovy/tabstock/internal/device/models"
	"github.com/dverbovy/tabstock/internal/device/remote"
	"github.com/dverbovy/tabstock/internal/device/store"
	"github.com/dverbovy/tabstock/internal/logging"
)

// ItemDraft carries the caller-supplied fields for a new item. The initial
// quantity is written directly to the item; callers that want the ledger to
// reflect it record an initial movement via AddStockMovement.
type ItemDraft struct {
	Name              string
	SKU               string
	InitialQuantity   int64
	CategoryID        *string
	Condition         models.Condition
	LowStockThreshold int64
	ImageURL          *string
}

// ItemUpdate is a partial update; nil fields are left unchanged.
type ItemUpdate struct {
	Name              *string
	SKU               *string
	CategoryID        *string
	Condition         *models.Condition
	LowStockThreshold *int64
	ImageURL          *string
}

// MovementOptions carries the optional attribution fields of a movement.
type MovementOptions struct {
	ActorID      *string
	EntryMethod  models.EntryMethod
	AIConfidence *float64
	Note         *string
	Condition    *models.Condition
}

// InventoryService is the only component allowed to change quantities. Every
// mutation commits its local writes and queue entries in one transaction;
// when connectivity is up it additionally attempts an immediate remote write
// and marks the fresh queue entries synced on success, leaving the queue as
// the safety net rather than the primary path.
type InventoryService struct {
	store  *store.Store
	remote remote.Client
	state  *SyncState
	logger logging.Logger

	// notify is invoked after every successful mutation so the sync engine
	// can schedule a drain. Optional.
	notify func()
}

func NewInventoryService(st *store.Store, rc remote.Client, state *SyncState, logger logging.Logger) *InventoryService {
	return &InventoryService{store: st, remote: rc, state: state, logger: logger}
}

// OnMutation registers a callback fired after each successful mutation.
func (s *InventoryService) OnMutation(fn func()) { s.notify = fn }

func (s *InventoryService) notifyMutation() {
	if s.notify != nil {
		s.notify()
	}
}

func marshalPayload(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		// All queue payload types are plain structs; this cannot fail for
		// well-formed records.
		panic(fmt.Sprintf("marshal queue payload: %v", err))
	}
	return b
}

func newQueueEntry(table string, action models.QueueAction, recordID string, payload any) *models.OutboundQueueEntry {
	return &models.OutboundQueueEntry{
		Table:     table,
		Action:    action,
		RecordID:  recordID,
		Payload:   marshalPayload(payload),
		CreatedAt: time.Now().UTC(),
	}
}

// AddItem assigns a fresh id and timestamps, persists the item, and enqueues
// an insert. Returns the created record.
func (s *InventoryService) AddItem(ctx context.Context, draft ItemDraft) (*models.InventoryItem, error) {
	now := time.Now().UTC()
	condition := draft.Condition
	if condition == "" {
		condition = models.ConditionGood
	}
	threshold := draft.LowStockThreshold
	if threshold == 0 {
		threshold = 5
	}

	item := &models.InventoryItem{
		ID:                uuid.NewString(),
		Name:              draft.Name,
		SKU:               draft.SKU,
		CurrentQuantity:   draft.InitialQuantity,
		CategoryID:        draft.CategoryID,
		Condition:         condition,
		LowStockThreshold: threshold,
		ImageURL:          draft.ImageURL,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	entry := newQueueEntry(models.TableItems, models.ActionInsert, item.ID, item)

	err := dbx.WithTx(ctx, s.store.DB(), nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.store.Items(tx).CreateOrUpdate(ctx, item); err != nil {
			return err
		}
		return s.store.Queue(tx).Append(ctx, entry)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add item: %w", err)
	}

	s.syncNow(ctx, entry, func() error { return s.remote.UpsertItem(ctx, item) })
	s.notifyMutation()
	return item, nil
}

// UpdateItem merges the partial update into the current record. A missing id
// is a silent skip returning (nil, nil), not an error; callers must check.
func (s *InventoryService) UpdateItem(ctx context.Context, id string, upd ItemUpdate) (*models.InventoryItem, error) {
	item, err := s.store.Items(s.store.DB()).GetByID(ctx, id)
	if errors.Is(err, common.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		item.Name = *upd.Name
	}
	if upd.SKU != nil {
		item.SKU = *upd.SKU
	}
	if upd.CategoryID != nil {
		item.CategoryID = upd.CategoryID
	}
	if upd.Condition != nil {
		item.Condition = *upd.Condition
	}
	if upd.LowStockThreshold != nil {
		item.LowStockThreshold = *upd.LowStockThreshold
	}
	if upd.ImageURL != nil {
		item.ImageURL = upd.ImageURL
	}
	item.UpdatedAt = time.Now().UTC()

	entry := newQueueEntry(models.TableItems, models.ActionUpdate, item.ID, item)

	err = dbx.WithTx(ctx, s.store.DB(), nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.store.Items(tx).CreateOrUpdate(ctx, item); err != nil {
			return err
		}
		return s.store.Queue(tx).Append(ctx, entry)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update item: %w", err)
	}

	s.syncNow(ctx, entry, func() error { return s.remote.UpsertItem(ctx, item) })
	s.notifyMutation()
	return item, nil
}

// UpdateQuantity applies the delta with no floor at zero: a remove larger
// than the current stock yields a negative quantity, the system's
// over-removal warning signal. The item write, the movement record, and both
// queue entries commit atomically; if connectivity is up both records are
// pushed immediately with the queue as fallback.
func (s *InventoryService) UpdateQuantity(ctx context.Context, id string, delta int64, direction models.MovementType, opts MovementOptions) (*models.InventoryItem, error) {
	if delta <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", common.ErrValidation)
	}

	item, err := s.store.Items(s.store.DB()).GetByID(ctx, id)
	if errors.Is(err, common.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if direction == models.MovementAdd {
		item.CurrentQuantity += delta
	} else {
		item.CurrentQuantity -= delta
	}
	item.UpdatedAt = time.Now().UTC()

	movement := s.buildMovement(id, delta, direction, opts)

	itemEntry := newQueueEntry(models.TableItems, models.ActionUpdate, item.ID, item)
	movementEntry := newQueueEntry(models.TableMovements, models.ActionInsert, movement.ID, movement)

	err = dbx.WithTx(ctx, s.store.DB(), nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.store.Items(tx).CreateOrUpdate(ctx, item); err != nil {
			return err
		}
		if err := s.store.Movements(tx).CreateOrUpdate(ctx, movement); err != nil {
			return err
		}
		if err := s.store.Queue(tx).Append(ctx, itemEntry); err != nil {
			return err
		}
		return s.store.Queue(tx).Append(ctx, movementEntry)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update quantity: %w", err)
	}

	s.syncNow(ctx, movementEntry, func() error { return s.remote.UpsertMovement(ctx, movement) })
	s.syncNow(ctx, itemEntry, func() error { return s.remote.UpsertItem(ctx, item) })
	s.notifyMutation()
	return item, nil
}

// AddStockMovement records a movement without touching the item's quantity.
// Used to declare initial stock at creation time so per-condition breakdowns
// reflect history even though the quantity field was set directly.
func (s *InventoryService) AddStockMovement(ctx context.Context, itemID string, quantity int64, direction models.MovementType, opts MovementOptions) (*models.StockMovement, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", common.ErrValidation)
	}

	movement := s.buildMovement(itemID, quantity, direction, opts)
	entry := newQueueEntry(models.TableMovements, models.ActionInsert, movement.ID, movement)

	err := dbx.WithTx(ctx, s.store.DB(), nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.store.Movements(tx).CreateOrUpdate(ctx, movement); err != nil {
			return err
		}
		return s.store.Queue(tx).Append(ctx, entry)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add movement: %w", err)
	}

	s.syncNow(ctx, entry, func() error { return s.remote.UpsertMovement(ctx, movement) })
	s.notifyMutation()
	return movement, nil
}

// DeleteItem deletes locally and enqueues a delete.
func (s *InventoryService) DeleteItem(ctx context.Context, id string) error {
	entry := newQueueEntry(models.TableItems, models.ActionDelete, id, map[string]string{"id": id})

	err := dbx.WithTx(ctx, s.store.DB(), nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.store.Items(tx).DeleteByID(ctx, id); err != nil {
			return err
		}
		return s.store.Queue(tx).Append(ctx, entry)
	})
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}

	s.syncNow(ctx, entry, func() error { return s.remote.DeleteItem(ctx, id) })
	s.notifyMutation()
	return nil
}

// AddDeviceUser creates a local actor identity and enqueues it.
func (s *InventoryService) AddDeviceUser(ctx context.Context, name string) (*models.DeviceUser, error) {
	user := &models.DeviceUser{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	entry := newQueueEntry(models.TableDeviceUsers, models.ActionInsert, user.ID, user)

	err := dbx.WithTx(ctx, s.store.DB(), nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.store.DeviceUsers(tx).CreateOrUpdate(ctx, user); err != nil {
			return err
		}
		return s.store.Queue(tx).Append(ctx, entry)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add device user: %w", err)
	}

	s.syncNow(ctx, entry, func() error { return s.remote.UpsertDeviceUser(ctx, user) })
	s.notifyMutation()
	return user, nil
}

func (s *InventoryService) buildMovement(itemID string, quantity int64, direction models.MovementType, opts MovementOptions) *models.StockMovement {
	entryMethod := opts.EntryMethod
	if entryMethod == "" {
		entryMethod = models.EntryMethodManual
	}
	return &models.StockMovement{
		ID:           uuid.NewString(),
		ItemID:       itemID,
		DeviceUserID: opts.ActorID,
		Type:         direction,
		Quantity:     quantity,
		EntryMethod:  entryMethod,
		AIConfidence: opts.AIConfidence,
		Note:         opts.Note,
		Condition:    opts.Condition,
		CreatedAt:    time.Now().UTC(),
	}
}

// syncNow attempts an immediate remote write when connectivity is known to
// be up, marking the queue entry synced on success. Failures leave the entry
// for the next drain.
func (s *InventoryService) syncNow(ctx context.Context, entry *models.OutboundQueueEntry, write func() error) {
	if !s.state.Online() {
		return
	}
	if err := write(); err != nil {
		s.logger.Warn(ctx, "immediate remote write failed, left for queue drain",
			"table", entry.Table, "action", entry.Action, "record_id", entry.RecordID, "error", err)
		return
	}
	if err := s.store.Queue(s.store.DB()).MarkSynced(ctx, entry.ID); err != nil {
		s.logger.Error(ctx, "failed to mark queue entry synced", "id", entry.ID, "error", err)
	}
}
