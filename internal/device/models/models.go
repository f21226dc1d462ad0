// Package models defines the on-device data model: inventory items, stock
// movements, device users, and outbound queue entries.
package models

import "time"

// Condition is a per-unit quality tag, tracked per movement and used as a
// default/display attribute on items.
type Condition string

const (
	ConditionNew     Condition = "new"
	ConditionGood    Condition = "good"
	ConditionDamaged Condition = "damaged"
	ConditionBroken  Condition = "broken"
)

func (c Condition) Valid() bool {
	switch c {
	case ConditionNew, ConditionGood, ConditionDamaged, ConditionBroken:
		return true
	}
	return false
}

// MovementType distinguishes stock additions from removals.
type MovementType string

const (
	MovementAdd    MovementType = "add"
	MovementRemove MovementType = "remove"
)

// EntryMethod records how a movement was entered.
type EntryMethod string

const (
	EntryMethodManual     EntryMethod = "manual"
	EntryMethodAIAssisted EntryMethod = "ai_assisted"
)

// QueueAction is the pending mutation kind carried by a queue entry.
type QueueAction string

const (
	ActionInsert QueueAction = "insert"
	ActionUpdate QueueAction = "update"
	ActionDelete QueueAction = "delete"
)

// Collection names used by queue entries and the sync dispatch.
const (
	TableItems       = "items"
	TableMovements   = "stock_movements"
	TableDeviceUsers = "device_users"
)

// InventoryItem is the locally cached item record. CurrentQuantity is signed:
// removals below zero are allowed and surface as an over-removal warning.
type InventoryItem struct {
	ID                string     `json:"id"`
	Name              string     `json:"name"`
	SKU               string     `json:"sku"`
	CurrentQuantity   int64      `json:"current_quantity"`
	CategoryID        *string    `json:"category_id,omitempty"`
	Condition         Condition  `json:"condition"`
	LowStockThreshold int64      `json:"low_stock_threshold"`
	ImageURL          *string    `json:"image_url,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// StockMovement is an immutable ledger record. Quantity is always positive;
// Type carries the sign.
type StockMovement struct {
	ID           string       `json:"id"`
	ItemID       string       `json:"item_id"`
	DeviceUserID *string      `json:"device_user_id,omitempty"`
	Type         MovementType `json:"type"`
	Quantity     int64        `json:"quantity"`
	EntryMethod  EntryMethod  `json:"entry_method"`
	AIConfidence *float64     `json:"ai_confidence,omitempty"`
	Note         *string      `json:"note,omitempty"`
	Condition    *Condition   `json:"condition,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
}

// DeviceUser is a lightweight local actor attached to movements for
// attribution. Selected client-side; not an authentication principal.
type DeviceUser struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// OutboundQueueEntry is a pending local mutation awaiting remote
// application. Payload holds the full record snapshot as JSON, marshalled
// exactly once at enqueue time.
type OutboundQueueEntry struct {
	ID        int64       `json:"id"`
	Table     string      `json:"table"`
	Action    QueueAction `json:"action"`
	RecordID  string      `json:"record_id"`
	Payload   []byte      `json:"payload"`
	Synced    bool        `json:"synced"`
	Attempts  int         `json:"attempts"`
	Poisoned  bool        `json:"poisoned"`
	CreatedAt time.Time   `json:"created_at"`
	SyncedAt  *time.Time  `json:"synced_at,omitempty"`
}

// Breakdown holds per-condition stock totals derived from movement history.
type Breakdown map[Condition]int64

// ConditionBreakdown folds an item's movements into per-condition totals.
// Adds increment, removes decrement; each condition is clamped at zero so a
// remove exceeding the running total never shows negative. Movements without
// a condition count under "good".
func ConditionBreakdown(movements []StockMovement) Breakdown {
	b := Breakdown{
		ConditionNew:     0,
		ConditionGood:    0,
		ConditionDamaged: 0,
		ConditionBroken:  0,
	}
	for _, m := range movements {
		cond := ConditionGood
		if m.Condition != nil {
			cond = *m.Condition
		}
		switch m.Type {
		case MovementAdd:
			b[cond] += m.Quantity
		case MovementRemove:
			b[cond] -= m.Quantity
			if b[cond] < 0 {
				b[cond] = 0
			}
		}
	}
	return b
}
