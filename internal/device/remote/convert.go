package remote

import (
	"github.com/dverbovy/tabstock/internal/device/models"
	"github.com/dverbovy/tabstock/internal/wire"
)

func itemToWire(i *models.InventoryItem) *wire.Item {
	return &wire.Item{
		ID:                i.ID,
		Name:              i.Name,
		SKU:               i.SKU,
		CurrentQuantity:   i.CurrentQuantity,
		CategoryID:        i.CategoryID,
		Condition:         string(i.Condition),
		LowStockThreshold: i.LowStockThreshold,
		ImageURL:          i.ImageURL,
		CreatedAt:         i.CreatedAt,
		UpdatedAt:         i.UpdatedAt,
	}
}

func itemFromWire(w *wire.Item) models.InventoryItem {
	return models.InventoryItem{
		ID:                w.ID,
		Name:              w.Name,
		SKU:               w.SKU,
		CurrentQuantity:   w.CurrentQuantity,
		CategoryID:        w.CategoryID,
		Condition:         models.Condition(w.Condition),
		LowStockThreshold: w.LowStockThreshold,
		ImageURL:          w.ImageURL,
		CreatedAt:         w.CreatedAt,
		UpdatedAt:         w.UpdatedAt,
	}
}

func movementToWire(m *models.StockMovement) *wire.Movement {
	w := &wire.Movement{
		ID:           m.ID,
		ItemID:       m.ItemID,
		DeviceUserID: m.DeviceUserID,
		Type:         string(m.Type),
		Quantity:     m.Quantity,
		EntryMethod:  string(m.EntryMethod),
		AIConfidence: m.AIConfidence,
		Note:         m.Note,
		CreatedAt:    m.CreatedAt,
	}
	if m.Condition != nil {
		c := string(*m.Condition)
		w.Condition = &c
	}
	return w
}

func movementFromWire(w *wire.Movement) models.StockMovement {
	m := models.StockMovement{
		ID:           w.ID,
		ItemID:       w.ItemID,
		DeviceUserID: w.DeviceUserID,
		Type:         models.MovementType(w.Type),
		Quantity:     w.Quantity,
		EntryMethod:  models.EntryMethod(w.EntryMethod),
		AIConfidence: w.AIConfidence,
		Note:         w.Note,
		CreatedAt:    w.CreatedAt,
	}
	if w.Condition != nil {
		c := models.Condition(*w.Condition)
		m.Condition = &c
	}
	return m
}

func deviceUserToWire(u *models.DeviceUser) *wire.DeviceUser {
	return &wire.DeviceUser{ID: u.ID, Name: u.Name, CreatedAt: u.CreatedAt}
}

func deviceUserFromWire(w *wire.DeviceUser) models.DeviceUser {
	return models.DeviceUser{ID: w.ID, Name: w.Name, CreatedAt: w.CreatedAt}
}
