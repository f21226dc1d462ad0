package httpapi

import (
	"github.com/dverbovy/tabstock/internal/server/models"
	"github.com/dverbovy/tabstock/internal/wire"
)

func itemFromWire(w *wire.Item) *models.Item {
	return &models.Item{
		ID:                w.ID,
		Name:              w.Name,
		SKU:               w.SKU,
		CurrentQuantity:   w.CurrentQuantity,
		CategoryID:        w.CategoryID,
		Condition:         w.Condition,
		LowStockThreshold: w.LowStockThreshold,
		ImageURL:          w.ImageURL,
		CreatedAt:         w.CreatedAt,
		UpdatedAt:         w.UpdatedAt,
	}
}

func itemToWire(m *models.Item) wire.Item {
	return wire.Item{
		ID:                m.ID,
		Name:              m.Name,
		SKU:               m.SKU,
		CurrentQuantity:   m.CurrentQuantity,
		CategoryID:        m.CategoryID,
		Condition:         m.Condition,
		LowStockThreshold: m.LowStockThreshold,
		ImageURL:          m.ImageURL,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

func movementFromWire(w *wire.Movement) *models.Movement {
	return &models.Movement{
		ID:           w.ID,
		ItemID:       w.ItemID,
		DeviceUserID: w.DeviceUserID,
		Type:         w.Type,
		Quantity:     w.Quantity,
		EntryMethod:  w.EntryMethod,
		AIConfidence: w.AIConfidence,
		Note:         w.Note,
		Condition:    w.Condition,
		CreatedAt:    w.CreatedAt,
	}
}

func movementToWire(m *models.Movement) wire.Movement {
	return wire.Movement{
		ID:           m.ID,
		ItemID:       m.ItemID,
		DeviceUserID: m.DeviceUserID,
		Type:         m.Type,
		Quantity:     m.Quantity,
		EntryMethod:  m.EntryMethod,
		AIConfidence: m.AIConfidence,
		Note:         m.Note,
		Condition:    m.Condition,
		CreatedAt:    m.CreatedAt,
	}
}

func deviceUserFromWire(w *wire.DeviceUser) *models.DeviceUser {
	return &models.DeviceUser{ID: w.ID, Name: w.Name, CreatedAt: w.CreatedAt}
}

func deviceUserToWire(u *models.DeviceUser) wire.DeviceUser {
	return wire.DeviceUser{ID: u.ID, Name: u.Name, CreatedAt: u.CreatedAt}
}

func categoryToWire(c *models.Category) wire.Category {
	return wire.Category{
		ID: c.ID, Name: c.Name, ParentID: c.ParentID,
		CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt,
	}
}
