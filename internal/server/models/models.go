// Package models defines server-side data models persisted in the database.
package models

import "time"

type Item struct {
	ID                string
	Name              string
	SKU               string
	CurrentQuantity   int64
	CategoryID        *string
	Condition         string
	LowStockThreshold int64
	ImageURL          *string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Movement is append-only; there is no update or delete path for it.
type Movement struct {
	ID           string
	ItemID       string
	DeviceUserID *string
	Type         string
	Quantity     int64
	EntryMethod  string
	AIConfidence *float64
	Note         *string
	Condition    *string
	CreatedAt    time.Time
}

type DeviceUser struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

type Category struct {
	ID        string
	Name      string
	ParentID  *string
	CreatedAt time.Time
	UpdatedAt time.Time
}
