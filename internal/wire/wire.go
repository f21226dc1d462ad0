// Package wire defines the JSON payloads exchanged between the device agent
// and the server's sync API. Both sides convert to their own model types at
// the boundary.
package wire

import "time"

// Error codes carried in ErrorBody.Code.
const (
	CodeValidation    = "validation"
	CodeUnauthorized  = "unauthorized"
	CodeNotFound      = "not_found"
	CodeSKUConflict   = "sku_conflict"
	CodeFKViolation   = "fk_violation"
	CodeNotConfigured = "not_configured"
	CodeInternal      = "internal"
)

// ErrorBody is the structured error response returned by every endpoint.
// Column is set only for fk_violation and names the referencing column.
type ErrorBody struct {
	Error  string `json:"error"`
	Code   string `json:"code,omitempty"`
	Column string `json:"column,omitempty"`
}

// Item mirrors the items collection. Quantity is signed: negative stock is
// permitted and acts as an over-removal warning signal.
type Item struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	SKU               string    `json:"sku"`
	CurrentQuantity   int64     `json:"current_quantity"`
	CategoryID        *string   `json:"category_id,omitempty"`
	Condition         string    `json:"condition"`
	LowStockThreshold int64     `json:"low_stock_threshold"`
	ImageURL          *string   `json:"image_url,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// Movement mirrors the stock_movements collection.
type Movement struct {
	ID           string    `json:"id"`
	ItemID       string    `json:"item_id"`
	DeviceUserID *string   `json:"device_user_id,omitempty"`
	Type         string    `json:"type"`
	Quantity     int64     `json:"quantity"`
	EntryMethod  string    `json:"entry_method"`
	AIConfidence *float64  `json:"ai_confidence,omitempty"`
	Note         *string   `json:"note,omitempty"`
	Condition    *string   `json:"condition,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// DeviceUser mirrors the device_users collection.
type DeviceUser struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Category mirrors the categories collection (read-only for devices).
type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	ParentID  *string   `json:"parent_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type RegisterDeviceRequest struct {
	DeviceName string `json:"device_name"`
}

type RegisterDeviceResponse struct {
	DeviceID    string `json:"device_id"`
	AccessToken string `json:"access_token"`
}

// AdminPinRequest drives the two-step PIN flow: action "verify" carries the
// raw PIN, action "validate" carries a previously issued token.
type AdminPinRequest struct {
	Action string `json:"action"`
	Pin    string `json:"pin,omitempty"`
	Token  string `json:"token,omitempty"`
}

type AdminPinResponse struct {
	Valid bool   `json:"valid"`
	Token string `json:"token,omitempty"`
}

type PresignRequest struct {
	ItemID string `json:"item_id"`
}

// PresignResponse carries a presigned PUT URL for an item reference image
// and the storage key it will land under.
type PresignResponse struct {
	Key string `json:"key"`
	URL string `json:"url"`
}
