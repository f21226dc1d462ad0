// Package httpapi exposes the server over HTTP/JSON: the device sync API,
// device registration, the signed stock webhook and the admin PIN endpoint.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/dverbovy/tabstock/internal/common"
	"github.com/dverbovy/tabstock/internal/logging"
	sc "github.com/dverbovy/tabstock/internal/server/config"
	"github.com/dverbovy/tabstock/internal/server/models"
	"github.com/dverbovy/tabstock/internal/server/services"
	"github.com/dverbovy/tabstock/internal/wire"
)

// InventoryAPI is the slice of the inventory service the handlers need.
type InventoryAPI interface {
	ApplyStockChange(ctx context.Context, change services.StockChange) (*services.StockChangeResult, error)
	UpsertItem(ctx context.Context, item *models.Item) error
	DeleteItem(ctx context.Context, id string) error
	ListItems(ctx context.Context) ([]*models.Item, error)
	UpsertMovement(ctx context.Context, m *models.Movement) error
	ListMovements(ctx context.Context) ([]*models.Movement, error)
	UpsertDeviceUser(ctx context.Context, u *models.DeviceUser) error
	ListDeviceUsers(ctx context.Context) ([]*models.DeviceUser, error)
	ListCategories(ctx context.Context) ([]*models.Category, error)
}

type DeviceRegistrar interface {
	Register(ctx context.Context, deviceName string) (string, string, error)
}

type Presigner interface {
	GetPresignedPutURL(ctx context.Context, itemID string) (string, string, error)
}

type Handler struct {
	inventory InventoryAPI
	devices   DeviceRegistrar
	presign   Presigner
	config    *sc.Config
	logger    logging.Logger
	validate  *validator.Validate
}

func NewHandler(inventory InventoryAPI, devices DeviceRegistrar, presign Presigner, config *sc.Config, logger logging.Logger) *Handler {
	return &Handler{
		inventory: inventory,
		devices:   devices,
		presign:   presign,
		config:    config,
		logger:    logger,
		validate:  validator.New(),
	}
}

func writeJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, statusCode int, code, message string) {
	writeJSON(w, statusCode, wire.ErrorBody{Error: message, Code: code})
}

// writeServiceError maps service-layer errors onto the structured wire error
// body. Foreign key violations carry the violated column so devices can
// apply the downgrade-and-retry rule.
func writeServiceError(w http.ResponseWriter, err error) {
	var fkErr *common.ForeignKeyError
	switch {
	case errors.Is(err, common.ErrValidation):
		writeError(w, http.StatusBadRequest, wire.CodeValidation, err.Error())
	case errors.Is(err, common.ErrNotFound):
		writeError(w, http.StatusNotFound, wire.CodeNotFound, err.Error())
	case errors.Is(err, common.ErrSKUConflict):
		writeError(w, http.StatusConflict, wire.CodeSKUConflict, err.Error())
	case errors.As(err, &fkErr):
		writeJSON(w, http.StatusConflict, wire.ErrorBody{
			Error: fkErr.Error(), Code: wire.CodeFKViolation, Column: fkErr.Column,
		})
	default:
		writeError(w, http.StatusInternalServerError, wire.CodeInternal, "internal error")
	}
}
