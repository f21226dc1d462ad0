package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/dverbovy/tabstock/internal/wire"
)

// Sync API handlers. Upserts are keyed by the id in the path; a body id that
// disagrees with the path is rejected rather than silently trusted.

func (h *Handler) UpsertItem(w http.ResponseWriter, r *http.Request) {
	var body wire.Item
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, wire.CodeValidation, "invalid JSON")
		return
	}
	if body.ID != mux.Vars(r)["id"] {
		writeError(w, http.StatusBadRequest, wire.CodeValidation, "body id does not match path")
		return
	}

	if err := h.inventory.UpsertItem(r.Context(), itemFromWire(&body)); err != nil {
		h.logger.Error(r.Context(), "item upsert failed", "id", body.ID, "error", err)
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, body)
}

func (h *Handler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.inventory.DeleteItem(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": id})
}

func (h *Handler) ListItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.inventory.ListItems(r.Context())
	if err != nil {
		h.logger.Error(r.Context(), "item list failed", "error", err)
		writeServiceError(w, err)
		return
	}
	out := make([]wire.Item, 0, len(items))
	for _, item := range items {
		out = append(out, itemToWire(item))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) UpsertMovement(w http.ResponseWriter, r *http.Request) {
	var body wire.Movement
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, wire.CodeValidation, "invalid JSON")
		return
	}
	if body.ID != mux.Vars(r)["id"] {
		writeError(w, http.StatusBadRequest, wire.CodeValidation, "body id does not match path")
		return
	}

	if err := h.inventory.UpsertMovement(r.Context(), movementFromWire(&body)); err != nil {
		h.logger.Error(r.Context(), "movement upsert failed", "id", body.ID, "error", err)
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, body)
}

func (h *Handler) ListMovements(w http.ResponseWriter, r *http.Request) {
	movements, err := h.inventory.ListMovements(r.Context())
	if err != nil {
		h.logger.Error(r.Context(), "movement list failed", "error", err)
		writeServiceError(w, err)
		return
	}
	out := make([]wire.Movement, 0, len(movements))
	for _, m := range movements {
		out = append(out, movementToWire(m))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) UpsertDeviceUser(w http.ResponseWriter, r *http.Request) {
	var body wire.DeviceUser
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, wire.CodeValidation, "invalid JSON")
		return
	}
	if body.ID != mux.Vars(r)["id"] {
		writeError(w, http.StatusBadRequest, wire.CodeValidation, "body id does not match path")
		return
	}

	if err := h.inventory.UpsertDeviceUser(r.Context(), deviceUserFromWire(&body)); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, body)
}

func (h *Handler) ListDeviceUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.inventory.ListDeviceUsers(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	out := make([]wire.DeviceUser, 0, len(users))
	for _, u := range users {
		out = append(out, deviceUserToWire(u))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.inventory.ListCategories(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	out := make([]wire.Category, 0, len(cats))
	for _, c := range cats {
		out = append(out, categoryToWire(c))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) RegisterDevice(w http.ResponseWriter, r *http.Request) {
	var req wire.RegisterDeviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, wire.CodeValidation, "invalid JSON")
		return
	}
	if req.DeviceName == "" {
		writeError(w, http.StatusBadRequest, wire.CodeValidation, "device_name is required")
		return
	}

	deviceID, token, err := h.devices.Register(r.Context(), req.DeviceName)
	if err != nil {
		h.logger.Error(r.Context(), "device registration failed", "error", err)
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, wire.RegisterDeviceResponse{DeviceID: deviceID, AccessToken: token})
}

func (h *Handler) PresignImage(w http.ResponseWriter, r *http.Request) {
	var req wire.PresignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, wire.CodeValidation, "invalid JSON")
		return
	}
	if req.ItemID == "" {
		writeError(w, http.StatusBadRequest, wire.CodeValidation, "item_id is required")
		return
	}

	key, url, err := h.presign.GetPresignedPutURL(r.Context(), req.ItemID)
	if err != nil {
		h.logger.Error(r.Context(), "presign failed", "item_id", req.ItemID, "error", err)
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, wire.PresignResponse{Key: key, URL: url})
}
