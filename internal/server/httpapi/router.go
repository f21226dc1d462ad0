package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"
)

// Router builds the full route table. The sync API sits behind the JWT
// middleware; health, registration, the webhook and the admin PIN endpoint
// are reachable without a device session.
func (h *Handler) Router() http.Handler {
	r := mux.NewRouter()
	r.Use(h.recoveryMiddleware)

	r.HandleFunc("/healthz", h.Health).Methods(http.MethodGet)
	r.HandleFunc("/stock-webhook", h.Webhook).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/devices/register", h.RegisterDevice).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/admin-pin", h.AdminPin).Methods(http.MethodPost)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(h.authMiddleware)
	api.HandleFunc("/items", h.ListItems).Methods(http.MethodGet)
	api.HandleFunc("/items/{id}", h.UpsertItem).Methods(http.MethodPut)
	api.HandleFunc("/items/{id}", h.DeleteItem).Methods(http.MethodDelete)
	api.HandleFunc("/movements", h.ListMovements).Methods(http.MethodGet)
	api.HandleFunc("/movements/{id}", h.UpsertMovement).Methods(http.MethodPut)
	api.HandleFunc("/device-users", h.ListDeviceUsers).Methods(http.MethodGet)
	api.HandleFunc("/device-users/{id}", h.UpsertDeviceUser).Methods(http.MethodPut)
	api.HandleFunc("/categories", h.ListCategories).Methods(http.MethodGet)
	api.HandleFunc("/images/presign", h.PresignImage).Methods(http.MethodPost)

	return r
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
