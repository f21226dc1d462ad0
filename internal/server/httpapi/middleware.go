package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/dverbovy/tabstock/internal/common"
	"github.com/dverbovy/tabstock/internal/server/auth"
	"github.com/dverbovy/tabstock/internal/wire"
)

type contextKey string

const deviceIDKey contextKey = "deviceID"

// DeviceID returns the authenticated device id stored by the auth middleware.
func DeviceID(ctx context.Context) string {
	id, _ := ctx.Value(deviceIDKey).(string)
	return id
}

func (h *Handler) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get(common.AccessTokenHeaderName)
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeError(w, http.StatusUnauthorized, wire.CodeUnauthorized, "missing bearer token")
			return
		}

		deviceID, err := auth.GetDeviceIDFromToken(token, []byte(h.config.SecretKey))
		if err != nil {
			writeError(w, http.StatusUnauthorized, wire.CodeUnauthorized, "invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), deviceIDKey, deviceID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// recoveryMiddleware converts panics into structured 500 responses.
func (h *Handler) recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				h.logger.Error(r.Context(), "panic in handler", "path", r.URL.Path, "panic", rec)
				writeError(w, http.StatusInternalServerError, wire.CodeInternal, "internal error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}
