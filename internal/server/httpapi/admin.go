package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/dverbovy/tabstock/internal/common"
	"github.com/dverbovy/tabstock/internal/server/auth"
	"github.com/dverbovy/tabstock/internal/wire"
)

// AdminPin handles both halves of the PIN flow: "verify" exchanges the raw
// PIN for a 24 h self-contained token, "validate" re-checks an issued token.
// There is no server-side session state behind either.
func (h *Handler) AdminPin(w http.ResponseWriter, r *http.Request) {
	if h.config.AdminPinDigest == "" {
		writeError(w, http.StatusServiceUnavailable, wire.CodeNotConfigured, "admin pin not configured")
		return
	}

	var req wire.AdminPinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, wire.CodeValidation, "invalid JSON")
		return
	}

	switch req.Action {
	case "verify":
		if !auth.VerifyPin(req.Pin, []byte(h.config.AdminPinSalt), h.config.AdminPinDigest) {
			writeError(w, http.StatusUnauthorized, wire.CodeUnauthorized, "wrong pin")
			return
		}
		token := auth.IssueAdminToken([]byte(h.config.SecretKey), time.Now())
		writeJSON(w, http.StatusOK, wire.AdminPinResponse{Valid: true, Token: token})

	case "validate":
		err := auth.ValidateAdminToken([]byte(h.config.SecretKey), req.Token, time.Now())
		if errors.Is(err, common.ErrInvalidToken) || errors.Is(err, common.ErrTokenExpired) {
			writeJSON(w, http.StatusOK, wire.AdminPinResponse{Valid: false})
			return
		}
		writeJSON(w, http.StatusOK, wire.AdminPinResponse{Valid: true})

	default:
		writeError(w, http.StatusBadRequest, wire.CodeValidation, "action must be verify or validate")
	}
}
