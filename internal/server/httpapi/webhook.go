package httpapi

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/dverbovy/tabstock/internal/common"
	"github.com/dverbovy/tabstock/internal/server/services"
	"github.com/dverbovy/tabstock/internal/wire"
)

// replayWindow bounds how old (or how far in the future) a webhook timestamp
// may be before the request is rejected.
const replayWindow = 5 * time.Minute

type webhookRequest struct {
	Action    string  `json:"action" validate:"required,oneof=incoming add remove"`
	ItemName  string  `json:"item_name" validate:"required_unless=Action incoming"`
	SKU       string  `json:"sku" validate:"required_unless=Action incoming"`
	Amount    int64   `json:"amount" validate:"required_unless=Action incoming,omitempty,gt=0"`
	Condition *string `json:"condition" validate:"omitempty,oneof=new good damaged broken"`
}

type webhookResponse struct {
	Status         string         `json:"status"`
	Message        string         `json:"message,omitempty"`
	Item           *wire.Item     `json:"item,omitempty"`
	Movement       *wire.Movement `json:"movement,omitempty"`
	QuantityBefore int64          `json:"quantity_before"`
	QuantityAfter  int64          `json:"quantity_after"`
}

// verifySignature checks the two webhook headers against the shared secret.
// The signature is HMAC-SHA256 over "<timestamp>.<body>", hex encoded, and
// is compared in constant time.
func (h *Handler) verifySignature(r *http.Request, body []byte) error {
	signature := r.Header.Get(common.WebhookSignatureHeader)
	timestamp := r.Header.Get(common.WebhookTimestampHeader)
	if signature == "" || timestamp == "" {
		return common.ErrBadSignature
	}

	ms, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return common.ErrBadSignature
	}
	age := time.Since(time.UnixMilli(ms))
	if age > replayWindow || age < -replayWindow {
		return common.ErrReplayWindow
	}

	mac := hmac.New(sha256.New, []byte(h.config.WebhookSecret))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return common.ErrBadSignature
	}
	return nil
}

// Webhook is the signed stock intake endpoint. It fails closed with 503 when
// no secret is configured. The "incoming" action stages nothing server-side;
// it acknowledges receipt and waits for a human-confirmed add/remove call.
func (h *Handler) Webhook(w http.ResponseWriter, r *http.Request) {
	if h.config.WebhookSecret == "" {
		writeError(w, http.StatusServiceUnavailable, wire.CodeNotConfigured, "webhook secret not configured")
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, wire.CodeValidation, "cannot read body")
		return
	}

	if err := h.verifySignature(r, body); err != nil {
		h.logger.Warn(r.Context(), "webhook rejected", "reason", err.Error(), "remote_addr", r.RemoteAddr)
		writeError(w, http.StatusUnauthorized, wire.CodeUnauthorized, err.Error())
		return
	}

	var req webhookRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, wire.CodeValidation, "invalid JSON")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, wire.CodeValidation, err.Error())
		return
	}

	if req.Action == "incoming" {
		writeJSON(w, http.StatusOK, webhookResponse{
			Status:  "pending",
			Message: "stock change staged, requires confirmation",
		})
		return
	}

	result, err := h.inventory.ApplyStockChange(r.Context(), services.StockChange{
		Action:    req.Action,
		ItemName:  req.ItemName,
		SKU:       req.SKU,
		Amount:    req.Amount,
		Condition: req.Condition,
	})
	if err != nil {
		h.logger.Error(r.Context(), "webhook mutation failed", "sku", req.SKU, "error", err)
		writeServiceError(w, err)
		return
	}

	status := http.StatusOK
	respStatus := "applied"
	if result.Created {
		status = http.StatusCreated
		respStatus = "created"
	}

	item := itemToWire(result.Item)
	movement := movementToWire(result.Movement)
	writeJSON(w, status, webhookResponse{
		Status:         respStatus,
		Item:           &item,
		Movement:       &movement,
		QuantityBefore: result.QuantityBefore,
		QuantityAfter:  result.QuantityAfter,
	})
}
