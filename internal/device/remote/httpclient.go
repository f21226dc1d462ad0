package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/dverbovy/tabstock/internal/common"
	"github.com/dverbovy/tabstock/internal/device/models"
	"github.com/dverbovy/tabstock/internal/wire"
)

// HTTPClient talks JSON over HTTP to the server's sync API. The access token
// obtained by Register is attached as a bearer token to every later call.
type HTTPClient struct {
	baseURL     string
	http        *http.Client
	accessToken string
}

func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// decodeError maps the server's structured error body onto sentinel errors.
func decodeError(resp *http.Response) error {
	var body wire.ErrorBody
	raw, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(raw, &body); err != nil {
		return fmt.Errorf("server returned %s: %s", resp.Status, string(raw))
	}
	switch body.Code {
	case wire.CodeNotFound:
		return common.ErrNotFound
	case wire.CodeSKUConflict:
		return common.ErrSKUConflict
	case wire.CodeUnauthorized:
		return common.ErrUnauthorized
	case wire.CodeFKViolation:
		return &common.ForeignKeyError{Column: body.Column}
	default:
		return fmt.Errorf("server error (%s): %s", resp.Status, body.Error)
	}
}

func (c *HTTPClient) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.accessToken != "" {
		req.Header.Set(common.AccessTokenHeaderName, "Bearer "+c.accessToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return c.do(ctx, http.MethodGet, "/healthz", nil, nil)
}

func (c *HTTPClient) Register(ctx context.Context, deviceName string) (string, error) {
	var resp wire.RegisterDeviceResponse
	err := c.do(ctx, http.MethodPost, "/api/v1/devices/register",
		&wire.RegisterDeviceRequest{DeviceName: deviceName}, &resp)
	if err != nil {
		return "", err
	}
	c.accessToken = resp.AccessToken
	return resp.DeviceID, nil
}

func (c *HTTPClient) UpsertItem(ctx context.Context, item *models.InventoryItem) error {
	return c.do(ctx, http.MethodPut, "/api/v1/items/"+url.PathEscape(item.ID), itemToWire(item), nil)
}

func (c *HTTPClient) DeleteItem(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/items/"+url.PathEscape(id), nil, nil)
}

func (c *HTTPClient) ListItems(ctx context.Context) ([]models.InventoryItem, error) {
	var ws []wire.Item
	if err := c.do(ctx, http.MethodGet, "/api/v1/items", nil, &ws); err != nil {
		return nil, err
	}
	result := make([]models.InventoryItem, 0, len(ws))
	for i := range ws {
		result = append(result, itemFromWire(&ws[i]))
	}
	return result, nil
}

func (c *HTTPClient) UpsertMovement(ctx context.Context, m *models.StockMovement) error {
	return c.do(ctx, http.MethodPut, "/api/v1/movements/"+url.PathEscape(m.ID), movementToWire(m), nil)
}

func (c *HTTPClient) ListMovements(ctx context.Context) ([]models.StockMovement, error) {
	var ws []wire.Movement
	if err := c.do(ctx, http.MethodGet, "/api/v1/movements", nil, &ws); err != nil {
		return nil, err
	}
	result := make([]models.StockMovement, 0, len(ws))
	for i := range ws {
		result = append(result, movementFromWire(&ws[i]))
	}
	return result, nil
}

func (c *HTTPClient) UpsertDeviceUser(ctx context.Context, u *models.DeviceUser) error {
	return c.do(ctx, http.MethodPut, "/api/v1/device-users/"+url.PathEscape(u.ID), deviceUserToWire(u), nil)
}

func (c *HTTPClient) ListDeviceUsers(ctx context.Context) ([]models.DeviceUser, error) {
	var ws []wire.DeviceUser
	if err := c.do(ctx, http.MethodGet, "/api/v1/device-users", nil, &ws); err != nil {
		return nil, err
	}
	result := make([]models.DeviceUser, 0, len(ws))
	for i := range ws {
		result = append(result, deviceUserFromWire(&ws[i]))
	}
	return result, nil
}

func (c *HTTPClient) ListCategories(ctx context.Context) ([]wire.Category, error) {
	var ws []wire.Category
	if err := c.do(ctx, http.MethodGet, "/api/v1/categories", nil, &ws); err != nil {
		return nil, err
	}
	return ws, nil
}

// VerifyAdminPin exchanges the raw admin PIN for a short-lived token.
// Returns common.ErrUnauthorized when the PIN is wrong.
func (c *HTTPClient) VerifyAdminPin(ctx context.Context, pin string) (string, error) {
	var resp wire.AdminPinResponse
	err := c.do(ctx, http.MethodPost, "/api/v1/admin-pin",
		&wire.AdminPinRequest{Action: "verify", Pin: pin}, &resp)
	if err != nil {
		return "", err
	}
	if !resp.Valid {
		return "", common.ErrUnauthorized
	}
	return resp.Token, nil
}

func (c *HTTPClient) PresignImage(ctx context.Context, itemID string) (string, string, error) {
	var resp wire.PresignResponse
	err := c.do(ctx, http.MethodPost, "/api/v1/images/presign",
		&wire.PresignRequest{ItemID: itemID}, &resp)
	if err != nil {
		return "", "", err
	}
	return resp.Key, resp.URL, nil
}
