package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/dverbovy/tabstock/internal/common"
	"github.com/dverbovy/tabstock/internal/device/models"
	"github.com/dverbovy/tabstock/internal/device/services"
	"github.com/dverbovy/tabstock/internal/netx"
)

func (a *App) list(ctx context.Context) {
	items, err := a.store.Items(a.store.DB()).GetAll(ctx)
	if err != nil {
		a.logger.Error(ctx, "list failed", "error", err)
		return
	}
	for _, item := range items {
		marker := ""
		if item.CurrentQuantity < 0 {
			marker = " [NEGATIVE]"
		} else if item.CurrentQuantity <= item.LowStockThreshold {
			marker = " [LOW]"
		}
		printlnFn(fmt.Sprintf("%s  %-20s sku=%s qty=%d%s", item.ID, item.Name, item.SKU, item.CurrentQuantity, marker))
	}
}

func (a *App) show(ctx context.Context, id string) {
	item, err := a.store.Items(a.store.DB()).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			printlnFn("No such item:", id)
			return
		}
		a.logger.Error(ctx, "show failed", "error", err)
		return
	}

	printlnFn(fmt.Sprintf("%s (sku=%s) qty=%d condition=%s threshold=%d",
		item.Name, item.SKU, item.CurrentQuantity, item.Condition, item.LowStockThreshold))

	movements, err := a.store.Movements(a.store.DB()).GetByItemID(ctx, id)
	if err != nil {
		a.logger.Error(ctx, "movement history failed", "error", err)
		return
	}
	for cond, qty := range models.ConditionBreakdown(movements) {
		printlnFn(fmt.Sprintf("  %s: %d", cond, qty))
	}
}

func (a *App) addItem(ctx context.Context) {
	name, err := GetSimpleText(a.reader, "Item name", os.Stdout)
	if err != nil {
		return
	}
	sku, err := GetSimpleText(a.reader, "SKU", os.Stdout)
	if err != nil {
		return
	}
	qtyText, err := GetSimpleText(a.reader, "Initial quantity", os.Stdout)
	if err != nil {
		return
	}
	qty, err := strconv.ParseInt(qtyText, 10, 64)
	if err != nil {
		printlnFn("Quantity must be a number")
		return
	}

	item, err := a.inv.AddItem(ctx, services.ItemDraft{Name: name, SKU: sku, InitialQuantity: qty})
	if err != nil {
		a.logger.Error(ctx, "add item failed", "error", err)
		return
	}
	if qty > 0 {
		if _, err := a.inv.AddStockMovement(ctx, item.ID, qty, models.MovementAdd, services.MovementOptions{}); err != nil {
			a.logger.Error(ctx, "initial movement failed", "error", err)
		}
	}
	printlnFn("Created item", item.ID)
}

func (a *App) adjustStock(ctx context.Context, id, direction, qtyText string) {
	qty, err := strconv.ParseInt(qtyText, 10, 64)
	if err != nil {
		printlnFn("Quantity must be a number")
		return
	}

	var mt models.MovementType
	switch direction {
	case "add":
		mt = models.MovementAdd
	case "remove":
		mt = models.MovementRemove
	default:
		printlnFn("Direction must be add or remove")
		return
	}

	item, err := a.inv.UpdateQuantity(ctx, id, qty, mt, services.MovementOptions{})
	if err != nil {
		if errors.Is(err, common.ErrValidation) {
			printlnFn("Quantity must be positive")
			return
		}
		a.logger.Error(ctx, "stock adjustment failed", "error", err)
		return
	}
	if item == nil {
		printlnFn("No such item:", id)
		return
	}
	printlnFn(fmt.Sprintf("%s qty=%d", item.Name, item.CurrentQuantity))
	if item.CurrentQuantity < 0 {
		printlnFn("Warning: quantity went negative, check physical stock")
	}
}

func (a *App) listUsers(ctx context.Context) {
	users, err := a.store.DeviceUsers(a.store.DB()).GetAll(ctx)
	if err != nil {
		a.logger.Error(ctx, "users failed", "error", err)
		return
	}
	for _, u := range users {
		printlnFn(fmt.Sprintf("%s  %s", u.ID, u.Name))
	}
}

func (a *App) addUser(ctx context.Context) {
	name, err := GetSimpleText(a.reader, "User name", os.Stdout)
	if err != nil {
		return
	}
	u, err := a.inv.AddDeviceUser(ctx, name)
	if err != nil {
		a.logger.Error(ctx, "add user failed", "error", err)
		return
	}
	printlnFn("Created user", u.ID)
}

// attachImage asks the server for a presigned PUT URL, uploads the file and
// stores the resulting key on the item. Requires connectivity.
func (a *App) attachImage(ctx context.Context, id string) {
	if !a.state.Online() {
		printlnFn("Image upload needs the server; try again when online")
		return
	}

	path, err := GetSimpleText(a.reader, "Image file path", os.Stdout)
	if err != nil {
		return
	}
	data, err := os.ReadFile(path)
	if err != nil {
		printlnFn("Cannot read file:", err.Error())
		return
	}

	key, url, err := a.remote.PresignImage(ctx, id)
	if err != nil {
		a.logger.Error(ctx, "presign failed", "error", err)
		return
	}
	if err := netx.UploadToPresignedURL(ctx, url, data); err != nil {
		a.logger.Error(ctx, "upload failed", "error", err)
		return
	}

	if _, err := a.inv.UpdateItem(ctx, id, services.ItemUpdate{ImageURL: &key}); err != nil {
		a.logger.Error(ctx, "saving image key failed", "error", err)
		return
	}
	printlnFn("Image stored under", key)
}

// deleteItem is PIN-gated when the server is reachable. Offline deletions
// proceed; the device owner holds the tablet.
func (a *App) deleteItem(ctx context.Context, id string) {
	if a.state.Online() {
		pin, err := GetPIN(os.Stdout)
		if err != nil {
			return
		}
		if _, err := a.remote.VerifyAdminPin(ctx, pin); err != nil {
			if errors.Is(err, common.ErrUnauthorized) {
				printlnFn("Wrong PIN")
				return
			}
			a.logger.Error(ctx, "pin verification failed", "error", err)
			return
		}
	}

	if err := a.inv.DeleteItem(ctx, id); err != nil {
		a.logger.Error(ctx, "delete failed", "error", err)
		return
	}
	printlnFn("Deleted", id)
}

func (a *App) register(ctx context.Context) {
	deviceID, err := a.remote.Register(ctx, a.config.DeviceName)
	if err != nil {
		a.logger.Error(ctx, "registration failed", "error", err)
		return
	}
	a.deviceID = deviceID
	printlnFn("Registered as", deviceID)
}

func (a *App) sync(ctx context.Context) {
	if err := a.engine.TriggerSync(ctx); err != nil {
		a.logger.Error(ctx, "sync failed", "error", err)
		return
	}
	printlnFn("Sync done")
}

func (a *App) status(ctx context.Context) {
	pending, err := a.store.Queue(a.store.DB()).GetUnsynced(ctx)
	if err != nil {
		a.logger.Error(ctx, "status failed", "error", err)
		return
	}
	poisoned, err := a.store.Queue(a.store.DB()).ListPoisoned(ctx)
	if err != nil {
		a.logger.Error(ctx, "status failed", "error", err)
		return
	}
	printlnFn(fmt.Sprintf("mode=%s pending=%d poisoned=%d syncing=%v",
		a.getStatus(), len(pending), len(poisoned), a.state.InProgress()))
}

func (a *App) poisoned(ctx context.Context) {
	entries, err := a.engine.ListPoisoned(ctx)
	if err != nil {
		a.logger.Error(ctx, "poisoned failed", "error", err)
		return
	}
	if len(entries) == 0 {
		printlnFn("No poisoned entries")
		return
	}
	for _, e := range entries {
		printlnFn(fmt.Sprintf("#%d %s %s record=%s attempts=%d", e.ID, e.Table, e.Action, e.RecordID, e.Attempts))
	}
}
