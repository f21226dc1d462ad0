package cli

import (
	"bufio"
	"context"
	"os"

	"github.com/dverbovy/tabstock/internal/device/config"
	"github.com/dverbovy/tabstock/internal/device/remote"
	"github.com/dverbovy/tabstock/internal/device/services"
	"github.com/dverbovy/tabstock/internal/device/store"
	"github.com/dverbovy/tabstock/internal/logging"

	_ "modernc.org/sqlite"
)

type App struct {
	config   *config.Config
	store    *store.Store
	remote   *remote.HTTPClient
	state    *services.SyncState
	inv      *services.InventoryService
	engine   *services.SyncEngine
	logger   logging.Logger
	reader   *bufio.Reader
	deviceID string
}

func NewApp(c *config.Config, logger logging.Logger) (*App, error) {
	ctx := context.Background()

	st, err := store.Open(ctx, c.DatabasePath)
	if err != nil {
		logger.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	rc := remote.NewHTTPClient(c.ServerEndpointAddr)
	state := services.NewSyncState()
	inv := services.NewInventoryService(st, rc, state, logger)
	engine := services.NewSyncEngine(st, rc, state, logger)

	a := &App{
		config: c,
		store:  st,
		remote: rc,
		state:  state,
		inv:    inv,
		engine: engine,
		logger: logger,
		reader: bufio.NewReader(os.Stdin),
	}

	// every local mutation nudges the engine; the engine itself decides
	// whether a drain is possible right now
	inv.OnMutation(func() {
		go func() { _ = engine.TriggerSync(context.Background()) }()
	})

	return a, nil
}

func (a *App) Run(ctx context.Context) {
	defer a.store.Close()

	go a.engine.StartOnlineWatcher(ctx, a.config.OnlineCheckInterval)
	go a.engine.StartInitialSync(ctx, a.config.InitialSyncDelay)

	a.Root(ctx)
}
