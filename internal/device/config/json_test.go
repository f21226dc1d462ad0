package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJson_OverlaysConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"server_endpoint_addr": "http://stock.example:9090",
		"database_path": "/tmp/agent.db",
		"device_name": "floor-tablet-2",
		"online_check_interval": "10s",
		"initial_sync_delay": "1s"
	}`), 0o600))

	oldArgs := os.Args
	os.Args = []string{"agent", "-c", path}
	defer func() { os.Args = oldArgs }()

	var cfg Config
	cfg.LoadDefaults()
	parseJson(&cfg)

	assert.Equal(t, "http://stock.example:9090", cfg.ServerEndpointAddr)
	assert.Equal(t, "/tmp/agent.db", cfg.DatabasePath)
	assert.Equal(t, "floor-tablet-2", cfg.DeviceName)
	assert.Equal(t, 10*time.Second, cfg.OnlineCheckInterval)
	assert.Equal(t, time.Second, cfg.InitialSyncDelay)
}

func TestParseJson_NoFileFlagLeavesDefaults(t *testing.T) {
	oldArgs := os.Args
	os.Args = []string{"agent"}
	defer func() { os.Args = oldArgs }()

	var cfg Config
	cfg.LoadDefaults()
	parseJson(&cfg)

	assert.Equal(t, "http://127.0.0.1:8080", cfg.ServerEndpointAddr)
}
