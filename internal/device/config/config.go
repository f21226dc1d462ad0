package config

import "time"

// Config holds runtime settings for the tabstock agent.
//
// Fields:
//   - ServerEndpointAddr: base URL of the remote store API.
//   - DatabasePath: path to the local SQLite database file.
//   - DeviceName: name reported on device registration.
//   - OnlineCheckInterval: how often the agent probes server reachability.
//   - InitialSyncDelay: pause before the first sync attempt after startup.
type Config struct {
	ServerEndpointAddr  string
	DatabasePath        string
	DeviceName          string
	OnlineCheckInterval time.Duration
	InitialSyncDelay    time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "http://127.0.0.1:8080"
	c.DatabasePath = "tabstock.db"
	c.DeviceName = "tablet"
	c.OnlineCheckInterval = 3 * time.Second
	c.InitialSyncDelay = 2 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
