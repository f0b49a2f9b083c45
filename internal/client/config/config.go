package config

import "time"

// Config holds runtime settings for the sync client.
//
// Fields:
//   - ServerAddr: base URL of the backend HTTP API.
//   - DatabaseDSN: SQLite DSN of the local vault database.
//   - ProbeTimeout: per-request timeout of the reachability probe.
//
// Units: ProbeTimeout is a time.Duration (e.g., 2*time.Second).
type Config struct {
	ServerAddr   string
	DatabaseDSN  string
	ProbeTimeout time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerAddr = "http://127.0.0.1:8080"
	c.DatabaseDSN = "vaultsync.db"
	c.ProbeTimeout = 2 * time.Second
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
