package config

import "time"

// Config holds runtime settings for the weynak CLI.
//
// Fields:
//   - ServerURL: base URL of the account API.
//   - RequestTimeout: upper bound for a single API call.
//   - OnlineCheckInterval: how often the client probes server reachability.
//   - SessionPath: SQLite file remembering the logged-in session.
type Config struct {
	ServerURL           string
	RequestTimeout      time.Duration
	OnlineCheckInterval time.Duration
	SessionPath         string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8900"
	c.RequestTimeout = 15 * time.Second
	c.OnlineCheckInterval = 3 * time.Second
	c.SessionPath = "weynak_session.db"
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
