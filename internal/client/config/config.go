// Package config assembles runtime settings for the ProConnect CLI.
// Sources are overlaid in order: defaults, JSON file (-c/-config),
// environment variables, command-line flags. Later sources win.
package config

import "time"

// Config holds runtime settings for the client.
type Config struct {
	// ServerEndpointAddr is the backend base URL, e.g. http://localhost:5000.
	ServerEndpointAddr string
	// DataDir holds the local state database and downloaded media.
	// Empty means the per-user default directory.
	DataDir string
	// RequestTimeout bounds every API call.
	RequestTimeout time.Duration
	// OnlineCheckInterval is how often the client probes server reachability.
	OnlineCheckInterval time.Duration
	// FeedPageSize is the number of posts revealed per pagination step.
	FeedPageSize int
	// SearchDebounce is the delay between a filter change and the feed
	// pipeline re-run.
	SearchDebounce time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "http://localhost:5000"
	c.DataDir = ""
	c.RequestTimeout = 30 * time.Second
	c.OnlineCheckInterval = 15 * time.Second
	c.FeedPageSize = 10
	c.SearchDebounce = 500 * time.Millisecond
}

// LoadConfig constructs a Config, applies defaults, then overlays JSON,
// environment, and flag values in that order.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJSON(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
