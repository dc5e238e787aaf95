package config

import "time"

// Config holds runtime settings for the InternPortal CLI.
//
// Fields:
//   - ServerBaseURL: scheme://host:port of the backend HTTP API.
//   - RequestTimeout: upper bound for a single API call.
//   - SessionDir: directory (relative to the working directory) holding the
//     cached session.
type Config struct {
	ServerBaseURL  string
	RequestTimeout time.Duration
	SessionDir     string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://localhost:5000"
	c.RequestTimeout = 10 * time.Second
	c.SessionDir = ".internportal"
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
