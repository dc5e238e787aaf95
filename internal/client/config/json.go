package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/internportal/internal/flagx"
	"github.com/dmitrijs2005/internportal/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Durations
// may be strings like "10s" or integer nanoseconds.
type JsonConfig struct {
	ServerBaseURL  string         `json:"server_base_url"`
	RequestTimeout timex.Duration `json:"request_timeout"`
	SessionDir     string         `json:"session_dir"`
}

// parseJson overlays Config with values from the file named by -c/-config.
// Keys missing from the file keep their current values. Read or decode
// errors panic.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.ConfigFile()
	if jsonConfigFile == "" {
		return
	}

	jc := JsonConfig{
		ServerBaseURL:  cfg.ServerBaseURL,
		RequestTimeout: timex.Duration{Duration: cfg.RequestTimeout},
		SessionDir:     cfg.SessionDir,
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	cfg.ServerBaseURL = jc.ServerBaseURL
	cfg.RequestTimeout = jc.RequestTimeout.Duration
	cfg.SessionDir = jc.SessionDir
}
