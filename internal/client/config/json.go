package config

import (
	"encoding/json"
	"os"

	"github.com/dpetrovs/proconnect/internal/flagx"
	"github.com/dpetrovs/proconnect/internal/timex"
)

// jsonConfig is a DTO used only for JSON unmarshalling. timex.Duration lets
// intervals be written either as "500ms"-style strings or as integer
// nanoseconds. Absent fields leave the overlaid Config untouched.
type jsonConfig struct {
	ServerEndpointAddr  *string         `json:"server_endpoint_addr"`
	DataDir             *string         `json:"data_dir"`
	RequestTimeout      *timex.Duration `json:"request_timeout"`
	OnlineCheckInterval *timex.Duration `json:"online_check_interval"`
	FeedPageSize        *int            `json:"feed_page_size"`
	SearchDebounce      *timex.Duration `json:"search_debounce"`
}

// parseJSON overlays Config with values from the JSON file named by the
// -c/-config flag, when given. Read or parse failures panic; there is no
// sane way to continue with a config the user explicitly pointed at.
func parseJSON(cfg *Config) {
	jsonConfigFile := flagx.JSONConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	var jc jsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerEndpointAddr != nil {
		cfg.ServerEndpointAddr = *jc.ServerEndpointAddr
	}
	if jc.DataDir != nil {
		cfg.DataDir = *jc.DataDir
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.OnlineCheckInterval != nil {
		cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	}
	if jc.FeedPageSize != nil {
		cfg.FeedPageSize = *jc.FeedPageSize
	}
	if jc.SearchDebounce != nil {
		cfg.SearchDebounce = jc.SearchDebounce.Duration
	}
}
