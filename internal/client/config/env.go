package config

import (
	"log"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// envConfig is a DTO for the environment overlay. Zero values mean "not
// set" and leave the Config untouched.
type envConfig struct {
	ServerEndpointAddr  string        `env:"PROCONNECT_SERVER_ADDR"`
	DataDir             string        `env:"PROCONNECT_DATA_DIR"`
	RequestTimeout      time.Duration `env:"PROCONNECT_REQUEST_TIMEOUT"`
	OnlineCheckInterval time.Duration `env:"PROCONNECT_ONLINE_CHECK_INTERVAL"`
	FeedPageSize        int           `env:"PROCONNECT_FEED_PAGE_SIZE"`
	SearchDebounce      time.Duration `env:"PROCONNECT_SEARCH_DEBOUNCE"`
}

func parseEnv(cfg *Config) {
	var ec envConfig
	if err := cleanenv.ReadEnv(&ec); err != nil {
		log.Printf("reading environment config: %v", err)
		return
	}

	if ec.ServerEndpointAddr != "" {
		cfg.ServerEndpointAddr = ec.ServerEndpointAddr
	}
	if ec.DataDir != "" {
		cfg.DataDir = ec.DataDir
	}
	if ec.RequestTimeout > 0 {
		cfg.RequestTimeout = ec.RequestTimeout
	}
	if ec.OnlineCheckInterval > 0 {
		cfg.OnlineCheckInterval = ec.OnlineCheckInterval
	}
	if ec.FeedPageSize > 0 {
		cfg.FeedPageSize = ec.FeedPageSize
	}
	if ec.SearchDebounce > 0 {
		cfg.SearchDebounce = ec.SearchDebounce
	}
}
