package config

import (
	"flag"
	"os"
	"time"

	"github.com/dpetrovs/proconnect/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags:
//
//	-a string   backend base URL
//	-d string   data directory
//	-i int      online check interval in seconds
//
// Arguments are pre-filtered so flags owned by other packages (like the
// config-file flags) do not interfere.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-i"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "backend base URL")
	fs.StringVar(&cfg.DataDir, "d", cfg.DataDir, "data directory")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
}
