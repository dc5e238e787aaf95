package config

import (
	"flag"
	"os"
	"strings"
	"time"

	"github.com/dmitrijs2005/internportal/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base URL of the backend server (default from Config)
//	-t int      request timeout in seconds (default from Config)
//	-s string   session directory (default from Config)
//
// Note: The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	// Filter args to include only those handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-t", "-s"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerBaseURL, "a", cfg.ServerBaseURL, "base URL of the server")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.SessionDir, "s", cfg.SessionDir, "session directory")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.ServerBaseURL = strings.TrimRight(cfg.ServerBaseURL, "/")
	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
}
