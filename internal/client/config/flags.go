package config

import (
	"flag"
	"os"

	"github.com/securoserv/securovault/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-b string   base URL of the vault API (default from Config)
//	-d string   path to the local sqlite database
//
// Only the flags handled here are parsed; flagx.FilterArgs keeps other
// components' flags (cobra's included) out of the flag set.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-b", "-d"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.BaseURL, "b", cfg.BaseURL, "base URL of the vault API")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path to the local database")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
