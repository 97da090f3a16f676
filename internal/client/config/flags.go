package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/gophvault/internal/flagx"
)

// Flags lists the value-taking flags owned by this package, including the
// JSON config selectors.
var Flags = []string{"-a", "-t", "-s", "-c", "-config"}

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   address and port of the backend server
//	-t string   access token
//	-s string   local state database path
//
// os.Args is filtered with flagx.FilterArgs first so that subcommand
// arguments and their flags do not interfere.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-t", "-s"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port to access server")
	fs.StringVar(&cfg.AccessToken, "t", cfg.AccessToken, "access token")
	fs.StringVar(&cfg.StateFile, "s", cfg.StateFile, "local state database")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
