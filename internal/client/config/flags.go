package config

import (
	"flag"
	"fmt"
	"io"

	"github.com/dmitrijs2005/gatekeeper/internal/flagx"
	"github.com/dmitrijs2005/gatekeeper/internal/timex"
)

// parseFlags populates Config fields from the -a, -u and -t flags of args.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-u", "-t"})

	fs := flag.NewFlagSet("cli", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port to access server")
	fs.StringVar(&cfg.UserAgent, "u", cfg.UserAgent, "user agent (device key)")
	fs.Func("t", "request timeout", func(s string) error {
		d, err := timex.ParseDuration(s)
		if err != nil {
			return err
		}
		cfg.RequestTimeout = d
		return nil
	})

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}
	return nil
}
