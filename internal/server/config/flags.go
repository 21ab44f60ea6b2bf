package config

import (
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/gatekeeper/internal/flagx"
	"github.com/dmitrijs2005/gatekeeper/internal/timex"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags:
//
//	-a string            gRPC bind address (e.g., ":50051")
//	-w string            HTTP gateway bind address, "" disables it
//	-d string            PostgreSQL DSN
//	-s string            token HMAC secret key
//	-t duration          access token validity ("15m")
//	-r duration          refresh token validity ("7d")
//	-k duration          registration key validity ("24h")
//	-l string            registration link base URL
//	-b int               bcrypt cost
//	-cookie-secure=bool  mark the refresh cookie Secure
//	-log-level string    debug, info, warn or error
//
// Only these flags are taken from args (see flagx.FilterArgs), so -c/-config
// and flags of other components do not collide.
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-w", "-d", "-s", "-t", "-r", "-k", "-l", "-b", "-cookie-secure", "-log-level"})

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "gRPC address and port")
	fs.StringVar(&config.EndpointAddrHTTP, "w", config.EndpointAddrHTTP, "HTTP gateway address and port")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	durationVar(fs, &config.AccessTokenValidityDuration, "t", "access token validity")
	durationVar(fs, &config.RefreshTokenValidityDuration, "r", "refresh token validity")
	durationVar(fs, &config.RegistrationKeyValidityDuration, "k", "registration key validity")
	fs.StringVar(&config.RegistrationLinkBaseURL, "l", config.RegistrationLinkBaseURL, "registration link base URL")
	fs.IntVar(&config.BcryptCost, "b", config.BcryptCost, "bcrypt cost")
	fs.BoolVar(&config.SecureCookie, "cookie-secure", config.SecureCookie, "secure refresh cookie")
	fs.StringVar(&config.LogLevel, "log-level", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}
	return nil
}

func durationVar(fs *flag.FlagSet, p *time.Duration, name, usage string) {
	fs.Func(name, usage+` (e.g. "15m", "7d")`, func(s string) error {
		d, err := timex.ParseDuration(s)
		if err != nil {
			return err
		}
		*p = d
		return nil
	})
}
