package config

import (
	"errors"
	"os"
	"time"
)

// DefaultUserAgent identifies the CLI when no -u is given. Two CLIs with the
// same user agent share one server session per account.
const DefaultUserAgent = "gatekeeper-cli/1.0"

// Config holds runtime settings for the Gatekeeper CLI.
type Config struct {
	ServerEndpointAddr string
	UserAgent          string
	RequestTimeout     time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.UserAgent = DefaultUserAgent
	c.RequestTimeout = 5 * time.Second
}

// LoadConfig applies defaults, then the JSON file, then flags.
func LoadConfig() (*Config, error) {
	return load(os.Args[1:])
}

func load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.ServerEndpointAddr == "" {
		errs = append(errs, errors.New("server endpoint address is empty"))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, errors.New("request timeout must be positive"))
	}
	return errors.Join(errs...)
}
