package config

import (
	"fmt"
	"reflect"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/dmitrijs2005/gatekeeper/internal/timex"
)

// EnvPrefix is prepended to every variable name in the Config env tags.
const EnvPrefix = "GATEKEEPER_"

// parseEnv overlays set GATEKEEPER_* variables onto config. Unset variables
// leave fields untouched. Durations accept the day suffix ("7d").
func parseEnv(config *Config) error {
	opts := env.Options{
		Prefix: EnvPrefix,
		FuncMap: map[reflect.Type]env.ParserFunc{
			reflect.TypeOf(time.Duration(0)): func(v string) (any, error) {
				return timex.ParseDuration(v)
			},
		},
	}
	if err := env.ParseWithOptions(config, opts); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
