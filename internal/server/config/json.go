package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/gatekeeper/internal/flagx"
	"github.com/dmitrijs2005/gatekeeper/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Durations use
// timex.Duration so both "15m"/"7d" strings and integer nanoseconds parse.
// Pointer fields distinguish "absent" from "zero".
type JsonConfig struct {
	EndpointAddrGRPC                *string         `json:"endpoint_addr_grpc"`
	EndpointAddrHTTP                *string         `json:"endpoint_addr_http"`
	DatabaseDSN                     *string         `json:"database_dsn"`
	SecretKey                       *string         `json:"secret_key"`
	AccessTokenValidityDuration     *timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration    *timex.Duration `json:"refresh_token_validity_duration"`
	RegistrationKeyValidityDuration *timex.Duration `json:"registration_key_validity_duration"`
	RegistrationLinkBaseURL         *string         `json:"registration_link_base_url"`
	BcryptCost                      *int            `json:"bcrypt_cost"`
	SecureCookie                    *bool           `json:"secure_cookie"`
	LogLevel                        *string         `json:"log_level"`
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// parseJson overlays the file named by -c/-config in args onto config. Keys
// missing from the file keep their current values. Without the flag nothing
// is read.
func parseJson(config *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(b, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	setIf(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setIf(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setIf(&config.DatabaseDSN, c.DatabaseDSN)
	setIf(&config.SecretKey, c.SecretKey)
	if c.AccessTokenValidityDuration != nil {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.RefreshTokenValidityDuration != nil {
		config.RefreshTokenValidityDuration = c.RefreshTokenValidityDuration.Duration
	}
	if c.RegistrationKeyValidityDuration != nil {
		config.RegistrationKeyValidityDuration = c.RegistrationKeyValidityDuration.Duration
	}
	setIf(&config.RegistrationLinkBaseURL, c.RegistrationLinkBaseURL)
	setIf(&config.BcryptCost, c.BcryptCost)
	setIf(&config.SecureCookie, c.SecureCookie)
	setIf(&config.LogLevel, c.LogLevel)

	return nil
}
