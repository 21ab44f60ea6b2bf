// Package config loads runtime configuration for the Gatekeeper CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string     address:port of the gRPC endpoint
//	-u string     user agent sent to the server; it becomes the device key
//	-t duration   per-request timeout ("5s")
//
// # JSON schema
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "user_agent": "gatekeeper-cli/1.0 (laptop)",
//	  "request_timeout": "5s"
//	}
package config
