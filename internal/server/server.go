// Package server provides factories for building the gateway from a config
// file or from the environment.
package server

import (
	"fmt"
	"os"
	"time"

	"github.com/dbfabric/mcp-connect-gateway/pkg/connect"
	"github.com/dbfabric/mcp-connect-gateway/pkg/gateway"
	"github.com/dbfabric/mcp-connect-gateway/pkg/instructions"
)

// Version is set at build time.
var Version = "dev"

// NewWithConfig builds a gateway from a YAML configuration file.
func NewWithConfig(path string) (*gateway.Gateway, error) {
	cfg, err := gateway.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	return gateway.New(gateway.WithConfig(cfg))
}

// NewFromEnv builds a gateway from environment variables. This is the
// config-less startup path used by MCP clients that launch the binary over
// stdio.
func NewFromEnv() (*gateway.Gateway, error) {
	cfg, err := ConfigFromEnv()
	if err != nil {
		return nil, err
	}
	return gateway.New(gateway.WithConfig(cfg))
}

// ConfigFromEnv assembles a Config from CONNECT_* and INSTRUCTIONS_*
// environment variables.
func ConfigFromEnv() (*gateway.Config, error) {
	cfg := &gateway.Config{
		Connect: connect.Config{
			BaseURL: os.Getenv("CONNECT_BASE_URL"),
			User:    os.Getenv("CONNECT_USER"),
			Token:   os.Getenv("CONNECT_TOKEN"),
		},
		Instructions: gateway.InstructionsConfig{
			Remote: instructions.RemoteConfig{
				BaseURL: os.Getenv("INSTRUCTIONS_API_URL"),
				Token:   os.Getenv("INSTRUCTIONS_API_TOKEN"),
			},
		},
	}
	cfg.Server.Version = Version

	if raw := os.Getenv("INSTRUCTIONS_CACHE_TTL"); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("parsing INSTRUCTIONS_CACHE_TTL: %w", err)
		}
		cfg.Instructions.CacheTTL = ttl
	}

	gateway.ApplyDefaults(cfg)
	return cfg, nil
}
