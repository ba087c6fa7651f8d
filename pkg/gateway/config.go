// Package gateway assembles the MCP server: configuration, the cloud data
// client, the instruction resolver, the toolkit, and lifecycle management.
package gateway

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dbfabric/mcp-connect-gateway/pkg/connect"
	"github.com/dbfabric/mcp-connect-gateway/pkg/instructions"
	toolkitconnect "github.com/dbfabric/mcp-connect-gateway/pkg/toolkits/connect"
)

// Config holds the complete gateway configuration.
type Config struct {
	Server       ServerConfig          `yaml:"server"`
	Connect      connect.Config        `yaml:"connect"`
	Instructions InstructionsConfig    `yaml:"instructions"`
	Tools        toolkitconnect.Config `yaml:"tools"`
	Auth         AuthConfig            `yaml:"auth"`
}

// ServerConfig configures the MCP server.
type ServerConfig struct {
	Name        string `yaml:"name"`
	Version     string `yaml:"version"`
	Description string `yaml:"description"`
	Transport   string `yaml:"transport"` // "stdio", "http"
	Address     string `yaml:"address"`
}

// InstructionsConfig configures the driver-instruction resolver.
type InstructionsConfig struct {
	Remote        instructions.RemoteConfig `yaml:"remote"`
	CacheTTL      time.Duration             `yaml:"cache_ttl"`
	GenericTTL    time.Duration             `yaml:"generic_ttl"`
	SweepInterval time.Duration             `yaml:"sweep_interval"`
}

// AuthConfig configures authentication for the HTTP transport. The stdio
// transport inherits the credentials of the process and needs none.
type AuthConfig struct {
	Required bool        `yaml:"required"`
	JWT      JWTConfig   `yaml:"jwt"`
	APIKeys  []APIKeyDef `yaml:"api_keys"`
}

// JWTConfig configures bearer-token claim extraction.
type JWTConfig struct {
	Secret string `yaml:"secret"` // HMAC secret; empty disables verification
}

// APIKeyDef defines one accepted API key. Either Key (plaintext) or KeyHash
// (bcrypt) is set.
type APIKeyDef struct {
	Name    string `yaml:"name"`
	Key     string `yaml:"key"`
	KeyHash string `yaml:"key_hash"`
}

// LoadConfig loads configuration from a file. The path comes from command
// line arguments, controlled by the administrator.
func LoadConfig(path string) (*Config, error) {
	// #nosec G304 -- path is from CLI args, controlled by admin
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	data = []byte(expandEnvVars(string(data)))

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	ApplyDefaults(&cfg)
	return &cfg, nil
}

// expandEnvVars expands ${VAR} patterns in the string.
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)
	return re.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[2 : len(match)-1]
		return os.Getenv(varName)
	})
}

// ApplyDefaults fills in zero-valued settings with their defaults.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Name == "" {
		cfg.Server.Name = "mcp-connect-gateway"
	}
	if cfg.Server.Version == "" {
		cfg.Server.Version = "1.0.0"
	}
	if cfg.Server.Transport == "" {
		cfg.Server.Transport = "stdio"
	}
	if cfg.Server.Address == "" {
		cfg.Server.Address = ":8080"
	}
	if cfg.Instructions.CacheTTL == 0 {
		cfg.Instructions.CacheTTL = instructions.DefaultTTL
	}
	if cfg.Instructions.GenericTTL == 0 {
		cfg.Instructions.GenericTTL = instructions.GenericTTL
	}
	if cfg.Instructions.SweepInterval == 0 {
		cfg.Instructions.SweepInterval = instructions.DefaultSweepInterval
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	var errs []string

	if c.Connect.BaseURL == "" {
		errs = append(errs, "connect.base_url is required")
	}
	if c.Connect.Token == "" {
		errs = append(errs, "connect.token is required")
	}
	switch c.Server.Transport {
	case "stdio", "http":
	default:
		errs = append(errs, fmt.Sprintf("server.transport must be stdio or http, got %q", c.Server.Transport))
	}
	for i, key := range c.Auth.APIKeys {
		if key.Key == "" && key.KeyHash == "" {
			errs = append(errs, fmt.Sprintf("auth.api_keys[%d] needs key or key_hash", i))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation errors: %s", strings.Join(errs, "; "))
	}
	return nil
}
