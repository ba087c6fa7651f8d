package gateway

import (
	"log/slog"

	"github.com/dbfabric/mcp-connect-gateway/pkg/connect"
	"github.com/dbfabric/mcp-connect-gateway/pkg/instructions"
)

// Options holds optional dependencies for a Gateway.
type Options struct {
	Config   *Config
	Logger   *slog.Logger
	Client   *connect.Client
	Resolver *instructions.Resolver
}

// Option configures a Gateway.
type Option func(*Options)

// WithConfig sets the configuration. Required.
func WithConfig(cfg *Config) Option {
	return func(o *Options) { o.Config = cfg }
}

// WithLogger sets the logger. Defaults to slog.Default.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) { o.Logger = logger }
}

// WithClient injects a pre-built data client. Used by tests.
func WithClient(client *connect.Client) Option {
	return func(o *Options) { o.Client = client }
}

// WithResolver injects a pre-built instruction resolver. Used by tests.
func WithResolver(resolver *instructions.Resolver) Option {
	return func(o *Options) { o.Resolver = resolver }
}
