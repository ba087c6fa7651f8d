package gateway

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/dbfabric/mcp-connect-gateway/pkg/connect"
	"github.com/dbfabric/mcp-connect-gateway/pkg/health"
	"github.com/dbfabric/mcp-connect-gateway/pkg/instructions"
	toolkitconnect "github.com/dbfabric/mcp-connect-gateway/pkg/toolkits/connect"
)

// Gateway is the main facade: it owns the MCP server, the data client, the
// instruction resolver, and their lifecycles.
type Gateway struct {
	config    *Config
	logger    *slog.Logger
	mcpServer *mcp.Server
	lifecycle *Lifecycle
	checker   *health.Checker

	client   *connect.Client
	resolver *instructions.Resolver
	toolkit  *toolkitconnect.Toolkit
}

// New creates a gateway instance from options.
func New(opts ...Option) (*Gateway, error) {
	options := &Options{}
	for _, opt := range opts {
		opt(options)
	}

	if options.Config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if err := options.Config.Validate(); err != nil {
		return nil, err
	}
	if options.Logger == nil {
		options.Logger = slog.Default()
	}

	g := &Gateway{
		config:    options.Config,
		logger:    options.Logger,
		lifecycle: NewLifecycle(),
		checker:   health.NewChecker(),
	}

	if err := g.initComponents(options); err != nil {
		return nil, fmt.Errorf("initializing components: %w", err)
	}
	g.finalizeSetup()
	return g, nil
}

// initComponents builds the data client, resolver, and toolkit.
func (g *Gateway) initComponents(opts *Options) error {
	var err error

	if opts.Client != nil {
		g.client = opts.Client
	} else if g.client, err = connect.New(g.config.Connect); err != nil {
		return fmt.Errorf("creating connect client: %w", err)
	}

	if opts.Resolver != nil {
		g.resolver = opts.Resolver
	} else {
		g.resolver = instructions.NewResolver(instructions.ResolverConfig{
			Cache:      instructions.NewCache(g.config.Instructions.CacheTTL),
			Remote:     instructions.NewRemoteSource(g.config.Instructions.Remote),
			Local:      instructions.NewLocalStore(),
			Logger:     g.logger,
			DefaultTTL: g.config.Instructions.CacheTTL,
			GenericTTL: g.config.Instructions.GenericTTL,
		})
	}

	g.toolkit, err = toolkitconnect.New("default", g.config.Tools, g.client, g.resolver)
	if err != nil {
		return fmt.Errorf("creating connect toolkit: %w", err)
	}
	return nil
}

// finalizeSetup builds the MCP server and registers the tool surface.
func (g *Gateway) finalizeSetup() {
	g.mcpServer = mcp.NewServer(&mcp.Implementation{
		Name:    g.config.Server.Name,
		Version: g.config.Server.Version,
	}, nil)

	g.toolkit.RegisterTools(g.mcpServer)
	g.registerInfoTool()
	g.registerInstructionsResource()

	g.lifecycle.OnStart(func(context.Context) error {
		g.resolver.Cache().StartSweepRoutine(g.config.Instructions.SweepInterval)
		return nil
	})
	g.lifecycle.OnStop(func(context.Context) error {
		return g.resolver.Cache().Close()
	})
}

// Start starts the gateway and flips the readiness state.
func (g *Gateway) Start(ctx context.Context) error {
	if err := g.lifecycle.Start(ctx); err != nil {
		return err
	}
	g.checker.SetReady()
	g.logger.Info("gateway started",
		"name", g.config.Server.Name,
		"transport", g.config.Server.Transport,
		"tools", len(g.toolkit.Tools()),
	)
	return nil
}

// Stop drains and stops the gateway.
func (g *Gateway) Stop(ctx context.Context) error {
	g.checker.SetDraining()
	return g.lifecycle.Stop(ctx)
}

// Close releases all gateway resources.
func (g *Gateway) Close() error {
	if err := g.toolkit.Close(); err != nil {
		return fmt.Errorf("closing toolkit: %w", err)
	}
	return nil
}

// MCPServer returns the MCP server.
func (g *Gateway) MCPServer() *mcp.Server {
	return g.mcpServer
}

// Config returns the gateway configuration.
func (g *Gateway) Config() *Config {
	return g.config
}

// Health returns the readiness checker for the HTTP transport.
func (g *Gateway) Health() *health.Checker {
	return g.checker
}

// Resolver returns the instruction resolver.
func (g *Gateway) Resolver() *instructions.Resolver {
	return g.resolver
}
