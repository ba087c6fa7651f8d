// Package main provides the entry point for the mcp-connect-gateway server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	mcpserver "github.com/dbfabric/mcp-connect-gateway/internal/server"
	"github.com/dbfabric/mcp-connect-gateway/pkg/gateway"
	"github.com/dbfabric/mcp-connect-gateway/pkg/httpmiddleware"
)

const shutdownGrace = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type serverOptions struct {
	configPath  string
	transport   string
	address     string
	showVersion bool
}

func parseFlags() serverOptions {
	opts := serverOptions{}
	flag.StringVar(&opts.configPath, "config", "", "Path to configuration file")
	flag.StringVar(&opts.transport, "transport", "", "Transport type: stdio, http (overrides config)")
	flag.StringVar(&opts.address, "address", "", "Listen address for HTTP transport (overrides config)")
	flag.BoolVar(&opts.showVersion, "version", false, "Show version and exit")
	flag.Parse()
	return opts
}

func setupSignalHandler() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()
	return ctx
}

func createGateway(opts serverOptions) (*gateway.Gateway, error) {
	if opts.configPath != "" {
		return mcpserver.NewWithConfig(opts.configPath)
	}
	return mcpserver.NewFromEnv()
}

// applyFlagOverrides lets -transport and -address win over the config file.
func applyFlagOverrides(g *gateway.Gateway, opts serverOptions) {
	if opts.transport != "" {
		g.Config().Server.Transport = opts.transport
	}
	if opts.address != "" {
		g.Config().Server.Address = opts.address
	}
}

func run() error {
	opts := parseFlags()

	if opts.showVersion {
		fmt.Printf("mcp-connect-gateway version %s\n", mcpserver.Version)
		return nil
	}

	ctx := setupSignalHandler()

	g, err := createGateway(opts)
	if err != nil {
		return fmt.Errorf("creating gateway: %w", err)
	}
	defer func() { _ = g.Close() }()

	applyFlagOverrides(g, opts)

	if err := g.Start(ctx); err != nil {
		return fmt.Errorf("starting gateway: %w", err)
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		_ = g.Stop(stopCtx)
	}()

	return serve(ctx, g)
}

func serve(ctx context.Context, g *gateway.Gateway) error {
	switch transport := g.Config().Server.Transport; transport {
	case "stdio":
		return serveStdio(ctx, g)
	case "http":
		return serveHTTP(ctx, g)
	default:
		return fmt.Errorf("unknown transport: %s", transport)
	}
}

func serveStdio(ctx context.Context, g *gateway.Gateway) error {
	if err := g.MCPServer().Run(ctx, &mcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("stdio transport: %w", err)
	}
	return nil
}

func serveHTTP(ctx context.Context, g *gateway.Gateway) error {
	mux := http.NewServeMux()
	g.Health().Attach(mux)

	handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return g.MCPServer()
	}, nil)

	authMiddleware := httpmiddleware.Auth(g.Authenticator(), g.Config().Auth.Required)
	mux.Handle("/mcp", corsMiddleware(authMiddleware(handler)))

	srv := &http.Server{
		Addr:              g.Config().Server.Address,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http transport: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down http server: %w", err)
	}
	return nil
}

// corsMiddleware handles cross-origin requests from browser-based MCP
// clients, including the MCP session headers.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if origin := r.Header.Get("Origin"); origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", strings.Join([]string{
				"Authorization",
				"Content-Type",
				"Mcp-Session-Id",
				"Mcp-Protocol-Version",
				"X-API-Key",
				"Last-Event-ID",
			}, ", "))
			w.Header().Set("Access-Control-Expose-Headers", "Mcp-Session-Id")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
