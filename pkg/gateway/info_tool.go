package gateway

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Info describes the running gateway to clients.
type Info struct {
	Name        string   `json:"name"`
	Version     string   `json:"version"`
	Description string   `json:"description,omitempty"`
	Tools       []string `json:"tools"`
	Features    Features `json:"features"`
}

// Features describes enabled gateway features.
type Features struct {
	RemoteInstructions bool `json:"remote_instructions"`
	ReadOnly           bool `json:"read_only"`
}

type gatewayInfoInput struct{}

// registerInfoTool registers the gateway_info tool.
func (g *Gateway) registerInfoTool() {
	mcp.AddTool(g.mcpServer, &mcp.Tool{
		Name: "gateway_info",
		Description: "Get information about this gateway: its name, available tools, and " +
			"enabled features. Call this first to understand what capabilities are available.",
	}, func(_ context.Context, _ *mcp.CallToolRequest, _ gatewayInfoInput) (*mcp.CallToolResult, any, error) {
		return g.handleInfo()
	})
}

func (g *Gateway) handleInfo() (*mcp.CallToolResult, any, error) {
	info := Info{
		Name:        g.config.Server.Name,
		Version:     g.config.Server.Version,
		Description: g.config.Server.Description,
		Tools:       append(g.toolkit.Tools(), "gateway_info"),
		Features: Features{
			RemoteInstructions: g.config.Instructions.Remote.BaseURL != "",
			ReadOnly:           g.config.Tools.ReadOnly,
		},
	}

	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: "Error: " + err.Error()}},
			IsError: true,
		}, nil, nil
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
	}, nil, nil
}
