package gateway

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/yosida95/uritemplate/v3"
)

// instructionsTemplateURI exposes driver instruction documents as MCP
// resources alongside the get_driver_instructions tool.
const instructionsTemplateURI = "instructions://{driver}"

// registerInstructionsResource registers the instructions resource template.
func (g *Gateway) registerInstructionsResource() {
	g.mcpServer.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: instructionsTemplateURI,
		Name:        "Driver Instructions",
		Description: "Driver-specific guidance for querying a data source: data model, query patterns, limitations",
		MIMEType:    "application/json",
	}, g.handleInstructionsResource)
}

// handleInstructionsResource resolves instructions for the driver named in
// the resource URI.
func (g *Gateway) handleInstructionsResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	uri := req.Params.URI

	vars, err := parseTemplateVars(instructionsTemplateURI, uri)
	if err != nil {
		return nil, mcp.ResourceNotFoundError(uri) //nolint:wrapcheck // MCP protocol error returned as-is for SDK type matching
	}
	driver := vars["driver"]
	if driver == "" {
		return nil, mcp.ResourceNotFoundError(uri) //nolint:wrapcheck // MCP protocol error returned as-is for SDK type matching
	}

	result, err := g.resolver.Resolve(ctx, driver, "")
	if err != nil {
		return nil, fmt.Errorf("resolving instructions resource %s: %w", uri, err)
	}

	data, err := json.MarshalIndent(result.Instructions, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling resource %s: %w", uri, err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{
				URI:      uri,
				MIMEType: "application/json",
				Text:     string(data),
			},
		},
	}, nil
}

// parseTemplateVars extracts named variables from a URI using a URI
// template. Returns an error if the URI does not match.
func parseTemplateVars(templateStr, uri string) (map[string]string, error) {
	tmpl, err := uritemplate.New(templateStr)
	if err != nil {
		return nil, fmt.Errorf("invalid template %q: %w", templateStr, err)
	}

	match := tmpl.Match(uri)
	if match == nil {
		return nil, fmt.Errorf("uri %q does not match template %q", uri, templateStr)
	}

	result := make(map[string]string)
	for _, name := range tmpl.Varnames() {
		result[name] = match.Get(name).String()
	}
	return result, nil
}
