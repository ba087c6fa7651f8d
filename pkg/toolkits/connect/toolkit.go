// Package connect provides the MCP toolkit exposing the cloud data service:
// metadata listings, ad-hoc queries, stored procedures, and per-driver
// instruction documents.
package connect

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	connectclient "github.com/dbfabric/mcp-connect-gateway/pkg/connect"
	"github.com/dbfabric/mcp-connect-gateway/pkg/instructions"
)

// Tool names registered by this toolkit.
const (
	toolListCatalogs    = "list_catalogs"
	toolListSchemas     = "list_schemas"
	toolListTables      = "list_tables"
	toolListColumns     = "list_columns"
	toolListProcedures  = "list_procedures"
	toolRunQuery        = "run_query"
	toolExecProcedure   = "exec_procedure"
	toolGetInstructions = "get_driver_instructions"
)

// Toolkit wires the data client and the instruction resolver into MCP tools.
type Toolkit struct {
	name     string
	config   Config
	client   *connectclient.Client
	resolver *instructions.Resolver
}

// New creates a toolkit over an existing client and resolver.
func New(name string, cfg Config, client *connectclient.Client, resolver *instructions.Resolver) (*Toolkit, error) {
	if client == nil {
		return nil, fmt.Errorf("connect client is required")
	}
	if resolver == nil {
		return nil, fmt.Errorf("instruction resolver is required")
	}
	return &Toolkit{
		name:     name,
		config:   applyDefaults(cfg),
		client:   client,
		resolver: resolver,
	}, nil
}

// Kind returns the toolkit kind.
func (*Toolkit) Kind() string {
	return "connect"
}

// Name returns the toolkit instance name.
func (t *Toolkit) Name() string {
	return t.name
}

// Tools returns the tool names provided by this toolkit.
func (*Toolkit) Tools() []string {
	return []string{
		toolListCatalogs,
		toolListSchemas,
		toolListTables,
		toolListColumns,
		toolListProcedures,
		toolRunQuery,
		toolExecProcedure,
		toolGetInstructions,
	}
}

// Close releases resources.
func (*Toolkit) Close() error {
	return nil
}

// Tool input schemas.

type listCatalogsInput struct{}

type listSchemasInput struct {
	Catalog string `json:"catalog"`
}

type listTablesInput struct {
	Catalog string `json:"catalog"`
	Schema  string `json:"schema"`
}

type listColumnsInput struct {
	Catalog string `json:"catalog"`
	Schema  string `json:"schema"`
	Table   string `json:"table"`
}

type listProceduresInput struct {
	Catalog string `json:"catalog"`
	Schema  string `json:"schema,omitempty"`
}

type runQueryInput struct {
	Query      string         `json:"query"`
	Parameters map[string]any `json:"parameters,omitempty"`
	Limit      int            `json:"limit,omitempty"`
}

type execProcedureInput struct {
	Procedure  string         `json:"procedure"`
	Parameters map[string]any `json:"parameters,omitempty"`
}

type getInstructionsInput struct {
	Driver       string `json:"driver"`
	ConnectionID string `json:"connection_id,omitempty"`
}

// instructionsOutput wraps the resolved document with its source tag.
type instructionsOutput struct {
	Driver       string                           `json:"driver"`
	Source       string                           `json:"source"`
	Instructions *instructions.DriverInstructions `json:"instructions"`
}

// RegisterTools registers all tools with the MCP server.
func (t *Toolkit) RegisterTools(s *mcp.Server) {
	mcp.AddTool(s, &mcp.Tool{
		Name: toolListCatalogs,
		Description: "List the connected data sources (catalogs) available through the gateway. " +
			"Call this first to discover what data exists.",
	}, t.handleListCatalogs)

	mcp.AddTool(s, &mcp.Tool{
		Name:        toolListSchemas,
		Description: "List the schemas within a catalog.",
	}, t.handleListSchemas)

	mcp.AddTool(s, &mcp.Tool{
		Name:        toolListTables,
		Description: "List the tables and views within a schema.",
	}, t.handleListTables)

	mcp.AddTool(s, &mcp.Tool{
		Name:        toolListColumns,
		Description: "List the columns of a table, including data types and key flags.",
	}, t.handleListColumns)

	mcp.AddTool(s, &mcp.Tool{
		Name:        toolListProcedures,
		Description: "List the stored procedures of a catalog, optionally filtered by schema.",
	}, t.handleListProcedures)

	mcp.AddTool(s, &mcp.Tool{
		Name: toolRunQuery,
		Description: "Execute a SQL query against the connected data sources. " +
			"Qualify tables as [catalog].[schema].[table]. Named parameters use the @name form.",
	}, t.handleRunQuery)

	mcp.AddTool(s, &mcp.Tool{
		Name:        toolExecProcedure,
		Description: "Execute a stored procedure with named parameters.",
	}, t.handleExecProcedure)

	mcp.AddTool(s, &mcp.Tool{
		Name: toolGetInstructions,
		Description: "Get driver-specific guidance for querying a data source: data model, " +
			"query patterns, field conventions, limitations, and troubleshooting. " +
			"Call this before writing queries against an unfamiliar driver.",
	}, t.handleGetInstructions)
}

func (t *Toolkit) handleListCatalogs(ctx context.Context, _ *mcp.CallToolRequest, _ listCatalogsInput) (*mcp.CallToolResult, any, error) {
	catalogs, err := t.client.Catalogs(ctx)
	if err != nil {
		return errorResult("listing catalogs: " + err.Error()), nil, nil
	}
	return jsonResult(catalogs)
}

func (t *Toolkit) handleListSchemas(ctx context.Context, _ *mcp.CallToolRequest, input listSchemasInput) (*mcp.CallToolResult, any, error) {
	schemas, err := t.client.Schemas(ctx, input.Catalog)
	if err != nil {
		return errorResult("listing schemas: " + err.Error()), nil, nil
	}
	return jsonResult(schemas)
}

func (t *Toolkit) handleListTables(ctx context.Context, _ *mcp.CallToolRequest, input listTablesInput) (*mcp.CallToolResult, any, error) {
	tables, err := t.client.Tables(ctx, input.Catalog, input.Schema)
	if err != nil {
		return errorResult("listing tables: " + err.Error()), nil, nil
	}
	return jsonResult(tables)
}

func (t *Toolkit) handleListColumns(ctx context.Context, _ *mcp.CallToolRequest, input listColumnsInput) (*mcp.CallToolResult, any, error) {
	columns, err := t.client.Columns(ctx, input.Catalog, input.Schema, input.Table)
	if err != nil {
		return errorResult("listing columns: " + err.Error()), nil, nil
	}
	return jsonResult(columns)
}

func (t *Toolkit) handleListProcedures(ctx context.Context, _ *mcp.CallToolRequest, input listProceduresInput) (*mcp.CallToolResult, any, error) {
	procedures, err := t.client.Procedures(ctx, input.Catalog, input.Schema)
	if err != nil {
		return errorResult("listing procedures: " + err.Error()), nil, nil
	}
	return jsonResult(procedures)
}

func (t *Toolkit) handleRunQuery(ctx context.Context, _ *mcp.CallToolRequest, input runQueryInput) (*mcp.CallToolResult, any, error) {
	if input.Query == "" {
		return errorResult("query is required"), nil, nil
	}

	result, err := t.client.Query(ctx, input.Query, input.Parameters)
	if err != nil {
		return errorResult("executing query: " + err.Error()), nil, nil
	}

	limit := t.effectiveLimit(input.Limit)
	for i := range result.Results {
		truncate(&result.Results[i], limit)
	}
	return jsonResult(result)
}

func (t *Toolkit) handleExecProcedure(ctx context.Context, _ *mcp.CallToolRequest, input execProcedureInput) (*mcp.CallToolResult, any, error) {
	if t.config.ReadOnly {
		return errorResult("exec_procedure is disabled: the gateway is configured read-only"), nil, nil
	}

	result, err := t.client.Exec(ctx, input.Procedure, input.Parameters)
	if err != nil {
		return errorResult("executing procedure: " + err.Error()), nil, nil
	}
	return jsonResult(result)
}

func (t *Toolkit) handleGetInstructions(ctx context.Context, _ *mcp.CallToolRequest, input getInstructionsInput) (*mcp.CallToolResult, any, error) {
	if input.Driver == "" {
		return errorResult("driver is required"), nil, nil
	}

	result, err := t.resolver.Resolve(ctx, input.Driver, input.ConnectionID)
	if err != nil {
		return errorResult(err.Error()), nil, nil
	}

	return jsonResult(instructionsOutput{
		Driver:       result.CanonicalID,
		Source:       string(result.Source),
		Instructions: result.Instructions,
	})
}

// effectiveLimit clamps a requested row limit to the configured bounds.
func (t *Toolkit) effectiveLimit(requested int) int {
	if requested <= 0 {
		return t.config.DefaultLimit
	}
	if requested > t.config.MaxLimit {
		return t.config.MaxLimit
	}
	return requested
}

// truncate drops rows beyond limit from a result set.
func truncate(rs *connectclient.ResultSet, limit int) {
	if limit > 0 && len(rs.Rows) > limit {
		rs.Rows = rs.Rows[:limit]
		rs.RowCount = limit
	}
}

// jsonResult marshals v into a text content result.
func jsonResult(v any) (*mcp.CallToolResult, any, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResult("encoding result: " + err.Error()), nil, nil
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
	}, nil, nil
}

// errorResult wraps a message in an IsError tool result. Tool failures are
// reported through the result, not as Go errors, per the MCP protocol.
func errorResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: "Error: " + msg}},
		IsError: true,
	}
}
