package connect

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	connectclient "github.com/dbfabric/mcp-connect-gateway/pkg/connect"
	"github.com/dbfabric/mcp-connect-gateway/pkg/instructions"
)

// newToolkitSession spins up a fake data service, a toolkit over it, and an
// in-memory MCP client session.
func newToolkitSession(t *testing.T, cfg Config, respond func(w http.ResponseWriter, r *http.Request)) *mcp.ClientSession {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(respond))
	t.Cleanup(srv.Close)

	client, err := connectclient.New(connectclient.Config{
		BaseURL: srv.URL,
		User:    "u",
		Token:   "t",
	})
	require.NoError(t, err)

	resolver := instructions.NewResolver(instructions.ResolverConfig{})
	toolkit, err := New("default", cfg, client, resolver)
	require.NoError(t, err)

	server := mcp.NewServer(&mcp.Implementation{Name: "test-server", Version: "0.0.1"}, nil)
	toolkit.RegisterTools(server)

	ctx := context.Background()
	t1, t2 := mcp.NewInMemoryTransports()

	serverSession, err := server.Connect(ctx, t1, nil)
	require.NoError(t, err)

	mcpClient := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "0.0.1"}, nil)
	clientSession, err := mcpClient.Connect(ctx, t2, nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = clientSession.Close()
		_ = serverSession.Close()
	})
	return clientSession
}

func callTool(t *testing.T, session *mcp.ClientSession, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	require.NoError(t, err)
	return result
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	tc, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok, "expected TextContent, got %T", result.Content[0])
	return tc.Text
}

func serveQueryRows(rows [][]any) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(connectclient.QueryResult{
			Results: []connectclient.ResultSet{{
				Schema:   []connectclient.ColumnMeta{{ColumnName: "CatalogName"}, {ColumnName: "DriverName"}, {ColumnName: "Description"}},
				Rows:     rows,
				RowCount: len(rows),
			}},
		})
	}
}

func TestToolkit_New_RequiresDependencies(t *testing.T) {
	resolver := instructions.NewResolver(instructions.ResolverConfig{})

	_, err := New("default", Config{}, nil, resolver)
	assert.Error(t, err)

	client, err := connectclient.New(connectclient.Config{BaseURL: "https://example.test", User: "u", Token: "t"})
	require.NoError(t, err)

	_, err = New("default", Config{}, client, nil)
	assert.Error(t, err)
}

func TestToolkit_ListCatalogs(t *testing.T) {
	session := newToolkitSession(t, Config{}, serveQueryRows([][]any{
		{"crm", "salesforce", "Sales data"},
	}))

	result := callTool(t, session, toolListCatalogs, nil)
	require.False(t, result.IsError)

	var catalogs []connectclient.Catalog
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &catalogs))
	require.Len(t, catalogs, 1)
	assert.Equal(t, "crm", catalogs[0].Name)
	assert.Equal(t, "salesforce", catalogs[0].Driver)
}

func TestToolkit_ListSchemas_ServiceErrorIsToolError(t *testing.T) {
	session := newToolkitSession(t, Config{}, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":{"code":"AUTH","message":"bad token"}}`, http.StatusUnauthorized)
	})

	result := callTool(t, session, toolListSchemas, map[string]any{"catalog": "crm"})
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "bad token")
}

func TestToolkit_RunQuery_EmptyQuery(t *testing.T) {
	session := newToolkitSession(t, Config{}, serveQueryRows(nil))

	result := callTool(t, session, toolRunQuery, map[string]any{"query": ""})
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "query is required")
}

func TestToolkit_RunQuery_AppliesLimit(t *testing.T) {
	rows := make([][]any, 5)
	for i := range rows {
		rows[i] = []any{"c", "d", ""}
	}
	session := newToolkitSession(t, Config{DefaultLimit: 2}, serveQueryRows(rows))

	result := callTool(t, session, toolRunQuery, map[string]any{"query": "SELECT * FROM t"})
	require.False(t, result.IsError)

	var qr connectclient.QueryResult
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &qr))
	require.Len(t, qr.Results, 1)
	assert.Len(t, qr.Results[0].Rows, 2)
	assert.Equal(t, 2, qr.Results[0].RowCount)
}

func TestToolkit_RunQuery_ClampsRequestedLimit(t *testing.T) {
	toolkit := &Toolkit{config: applyDefaults(Config{})}

	assert.Equal(t, defaultQueryLimit, toolkit.effectiveLimit(0))
	assert.Equal(t, 50, toolkit.effectiveLimit(50))
	assert.Equal(t, defaultMaxLimit, toolkit.effectiveLimit(defaultMaxLimit+1))
}

func TestToolkit_ExecProcedure_ReadOnly(t *testing.T) {
	session := newToolkitSession(t, Config{ReadOnly: true}, serveQueryRows(nil))

	result := callTool(t, session, toolExecProcedure, map[string]any{"procedure": "crm.dbo.MergeAccounts"})
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "read-only")
}

func TestToolkit_GetDriverInstructions(t *testing.T) {
	session := newToolkitSession(t, Config{}, serveQueryRows(nil))

	result := callTool(t, session, toolGetInstructions, map[string]any{"driver": "Azure DevOps Services"})
	require.False(t, result.IsError)

	var out struct {
		Driver       string                          `json:"driver"`
		Source       string                          `json:"source"`
		Instructions instructions.DriverInstructions `json:"instructions"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &out))
	assert.Equal(t, "azuredevops", out.Driver)
	assert.Equal(t, "local", out.Source)
	assert.Equal(t, "azuredevops", out.Instructions.DriverName)
}

func TestToolkit_GetDriverInstructions_MissingDriver(t *testing.T) {
	session := newToolkitSession(t, Config{}, serveQueryRows(nil))

	result := callTool(t, session, toolGetInstructions, map[string]any{"driver": ""})
	assert.True(t, result.IsError)
}

func TestToolkit_ToolNames(t *testing.T) {
	toolkit := &Toolkit{}
	assert.Equal(t, "connect", toolkit.Kind())
	assert.Len(t, toolkit.Tools(), 8)
}
