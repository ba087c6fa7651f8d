// Package connect provides the HTTP client for the remote relational-data
// cloud service. Metadata (catalogs, schemas, tables, columns, procedures)
// is read from the service's system tables through the same /query endpoint
// used for ad-hoc SQL.
package connect

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultTimeout = 120 * time.Second

// Config holds client configuration for the cloud service.
type Config struct {
	BaseURL string        `yaml:"base_url"`
	User    string        `yaml:"user"`
	Token   string        `yaml:"token"`
	Timeout time.Duration `yaml:"timeout"`
}

// Client is an HTTP client for the cloud service's data API.
type Client struct {
	cfg Config
	hc  *http.Client
}

// New creates a client from cfg.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("connect base_url is required")
	}
	if cfg.Token == "" {
		return nil, fmt.Errorf("connect token is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	return &Client{
		cfg: cfg,
		hc:  &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// queryRequest is the /query request body.
type queryRequest struct {
	Query      string         `json:"query"`
	Parameters map[string]any `json:"parameters,omitempty"`
}

// execRequest is the /exec request body.
type execRequest struct {
	Procedure  string         `json:"procedure"`
	Parameters map[string]any `json:"parameters,omitempty"`
}

// apiError is the error envelope returned by the service.
type apiError struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Query executes a SQL statement. Parameter placeholders use the @name form
// and are supplied through params.
func (c *Client) Query(ctx context.Context, sql string, params map[string]any) (*QueryResult, error) {
	var result QueryResult
	if err := c.post(ctx, "/query", queryRequest{Query: sql, Parameters: params}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Exec invokes a stored procedure with named parameters.
func (c *Client) Exec(ctx context.Context, procedure string, params map[string]any) (*ExecResult, error) {
	if procedure == "" {
		return nil, fmt.Errorf("procedure name is required")
	}
	var result ExecResult
	if err := c.post(ctx, "/exec", execRequest{Procedure: procedure, Parameters: params}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// post sends a JSON body to path and decodes the JSON response into out.
func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding %s request: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("building %s request: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.SetBasicAuth(c.cfg.User, c.cfg.Token)

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("calling %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.decodeError(path, resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s response: %w", path, err)
	}
	return nil
}

// decodeError turns a non-2xx response into an error, preferring the
// service's own error envelope when the body carries one.
func (c *Client) decodeError(path string, resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var envelope apiError
	if err := json.Unmarshal(data, &envelope); err == nil && envelope.Error.Message != "" {
		return fmt.Errorf("%s failed (%d %s): %s", path, resp.StatusCode, envelope.Error.Code, envelope.Error.Message)
	}
	return fmt.Errorf("%s failed with status %d", path, resp.StatusCode)
}
