package instructions

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// defaultRemoteTimeout bounds a single instruction fetch.
const defaultRemoteTimeout = 10 * time.Second

// RemoteConfig configures the remote instruction service. An empty BaseURL
// disables the remote tier entirely; that is a supported state, not an error.
type RemoteConfig struct {
	BaseURL string        `yaml:"base_url"`
	Token   string        `yaml:"token"`
	Timeout time.Duration `yaml:"timeout"`
}

// RemoteSource fetches instruction documents from an external service
// authenticated by a bearer token. Fetches are best effort: the resolver
// treats every failure here as "tier produced nothing".
type RemoteSource struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewRemoteSource creates a remote source from cfg. It returns nil when no
// base URL is configured, which callers must treat as "remote tier absent".
func NewRemoteSource(cfg RemoteConfig) *RemoteSource {
	if cfg.BaseURL == "" {
		return nil
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultRemoteTimeout
	}
	return &RemoteSource{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		client:  &http.Client{Timeout: timeout},
	}
}

// Fetch retrieves the document for a canonical identifier. It returns
// (nil, nil) on a 404, meaning the service holds no instructions for this
// driver. Any other non-2xx status or transport failure is an error; the
// resolver downgrades those to a tier skip.
func (r *RemoteSource) Fetch(ctx context.Context, canonicalID string) (*DriverInstructions, error) {
	endpoint := r.baseURL + "/driver-instructions/" + url.PathEscape(canonicalID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("building instruction request: %w", err)
	}
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching instructions for %q: %w", canonicalID, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, nil
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, fmt.Errorf("instruction service returned %d for %q", resp.StatusCode, canonicalID)
	}

	var doc DriverInstructions
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding instructions for %q: %w", canonicalID, err)
	}
	return &doc, nil
}
