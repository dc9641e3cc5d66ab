// Package pool fetches candidate records from the external talent pool service.
package pool

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/mcabrera/teamquote/internal/types"
)

// DefaultTimeout bounds a single pool fetch. The quote engine treats a
// timeout exactly like any other provider failure: the role degrades to an
// empty recommendation set.
const DefaultTimeout = 15 * time.Second

// Provider supplies the raw candidate pool for a requested role. Industry
// is optional and may be empty.
type Provider interface {
	Candidates(ctx context.Context, roleTitle, industry string) ([]types.CandidateRecord, error)
}

// Client is an HTTP Provider for a JSON endpoint of the shape
// {"candidates": [...]}.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a pool client for the given service base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: DefaultTimeout},
	}
}

// candidatesResponse mirrors the pool service payload.
type candidatesResponse struct {
	Candidates []types.CandidateRecord `json:"candidates"`
}

// Candidates fetches the candidate pool for a role title, optionally scoped
// to an industry.
func (c *Client) Candidates(ctx context.Context, roleTitle, industry string) ([]types.CandidateRecord, error) {
	endpoint, err := url.Parse(c.baseURL + "/candidates")
	if err != nil {
		return nil, fmt.Errorf("invalid pool service URL: %w", err)
	}
	query := endpoint.Query()
	query.Set("role", roleTitle)
	if industry != "" {
		query.Set("industry", industry)
	}
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build pool request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch candidate pool: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("pool service returned status %d", resp.StatusCode)
	}

	var payload candidatesResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode pool response: %w", err)
	}

	return payload.Candidates, nil
}
