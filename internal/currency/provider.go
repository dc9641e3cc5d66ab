package currency

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// DefaultProviderTimeout bounds a single rate fetch. A timeout resolves to
// the same silent-fallback path as any other provider error.
const DefaultProviderTimeout = 10 * time.Second

// HTTPProvider fetches USD-relative rates from a JSON endpoint of the shape
// {"rates": {"PHP": 56.1, "AUD": 1.52, ...}}.
type HTTPProvider struct {
	url    string
	client *http.Client
}

// NewHTTPProvider creates a provider for the given rates URL.
func NewHTTPProvider(url string) *HTTPProvider {
	return &HTTPProvider{
		url:    url,
		client: &http.Client{Timeout: DefaultProviderTimeout},
	}
}

// ratesResponse mirrors the provider payload.
type ratesResponse struct {
	Rates map[string]float64 `json:"rates"`
}

// GetRates fetches and decodes the USD-relative rate table.
func (p *HTTPProvider) GetRates(ctx context.Context) (map[string]float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build rates request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch rates: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rates endpoint returned status %d", resp.StatusCode)
	}

	var payload ratesResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode rates response: %w", err)
	}
	if len(payload.Rates) == 0 {
		return nil, fmt.Errorf("rates response is empty")
	}

	return payload.Rates, nil
}
