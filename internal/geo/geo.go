// Package geo resolves a visitor's country to pre-select a display currency.
//
// Geolocation is cosmetic: it only picks the default display currency and
// never influences the PHP-denominated cost computation.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"
)

// DefaultTimeout bounds a single lookup; failures fall back to the default currency.
const DefaultTimeout = 5 * time.Second

// DefaultCurrency is used when the visitor's country is unknown or unmapped.
const DefaultCurrency = "USD"

// countryCurrencies maps ISO country codes to the display currency offered
// by the quote UI.
var countryCurrencies = map[string]string{
	"US": "USD",
	"AU": "AUD",
	"CA": "CAD",
	"GB": "GBP",
	"NZ": "NZD",
	"SG": "SGD",
	"PH": "PHP",
	"DE": "EUR",
	"FR": "EUR",
	"ES": "EUR",
	"IT": "EUR",
	"NL": "EUR",
	"IE": "EUR",
}

// CurrencyForCountry returns the display currency for an ISO country code.
func CurrencyForCountry(countryCode string) string {
	if code, ok := countryCurrencies[countryCode]; ok {
		return code
	}
	return DefaultCurrency
}

// Locator resolves client IPs to country codes, caching results per
// instance. The cache is never shared between locators.
type Locator struct {
	baseURL string
	client  *http.Client

	mu    sync.Mutex
	cache map[string]string // ip -> country code
}

// NewLocator creates a locator for a geolocation endpoint returning
// {"country_code": "AU"}.
func NewLocator(baseURL string) *Locator {
	return &Locator{
		baseURL: baseURL,
		client:  &http.Client{Timeout: DefaultTimeout},
		cache:   make(map[string]string),
	}
}

// geoResponse mirrors the provider payload.
type geoResponse struct {
	CountryCode string `json:"country_code"`
}

// Country resolves an IP address to an ISO country code, consulting the
// instance cache first.
func (l *Locator) Country(ctx context.Context, ip string) (string, error) {
	l.mu.Lock()
	if code, ok := l.cache[ip]; ok {
		l.mu.Unlock()
		return code, nil
	}
	l.mu.Unlock()

	endpoint := fmt.Sprintf("%s/lookup?ip=%s", l.baseURL, url.QueryEscape(ip))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build geo request: %w", err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch geolocation: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("geo endpoint returned status %d", resp.StatusCode)
	}

	var payload geoResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("failed to decode geo response: %w", err)
	}

	l.mu.Lock()
	l.cache[ip] = payload.CountryCode
	l.mu.Unlock()

	return payload.CountryCode, nil
}

// DefaultCurrencyFor resolves an IP straight to a display currency. Any
// lookup failure yields the default currency; geolocation is never an error
// the caller has to handle.
func (l *Locator) DefaultCurrencyFor(ctx context.Context, ip string) string {
	country, err := l.Country(ctx, ip)
	if err != nil {
		return DefaultCurrency
	}
	return CurrencyForCountry(country)
}
