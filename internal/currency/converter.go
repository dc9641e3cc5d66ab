// Package currency converts PHP-denominated amounts into display currencies.
//
// PHP is the canonical unit everywhere in the engine; conversion happens at
// the edge, and the PHP rate is identically 1.0.
package currency

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultRefreshInterval is how often live rates are re-fetched.
const DefaultRefreshInterval = 5 * time.Minute

// RateProvider supplies USD-relative exchange rates, i.e. units of each
// currency per one USD. The map must include "PHP".
type RateProvider interface {
	GetRates(ctx context.Context) (map[string]float64, error)
}

// fallbackRates is a static PHP-to-target table used whenever the live
// provider is unavailable. Values are approximate and only need to be
// plausible, not current.
var fallbackRates = map[string]float64{
	"PHP": 1.0,
	"USD": 0.0175,
	"AUD": 0.0270,
	"CAD": 0.0242,
	"GBP": 0.0139,
	"EUR": 0.0163,
	"NZD": 0.0292,
	"SGD": 0.0236,
}

// Converter holds the current PHP-relative rate table. It is safe for
// concurrent use and is instance-scoped: two converters never share state.
type Converter struct {
	provider RateProvider
	interval time.Duration
	log      *zap.SugaredLogger

	mu    sync.RWMutex
	rates map[string]float64
}

// NewConverter creates a converter seeded with the static fallback table.
// provider may be nil, in which case the fallback table is permanent.
func NewConverter(provider RateProvider, log *zap.SugaredLogger) *Converter {
	seeded := make(map[string]float64, len(fallbackRates))
	for code, rate := range fallbackRates {
		seeded[code] = rate
	}
	return &Converter{
		provider: provider,
		interval: DefaultRefreshInterval,
		log:      log,
		rates:    seeded,
	}
}

// Start refreshes rates immediately and then on a fixed interval until the
// context is cancelled. The refresh cycle is independent of any in-progress
// quote; finalized quotes carry their own frozen rate.
func (c *Converter) Start(ctx context.Context) {
	c.Refresh(ctx)
	ticker := time.NewTicker(c.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.Refresh(ctx)
			}
		}
	}()
}

// Refresh fetches live USD-relative rates and replaces the table with their
// PHP-relative derivation. Provider failure is silent: the previous table
// (or the static fallback) stays in effect.
func (c *Converter) Refresh(ctx context.Context) {
	if c.provider == nil {
		return
	}

	usdRates, err := c.provider.GetRates(ctx)
	if err != nil {
		if c.log != nil {
			c.log.Warnw("rate refresh failed, keeping previous table", "error", err)
		}
		return
	}

	derived, ok := deriveFromUSD(usdRates)
	if !ok {
		if c.log != nil {
			c.log.Warnw("rate response missing PHP, keeping previous table")
		}
		return
	}

	c.mu.Lock()
	c.rates = derived
	c.mu.Unlock()
}

// deriveFromUSD turns a USD-relative table into a PHP-relative one:
// phpToTarget(code) = rates[code] / rates[PHP].
func deriveFromUSD(usdRates map[string]float64) (map[string]float64, bool) {
	phpPerUSD, ok := usdRates["PHP"]
	if !ok || phpPerUSD <= 0 {
		return nil, false
	}
	usdPerPHP := 1 / phpPerUSD

	derived := make(map[string]float64, len(usdRates)+1)
	for code, perUSD := range usdRates {
		if perUSD <= 0 {
			continue
		}
		derived[code] = perUSD * usdPerPHP
	}
	derived["PHP"] = 1.0
	return derived, true
}

// Rate returns the PHP-to-target rate for a currency code. PHP is always
// exactly 1.0. Unknown codes fall back to the static table; a code absent
// there too yields 0, which callers must treat as unsupported.
func (c *Converter) Rate(code string) float64 {
	if code == "PHP" {
		return 1.0
	}

	c.mu.RLock()
	rate, ok := c.rates[code]
	c.mu.RUnlock()
	if ok {
		return rate
	}
	return fallbackRates[code]
}

// Convert converts a PHP amount into the target currency.
func (c *Converter) Convert(amountPHP float64, code string) float64 {
	return amountPHP * c.Rate(code)
}

// Supported reports whether a currency code has a rate available.
func (c *Converter) Supported(code string) bool {
	return c.Rate(code) > 0
}

// SupportedCurrencies lists the codes of the static fallback table, which is
// the set the UI offers regardless of what the live provider returns.
func SupportedCurrencies() []string {
	codes := make([]string, 0, len(fallbackRates))
	for code := range fallbackRates {
		codes = append(codes, code)
	}
	return codes
}
