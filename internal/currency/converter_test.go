package currency

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubProvider returns a fixed rate table or an error.
type stubProvider struct {
	rates map[string]float64
	err   error
}

func (s *stubProvider) GetRates(_ context.Context) (map[string]float64, error) {
	return s.rates, s.err
}

func TestConverter_PHPIsIdentity(t *testing.T) {
	c := NewConverter(nil, nil)
	assert.Equal(t, 1.0, c.Rate("PHP"))
	assert.Equal(t, 42500.0, c.Convert(42500, "PHP"))
}

func TestConverter_DerivesPHPRelativeRates(t *testing.T) {
	// 56 PHP per USD, 1.4 AUD per USD: one PHP buys 1.4/56 = 0.025 AUD.
	c := NewConverter(&stubProvider{rates: map[string]float64{"PHP": 56, "AUD": 1.4, "USD": 1}}, nil)
	c.Refresh(context.Background())

	assert.InDelta(t, 0.025, c.Rate("AUD"), 1e-9)
	assert.InDelta(t, 1.0/56, c.Rate("USD"), 1e-9)
	// PHP stays exactly 1.0 after a refresh
	assert.Equal(t, 1.0, c.Rate("PHP"))
}

func TestConverter_ProviderFailureKeepsFallback(t *testing.T) {
	c := NewConverter(&stubProvider{err: fmt.Errorf("connection refused")}, nil)
	before := c.Rate("USD")
	c.Refresh(context.Background())

	assert.Equal(t, before, c.Rate("USD"))
	assert.Greater(t, c.Rate("USD"), 0.0)
}

func TestConverter_MissingPHPKeepsPreviousTable(t *testing.T) {
	good := &stubProvider{rates: map[string]float64{"PHP": 50, "USD": 1}}
	c := NewConverter(good, nil)
	c.Refresh(context.Background())
	require.InDelta(t, 0.02, c.Rate("USD"), 1e-9)

	c.provider = &stubProvider{rates: map[string]float64{"USD": 1}}
	c.Refresh(context.Background())

	// Table unchanged
	assert.InDelta(t, 0.02, c.Rate("USD"), 1e-9)
}

func TestConverter_UnknownCode(t *testing.T) {
	c := NewConverter(nil, nil)
	assert.Equal(t, 0.0, c.Rate("XYZ"))
	assert.False(t, c.Supported("XYZ"))
	assert.True(t, c.Supported("AUD"))
}

func TestHTTPProvider_GetRates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"rates":{"PHP":56.5,"USD":1,"AUD":1.5}}`)
	}))
	defer srv.Close()

	p := NewHTTPProvider(srv.URL)
	rates, err := p.GetRates(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 56.5, rates["PHP"])
	assert.Equal(t, 1.5, rates["AUD"])
}

func TestHTTPProvider_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewHTTPProvider(srv.URL).GetRates(context.Background())
	assert.Error(t, err)
}
