package geo

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrencyForCountry(t *testing.T) {
	assert.Equal(t, "AUD", CurrencyForCountry("AU"))
	assert.Equal(t, "PHP", CurrencyForCountry("PH"))
	assert.Equal(t, "EUR", CurrencyForCountry("DE"))
	assert.Equal(t, DefaultCurrency, CurrencyForCountry("BR"))
	assert.Equal(t, DefaultCurrency, CurrencyForCountry(""))
}

func TestLocator_CachesPerIP(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		fmt.Fprint(w, `{"country_code":"AU"}`)
	}))
	defer srv.Close()

	l := NewLocator(srv.URL)
	ctx := context.Background()

	first, err := l.Country(ctx, "203.0.113.7")
	require.NoError(t, err)
	second, err := l.Country(ctx, "203.0.113.7")
	require.NoError(t, err)

	assert.Equal(t, "AU", first)
	assert.Equal(t, "AU", second)
	assert.Equal(t, int32(1), calls.Load())
}

func TestLocator_DefaultCurrencyForFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	l := NewLocator(srv.URL)
	assert.Equal(t, DefaultCurrency, l.DefaultCurrencyFor(context.Background(), "203.0.113.7"))
}

func TestLocator_DefaultCurrencyForSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"country_code":"GB"}`)
	}))
	defer srv.Close()

	l := NewLocator(srv.URL)
	assert.Equal(t, "GBP", l.DefaultCurrencyFor(context.Background(), "198.51.100.4"))
}
