package currency

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := NewClient(Config{
		BaseURL:    srv.URL,
		Timeout:    2 * time.Second,
		MaxRetries: 3,
	}, zap.NewNop())

	return client, srv
}

func TestConvert(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/EUR", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"base":"EUR","rates":{"USD":1.1,"GBP":0.85}}`))
	})

	got, err := client.Convert(context.Background(), 100, "EUR", "USD")
	require.NoError(t, err)
	assert.InDelta(t, 110.0, got, 0.001)
}

func TestConvertSameCurrency(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no HTTP call expected for same-currency conversion")
	})

	got, err := client.Convert(context.Background(), 42.5, "USD", "USD")
	require.NoError(t, err)
	assert.Equal(t, 42.5, got)
}

func TestConvertUnknownTargetCurrency(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"base":"EUR","rates":{"USD":1.1}}`))
	})

	_, err := client.Convert(context.Background(), 100, "EUR", "XXX")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no rate")
}

func TestConvertRetriesTransientFailure(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"base":"GBP","rates":{"USD":1.25}}`))
	})

	got, err := client.Convert(context.Background(), 80, "GBP", "USD")
	require.NoError(t, err)
	assert.InDelta(t, 100.0, got, 0.001)
	assert.Equal(t, int32(3), calls.Load())
}

func TestConvertExhaustsRetries(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.Convert(context.Background(), 80, "GBP", "USD")
	require.Error(t, err)
	assert.Equal(t, int32(3), calls.Load())
}
