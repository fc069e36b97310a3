package binance

import (
	"context"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"volume-chat/internal/api"
	"volume-chat/internal/store"
)

const btcBody = `{
  "symbol": "BTCUSDT",
  "priceChange": "-83.13000000",
  "priceChangePercent": "-0.317",
  "weightedAvgPrice": "26234.58803036",
  "openPrice": "26304.80000000",
  "highPrice": "26397.46000000",
  "lowPrice": "26088.34000000",
  "lastPrice": "50000",
  "volume": "1000",
  "quoteVolume": "10347672.52321700",
  "openTime": 1695686400000,
  "closeTime": 1695772799999,
  "firstId": 3220151555,
  "lastId": 3220849281,
  "count": 697727
}`

func TestTradingDay(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, DefaultTickerPath, r.URL.Path)
		assert.Equal(t, "BTCUSDT", r.URL.Query().Get("symbol"))
		assert.Equal(t, userAgent, r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(btcBody))
	}))
	defer srv.Close()

	c := New(srv.URL, "", 0)
	snap, err := c.TradingDay(context.Background(), "BTCUSDT")
	require.NoError(t, err)

	assert.Equal(t, "BTCUSDT", snap.Symbol)
	assert.Equal(t, 1000.0, snap.Volume)
	assert.Equal(t, 50000.0, snap.LastPrice)
	assert.Equal(t, -83.13, snap.PriceChange)
	assert.Equal(t, -0.317, snap.PriceChangePercent)
	assert.Equal(t, 10347672.523217, snap.QuoteVolume)
}

func TestTradingDayNonSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code":-1121,"msg":"Invalid symbol."}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "", 0)
	_, err := c.TradingDay(context.Background(), "NOPEUSDT")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFetch))

	var se *api.StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusBadRequest, se.StatusCode)
}

func TestParseTradingDayMissingFieldsAreNaN(t *testing.T) {
	snap := parseTradingDay("ETHUSDT", []byte(`{"volume":"12.5","lastPrice":"abc"}`))

	assert.Equal(t, 12.5, snap.Volume)
	assert.True(t, math.IsNaN(snap.LastPrice))
	assert.True(t, math.IsNaN(snap.QuoteVolume))
	assert.True(t, math.IsNaN(snap.PriceChange))
	assert.True(t, math.IsNaN(snap.PriceChangePercent))
}

func TestNewClientFromConfig(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/custom", r.URL.Path)
		_, _ = w.Write([]byte(btcBody))
	}))
	defer srv.Close()

	cfg := store.Default()
	cfg.Exchange.BaseURL = srv.URL
	cfg.Exchange.TickerPath = "/custom"

	snap, err := NewClient(cfg).TradingDay(context.Background(), "BTCUSDT")
	require.NoError(t, err)
	assert.Equal(t, 1000.0, snap.Volume)
}
