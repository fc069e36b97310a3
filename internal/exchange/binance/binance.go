// Package binance reads 24h trading-day statistics from the Binance public REST API.
package binance

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/tidwall/gjson"

	"volume-chat/internal/api"
	"volume-chat/internal/store"
	"volume-chat/internal/types"
)

const (
	DefaultBaseURL    = "https://api.binance.com"
	DefaultTickerPath = "/api/v3/ticker/tradingDay"

	userAgent = "volume-chat"
)

// ErrFetch wraps every network or non-2xx failure from the exchange.
var ErrFetch = errors.New("binance fetch failed")

type Client struct {
	api        *api.Client
	tickerPath string
}

// NewClient builds a client from the exchange section of cfg.
func NewClient(cfg *store.Config) *Client {
	return New(cfg.Exchange.BaseURL, cfg.Exchange.TickerPath,
		time.Duration(cfg.Exchange.TimeoutSeconds)*time.Second)
}

// New builds a client against baseURL. A zero timeout disables the deadline.
func New(baseURL, tickerPath string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if tickerPath == "" {
		tickerPath = DefaultTickerPath
	}
	return &Client{
		api: api.NewClient(
			api.WithBaseURL(baseURL),
			api.WithTimeout(timeout),
			api.WithHeader("User-Agent", userAgent),
			api.WithLogging(true),
		),
		tickerPath: tickerPath,
	}
}

// TradingDay fetches the rolling trading-day ticker for symbol.
func (c *Client) TradingDay(ctx context.Context, symbol string) (types.TickerSnapshot, error) {
	resp, err := c.api.GET(ctx, c.tickerPath, map[string]string{"symbol": symbol})
	if err != nil {
		return types.TickerSnapshot{}, fmt.Errorf("%w: %s: %w", ErrFetch, symbol, err)
	}
	return parseTradingDay(symbol, resp.Body), nil
}

// parseTradingDay reads the numeric-string fields of a tradingDay body.
// Missing or malformed values become NaN rather than an error.
func parseTradingDay(symbol string, body []byte) types.TickerSnapshot {
	fields := gjson.GetManyBytes(body, "volume", "quoteVolume", "priceChange", "priceChangePercent", "lastPrice")
	return types.TickerSnapshot{
		Symbol:             symbol,
		Volume:             parseFloat(fields[0]),
		QuoteVolume:        parseFloat(fields[1]),
		PriceChange:        parseFloat(fields[2]),
		PriceChangePercent: parseFloat(fields[3]),
		LastPrice:          parseFloat(fields[4]),
	}
}

func parseFloat(r gjson.Result) float64 {
	if !r.Exists() {
		return math.NaN()
	}
	f, err := strconv.ParseFloat(r.String(), 64)
	if err != nil {
		return math.NaN()
	}
	return f
}
