package exchangeobs

import (
	"context"
	"strconv"
	"time"

	"volume-chat/internal/interfaces"
	"volume-chat/internal/logger"
	"volume-chat/internal/types"
)

// observableFetcher wraps a TickerFetcher with logging and tracing
type observableFetcher struct {
	fetcher interfaces.TickerFetcher
}

var _ interfaces.TickerFetcher = (*observableFetcher)(nil)

func Wrap(fetcher interfaces.TickerFetcher) interfaces.TickerFetcher {
	return &observableFetcher{fetcher: fetcher}
}

func (of *observableFetcher) TradingDay(ctx context.Context, symbol string) (types.TickerSnapshot, error) {
	ctx, span := logger.StartSpan(ctx, "exchange.TradingDay")
	defer span.End()

	start := time.Now()
	logger.DebugSkip(ctx, 1, "Fetching trading-day ticker", "symbol", symbol)

	snap, err := of.fetcher.TradingDay(ctx, symbol)
	if err != nil {
		logger.Fetch(ctx, symbol, false,
			"error", err.Error(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return snap, err
	}

	// formatted as strings: the JSON handler cannot encode NaN
	logger.Fetch(ctx, symbol, true,
		"last_price", strconv.FormatFloat(snap.LastPrice, 'f', -1, 64),
		"volume", strconv.FormatFloat(snap.Volume, 'f', -1, 64),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return snap, nil
}
