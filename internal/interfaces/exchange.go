package interfaces

import (
	"context"

	"volume-chat/internal/types"
)

type TickerFetcher interface {
	TradingDay(ctx context.Context, symbol string) (types.TickerSnapshot, error)
}
