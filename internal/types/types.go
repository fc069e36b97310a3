package types

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one entry of the conversation history sent to the model.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// TickerSnapshot is the 24h trading-day summary for one symbol.
// Fields that were missing or non-numeric in the exchange response are NaN.
type TickerSnapshot struct {
	Symbol             string  `json:"symbol"`
	Volume             float64 `json:"volume"`
	QuoteVolume        float64 `json:"quoteVolume"`
	PriceChange        float64 `json:"priceChange"`
	PriceChangePercent float64 `json:"priceChangePercent"`
	LastPrice          float64 `json:"lastPrice"`
}
