package render

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"volume-chat/internal/types"
	"volume-chat/internal/ui"
)

func TestFormatters(t *testing.T) {
	assert.Equal(t, "1,000", Number(1000, 2))
	assert.Equal(t, "1,234.57", Number(1234.5678, 2))
	assert.Equal(t, "50,000", Price(50000))
	assert.Equal(t, "0.123", Price(0.12345678))
	assert.Equal(t, "64,123.457", Price(64123.456789))
	assert.Equal(t, "2.5", Price(2.5))
	assert.Equal(t, "-0.32", Percent(-0.317))
	assert.Equal(t, "2.00", Percent(2))

	assert.Equal(t, notANumber, Number(math.NaN(), 2))
	assert.Equal(t, notANumber, Price(math.Inf(1)))
	assert.Equal(t, notANumber, Percent(math.NaN()))

	assert.Equal(t, "↑", Arrow(0))
	assert.Equal(t, "↓", Arrow(-1))
	assert.Equal(t, "↓", Arrow(math.NaN()))

	assert.Equal(t, "BTC", BaseAsset("BTCUSDT"))
	assert.Equal(t, "DOGE", BaseAsset("DOGEUSDT"))
}

func TestHTMLTicker(t *testing.T) {
	v := ui.Ticker(types.TickerSnapshot{
		Symbol:             "BTCUSDT",
		Volume:             1000,
		QuoteVolume:        50000000,
		PriceChange:        120.5,
		PriceChangePercent: 0.241,
		LastPrice:          50000,
	})
	v.At = time.Date(2025, 1, 2, 13, 14, 15, 0, time.UTC)

	out, err := HTML(v)
	require.NoError(t, err)

	s := string(out)
	assert.Contains(t, s, "<h3>BTCUSDT</h3>")
	assert.Contains(t, s, "$50,000")
	assert.Contains(t, s, ">1,000<")
	assert.Contains(t, s, ">BTC<")
	assert.Contains(t, s, "$50,000,000")
	assert.Contains(t, s, "↑ 0.24%")
	assert.Contains(t, s, `class="up"`)
	assert.Contains(t, s, "Last updated: 13:14:15")
}

func TestHTMLTickerNaN(t *testing.T) {
	v := ui.Ticker(types.TickerSnapshot{
		Symbol:             "ETHUSDT",
		Volume:             math.NaN(),
		QuoteVolume:        math.NaN(),
		PriceChange:        math.NaN(),
		PriceChangePercent: math.NaN(),
		LastPrice:          math.NaN(),
	})

	out, err := HTML(v)
	require.NoError(t, err)
	assert.Contains(t, string(out), "↓ NaN%")
	assert.Contains(t, string(out), `class="down"`)
}

func TestHTMLViews(t *testing.T) {
	out, err := HTML(ui.Thinking())
	require.NoError(t, err)
	assert.Contains(t, string(out), "Thinking...")

	out, err = HTML(ui.Fetching("SOLUSDT"))
	require.NoError(t, err)
	assert.Contains(t, string(out), "Fetching SOLUSDT data from Binance...")

	out, err = HTML(ui.Text("<b>hi</b>"))
	require.NoError(t, err)
	assert.Contains(t, string(out), "&lt;b&gt;hi&lt;/b&gt;")

	out, err = HTML(ui.Error("XRPUSDT", ""))
	require.NoError(t, err)
	assert.Contains(t, string(out), "Failed to fetch data for XRPUSDT")

	out, err = HTML(ui.Error("", "Error occurred"))
	require.NoError(t, err)
	assert.Contains(t, string(out), "Error occurred")

	out, err = UserHTML("a < b")
	require.NoError(t, err)
	assert.Equal(t, "<p>a &lt; b</p>", string(out))
}

func TestTerminal(t *testing.T) {
	term, err := NewTerminal(60)
	require.NoError(t, err)

	assert.Equal(t, "Thinking...", term.Plain(ui.Thinking()))
	assert.Equal(t, "Fetching BTCUSDT data from Binance...", term.Plain(ui.Fetching("BTCUSDT")))
	assert.Equal(t, "partial", term.Plain(ui.Text("partial")))

	card := term.Final(ui.Ticker(types.TickerSnapshot{Symbol: "BTCUSDT", Volume: 1000, LastPrice: 50000}))
	assert.Contains(t, card, "BTCUSDT")
	assert.Contains(t, card, "$50,000")
	assert.Contains(t, card, "1,000 BTC")

	errCard := term.Final(ui.Error("BTCUSDT", ""))
	assert.Contains(t, errCard, "Failed to fetch data for BTCUSDT")

	md := term.Final(ui.Text("plain words"))
	assert.Contains(t, md, "plain words")
}
