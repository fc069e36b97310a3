// Package render turns ui views into HTML fragments for the web page and
// styled text for the terminal.
package render

import (
	"math"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

const notANumber = "NaN"

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Number formats f with thousand separators and at most maxDigits decimals.
func Number(f float64, maxDigits int) string {
	if !finite(f) {
		return notANumber
	}
	// CommafWithDigits truncates, so round half away from zero first
	rounded, _ := decimal.NewFromFloat(f).Round(int32(maxDigits)).Float64()
	return humanize.CommafWithDigits(rounded, maxDigits)
}

// Price formats f like a locale number: thousand separators, at most three decimals.
func Price(f float64) string {
	return Number(f, 3)
}

// Percent formats f with exactly two decimals.
func Percent(f float64) string {
	if !finite(f) {
		return notANumber
	}
	return decimal.NewFromFloat(f).StringFixed(2)
}

// Arrow is ↑ for a non-negative change and ↓ otherwise, including NaN.
func Arrow(change float64) string {
	if change >= 0 {
		return "↑"
	}
	return "↓"
}

// BaseAsset strips the USDT quote from a symbol, e.g. BTCUSDT -> BTC.
func BaseAsset(symbol string) string {
	return strings.Replace(symbol, "USDT", "", 1)
}

func fetchingText(symbol string) string {
	return "Fetching " + symbol + " data from Binance..."
}

func fetchErrorText(symbol string) string {
	return "Failed to fetch data for " + symbol + ". Make sure the symbol is valid (e.g., BTCUSDT, ETHUSDT)."
}
