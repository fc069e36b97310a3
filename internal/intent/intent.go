// Package intent decides whether a chat message is a volume lookup and,
// if so, which exchange symbol it refers to.
package intent

import (
	"regexp"
	"strings"
)

// Alias maps a lowercase name found in user text to an exchange symbol.
type Alias struct {
	Name   string
	Symbol string
}

// aliases is scanned in order; the first name contained in the input wins.
var aliases = []Alias{
	{"bitcoin", "BTCUSDT"},
	{"btc", "BTCUSDT"},
	{"ethereum", "ETHUSDT"},
	{"eth", "ETHUSDT"},
	{"bnb", "BNBUSDT"},
	{"binance coin", "BNBUSDT"},
	{"cardano", "ADAUSDT"},
	{"ada", "ADAUSDT"},
	{"solana", "SOLUSDT"},
	{"sol", "SOLUSDT"},
	{"xrp", "XRPUSDT"},
	{"ripple", "XRPUSDT"},
	{"dogecoin", "DOGEUSDT"},
	{"doge", "DOGEUSDT"},
}

var symbolPattern = regexp.MustCompile(`(?i)([A-Z]{3,10}USDT)`)

var triggers = []string{"volume", "binance"}

// IsVolumeQuery reports whether input mentions "volume" or "binance" in any case.
func IsVolumeQuery(input string) bool {
	lower := strings.ToLower(input)
	for _, t := range triggers {
		if strings.Contains(lower, t) {
			return true
		}
	}
	return false
}

// ExtractSymbol resolves input to an exchange symbol such as BTCUSDT.
func ExtractSymbol(input string) (string, bool) {
	lower := strings.ToLower(input)
	for _, a := range aliases {
		if strings.Contains(lower, a.Name) {
			return a.Symbol, true
		}
	}

	if m := symbolPattern.FindStringSubmatch(input); m != nil {
		return strings.ToUpper(m[1]), true
	}
	return "", false
}

// Aliases returns a copy of the alias table in match order.
func Aliases() []Alias {
	out := make([]Alias, len(aliases))
	copy(out, aliases)
	return out
}

// Route is the outcome of classifying one message.
type Route struct {
	Volume bool
	Symbol string
}

// Classify combines IsVolumeQuery and ExtractSymbol. A volume query without a
// resolvable symbol is routed to chat.
func Classify(input string) Route {
	if !IsVolumeQuery(input) {
		return Route{}
	}
	if sym, ok := ExtractSymbol(input); ok {
		return Route{Volume: true, Symbol: sym}
	}
	return Route{}
}

func (r Route) String() string {
	if r.Volume {
		return "volume"
	}
	return "chat"
}
