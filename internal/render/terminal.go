package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"volume-chat/internal/ui"
)

var (
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("214")).
			Padding(0, 1)
	errorStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("196")).
			Foreground(lipgloss.Color("203")).
			Padding(0, 1)
	titleStyle = lipgloss.NewStyle().Bold(true)
	upStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	downStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	labelStyle = lipgloss.NewStyle().Faint(true)
)

// Terminal renders views for a TTY. Markdown replies go through glamour.
type Terminal struct {
	md *glamour.TermRenderer
}

func NewTerminal(width int) (*Terminal, error) {
	if width <= 0 {
		width = 80
	}
	md, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	return &Terminal{md: md}, nil
}

// Plain renders without markdown styling; used while a reply is still streaming.
func (t *Terminal) Plain(v ui.View) string {
	switch v.Kind {
	case ui.KindThinking:
		return "Thinking..."
	case ui.KindFetching:
		return fetchingText(v.Symbol)
	case ui.KindTicker:
		return t.ticker(v)
	case ui.KindError:
		return t.error(v)
	default:
		return v.Text
	}
}

// Final renders a finished view, styling markdown text replies.
func (t *Terminal) Final(v ui.View) string {
	if v.Kind != ui.KindText {
		return t.Plain(v)
	}
	out, err := t.md.Render(v.Text)
	if err != nil {
		return v.Text
	}
	return strings.TrimRight(out, "\n")
}

func (t *Terminal) ticker(v ui.View) string {
	s := v.Ticker
	if s == nil {
		return ""
	}

	change := upStyle
	if !(s.PriceChange >= 0) {
		change = downStyle
	}

	lines := []string{
		titleStyle.Render(s.Symbol) + "  " + change.Render(Arrow(s.PriceChange)+" "+Percent(s.PriceChangePercent)+"%"),
		labelStyle.Render("Current Price") + "  $" + Price(s.LastPrice),
		labelStyle.Render("24h Volume") + "  " + Number(s.Volume, 2) + " " + BaseAsset(s.Symbol),
		labelStyle.Render("24h Volume (USDT)") + "  $" + Number(s.QuoteVolume, 0),
		labelStyle.Render("Data from Binance • Last updated: " + v.At.Format("15:04:05")),
	}
	return cardStyle.Render(strings.Join(lines, "\n"))
}

func (t *Terminal) error(v ui.View) string {
	if v.Symbol != "" {
		return errorStyle.Render("Error: " + fetchErrorText(v.Symbol))
	}
	return errorStyle.Render(v.Text)
}
