package render

import (
	"bytes"
	"html/template"

	"volume-chat/internal/ui"
)

var fragments = template.Must(template.New("fragments").Funcs(template.FuncMap{
	"number":    Number,
	"price":     Price,
	"percent":   Percent,
	"arrow":     Arrow,
	"baseAsset": BaseAsset,
	"fetching":  fetchingText,
	"fetchErr":  fetchErrorText,
}).Parse(`
{{define "thinking"}}<section class="status"><div class="spinner" role="status" aria-label="Loading"></div><span>Thinking...</span></section>{{end}}

{{define "fetching"}}<article class="card card-info"><div class="status"><div class="spinner" role="status" aria-label="Fetching data"></div><span>{{fetching .Symbol}}</span></div></article>{{end}}

{{define "text"}}<p class="reply">{{.Text}}</p>{{end}}

{{define "error"}}{{if .Symbol}}<article class="card card-error"><p><strong>Error:</strong> {{fetchErr .Symbol}}</p></article>{{else}}<p class="reply reply-error">{{.Text}}</p>{{end}}{{end}}

{{define "ticker"}}{{with .Ticker}}<article class="card card-ticker">
<header><h3>{{.Symbol}}</h3><p class="{{if ge .PriceChange 0.0}}up{{else}}down{{end}}">{{arrow .PriceChange}} {{percent .PriceChangePercent}}%</p></header>
<section>
<div><p class="label">Current Price</p><p class="price">${{price .LastPrice}}</p></div>
<div class="grid">
<div class="cell"><p class="label">24h Volume</p><p class="value">{{number .Volume 2}}</p><p class="label">{{baseAsset .Symbol}}</p></div>
<div class="cell"><p class="label">24h Volume (USDT)</p><p class="value">${{number .QuoteVolume 0}}</p></div>
</div>
</section>
{{end}}<footer>Data from Binance • Last updated: {{.At.Format "15:04:05"}}</footer>
</article>{{end}}

{{define "user"}}<p>{{.}}</p>{{end}}
`))

// HTML renders v as an HTML fragment.
func HTML(v ui.View) (template.HTML, error) {
	name := string(v.Kind)
	if fragments.Lookup(name) == nil {
		name = string(ui.KindText)
	}

	var buf bytes.Buffer
	if err := fragments.ExecuteTemplate(&buf, name, v); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

// UserHTML renders a user message bubble body.
func UserHTML(text string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := fragments.ExecuteTemplate(&buf, "user", text); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}
