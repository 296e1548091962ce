package renderer

import (
	"strings"

	"github.com/etnz/bags"
)

// Suggestion is a search result with the command that adds it.
type Suggestion struct {
	bags.Coin
	Held    bool
	Command string
}

// Suggestions is the result of a catalog search.
type Suggestions struct {
	Query string
	Coins []Suggestion
}

// NewSuggestions lists coins, marking the ones already held.
func NewSuggestions(query string, coins []bags.Coin, held func(id string) bool) *Suggestions {
	s := &Suggestions{Query: query, Coins: make([]Suggestion, 0, len(coins))}
	for _, c := range coins {
		c.Symbol = strings.ToUpper(c.Symbol)
		s.Coins = append(s.Coins, Suggestion{Coin: c, Held: held(c.ID), Command: AddCommand(c.ID)})
	}
	return s
}

// AddCommand returns a ready to copy command adding the coin id.
func AddCommand(id string) string {
	return "yb add '" + strings.ReplaceAll(id, "'", `'\''`) + "'"
}

const suggestionsMarkdownTemplate = `# Search "{{ .Query }}"
{{ if .Coins }}
| Coin | Symbol | Id | Add |
|:---|:---|:---|:---|
{{- range .Coins }}
| {{ cell .Name }} | {{ cell .Symbol }} | {{ cell .ID }} | {{ if .Held }}_held_{{ else }}` + "`{{ .Command }}`" + `{{ end }} |
{{- end }}
{{- else }}
No coins found.
{{- end }}
`

// RenderSuggestions renders search results to markdown.
func RenderSuggestions(s *Suggestions) string {
	return execute("suggestions", suggestionsMarkdownTemplate, s)
}

const coinMarkdownTemplate = `# {{ .Name }}{{ if .Symbol }} ({{ .Symbol }}){{ end }}

- Id: ` + "`{{ .ID }}`" + `
{{- if .Image }}
- Logo: {{ .Image }}
{{- end }}
- Price: {{ if .Priced }}{{ .Price }}{{ else }}unknown{{ end }}
`

// Coin is the detail of a coin.
type Coin struct {
	bags.CoinDetail
	Price bags.Money
}

// RenderCoin renders a coin detail to markdown.
func RenderCoin(d bags.CoinDetail) string {
	d.Symbol = strings.ToUpper(d.Symbol)
	return execute("coin", coinMarkdownTemplate, Coin{CoinDetail: d, Price: bags.USD(d.CurrentPriceUSD)})
}
