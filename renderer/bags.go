package renderer

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/etnz/bags"
)

// Report is the data of a portfolio report, one line per holding in
// portfolio order.
type Report struct {
	Title    string
	Total    bags.Money
	Unpriced int
	Lines    []ReportLine
}

// ReportLine is a single holding of the report.
type ReportLine struct {
	Position int // 1-based
	ID       string
	Name     string
	Symbol   string
	Quantity bags.Quantity
	Price    string // "?" when unknown
	Change   string // 24h change, empty when unknown
	Value    bags.Money
}

// NewReport creates the report of a valuation.
func NewReport(title string, v bags.Valuation) *Report {
	r := &Report{
		Title:    title,
		Total:    v.Total,
		Unpriced: v.Unpriced,
		Lines:    make([]ReportLine, 0, len(v.Lines)),
	}
	for i, l := range v.Lines {
		line := ReportLine{
			Position: i + 1,
			ID:       l.ID,
			Name:     l.Name,
			Symbol:   strings.ToUpper(l.Symbol),
			Quantity: l.Quantity,
			Price:    "?",
			Value:    l.MarketValue,
		}
		if line.Name == "" {
			line.Name = l.ID
		}
		if l.Priced {
			line.Price = l.Price.String()
		}
		if l.Change24h != nil {
			line.Change = l.Change24h.StringFixed(2) + "%"
			if l.Change24h.IsPositive() {
				line.Change = "+" + line.Change
			}
		}
		r.Lines = append(r.Lines, line)
	}
	return r
}

const reportMarkdownTemplate = `# {{ .Title }}

Total: **{{ .Total }}**
{{- if .Unpriced }}

_{{ .Unpriced }} coin(s) without a price are valued at 0, run ` + "`yb refresh`" + `._
{{- end }}
{{- if .Lines }}

| # | Coin | Quantity | Price | 24h | Value |
|---:|:---|---:|---:|---:|---:|
{{- range .Lines }}
| {{ .Position }} | {{ cell .Name }}{{ if .Symbol }} ({{ cell .Symbol }}){{ end }} | {{ .Quantity }} | {{ .Price }} | {{ .Change }} | {{ .Value }} |
{{- end }}
| | **Total** | | | | **{{ .Total }}** |
{{- else }}

No coins yet, search one with ` + "`yb search <name>`" + `.
{{- end }}
`

// RenderReport renders the report to markdown.
func RenderReport(r *Report) string {
	return execute("report", reportMarkdownTemplate, r)
}

// cell makes s safe inside a markdown table cell.
func cell(s string) string {
	return strings.NewReplacer("|", `\|`, "\r", " ", "\n", " ").Replace(s)
}

// execute parses and executes a template, errors are rendered in place.
func execute(name, tmpl string, data any) string {
	t, err := template.New(name).Funcs(template.FuncMap{"cell": cell}).Parse(tmpl)
	if err != nil {
		return fmt.Sprintf("error parsing template %q: %v", name, err)
	}
	var b strings.Builder
	if err := t.Execute(&b, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", name, err)
	}
	return b.String()
}
