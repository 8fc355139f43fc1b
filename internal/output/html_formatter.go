package output

import (
	"bytes"
	_ "embed"
	"html/template"

	"github.com/goccy/go-json"

	"github.com/rpgo/powerlaw-drawdown/internal/domain"
)

// HTMLFormatter produces a self-contained HTML report with a chart of each trajectory.
type HTMLFormatter struct{}

func (h HTMLFormatter) Name() string { return "html" }

//go:embed templates/report.html.tmpl
var htmlTemplateSource string

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"curr":    FormatCurrency,
	"cents":   FormatCents,
	"pct":     FormatPercentage,
	"dollars": FormatDollars,
	"units":   FormatUnits,
	"add":     func(i, j int) int { return i + j },
	"limit": func(records []domain.MonthlyRecord, n int) []domain.MonthlyRecord {
		if len(records) > n {
			return records[:n]
		}
		return records
	},
	"json": func(v interface{}) template.JS {
		b, _ := json.Marshal(v)
		return template.JS(b)
	},
}).Parse(htmlTemplateSource))

type chartSeries struct {
	Name   string    `json:"name"`
	Dates  []string  `json:"dates"`
	Values []float64 `json:"values"`
}

func (h HTMLFormatter) Format(results *domain.ScenarioComparison) ([]byte, error) {
	var buf bytes.Buffer
	rec := AnalyzeScenarios(results)

	series := make([]chartSeries, 0, len(results.Scenarios))
	for _, sc := range results.Scenarios {
		s := chartSeries{Name: sc.Name}
		for _, r := range sc.Records {
			s.Dates = append(s.Dates, r.Date.String())
			s.Values = append(s.Values, r.Balance)
		}
		series = append(series, s)
	}

	data := struct {
		*domain.ScenarioComparison
		Best        Recommendation
		Assumptions []string
		Series      []chartSeries
		MaxRows     int
	}{results, rec, GenerateAssumptions(results), series, MaxTableRows}
	if err := htmlTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
