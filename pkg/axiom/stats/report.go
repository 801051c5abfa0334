package stats

import (
	"fmt"
	"html/template"
	"io"
	"sort"
	"strings"
)

// operatorRows returns operator counts sorted by frequency, then name.
func (r *Report) operatorRows() []RuleScore {
	rows := make([]RuleScore, 0, len(r.OperatorCounts))
	for name, count := range r.OperatorCounts {
		rows = append(rows, RuleScore{Rule: name, Score: count})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Score != rows[j].Score {
			return rows[i].Score > rows[j].Score
		}
		return rows[i].Rule < rows[j].Rule
	})
	return rows
}

func joinOrNone(facts []string) string {
	if len(facts) == 0 {
		return "None"
	}
	return strings.Join(facts, ", ")
}

// WriteText writes a plain-text report.
func (r *Report) WriteText(w io.Writer) error {
	var b strings.Builder
	rule := strings.Repeat("=", 70)
	sep := strings.Repeat("-", 70)

	b.WriteString(rule + "\nRULE SET STATISTICS\n" + rule + "\n\n")

	b.WriteString("BASIC METRICS\n" + sep + "\n")
	fmt.Fprintf(&b, "Total rules:            %d\n", r.TotalRules)
	fmt.Fprintf(&b, "Biconditional rules:    %d\n", r.BiconditionalRules)
	fmt.Fprintf(&b, "Regular rules:          %d\n\n", r.TotalRules-r.BiconditionalRules)

	b.WriteString("FACTS\n" + sep + "\n")
	fmt.Fprintf(&b, "Initial facts:          %s\n", joinOrNone(r.InitialFacts))
	fmt.Fprintf(&b, "Total facts used:       %d (%s)\n", len(r.FactsUsed), joinOrNone(r.FactsUsed))
	fmt.Fprintf(&b, "Facts concluded:        %d (%s)\n\n", len(r.FactsConcluded), joinOrNone(r.FactsConcluded))

	if len(r.OperatorCounts) > 0 {
		b.WriteString("OPERATORS USED\n" + sep + "\n")
		for _, row := range r.operatorRows() {
			fmt.Fprintf(&b, "  %-20s %3d times\n", row.Rule, row.Score)
		}
		b.WriteString("\n")
	}

	if r.TotalRules > 0 {
		b.WriteString("COMPLEXITY METRICS\n" + sep + "\n")
		fmt.Fprintf(&b, "Average complexity:     %.2f\n", r.AvgComplexity)
		fmt.Fprintf(&b, "Maximum complexity:     %d\n", r.MaxComplexity)
		fmt.Fprintf(&b, "Minimum complexity:     %d\n", r.MinComplexity)
		fmt.Fprintf(&b, "Maximum nesting depth:  %d\n\n", r.MaxDepth)
	}

	if len(r.Dependencies) > 0 {
		b.WriteString("FACT DEPENDENCIES\n" + sep + "\n")
		for _, d := range r.Dependencies {
			fmt.Fprintf(&b, "  %s depends on: %s\n", d.Fact, strings.Join(d.DependsOn, ", "))
		}
		b.WriteString("\n")
	}

	if len(r.TopRules) > 0 {
		b.WriteString("MOST COMPLEX RULES\n" + sep + "\n")
		for i, s := range r.TopRules {
			fmt.Fprintf(&b, "  %d. [%d] %s\n", i+1, s.Score, s.Rule)
		}
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

var htmlReport = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Rule Set Statistics</title>
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; margin-bottom: 1.5em; }
th, td { border: 1px solid #ccc; padding: 0.3em 0.8em; text-align: left; }
th { background: #f0f0f0; }
</style>
</head>
<body>
<h1>Rule Set Statistics</h1>

<h2>Basic metrics</h2>
<table>
<tr><th>Total rules</th><td>{{.TotalRules}}</td></tr>
<tr><th>Biconditional rules</th><td>{{.BiconditionalRules}}</td></tr>
<tr><th>Regular rules</th><td>{{.RegularRules}}</td></tr>
<tr><th>Initial facts</th><td>{{.InitialFacts}}</td></tr>
<tr><th>Facts used</th><td>{{.FactsUsed}}</td></tr>
<tr><th>Facts concluded</th><td>{{.FactsConcluded}}</td></tr>
</table>

{{if .Operators}}
<h2>Operators used</h2>
<table>
<tr><th>Operator</th><th>Count</th></tr>
{{range .Operators}}<tr><td>{{.Rule}}</td><td>{{.Score}}</td></tr>
{{end}}</table>
{{end}}

{{if .HasRules}}
<h2>Complexity</h2>
<table>
<tr><th>Average</th><td>{{printf "%.2f" .AvgComplexity}}</td></tr>
<tr><th>Maximum</th><td>{{.MaxComplexity}}</td></tr>
<tr><th>Minimum</th><td>{{.MinComplexity}}</td></tr>
<tr><th>Maximum nesting depth</th><td>{{.MaxDepth}}</td></tr>
</table>
{{end}}

{{if .Dependencies}}
<h2>Fact dependencies</h2>
<table>
<tr><th>Fact</th><th>Depends on</th></tr>
{{range .Dependencies}}<tr><td>{{.Fact}}</td><td>{{.DependsOn}}</td></tr>
{{end}}</table>
{{end}}

{{if .TopRules}}
<h2>Most complex rules</h2>
<table>
<tr><th>Score</th><th>Rule</th></tr>
{{range .TopRules}}<tr><td>{{.Score}}</td><td>{{.Rule}}</td></tr>
{{end}}</table>
{{end}}
</body>
</html>
`))

type htmlData struct {
	TotalRules         int
	BiconditionalRules int
	RegularRules       int
	InitialFacts       string
	FactsUsed          string
	FactsConcluded     string
	Operators          []RuleScore
	HasRules           bool
	AvgComplexity      float64
	MaxComplexity      int
	MinComplexity      int
	MaxDepth           int
	Dependencies       []struct{ Fact, DependsOn string }
	TopRules           []RuleScore
}

// WriteHTML renders the report as a standalone HTML page.
func (r *Report) WriteHTML(w io.Writer) error {
	data := htmlData{
		TotalRules:         r.TotalRules,
		BiconditionalRules: r.BiconditionalRules,
		RegularRules:       r.TotalRules - r.BiconditionalRules,
		InitialFacts:       joinOrNone(r.InitialFacts),
		FactsUsed:          joinOrNone(r.FactsUsed),
		FactsConcluded:     joinOrNone(r.FactsConcluded),
		Operators:          r.operatorRows(),
		HasRules:           r.TotalRules > 0,
		AvgComplexity:      r.AvgComplexity,
		MaxComplexity:      r.MaxComplexity,
		MinComplexity:      r.MinComplexity,
		MaxDepth:           r.MaxDepth,
		TopRules:           r.TopRules,
	}
	for _, d := range r.Dependencies {
		data.Dependencies = append(data.Dependencies,
			struct{ Fact, DependsOn string }{d.Fact, strings.Join(d.DependsOn, ", ")})
	}
	return htmlReport.Execute(w, data)
}
