package report

import (
	"bytes"
	"fmt"
	"html/template"
)

const baseStyle = `
body { font-family: Arial, sans-serif; margin: 20px; background-color: #f5f5f5; }
.container { background-color: white; padding: 20px; border-radius: 5px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
h2 { color: #1976d2; margin-top: 20px; }
.section { margin: 20px 0; padding: 15px; background-color: #f9f9f9; border-left: 4px solid #1976d2; }
.error { color: #d32f2f; margin: 5px 0; }
.warning { color: #f57c00; margin: 5px 0; }
.data-item { margin: 5px 0; }
`

var failureTmpl = template.Must(template.New("failure").Funcs(template.FuncMap{
	"date": formatDate,
}).Parse(`<!DOCTYPE html>
<html>
<head>
<title>Validation Failure Report</title>
<style>{{.Style}}
h1 { color: #d32f2f; border-bottom: 3px solid #d32f2f; padding-bottom: 10px; }
.status { background-color: #ffebee; color: #c62828; padding: 10px; border-radius: 5px; font-weight: bold; }
.recommendations { background-color: #e3f2fd; padding: 15px; border-radius: 5px; }
</style>
</head>
<body>
<div class="container">
<h1>Validation Failure Report</h1>
<p><strong>Generated:</strong> {{.Generated}}</p>
<div class="status">VALIDATION STATUS: FAILED</div>
<h2>Extracted Data</h2>
<div class="section">
<div class="data-item"><strong>Repository Owner:</strong> {{.R.Record.Owner}}</div>
<div class="data-item"><strong>Date:</strong> {{date .R.Record.Timestamp}}</div>
<div class="data-item"><strong>Version Change:</strong> {{.R.Record.VersionChangeOr "Not specified"}}</div>
<div class="data-item"><strong>Description:</strong> {{.R.Record.Description}}</div>
</div>
{{- if .Context}}
<h2>Source Context</h2>
<div class="section">
{{- range .Context}}
<div class="data-item"><strong>{{.Key}}:</strong> {{.Value}}</div>
{{- end}}
</div>
{{- end}}
<h2>Validation Errors</h2>
<div class="section">
{{- if .R.Outcome.Errors}}
<ul>
{{- range .R.Outcome.Errors}}
<li class="error">{{.}}</li>
{{- end}}
</ul>
{{- else}}
<p>No errors found.</p>
{{- end}}
</div>
{{- if .R.Outcome.Warnings}}
<h2>Validation Warnings</h2>
<div class="section">
<ul>
{{- range .R.Outcome.Warnings}}
<li class="warning">{{.}}</li>
{{- end}}
</ul>
</div>
{{- end}}
<h2>Recommendations</h2>
<div class="recommendations">
<ul>
{{- range .R.Recommendations}}
<li>{{.}}</li>
{{- end}}
</ul>
</div>
</div>
</body>
</html>
`))

var summaryTmpl = template.Must(template.New("summary").Funcs(template.FuncMap{
	"date": formatDate,
	"inc":  func(i int) int { return i + 1 },
}).Parse(`<!DOCTYPE html>
<html>
<head>
<title>Validation Summary Report</title>
<style>{{.Style}}
h1 { color: #1976d2; border-bottom: 3px solid #1976d2; padding-bottom: 10px; }
.stats { display: grid; grid-template-columns: repeat(2, 1fr); gap: 10px; margin: 20px 0; }
.stat-item { background-color: #e3f2fd; padding: 15px; border-radius: 5px; }
.stat-label { font-weight: bold; color: #1976d2; }
.stat-value { font-size: 24px; color: #0d47a1; }
.failed-item { background-color: #ffebee; padding: 15px; margin: 10px 0; border-radius: 5px; border-left: 4px solid #d32f2f; }
</style>
</head>
<body>
<div class="container">
<h1>Validation Summary Report</h1>
<p><strong>Generated:</strong> {{.Generated}}</p>
<h2>Summary Statistics</h2>
<div class="stats">
<div class="stat-item"><div class="stat-label">Total Validations</div><div class="stat-value">{{.R.Stats.Total}}</div></div>
<div class="stat-item"><div class="stat-label">Passed</div><div class="stat-value">{{.R.Stats.Passed}}</div></div>
<div class="stat-item"><div class="stat-label">Failed</div><div class="stat-value">{{.R.Stats.Failed}}</div></div>
<div class="stat-item"><div class="stat-label">Pass Rate</div><div class="stat-value">{{.PassRate}}</div></div>
</div>
{{- if .R.Failed}}
<h2>Failed Validations</h2>
{{- range $i, $e := .R.Failed}}
<div class="failed-item">
<h3>Failure #{{inc $i}}</h3>
<p><strong>Timestamp:</strong> {{date $e.RecordedAt}}</p>
<p><strong>Repository Owner:</strong> {{$e.Owner}}</p>
<p><strong>Date:</strong> {{date $e.Timestamp}}</p>
<p><strong>Errors:</strong></p>
<ul>
{{- range $e.Errors}}
<li class="error">{{.}}</li>
{{- end}}
</ul>
</div>
{{- end}}
{{- end}}
</div>
</body>
</html>
`))

type kv struct {
	Key   string
	Value string
}

func failureHTML(r FailureReport) ([]byte, error) {
	ctx := make([]kv, 0, len(r.Context))
	for _, k := range sortedKeys(r.Context) {
		ctx = append(ctx, kv{Key: k, Value: fmt.Sprint(r.Context[k])})
	}

	var buf bytes.Buffer
	err := failureTmpl.Execute(&buf, struct {
		Style     template.CSS
		Generated string
		R         FailureReport
		Context   []kv
	}{
		Style:     template.CSS(baseStyle),
		Generated: r.GeneratedAt.Format(displayTime),
		R:         r,
		Context:   ctx,
	})
	if err != nil {
		return nil, fmt.Errorf("render failure html: %w", err)
	}
	return buf.Bytes(), nil
}

func summaryHTML(r SummaryReport) ([]byte, error) {
	var buf bytes.Buffer
	err := summaryTmpl.Execute(&buf, struct {
		Style     template.CSS
		Generated string
		PassRate  string
		R         SummaryReport
	}{
		Style:     template.CSS(baseStyle),
		Generated: r.GeneratedAt.Format(displayTime),
		PassRate:  fmt.Sprintf("%.2f%%", r.Stats.PassRate),
		R:         r,
	})
	if err != nil {
		return nil, fmt.Errorf("render summary html: %w", err)
	}
	return buf.Bytes(), nil
}
