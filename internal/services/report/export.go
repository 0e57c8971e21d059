package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"html/template"
	"strconv"
	"time"

	"github.com/irridash/backend/internal/model"
)

var columns = []string{
	"Date",
	"Water Used (L)",
	"Runtime (min)",
	"Pump Cycles",
	"Avg Soil Moisture (%)",
	"Alerts",
	"Efficiency (%)",
}

// EncodeCSV renders the fixed-column table plus a trailing summary row.
func EncodeCSV(ds model.ReportDataset) []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	_ = w.Write(columns)
	for _, r := range ds.Rows {
		_ = w.Write(rowRecord(r))
	}
	_ = w.Write([]string{
		"TOTAL",
		f1(ds.Summary.TotalWaterL),
		f1(ds.Summary.TotalRuntimeMin),
		strconv.Itoa(ds.Summary.TotalCycles),
		f1(ds.Summary.AvgMoisture),
		strconv.Itoa(ds.Summary.TotalAlerts),
		f1(ds.Summary.AvgEfficiency),
	})

	w.Flush()
	return buf.Bytes()
}

// EncodeCSVReport is the CSV variant with a descriptive header block, for
// users opening the file directly rather than importing it.
func EncodeCSVReport(ds model.ReportDataset) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# %s\n", ds.Title)
	fmt.Fprintf(&buf, "# Generated: %s\n", ds.GeneratedAt.Format(time.RFC3339))
	fmt.Fprintf(&buf, "# Days covered: %d\n", len(ds.Rows))
	fmt.Fprintf(&buf, "# Total water used: %s L over %s minutes (%d pump cycles)\n",
		f1(ds.Summary.TotalWaterL), f1(ds.Summary.TotalRuntimeMin), ds.Summary.TotalCycles)
	fmt.Fprintf(&buf, "# Average soil moisture: %s%%, average efficiency: %s%%, alerts: %d\n",
		f1(ds.Summary.AvgMoisture), f1(ds.Summary.AvgEfficiency), ds.Summary.TotalAlerts)
	buf.WriteString("#\n")
	buf.Write(EncodeCSV(ds))
	return buf.Bytes()
}

var htmlTmpl = template.Must(template.New("report").Funcs(template.FuncMap{"f1": f1}).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; margin: 2em; color: #1d3124; }
h1 { color: #2e7d32; }
table { border-collapse: collapse; width: 100%; }
th, td { border: 1px solid #a5c8a8; padding: 6px 10px; text-align: right; }
th { background: #e8f5e9; }
td:first-child, th:first-child { text-align: left; }
tfoot td { font-weight: bold; background: #f1f8f1; }
.meta { color: #5a6e5d; font-size: 0.9em; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<p class="meta">Generated {{.GeneratedAt.Format "2006-01-02 15:04:05 UTC"}} &middot; {{len .Rows}} days</p>
<table>
<thead>
<tr>{{range .Columns}}<th>{{.}}</th>{{end}}</tr>
</thead>
<tbody>
{{range .Rows}}<tr><td>{{.Date}}</td><td>{{f1 .WaterUsedL}}</td><td>{{f1 .RuntimeMin}}</td><td>{{.PumpCycles}}</td><td>{{f1 .AvgMoisture}}</td><td>{{.AlertCount}}</td><td>{{f1 .EfficiencyPct}}</td></tr>
{{end}}</tbody>
<tfoot>
<tr><td>TOTAL</td><td>{{f1 .Summary.TotalWaterL}}</td><td>{{f1 .Summary.TotalRuntimeMin}}</td><td>{{.Summary.TotalCycles}}</td><td>{{f1 .Summary.AvgMoisture}}</td><td>{{.Summary.TotalAlerts}}</td><td>{{f1 .Summary.AvgEfficiency}}</td></tr>
</tfoot>
</table>
</body>
</html>
`))

// RenderHTML renders the styled hypertext document.
func RenderHTML(ds model.ReportDataset) ([]byte, error) {
	data := struct {
		model.ReportDataset
		Columns []string
	}{ReportDataset: ds, Columns: columns}

	var buf bytes.Buffer
	if err := htmlTmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render report html: %w", err)
	}
	return buf.Bytes(), nil
}

func rowRecord(r model.ReportRow) []string {
	return []string{
		r.Date,
		f1(r.WaterUsedL),
		f1(r.RuntimeMin),
		strconv.Itoa(r.PumpCycles),
		f1(r.AvgMoisture),
		strconv.Itoa(r.AlertCount),
		f1(r.EfficiencyPct),
	}
}

func f1(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
