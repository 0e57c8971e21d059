package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/irridash/backend/internal/model"
)

func sampleDataset() model.ReportDataset {
	rows := []model.ReportRow{
		{Date: "2026-08-18", WaterUsedL: 120.5, RuntimeMin: 45, PumpCycles: 3, AvgMoisture: 41.2, AlertCount: 0, EfficiencyPct: 88.4},
		{Date: "2026-08-19", WaterUsedL: 0, RuntimeMin: 0, PumpCycles: 0, AvgMoisture: 37.8, AlertCount: 1, EfficiencyPct: 100},
		{Date: "2026-08-20", WaterUsedL: 75.1, RuntimeMin: 30.5, PumpCycles: 2, AvgMoisture: 44.0, AlertCount: 0, EfficiencyPct: 91.0},
	}
	return BuildDataset("Irrigation Daily Report", time.Date(2026, 8, 21, 6, 0, 0, 0, time.UTC), rows)
}

func TestBuildDatasetSummary(t *testing.T) {
	ds := sampleDataset()
	s := ds.Summary

	if s.TotalWaterL != 195.6 {
		t.Errorf("TotalWaterL = %v, want 195.6", s.TotalWaterL)
	}
	if s.TotalRuntimeMin != 75.5 {
		t.Errorf("TotalRuntimeMin = %v, want 75.5", s.TotalRuntimeMin)
	}
	if s.TotalCycles != 5 {
		t.Errorf("TotalCycles = %v, want 5", s.TotalCycles)
	}
	if s.TotalAlerts != 1 {
		t.Errorf("TotalAlerts = %v, want 1", s.TotalAlerts)
	}
	if s.AvgMoisture != 41.0 {
		t.Errorf("AvgMoisture = %v, want 41.0", s.AvgMoisture)
	}
	if s.AvgEfficiency != 93.1 {
		t.Errorf("AvgEfficiency = %v, want 93.1", s.AvgEfficiency)
	}
}

func TestEncodeCSV(t *testing.T) {
	ds := sampleDataset()
	out := string(EncodeCSV(ds))

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 5 { // header + 3 rows + totals
		t.Fatalf("got %d lines, want 5:\n%s", len(lines), out)
	}
	if lines[0] != "Date,Water Used (L),Runtime (min),Pump Cycles,Avg Soil Moisture (%),Alerts,Efficiency (%)" {
		t.Fatalf("header = %q", lines[0])
	}
	if lines[1] != "2026-08-18,120.5,45.0,3,41.2,0,88.4" {
		t.Fatalf("row 1 = %q", lines[1])
	}
	if !strings.HasPrefix(lines[4], "TOTAL,195.6,75.5,5,") {
		t.Fatalf("totals = %q", lines[4])
	}
}

func TestEncodeCSVReportHeaderBlock(t *testing.T) {
	ds := sampleDataset()
	out := string(EncodeCSVReport(ds))

	if !strings.HasPrefix(out, "# Irrigation Daily Report\n") {
		t.Fatalf("missing title line:\n%s", out)
	}
	if !strings.Contains(out, "# Generated: 2026-08-21T06:00:00Z") {
		t.Fatalf("missing generated line:\n%s", out)
	}
	if !strings.Contains(out, "# Days covered: 3") {
		t.Fatalf("missing day count:\n%s", out)
	}
	// the plain table must follow the header block unchanged
	if !strings.Contains(out, string(EncodeCSV(ds))) {
		t.Fatal("report variant must embed the plain CSV table")
	}
}

func TestRenderHTML(t *testing.T) {
	ds := sampleDataset()
	out, err := RenderHTML(ds)
	if err != nil {
		t.Fatal(err)
	}
	html := string(out)

	for _, want := range []string{
		"<title>Irrigation Daily Report</title>",
		"<td>2026-08-19</td>",
		"<td>TOTAL</td>",
		"Avg Soil Moisture (%)",
		"<style>",
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("HTML missing %q:\n%s", want, html)
		}
	}
}

func TestEncodingsDeterministic(t *testing.T) {
	ds := sampleDataset()

	if !bytes.Equal(EncodeCSV(ds), EncodeCSV(ds)) {
		t.Fatal("EncodeCSV not deterministic")
	}
	if !bytes.Equal(EncodeCSVReport(ds), EncodeCSVReport(ds)) {
		t.Fatal("EncodeCSVReport not deterministic")
	}
	a, err := RenderHTML(ds)
	if err != nil {
		t.Fatal(err)
	}
	b, err := RenderHTML(ds)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a, b) {
		t.Fatal("RenderHTML not deterministic")
	}
}

func TestBinaryExportsProduceOutput(t *testing.T) {
	ds := sampleDataset()

	pdf, err := BuildPDF(ds)
	if err != nil {
		t.Fatalf("BuildPDF: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Fatal("BuildPDF did not produce a PDF document")
	}

	xlsx, err := BuildXLSX(ds)
	if err != nil {
		t.Fatalf("BuildXLSX: %v", err)
	}
	if len(xlsx) == 0 || !bytes.HasPrefix(xlsx, []byte("PK")) {
		t.Fatal("BuildXLSX did not produce a zip container")
	}
}

func TestEmptyDataset(t *testing.T) {
	ds := BuildDataset("Empty", time.Date(2026, 8, 21, 0, 0, 0, 0, time.UTC), nil)
	if ds.Summary != (model.ReportSummary{}) {
		t.Fatalf("empty dataset summary = %+v, want zero", ds.Summary)
	}
	out := string(EncodeCSV(ds))
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 { // header + totals
		t.Fatalf("got %d lines, want 2:\n%s", len(lines), out)
	}
}
