package report

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"github.com/irridash/backend/internal/model"
)

// BuildPDF renders the report as a printable PDF.
func BuildPDF(ds model.ReportDataset) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, ds.Title)
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Generated: %s", ds.GeneratedAt.Format(time.RFC3339)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Days covered: %d", len(ds.Rows)))
	pdf.Ln(8)

	widths := []float64{24, 26, 26, 22, 30, 18, 24}
	pdf.SetFont("Arial", "B", 9)
	for i, col := range columns {
		pdf.CellFormat(widths[i], 6, col, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, r := range ds.Rows {
		rec := rowRecord(r)
		pdf.CellFormat(widths[0], 6, rec[0], "1", 0, "C", false, 0, "")
		for i := 1; i < len(rec); i++ {
			pdf.CellFormat(widths[i], 6, rec[i], "1", 0, "R", false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.SetFont("Arial", "B", 9)
	totals := []string{
		"TOTAL",
		f1(ds.Summary.TotalWaterL),
		f1(ds.Summary.TotalRuntimeMin),
		strconv.Itoa(ds.Summary.TotalCycles),
		f1(ds.Summary.AvgMoisture),
		strconv.Itoa(ds.Summary.TotalAlerts),
		f1(ds.Summary.AvgEfficiency),
	}
	pdf.CellFormat(widths[0], 6, totals[0], "1", 0, "C", false, 0, "")
	for i := 1; i < len(totals); i++ {
		pdf.CellFormat(widths[i], 6, totals[i], "1", 0, "R", false, 0, "")
	}
	pdf.Ln(-1)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildXLSX renders the report as a spreadsheet: a summary sheet plus the
// daily table.
func BuildXLSX(ds model.ReportDataset) ([]byte, error) {
	f := excelize.NewFile()
	summarySheet := "summary"
	daysSheet := "days"
	f.SetSheetName("Sheet1", summarySheet)
	if _, err := f.NewSheet(daysSheet); err != nil {
		return nil, err
	}

	_ = f.SetCellValue(summarySheet, "A1", ds.Title)
	_ = f.SetCellValue(summarySheet, "A3", "Generated")
	_ = f.SetCellValue(summarySheet, "B3", ds.GeneratedAt.Format(time.RFC3339))
	_ = f.SetCellValue(summarySheet, "A4", "Days covered")
	_ = f.SetCellValue(summarySheet, "B4", len(ds.Rows))
	_ = f.SetCellValue(summarySheet, "A5", "Total water used (L)")
	_ = f.SetCellValue(summarySheet, "B5", ds.Summary.TotalWaterL)
	_ = f.SetCellValue(summarySheet, "A6", "Total runtime (min)")
	_ = f.SetCellValue(summarySheet, "B6", ds.Summary.TotalRuntimeMin)
	_ = f.SetCellValue(summarySheet, "A7", "Pump cycles")
	_ = f.SetCellValue(summarySheet, "B7", ds.Summary.TotalCycles)
	_ = f.SetCellValue(summarySheet, "A8", "Avg soil moisture (%)")
	_ = f.SetCellValue(summarySheet, "B8", ds.Summary.AvgMoisture)
	_ = f.SetCellValue(summarySheet, "A9", "Alerts")
	_ = f.SetCellValue(summarySheet, "B9", ds.Summary.TotalAlerts)
	_ = f.SetCellValue(summarySheet, "A10", "Avg efficiency (%)")
	_ = f.SetCellValue(summarySheet, "B10", ds.Summary.AvgEfficiency)

	for i, col := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(daysSheet, cell, col)
	}
	for i, r := range ds.Rows {
		row := i + 2
		values := []interface{}{
			r.Date, r.WaterUsedL, r.RuntimeMin, r.PumpCycles,
			r.AvgMoisture, r.AlertCount, r.EfficiencyPct,
		}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, row)
			_ = f.SetCellValue(daysSheet, cell, v)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
