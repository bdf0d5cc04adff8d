// Package xlsxexport renders extraction results as an Excel workbook.
package xlsxexport

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"bolx/internal/csvexport"
	"bolx/internal/diagnostics"
	"bolx/internal/domain"
)

// Sheet names.
const (
	SheetData     = "BOL_Data"
	SheetSummary  = "Processing_Summary"
	SheetCoverage = "Field_Coverage"
)

// Export builds a workbook with the record rows, the processing summary and
// per-field coverage. A nil registry skips the coverage sheet.
func Export(records []domain.BOLRecord, registry *diagnostics.Registry) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SheetData); err != nil {
		return nil, fmt.Errorf("xlsx rename sheet: %w", err)
	}
	writeData(f, records)

	if _, err := f.NewSheet(SheetSummary); err != nil {
		return nil, fmt.Errorf("xlsx new sheet: %w", err)
	}
	writeSummary(f, domain.Summarize(records))

	if registry != nil {
		if _, err := f.NewSheet(SheetCoverage); err != nil {
			return nil, fmt.Errorf("xlsx new sheet: %w", err)
		}
		writeCoverage(f, registry.Coverage(records))
	}

	idx, _ := f.GetSheetIndex(SheetData)
	f.SetActiveSheet(idx)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf, nil
}

func writeRow(f *excelize.File, sheet string, row int, values ...any) {
	cell, _ := excelize.CoordinatesToCellName(1, row)
	_ = f.SetSheetRow(sheet, cell, &values)
}

func writeData(f *excelize.File, records []domain.BOLRecord) {
	header := make([]any, len(domain.RecordColumns))
	for i, c := range domain.RecordColumns {
		header[i] = c
	}
	writeRow(f, SheetData, 1, header...)

	for i := range records {
		row := csvexport.Row(&records[i])
		values := make([]any, len(row))
		for j, v := range row {
			values[j] = v
		}
		// extraction_failed stays a real boolean in the workbook.
		values[len(values)-1] = records[i].ExtractionFailed
		writeRow(f, SheetData, i+2, values...)
	}

	_ = f.SetColWidth(SheetData, "A", "A", 28)
	_ = f.SetColWidth(SheetData, "B", "R", 22)
	_ = f.SetColWidth(SheetData, "U", "U", 48)
	_ = f.SetPanes(SheetData, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
}

func writeSummary(f *excelize.File, s domain.Summary) {
	writeRow(f, SheetSummary, 1, "Metric", "Count")
	rows := []struct {
		metric string
		count  int
	}{
		{"Total PDFs Processed", s.Total},
		{"Successful Extractions", s.Successful},
		{"Failed Extractions", s.Failed},
		{"Text-based Extractions", s.TextExtractions},
		{"OCR-based Extractions", s.OCRExtractions},
		{"High Confidence", s.HighConfidence},
		{"Medium Confidence", s.MediumConfidence},
		{"Low Confidence", s.LowConfidence},
	}
	for i, r := range rows {
		writeRow(f, SheetSummary, i+2, r.metric, r.count)
	}
	_ = f.SetColWidth(SheetSummary, "A", "A", 26)
}

func writeCoverage(f *excelize.File, stats []diagnostics.FieldStat) {
	writeRow(f, SheetCoverage, 1, "Field", "Severity", "Present", "Missing", "Coverage %")
	for i, s := range stats {
		writeRow(f, SheetCoverage, i+2, s.Field, string(s.Severity), s.Present, s.Missing, roundPct(s.Rate()))
	}
	_ = f.SetColWidth(SheetCoverage, "A", "A", 24)
}

func roundPct(rate float64) float64 {
	return float64(int(rate*1000+0.5)) / 10
}
