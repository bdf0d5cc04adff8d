package domain_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bolx/internal/domain"
)

func TestSummarize(t *testing.T) {
	records := []domain.BOLRecord{
		{FileName: "a.pdf", ExtractionMethod: domain.MethodText, ExtractionConfidence: domain.ConfidenceHigh},
		{FileName: "b.pdf", ExtractionMethod: domain.MethodOCR, ExtractionConfidence: domain.ConfidenceMedium},
		{FileName: "c.pdf", ExtractionMethod: domain.MethodTextFallback, ExtractionConfidence: domain.ConfidenceLow},
		domain.FailedRecord("d.pdf", "Processing error: boom"),
	}

	s := domain.Summarize(records)

	assert.Equal(t, 4, s.Total)
	assert.Equal(t, 3, s.Successful)
	assert.Equal(t, 1, s.Failed)
	assert.Equal(t, 1, s.TextExtractions)
	assert.Equal(t, 1, s.OCRExtractions)
	assert.Equal(t, 1, s.HighConfidence)
	assert.Equal(t, 1, s.MediumConfidence)
	assert.Equal(t, 2, s.LowConfidence)
}

func TestSummarize_Empty(t *testing.T) {
	assert.Equal(t, domain.Summary{}, domain.Summarize(nil))
}

func TestFailedRecord(t *testing.T) {
	r := domain.FailedRecord("x.pdf", "Processing error: bad header")

	assert.True(t, r.ExtractionFailed)
	assert.NotEmpty(t, r.ProcessingNotes)
	assert.Equal(t, "x.pdf", r.FileName)
	assert.Empty(t, r.BOLNumber)
	assert.Equal(t, domain.ConfidenceLow, r.ExtractionConfidence)
}

func TestFailures_PreservesOrder(t *testing.T) {
	records := []domain.BOLRecord{
		domain.FailedRecord("1.pdf", "first"),
		{FileName: "2.pdf"},
		domain.FailedRecord("3.pdf", "third"),
	}

	got := domain.Failures(records)
	require.Len(t, got, 2)
	assert.Equal(t, "1.pdf", got[0].FileName)
	assert.Equal(t, "third", got[1].Notes)
}

func TestRecordColumns_Order(t *testing.T) {
	require.Len(t, domain.RecordColumns, 22)
	assert.Equal(t, "filename", domain.RecordColumns[0])
	assert.Equal(t, "bol_number", domain.RecordColumns[1])
	assert.Equal(t, "extraction_failed", domain.RecordColumns[21])

	r := domain.BOLRecord{}
	strs := r.Strings()
	for _, col := range domain.RecordColumns[:21] {
		_, ok := strs[col]
		assert.True(t, ok, "missing column %s", col)
	}
}

func TestPreview(t *testing.T) {
	r := domain.BOLRecord{FileName: "a.pdf", BOLNumber: "B1", ShipperAddress: "hidden"}
	p := r.Preview()

	assert.Len(t, p, len(domain.PreviewColumns))
	assert.Equal(t, "B1", p["bol_number"])
	_, ok := p["shipper_address"]
	assert.False(t, ok)
}

func TestDocument_DecodeRecord(t *testing.T) {
	rec := domain.BOLRecord{FileName: "a.pdf", VesselName: "MV Test"}
	raw, err := json.Marshal(rec)
	require.NoError(t, err)

	doc := domain.Document{FileName: "a.pdf", Record: raw}
	got, err := doc.DecodeRecord()
	require.NoError(t, err)
	assert.Equal(t, "MV Test", got.VesselName)

	empty := domain.Document{FileName: "b.pdf"}
	got, err = empty.DecodeRecord()
	require.NoError(t, err)
	assert.Equal(t, "b.pdf", got.FileName)
}

func TestParseExportFormat(t *testing.T) {
	f, err := domain.ParseExportFormat("")
	require.NoError(t, err)
	assert.Equal(t, domain.ExportFormatXLSX, f)

	f, err = domain.ParseExportFormat("CSV")
	require.NoError(t, err)
	assert.Equal(t, domain.ExportFormatCSV, f)

	_, err = domain.ParseExportFormat("pdf")
	assert.ErrorIs(t, err, domain.ErrInvalidExportFormat)
}

func TestExportFormat_Filename(t *testing.T) {
	at := time.Date(2024, 3, 15, 14, 25, 1, 0, time.UTC)
	assert.Equal(t, "bol_extraction_results_20240315_142501.xlsx", domain.ExportFormatXLSX.Filename(at))
	assert.Equal(t, "bol_extraction_results_20240315_142501.csv", domain.ExportFormatCSV.Filename(at))
}
