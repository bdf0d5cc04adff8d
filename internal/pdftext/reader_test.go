package pdftext_test

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bolx/internal/domain"
	"bolx/internal/extraction"
	"bolx/internal/pdftext"
)

// buildPDF assembles a single-page PDF around a content stream. The page font
// carries a uniform width table so glyph positions advance like a real font.
func buildPDF(t *testing.T, content string) []byte {
	t.Helper()

	widths := strings.TrimSpace(strings.Repeat("600 ", 95))
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 4 0 R >> >> /Contents 5 0 R >>",
		"<< /Type /Font /Subtype /Type1 /BaseFont /Courier /Encoding /WinAnsiEncoding /FirstChar 32 /LastChar 126 /Widths [" + widths + "] >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

// tdLines lays out one string per line, each placed with a relative Td move.
func tdLines(x, y int, lines ...string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "BT\n/F1 12 Tf\n%d %d Td\n", x, y)
	for i, l := range lines {
		if i > 0 {
			b.WriteString("0 -14 Td\n")
		}
		fmt.Fprintf(&b, "(%s) Tj\n", l)
	}
	b.WriteString("ET\n")
	return b.String()
}

// tmRow places each cell of one row with an absolute Tm, one column per x.
func tmRow(y int, cells map[int]string) string {
	var b strings.Builder
	b.WriteString("BT\n/F1 12 Tf\n")
	for _, x := range []int{50, 250} {
		if s, ok := cells[x]; ok {
			fmt.Fprintf(&b, "1 0 0 1 %d %d Tm\n(%s) Tj\n", x, y, s)
		}
	}
	b.WriteString("ET\n")
	return b.String()
}

var billLines = []string{
	"B/L NUMBER: BOL123456789",
	"SHIPPER:",
	"ABC Shipping Company",
	"123 Export Lane",
	"CONSIGNEE:",
	"XYZ Import Corp",
	"VESSEL: MV Ocean Carrier",
	"VOYAGE: VOY2024001",
	"PORT OF LOADING: Los Angeles, CA",
	"PORT OF DISCHARGE: New York, NY",
}

func billOfLadingPDF(t *testing.T) []byte {
	content := tdLines(50, 750, billLines...) +
		tmRow(500, map[int]string{50: "Marks", 250: "Description of Goods"}) +
		tmRow(486, map[int]string{50: "M1", 250: "Electronic Components"})
	return buildPDF(t, content)
}

func TestReader_ExtractText_KeepsLineBreaks(t *testing.T) {
	r := pdftext.NewReader(0)

	text, err := r.ExtractText(context.Background(), billOfLadingPDF(t))

	require.NoError(t, err)
	want := strings.Join(billLines, "\n") + "\nMarks Description of Goods\nM1 Electronic Components"
	assert.Equal(t, want, text)
}

func TestReader_ExtractText_FeedsFieldExtraction(t *testing.T) {
	text, err := pdftext.NewReader(0).ExtractText(context.Background(), billOfLadingPDF(t))
	require.NoError(t, err)

	assert.Equal(t, domain.ConfidenceHigh, extraction.AssessQuality(text))

	rec := extraction.NewExtractor(nil).ExtractAll(text, nil, "bill.pdf")
	assert.Equal(t, "BOL123456789", rec.BOLNumber)
	assert.Equal(t, "ABC Shipping Company", rec.ShipperName)
	assert.Equal(t, "123 Export Lane", rec.ShipperAddress)
	assert.Equal(t, "XYZ Import Corp", rec.ConsigneeName)
	assert.Equal(t, "MV Ocean Carrier", rec.VesselName)
	assert.Equal(t, "VOY2024001", rec.VoyageNumber)
	assert.Equal(t, "Los Angeles, CA", rec.PortOfLoad)
	assert.Equal(t, "New York, NY", rec.PortOfDischarge)
}

func TestReader_ExtractTables_DetectsGrid(t *testing.T) {
	r := pdftext.NewReader(0)

	tables, err := r.ExtractTables(context.Background(), billOfLadingPDF(t))

	require.NoError(t, err)
	require.Len(t, tables, 1)
	assert.Equal(t, []string{"Marks", "Description of Goods"}, tables[0].Columns)
	assert.Equal(t, []map[string]string{
		{"Marks": "M1", "Description of Goods": "Electronic Components"},
	}, tables[0].Rows)
}

func TestReader_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := pdftext.NewReader(0).ExtractText(ctx, billOfLadingPDF(t))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReader_EmptyContent(t *testing.T) {
	r := pdftext.NewReader(0)

	_, err := r.ExtractText(context.Background(), nil)
	assert.Error(t, err)

	_, err = r.ExtractTables(context.Background(), []byte{})
	assert.Error(t, err)
}

func TestReader_NotAPDF(t *testing.T) {
	r := pdftext.NewReader(0)

	text, err := r.ExtractText(context.Background(), []byte("this is not a pdf document"))
	assert.Error(t, err)
	assert.Empty(t, text)

	tables, err := r.ExtractTables(context.Background(), []byte("%PDF-1.4 truncated"))
	assert.Error(t, err)
	assert.Nil(t, tables)
}
