package csvexport

import (
	"encoding/csv"
	"io"
	"strconv"

	"bolx/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// Writer wraps csv.Writer for exporting extraction records as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the record column names in export order.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(domain.RecordColumns)
}

// WriteRecords writes one row per record, in input order.
func (w *Writer) WriteRecords(records []domain.BOLRecord) error {
	for i := range records {
		if err := w.csv.Write(Row(&records[i])); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

// Row converts a record to a slice aligned with domain.RecordColumns.
func Row(rec *domain.BOLRecord) []string {
	values := rec.Strings()
	row := make([]string, len(domain.RecordColumns))
	for i, col := range domain.RecordColumns {
		if col == "extraction_failed" {
			row[i] = strconv.FormatBool(rec.ExtractionFailed)
			continue
		}
		row[i] = values[col]
	}
	return row
}

// Export writes a complete CSV document (BOM, header, rows) to w.
func Export(w io.Writer, records []domain.BOLRecord) error {
	if _, err := w.Write(BOM); err != nil {
		return err
	}
	cw := NewWriter(w)
	if err := cw.WriteHeader(); err != nil {
		return err
	}
	if err := cw.WriteRecords(records); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}
