// Package pdftext reads the embedded text layer of PDF documents.
package pdftext

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"bolx/internal/domain"
)

// DefaultColumnGap is the horizontal distance, in points, that separates two
// table cells on the same row.
const DefaultColumnGap = 12.0

var errEmptyContent = errors.New("empty PDF content")

// Reader implements port.TextExtractor and port.TableExtractor over
// ledongthuc/pdf.
type Reader struct {
	maxPages  int
	columnGap float64
}

// NewReader creates a Reader. maxPages limits how many pages are read; 0
// reads every page.
func NewReader(maxPages int) *Reader {
	return &Reader{maxPages: maxPages, columnGap: DefaultColumnGap}
}

// ExtractText returns the text of every page, one line per visual row and
// pages separated by a line break.
func (r *Reader) ExtractText(ctx context.Context, content []byte) (text string, err error) {
	defer recoverInto(&err)

	doc, err := open(content)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for i := 1; i <= r.pageCount(doc); i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		page := doc.Page(i)
		if page.V.IsNull() {
			continue
		}
		for _, line := range pageLines(page) {
			if b.Len() > 0 {
				b.WriteString("\n")
			}
			b.WriteString(joinLine(line))
		}
	}
	return b.String(), nil
}

// ExtractTables detects row-aligned grids on every page. A grid is a run of
// at least two consecutive rows that each split into two or more cells; its
// first row supplies the column names.
func (r *Reader) ExtractTables(ctx context.Context, content []byte) (tables []domain.TableGrid, err error) {
	defer recoverInto(&err)

	doc, err := open(content)
	if err != nil {
		return nil, err
	}

	for i := 1; i <= r.pageCount(doc); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page := doc.Page(i)
		if page.V.IsNull() {
			continue
		}
		var rows [][]cell
		for _, line := range pageLines(page) {
			rows = append(rows, segmentRow(line, r.columnGap))
		}
		tables = append(tables, tablesFromRows(rows)...)
	}
	return tables, nil
}

func (r *Reader) pageCount(doc *pdf.Reader) int {
	n := doc.NumPage()
	if r.maxPages > 0 && n > r.maxPages {
		return r.maxPages
	}
	return n
}

func open(content []byte) (*pdf.Reader, error) {
	if len(content) == 0 {
		return nil, errEmptyContent
	}
	doc, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	return doc, nil
}

// recoverInto turns a panic from the PDF parser into an error.
func recoverInto(err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("pdf parser panic: %v", r)
	}
}
