package pdftext

import (
	"math"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"

	"bolx/internal/domain"
)

type cell struct {
	x    float64
	text string
}

// segmentRow merges the glyph runs of one row into cells, starting a new cell
// wherever the horizontal gap exceeds gap.
func segmentRow(texts []pdf.Text, gap float64) []cell {
	if len(texts) == 0 {
		return nil
	}
	sorted := make([]pdf.Text, len(texts))
	copy(sorted, texts)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].X < sorted[j].X })

	var (
		cells []cell
		cur   strings.Builder
		start = sorted[0].X
		end   = sorted[0].X
	)
	flush := func() {
		if s := strings.Join(strings.Fields(cur.String()), " "); s != "" {
			cells = append(cells, cell{x: start, text: s})
		}
		cur.Reset()
	}
	for i, t := range sorted {
		if i > 0 {
			switch d := t.X - end; {
			case d > gap:
				flush()
				start = t.X
			case d > wordGap(sorted[i-1]):
				cur.WriteByte(' ')
			}
		}
		cur.WriteString(t.S)
		if right := t.X + t.W; right > end {
			end = right
		}
	}
	flush()
	return cells
}

// tablesFromRows groups consecutive multi-cell rows into grids. Body cells are
// assigned to the header column whose start is nearest.
func tablesFromRows(rows [][]cell) []domain.TableGrid {
	var (
		tables []domain.TableGrid
		run    [][]cell
	)
	emit := func() {
		if len(run) >= 2 {
			tables = append(tables, buildGrid(run))
		}
		run = nil
	}
	for _, r := range rows {
		if len(r) >= 2 {
			run = append(run, r)
			continue
		}
		emit()
	}
	emit()
	return tables
}

func buildGrid(rows [][]cell) domain.TableGrid {
	header := rows[0]
	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = uniqueName(columns[:i], h.text)
	}

	grid := domain.TableGrid{Columns: columns}
	for _, r := range rows[1:] {
		values := make(map[string]string, len(r))
		for _, c := range r {
			col := columns[nearestColumn(header, c.x)]
			if prev, ok := values[col]; ok {
				values[col] = prev + " " + c.text
			} else {
				values[col] = c.text
			}
		}
		grid.Rows = append(grid.Rows, values)
	}
	return grid
}

func nearestColumn(header []cell, x float64) int {
	best := 0
	for i := range header {
		if math.Abs(header[i].x-x) < math.Abs(header[best].x-x) {
			best = i
		}
	}
	return best
}

// uniqueName suffixes repeated header names so every column key is distinct.
func uniqueName(existing []string, name string) string {
	candidate := name
	for n := 2; slices.Contains(existing, candidate); n++ {
		candidate = name + "_" + strconv.Itoa(n)
	}
	return candidate
}
