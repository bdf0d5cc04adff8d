package pdftext

import (
	"math"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// lineTolerance is the vertical distance, in points, within which two glyphs
// sit on the same line.
const lineTolerance = 2.0

// pageLines returns the glyphs of a page grouped into visual lines, top to
// bottom, each ordered left to right. Positions come from the full text
// state, so lines placed with Td, TD, Tm or T* all separate.
func pageLines(page pdf.Page) [][]pdf.Text {
	return groupLines(page.Content().Text)
}

func groupLines(glyphs []pdf.Text) [][]pdf.Text {
	kept := make([]pdf.Text, 0, len(glyphs))
	for _, g := range glyphs {
		if g.S == "" || g.S == "\n" || g.S == "\r" {
			continue
		}
		kept = append(kept, g)
	}
	if len(kept) == 0 {
		return nil
	}
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].Y > kept[j].Y })

	var (
		lines [][]pdf.Text
		cur   []pdf.Text
		top   = kept[0].Y
	)
	for _, g := range kept {
		if top-g.Y > lineTolerance {
			lines = append(lines, cur)
			cur, top = nil, g.Y
		}
		cur = append(cur, g)
	}
	lines = append(lines, cur)

	for _, l := range lines {
		sort.SliceStable(l, func(i, j int) bool { return l[i].X < l[j].X })
	}
	return lines
}

// joinLine renders one line as text, inserting a space where two glyphs are
// further apart than a word gap.
func joinLine(line []pdf.Text) string {
	var b strings.Builder
	for i, g := range line {
		if i > 0 {
			prev := line[i-1]
			if !isSpace(prev.S) && !isSpace(g.S) && g.X-(prev.X+prev.W) > wordGap(prev) {
				b.WriteByte(' ')
			}
		}
		b.WriteString(g.S)
	}
	return strings.TrimRight(b.String(), " \t")
}

// wordGap is the horizontal distance after g that reads as a space. Fonts
// without width tables report zero-width glyphs that all share the run's
// origin, so any forward move then starts a new word.
func wordGap(g pdf.Text) float64 {
	return math.Max(g.FontSize*0.2, 0.5)
}

func isSpace(s string) bool {
	return strings.TrimSpace(s) == ""
}
