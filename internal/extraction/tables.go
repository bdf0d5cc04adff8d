package extraction

import (
	"strings"

	"bolx/internal/domain"
)

var goodsColumnKeywords = []string{"DESCRIPTION", "GOODS", "CARGO", "COMMODITY"}

// GoodsFromTables joins, with "; ", every non-empty cell of every column whose
// name mentions the cargo. Cells are visited column by column, table by
// table.
func GoodsFromTables(tables []domain.TableGrid) string {
	var values []string
	for _, t := range tables {
		for _, col := range t.Columns {
			if !isGoodsColumn(col) {
				continue
			}
			for _, row := range t.Rows {
				v, ok := row[col]
				if !ok {
					continue
				}
				if v = strings.TrimSpace(v); v != "" {
					values = append(values, v)
				}
			}
		}
	}
	return strings.Join(values, "; ")
}

func isGoodsColumn(name string) bool {
	upper := strings.ToUpper(name)
	for _, kw := range goodsColumnKeywords {
		if strings.Contains(upper, kw) {
			return true
		}
	}
	return false
}
