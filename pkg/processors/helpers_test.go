package processors

import (
	"testing"

	"github.com/ruslano69/esgclean/pkg/core/table"
)

// buildTable создает таблицу из строк; значение "<null>" означает отсутствующую ячейку
func buildTable(t *testing.T, columns []string, rows ...[]string) *table.Table {
	t.Helper()
	tbl := table.New("test", columns...)
	for _, r := range rows {
		cells := make([]table.Cell, len(r))
		for i, v := range r {
			if v == "<null>" {
				cells[i] = table.NullCell()
			} else {
				cells[i] = table.StringCell(v)
			}
		}
		if err := tbl.AppendRow(cells...); err != nil {
			t.Fatalf("AppendRow failed: %v", err)
		}
	}
	return tbl
}

// columnValues возвращает значения колонки; null как "<null>"
func columnValues(t *testing.T, tbl *table.Table, column string) []string {
	t.Helper()
	cells, err := tbl.Column(column)
	if err != nil {
		t.Fatalf("Column(%s) failed: %v", column, err)
	}
	values := make([]string, len(cells))
	for i, c := range cells {
		if c.Null {
			values[i] = "<null>"
		} else {
			values[i] = c.Value
		}
	}
	return values
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
