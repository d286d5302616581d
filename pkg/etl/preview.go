package etl

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/ruslano69/esgclean/pkg/core/table"
)

// nullDisplay - отображение null в предпросмотре
const nullDisplay = "NaN"

// WritePreview печатает первые rows строк указанных колонок с индексом строки.
// Отсутствующая колонка - ошибка схемы.
func WritePreview(w io.Writer, t *table.Table, columns []string, rows int) error {
	projected, err := t.Select(columns...)
	if err != nil {
		return err
	}
	head := projected.Head(rows)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)

	fmt.Fprintf(tw, "\t%s\t\n", strings.Join(head.Columns(), "\t"))

	values := make([]string, len(head.Schema.Fields))
	for i, row := range head.Rows {
		for j, cell := range row {
			if cell.Null {
				values[j] = nullDisplay
			} else {
				values[j] = cell.Value
			}
		}
		fmt.Fprintf(tw, "%d\t%s\t\n", i, strings.Join(values, "\t"))
	}

	return tw.Flush()
}
