package csvfile

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/ruslano69/esgclean/pkg/core/table"
)

// WriteOptions - параметры записи CSV
type WriteOptions struct {
	Delimiter rune
	UseCRLF   bool
}

// Write пишет заголовок и строки таблицы. Null записывается пустым полем, колонки индекса нет.
func Write(w io.Writer, t *table.Table, opts WriteOptions) error {
	writer := csv.NewWriter(w)
	if opts.Delimiter != 0 {
		writer.Comma = opts.Delimiter
	}
	writer.UseCRLF = opts.UseCRLF

	if err := writer.Write(t.Columns()); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	record := make([]string, len(t.Schema.Fields))
	for i, row := range t.Rows {
		for j, cell := range row {
			record[j] = cell.String()
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	writer.Flush()
	return writer.Error()
}
