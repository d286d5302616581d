package processors

import (
	"context"
	"fmt"

	"github.com/ruslano69/esgclean/pkg/core/table"
)

// NullFiller заменяет отсутствующие значения в указанных полях фиксированными строками.
// Заполненные значения больше не считаются null, поэтому повторный проход ничего не меняет.
type NullFiller struct {
	name   string
	fields map[string]string // field_name -> sentinel
	order  []string
}

// NewNullFiller создает новый заполнитель пропусков
func NewNullFiller(fields map[string]string) *NullFiller {
	copied := make(map[string]string, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	return &NullFiller{
		name:   TypeNullFiller,
		fields: copied,
		order:  sortedKeys(copied),
	}
}

// Name возвращает имя процессора
func (f *NullFiller) Name() string {
	return f.name
}

// Process реализует интерфейс Processor
func (f *NullFiller) Process(ctx context.Context, t *table.Table) (*table.Table, error) {
	result := t.Clone()

	for _, field := range f.order {
		idx, err := result.ColumnIndex(field)
		if err != nil {
			return nil, err
		}

		sentinel := f.fields[field]
		for _, row := range result.Rows {
			if row[idx].Null {
				row[idx] = table.StringCell(sentinel)
			}
		}
	}

	return result, nil
}

// NewNullFillerFromConfig создает NullFiller из конфигурации
//
//	params:
//	  fields:
//	    industry: "Industry Not Available"
func NewNullFillerFromConfig(params map[string]any) (*NullFiller, error) {
	fields, _, err := stringMapParam(params, "fields")
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("missing or invalid 'fields' parameter")
	}
	return NewNullFiller(fields), nil
}
