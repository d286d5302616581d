package processors

import (
	"context"
	"fmt"

	"github.com/ruslano69/esgclean/pkg/core/table"
)

// ColumnDropper удаляет колонки из схемы.
// В строгом режиме отсутствующая колонка - ошибка, иначе она пропускается.
type ColumnDropper struct {
	name   string
	fields []string
	strict bool
}

// NewColumnDropper создает процессор удаления колонок
func NewColumnDropper(fields []string, strict bool) *ColumnDropper {
	return &ColumnDropper{
		name:   TypeColumnDropper,
		fields: fields,
		strict: strict,
	}
}

// Name возвращает имя процессора
func (d *ColumnDropper) Name() string {
	return d.name
}

// Process реализует интерфейс Processor
func (d *ColumnDropper) Process(ctx context.Context, t *table.Table) (*table.Table, error) {
	drop := make(map[string]bool, len(d.fields))
	for _, field := range d.fields {
		if !t.HasColumn(field) {
			if d.strict {
				_, err := t.ColumnIndex(field)
				return nil, err
			}
			continue
		}
		drop[field] = true
	}

	keep := make([]string, 0, len(t.Schema.Fields))
	for _, f := range t.Schema.Fields {
		if !drop[f.Name] {
			keep = append(keep, f.Name)
		}
	}

	return t.Select(keep...)
}

// NewColumnDropperFromConfig создает ColumnDropper из конфигурации
//
//	params:
//	  fields: [exchange, currency, industry]
//	  strict: true
func NewColumnDropperFromConfig(params map[string]any) (*ColumnDropper, error) {
	fields, err := stringListParam(params, "fields")
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("missing or invalid 'fields' parameter")
	}

	strict, err := boolParam(params, "strict", true)
	if err != nil {
		return nil, err
	}

	return NewColumnDropper(fields, strict), nil
}
