package processors

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ncruces/go-strftime"

	"github.com/ruslano69/esgclean/pkg/core/table"
)

// Форматы по умолчанию: день-месяц-год на входе, месяц/день/год на выходе
const (
	DefaultDateInputFormat  = "%d-%m-%Y"
	DefaultDateOutputFormat = "%m/%d/%Y"
)

// DateNormalizer разбирает дату по одному strftime-формату и записывает в другом.
// Результат остается текстом. Null-значения пропускаются без изменений.
type DateNormalizer struct {
	name         string
	field        string
	inputFormat  string
	outputFormat string
	layout       string // Go layout, полученный из inputFormat
}

// lenientLayout снимает обязательный ведущий ноль с дня, месяца и часа:
// "2" принимает и "05", и "5", как strptime. "2006" и "002" не трогаем.
var lenientLayout = strings.NewReplacer(
	"2006", "2006",
	"002", "002",
	"02", "2",
	"01", "1",
	"03", "3",
)

// NewDateNormalizer создает нормализатор даты
func NewDateNormalizer(field, inputFormat, outputFormat string) (*DateNormalizer, error) {
	if field == "" {
		return nil, fmt.Errorf("field is required")
	}

	layout, err := strftime.Layout(inputFormat)
	if err != nil {
		return nil, fmt.Errorf("invalid input format '%s': %w", inputFormat, err)
	}
	layout = lenientLayout.Replace(layout)

	// Проверяем что выходной формат тоже преобразуется в Go layout
	if _, err := strftime.Layout(outputFormat); err != nil {
		return nil, fmt.Errorf("invalid output format '%s': %w", outputFormat, err)
	}

	return &DateNormalizer{
		name:         TypeDateNormalizer,
		field:        field,
		inputFormat:  inputFormat,
		outputFormat: outputFormat,
		layout:       layout,
	}, nil
}

// Name возвращает имя процессора
func (n *DateNormalizer) Name() string {
	return n.name
}

// Process реализует интерфейс Processor.
// Любое значение, не подходящее под входной формат, - ошибка (без fallback).
func (n *DateNormalizer) Process(ctx context.Context, t *table.Table) (*table.Table, error) {
	result := t.Clone()

	idx, err := result.ColumnIndex(n.field)
	if err != nil {
		return nil, err
	}

	for i, row := range result.Rows {
		if row[idx].Null {
			continue
		}

		formatted, err := n.normalizeValue(row[idx].Value)
		if err != nil {
			return nil, &ValueError{Field: n.field, Row: i + 1, Value: row[idx].Value, Err: err}
		}
		row[idx] = table.StringCell(formatted)
	}

	return result, nil
}

// normalizeValue разбирает и переформатирует одно значение
// Пример (формат по умолчанию): "05-03-2021" и "5-3-2021" → "03/05/2021"
func (n *DateNormalizer) normalizeValue(value string) (string, error) {
	parsed, err := time.Parse(n.layout, value)
	if err != nil {
		return "", fmt.Errorf("%w: expected format %s", ErrInvalidDate, n.inputFormat)
	}
	return strftime.Format(n.outputFormat, parsed), nil
}

// NewDateNormalizerFromConfig создает DateNormalizer из конфигурации
//
//	params:
//	  field: last_processing_date
//	  input_format: "%d-%m-%Y"
//	  output_format: "%m/%d/%Y"
func NewDateNormalizerFromConfig(params map[string]any) (*DateNormalizer, error) {
	field, err := stringParam(params, "field", "")
	if err != nil {
		return nil, err
	}
	if field == "" {
		return nil, fmt.Errorf("missing 'field' parameter")
	}

	inputFormat, err := stringParam(params, "input_format", DefaultDateInputFormat)
	if err != nil {
		return nil, err
	}
	outputFormat, err := stringParam(params, "output_format", DefaultDateOutputFormat)
	if err != nil {
		return nil, err
	}

	return NewDateNormalizer(field, inputFormat, outputFormat)
}
