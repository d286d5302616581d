package processors

import (
	"context"

	"github.com/ruslano69/esgclean/pkg/core/table"
)

// Processor определяет интерфейс для обработки таблицы
type Processor interface {
	// Name возвращает имя процессора
	Name() string

	// Process обрабатывает таблицу.
	// Входная таблица не изменяется, результат - новая таблица во владении вызывающего.
	Process(ctx context.Context, t *table.Table) (*table.Table, error)
}

// Config содержит конфигурацию процессора
type Config struct {
	Type   string         `yaml:"type"`   // Тип процессора (null_filler, minmax_scaler, etc)
	Params map[string]any `yaml:"params"` // Параметры процессора
}
