package table

import (
	"errors"
	"fmt"
)

// DataType определяет тип поля таблицы
type DataType string

const (
	TypeText    DataType = "TEXT"
	TypeInteger DataType = "INTEGER"
	TypeReal    DataType = "REAL"
	TypeDate    DataType = "DATE"
)

var (
	// ErrColumnNotFound возвращается при обращении к отсутствующей колонке
	ErrColumnNotFound = errors.New("column not found")
	// ErrDuplicateColumn возвращается если имя колонки встречается дважды
	ErrDuplicateColumn = errors.New("duplicate column")
)

// Table представляет таблицу в памяти: схема + строки
type Table struct {
	Name   string
	Schema Schema
	Rows   []Row
}

// Schema описывает структуру таблицы
type Schema struct {
	Fields []Field
}

// Field описывает одно поле таблицы
type Field struct {
	Name string   `yaml:"name"`
	Type DataType `yaml:"type"`
}

// Row представляет одну строку данных, выровненную по Schema.Fields
type Row []Cell

// Cell - значение ячейки. Null отличает отсутствующее значение от пустой строки.
type Cell struct {
	Value string
	Null  bool
}

// NullCell возвращает пустую (отсутствующую) ячейку
func NullCell() Cell {
	return Cell{Null: true}
}

// StringCell возвращает ячейку со значением
func StringCell(v string) Cell {
	return Cell{Value: v}
}

// String возвращает значение ячейки, для null - пустую строку
func (c Cell) String() string {
	if c.Null {
		return ""
	}
	return c.Value
}

// New создает таблицу с текстовыми полями
func New(name string, columns ...string) *Table {
	fields := make([]Field, len(columns))
	for i, col := range columns {
		fields[i] = Field{Name: col, Type: TypeText}
	}
	return &Table{Name: name, Schema: Schema{Fields: fields}}
}

// AppendRow добавляет строку. Количество значений должно совпадать со схемой.
func (t *Table) AppendRow(cells ...Cell) error {
	if len(cells) != len(t.Schema.Fields) {
		return fmt.Errorf("row has %d values, expected %d", len(cells), len(t.Schema.Fields))
	}
	t.Rows = append(t.Rows, Row(cells))
	return nil
}

// Len возвращает количество строк
func (t *Table) Len() int {
	return len(t.Rows)
}

// Columns возвращает имена колонок в порядке схемы
func (t *Table) Columns() []string {
	names := make([]string, len(t.Schema.Fields))
	for i, f := range t.Schema.Fields {
		names[i] = f.Name
	}
	return names
}

// ColumnIndex возвращает индекс колонки по имени
func (t *Table) ColumnIndex(name string) (int, error) {
	for i, f := range t.Schema.Fields {
		if f.Name == name {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: '%s'", ErrColumnNotFound, name)
}

// HasColumn проверяет наличие колонки
func (t *Table) HasColumn(name string) bool {
	_, err := t.ColumnIndex(name)
	return err == nil
}

// Column возвращает копию значений колонки
func (t *Table) Column(name string) ([]Cell, error) {
	idx, err := t.ColumnIndex(name)
	if err != nil {
		return nil, err
	}
	cells := make([]Cell, len(t.Rows))
	for i, row := range t.Rows {
		cells[i] = row[idx]
	}
	return cells, nil
}

// Clone создает глубокую копию таблицы.
// Процессоры работают с копией и никогда не меняют входную таблицу.
func (t *Table) Clone() *Table {
	clone := &Table{
		Name:   t.Name,
		Schema: Schema{Fields: append([]Field(nil), t.Schema.Fields...)},
		Rows:   make([]Row, len(t.Rows)),
	}
	for i, row := range t.Rows {
		clone.Rows[i] = append(Row(nil), row...)
	}
	return clone
}

// Head возвращает новую таблицу с первыми n строками
func (t *Table) Head(n int) *Table {
	if n < 0 || n > len(t.Rows) {
		n = len(t.Rows)
	}
	head := t.Clone()
	head.Rows = head.Rows[:n]
	return head
}

// Select возвращает новую таблицу только с указанными колонками (в указанном порядке)
func (t *Table) Select(names ...string) (*Table, error) {
	indices, err := GetFieldIndices(t.Schema, names)
	if err != nil {
		return nil, err
	}

	result := &Table{
		Name:   t.Name,
		Schema: Schema{Fields: make([]Field, len(indices))},
		Rows:   make([]Row, len(t.Rows)),
	}
	for i, idx := range indices {
		result.Schema.Fields[i] = t.Schema.Fields[idx]
	}
	for r, row := range t.Rows {
		newRow := make(Row, len(indices))
		for i, idx := range indices {
			newRow[i] = row[idx]
		}
		result.Rows[r] = newRow
	}
	return result, nil
}
