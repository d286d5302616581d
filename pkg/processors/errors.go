package processors

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDate - значение не соответствует ожидаемому формату даты
	ErrInvalidDate = errors.New("invalid date")
	// ErrInvalidNumber - значение не является числом
	ErrInvalidNumber = errors.New("invalid number")
	// ErrNullValue - null там, где требуется значение
	ErrNullValue = errors.New("null value")
	// ErrZeroVariance - min == max, нормализация не определена
	ErrZeroVariance = errors.New("zero variance")
)

// ValueError ошибка обработки конкретного значения
type ValueError struct {
	Field string
	Row   int // Номер строки данных, начиная с 1
	Value string
	Err   error
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("field '%s' row %d: %v (value: '%s')", e.Field, e.Row, e.Err, e.Value)
}

func (e *ValueError) Unwrap() error {
	return e.Err
}
