package table

import "fmt"

// GetFieldIndices возвращает индексы полей по их именам.
// Отсутствующее поле - ошибка ErrColumnNotFound.
func GetFieldIndices(schema Schema, fieldNames []string) ([]int, error) {
	indices := make([]int, 0, len(fieldNames))
	for _, name := range fieldNames {
		found := -1
		for i, field := range schema.Fields {
			if field.Name == name {
				found = i
				break
			}
		}
		if found < 0 {
			return nil, fmt.Errorf("%w: '%s'", ErrColumnNotFound, name)
		}
		indices = append(indices, found)
	}
	return indices, nil
}

// ValidateHeader проверяет имена колонок: непустые и без повторов
func ValidateHeader(names []string) error {
	if len(names) == 0 {
		return fmt.Errorf("header is empty")
	}
	seen := make(map[string]bool, len(names))
	for i, name := range names {
		if name == "" {
			return fmt.Errorf("column %d has empty name", i+1)
		}
		if seen[name] {
			return fmt.Errorf("%w: '%s'", ErrDuplicateColumn, name)
		}
		seen[name] = true
	}
	return nil
}
