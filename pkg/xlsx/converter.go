package xlsx

import (
	"fmt"
	"io"
	"strconv"

	"github.com/ruslano69/esgclean/pkg/core/table"
	"github.com/xuri/excelize/v2"
)

const defaultSheet = "Sheet1"

// Write - записывает таблицу в XLSX
//
// Первая строка листа - заголовки (имена полей) со стилем.
// Ячейки INTEGER и REAL пишутся числами, null - пустыми ячейками.
//
// Example:
//
//	err := xlsx.Write(w, cleaned, "esg")
func Write(w io.Writer, t *table.Table, sheetName string) error {
	f := excelize.NewFile()
	defer f.Close()

	if sheetName == "" {
		sheetName = t.Name
		if sheetName == "" {
			sheetName = defaultSheet
		}
	}

	if sheetName != defaultSheet {
		index, err := f.NewSheet(sheetName)
		if err != nil {
			return fmt.Errorf("failed to create sheet: %w", err)
		}
		f.SetActiveSheet(index)
		if err := f.DeleteSheet(defaultSheet); err != nil {
			return fmt.Errorf("failed to delete default sheet: %w", err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	for col, field := range t.Schema.Fields {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, cell, field.Name); err != nil {
			return fmt.Errorf("failed to write header %s: %w", field.Name, err)
		}
		if err := f.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
			return err
		}
	}

	for rowIdx, row := range t.Rows {
		for col, c := range row {
			if c.Null {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(col+1, rowIdx+2)
			if err != nil {
				return err
			}
			value := cellValue(c.Value, t.Schema.Fields[col].Type)
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return fmt.Errorf("failed to write cell %s: %w", cell, err)
			}
		}
	}

	for col := range t.Schema.Fields {
		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheetName, name, name, 15); err != nil {
			return err
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write xlsx: %w", err)
	}
	return nil
}

// ReadFile - читает лист XLSX в таблицу
//
// Первая строка листа - заголовок. Значения из nullValues (и пустые ячейки,
// если "" входит в nullValues) становятся null. Все поля - TEXT.
func ReadFile(filePath, sheetName string, nullValues []string) (*table.Table, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	if sheetName == "" {
		sheetName = f.GetSheetName(0)
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet '%s' has no header", sheetName)
	}

	header := rows[0]
	if err := table.ValidateHeader(header); err != nil {
		return nil, err
	}

	nulls := make(map[string]struct{}, len(nullValues))
	for _, v := range nullValues {
		nulls[v] = struct{}{}
	}

	t := table.New(sheetName, header...)
	for rowIdx := 1; rowIdx < len(rows); rowIdx++ {
		dataRow := rows[rowIdx]
		if len(dataRow) > len(header) {
			return nil, fmt.Errorf("row %d has %d values, expected %d", rowIdx+1, len(dataRow), len(header))
		}

		cells := make([]table.Cell, len(header))
		for col := range header {
			// GetRows обрезает пустые ячейки в конце строки
			value := ""
			if col < len(dataRow) {
				value = dataRow[col]
			}
			if _, isNull := nulls[value]; isNull {
				cells[col] = table.NullCell()
			} else {
				cells[col] = table.StringCell(value)
			}
		}
		if err := t.AppendRow(cells...); err != nil {
			return nil, err
		}
	}

	return t, nil
}

// cellValue - значение для excelize: числа для числовых полей, иначе строка
func cellValue(value string, fieldType table.DataType) any {
	switch fieldType {
	case table.TypeInteger:
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			return n
		}
	case table.TypeReal:
		if v, err := strconv.ParseFloat(value, 64); err == nil {
			return v
		}
	}
	return value
}
