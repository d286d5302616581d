// Package base содержит общую реализацию адаптеров поверх database/sql.
package base

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ruslano69/esgclean/pkg/core/table"
)

// Dialect описывает различия SQL-синтаксиса между СУБД
type Dialect struct {
	// Name - тип СУБД: "sqlite", "postgres", "mysql", "mssql"
	Name string

	// DriverName - имя драйвера для sql.Open
	DriverName string

	// Quote экранирует идентификатор
	Quote func(identifier string) string

	// Placeholder возвращает плейсхолдер параметра n (с 1)
	Placeholder func(n int) string

	// ColumnType возвращает SQL-тип колонки
	ColumnType func(dataType table.DataType) string

	// TableExistsQuery - запрос COUNT(*) с одним параметром: имя таблицы
	TableExistsQuery string

	// VersionQuery - запрос версии СУБД
	VersionQuery string
}

// QuoteDouble - "identifier" (SQLite, PostgreSQL)
func QuoteDouble(identifier string) string {
	return `"` + strings.ReplaceAll(identifier, `"`, `""`) + `"`
}

// QuoteBacktick - `identifier` (MySQL)
func QuoteBacktick(identifier string) string {
	return "`" + strings.ReplaceAll(identifier, "`", "``") + "`"
}

// QuoteBracket - [identifier] (MS SQL)
func QuoteBracket(identifier string) string {
	return "[" + strings.ReplaceAll(identifier, "]", "]]") + "]"
}

// QuestionPlaceholder - ? (SQLite, MySQL)
func QuestionPlaceholder(int) string {
	return "?"
}

// DollarPlaceholder - $1, $2 ... (PostgreSQL)
func DollarPlaceholder(n int) string {
	return "$" + strconv.Itoa(n)
}

// NamedPlaceholder - @p1, @p2 ... (MS SQL)
func NamedPlaceholder(n int) string {
	return "@p" + strconv.Itoa(n)
}

// BuildCreateTable строит CREATE TABLE по схеме
func (d Dialect) BuildCreateTable(tableName string, schema table.Schema) string {
	cols := make([]string, len(schema.Fields))
	for i, f := range schema.Fields {
		cols[i] = fmt.Sprintf("%s %s NULL", d.Quote(f.Name), d.ColumnType(f.Type))
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", d.Quote(tableName), strings.Join(cols, ", "))
}

// BuildInsert строит INSERT INTO table (cols) VALUES (...)
func (d Dialect) BuildInsert(tableName string, schema table.Schema) string {
	cols := make([]string, len(schema.Fields))
	params := make([]string, len(schema.Fields))
	for i, f := range schema.Fields {
		cols[i] = d.Quote(f.Name)
		params[i] = d.Placeholder(i + 1)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		d.Quote(tableName), strings.Join(cols, ", "), strings.Join(params, ", "))
}

// BuildDropTable строит DROP TABLE
func (d Dialect) BuildDropTable(tableName string) string {
	return "DROP TABLE " + d.Quote(tableName)
}
