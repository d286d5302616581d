package mysql

import (
	_ "github.com/go-sql-driver/mysql" // MySQL driver

	"github.com/ruslano69/esgclean/pkg/adapters"
	"github.com/ruslano69/esgclean/pkg/adapters/base"
	"github.com/ruslano69/esgclean/pkg/core/table"
)

// AdapterType идентификатор MySQL адаптера
const AdapterType = "mysql"

var _ adapters.Adapter = (*Adapter)(nil)

func init() {
	// Регистрируем MySQL адаптер в фабрике
	adapters.Register(AdapterType, func() adapters.Adapter {
		return NewAdapter()
	})
}

// Adapter реализует adapters.Adapter для MySQL.
// DDL в MySQL не транзакционный: DROP/CREATE фиксируются сразу.
type Adapter struct {
	*base.SQLAdapter
}

// NewAdapter создает неподключенный адаптер
func NewAdapter() *Adapter {
	return &Adapter{SQLAdapter: base.NewSQLAdapter(Dialect)}
}

// Dialect - диалект MySQL
var Dialect = base.Dialect{
	Name:        AdapterType,
	DriverName:  "mysql",
	Quote:       base.QuoteBacktick,
	Placeholder: base.QuestionPlaceholder,
	ColumnType:  columnType,
	TableExistsQuery: "SELECT COUNT(*) FROM information_schema.tables " +
		"WHERE table_schema = DATABASE() AND table_name = ?",
	VersionQuery: "SELECT VERSION()",
}

func columnType(dataType table.DataType) string {
	switch dataType {
	case table.TypeInteger:
		return "BIGINT"
	case table.TypeReal:
		return "DOUBLE"
	default:
		return "TEXT"
	}
}
