package postgres

import (
	_ "github.com/jackc/pgx/v5/stdlib" // регистрирует драйвер "pgx" для database/sql

	"github.com/ruslano69/esgclean/pkg/adapters"
	"github.com/ruslano69/esgclean/pkg/adapters/base"
	"github.com/ruslano69/esgclean/pkg/core/table"
)

// AdapterType идентификатор PostgreSQL адаптера
const AdapterType = "postgres"

// Compile-time check: Adapter должен реализовывать интерфейс adapters.Adapter
var _ adapters.Adapter = (*Adapter)(nil)

func init() {
	adapters.Register(AdapterType, func() adapters.Adapter {
		return NewAdapter()
	})
}

// Adapter - адаптер для PostgreSQL через pgx
type Adapter struct {
	*base.SQLAdapter
}

// NewAdapter создает неподключенный адаптер
func NewAdapter() *Adapter {
	return &Adapter{SQLAdapter: base.NewSQLAdapter(Dialect)}
}

// Dialect - диалект PostgreSQL. Таблица ищется в current_schema() (search_path из DSN).
var Dialect = base.Dialect{
	Name:        AdapterType,
	DriverName:  "pgx",
	Quote:       base.QuoteDouble,
	Placeholder: base.DollarPlaceholder,
	ColumnType:  columnType,
	TableExistsQuery: "SELECT COUNT(*) FROM information_schema.tables " +
		"WHERE table_schema = current_schema() AND table_name = $1",
	VersionQuery: "SELECT version()",
}

func columnType(dataType table.DataType) string {
	switch dataType {
	case table.TypeInteger:
		return "BIGINT"
	case table.TypeReal:
		return "DOUBLE PRECISION"
	default:
		return "TEXT"
	}
}
