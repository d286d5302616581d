package sqlite

import (
	"github.com/ruslano69/esgclean/pkg/adapters"
	"github.com/ruslano69/esgclean/pkg/adapters/base"
	"github.com/ruslano69/esgclean/pkg/core/table"
	_ "modernc.org/sqlite"
)

// AdapterType идентификатор SQLite адаптера
const AdapterType = "sqlite"

// Compile-time check: Adapter должен реализовывать интерфейс adapters.Adapter
var _ adapters.Adapter = (*Adapter)(nil)

func init() {
	adapters.Register(AdapterType, func() adapters.Adapter {
		return NewAdapter()
	})
}

// Adapter - адаптер для SQLite (modernc.org/sqlite, без CGO)
type Adapter struct {
	*base.SQLAdapter
}

// NewAdapter создает неподключенный адаптер
func NewAdapter() *Adapter {
	return &Adapter{SQLAdapter: base.NewSQLAdapter(Dialect)}
}

// Dialect - диалект SQLite
var Dialect = base.Dialect{
	Name:             AdapterType,
	DriverName:       "sqlite",
	Quote:            base.QuoteDouble,
	Placeholder:      base.QuestionPlaceholder,
	ColumnType:       columnType,
	TableExistsQuery: "SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?",
	VersionQuery:     "SELECT 'SQLite ' || sqlite_version()",
}

func columnType(dataType table.DataType) string {
	switch dataType {
	case table.TypeInteger:
		return "INTEGER"
	case table.TypeReal:
		return "REAL"
	default:
		return "TEXT"
	}
}
