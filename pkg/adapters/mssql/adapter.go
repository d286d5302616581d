package mssql

import (
	_ "github.com/denisenkom/go-mssqldb" // MS SQL Server driver

	"github.com/ruslano69/esgclean/pkg/adapters"
	"github.com/ruslano69/esgclean/pkg/adapters/base"
	"github.com/ruslano69/esgclean/pkg/core/table"
)

// AdapterType identifies the MS SQL Server adapter.
const AdapterType = "mssql"

var _ adapters.Adapter = (*Adapter)(nil)

func init() {
	// Register MS SQL Server adapter in factory
	adapters.Register(AdapterType, func() adapters.Adapter {
		return NewAdapter()
	})
}

// Adapter implements adapters.Adapter for Microsoft SQL Server.
type Adapter struct {
	*base.SQLAdapter
}

// NewAdapter returns an adapter that is not connected yet.
func NewAdapter() *Adapter {
	return &Adapter{SQLAdapter: base.NewSQLAdapter(Dialect)}
}

// Dialect uses the "sqlserver" driver name, which accepts @pN parameters.
var Dialect = base.Dialect{
	Name:             AdapterType,
	DriverName:       "sqlserver",
	Quote:            base.QuoteBracket,
	Placeholder:      base.NamedPlaceholder,
	ColumnType:       columnType,
	TableExistsQuery: "SELECT COUNT(*) FROM INFORMATION_SCHEMA.TABLES WHERE TABLE_SCHEMA = SCHEMA_NAME() AND TABLE_NAME = @p1",
	VersionQuery:     "SELECT @@VERSION",
}

func columnType(dataType table.DataType) string {
	switch dataType {
	case table.TypeInteger:
		return "BIGINT"
	case table.TypeReal:
		return "FLOAT"
	default:
		return "NVARCHAR(MAX)"
	}
}
