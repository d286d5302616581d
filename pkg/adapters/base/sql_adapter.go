package base

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/ruslano69/esgclean/pkg/adapters"
	"github.com/ruslano69/esgclean/pkg/core/table"
)

// SQLAdapter реализует adapters.Adapter для любой СУБД с драйвером database/sql.
// Конкретные адаптеры встраивают его и задают Dialect.
type SQLAdapter struct {
	Dialect Dialect

	db  *sql.DB
	cfg adapters.Config
}

// NewSQLAdapter создает адаптер с заданным диалектом
func NewSQLAdapter(d Dialect) *SQLAdapter {
	return &SQLAdapter{Dialect: d}
}

// Connect открывает подключение и проверяет его
func (a *SQLAdapter) Connect(ctx context.Context, cfg adapters.Config) error {
	db, err := sql.Open(a.Dialect.DriverName, cfg.DSN)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	if cfg.MaxConns > 0 {
		db.SetMaxOpenConns(cfg.MaxConns)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	a.db = db
	a.cfg = cfg
	return nil
}

// Close закрывает соединение с БД
func (a *SQLAdapter) Close(ctx context.Context) error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

// Ping проверяет доступность БД
func (a *SQLAdapter) Ping(ctx context.Context) error {
	if a.db == nil {
		return fmt.Errorf("adapter not connected")
	}
	return a.db.PingContext(ctx)
}

// DB возвращает *sql.DB для прямого доступа
func (a *SQLAdapter) DB() *sql.DB {
	return a.db
}

// GetDatabaseType возвращает тип СУБД
func (a *SQLAdapter) GetDatabaseType() string {
	return a.Dialect.Name
}

// GetDatabaseVersion возвращает версию СУБД
func (a *SQLAdapter) GetDatabaseVersion(ctx context.Context) (string, error) {
	if a.db == nil {
		return "", fmt.Errorf("adapter not connected")
	}
	var version string
	if err := a.db.QueryRowContext(ctx, a.Dialect.VersionQuery).Scan(&version); err != nil {
		return "", fmt.Errorf("failed to get version: %w", err)
	}
	return version, nil
}

// TableExists проверяет существование таблицы
func (a *SQLAdapter) TableExists(ctx context.Context, tableName string) (bool, error) {
	if a.db == nil {
		return false, fmt.Errorf("adapter not connected")
	}
	return tableExists(ctx, a.db, a.Dialect.TableExistsQuery, tableName)
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func tableExists(ctx context.Context, q queryRower, query, tableName string) (bool, error) {
	var count int
	if err := q.QueryRowContext(ctx, query, tableName).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check table %s: %w", tableName, err)
	}
	return count > 0, nil
}

// WriteTable создает таблицу и вставляет все строки в одной транзакции
func (a *SQLAdapter) WriteTable(ctx context.Context, t *table.Table, tableName string, strategy adapters.ImportStrategy) (err error) {
	if a.db == nil {
		return fmt.Errorf("adapter not connected")
	}
	if tableName == "" {
		tableName = t.Name
	}
	if a.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.cfg.Timeout)
		defer cancel()
	}

	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	exists, err := tableExists(ctx, tx, a.Dialect.TableExistsQuery, tableName)
	if err != nil {
		return err
	}
	if exists {
		switch strategy {
		case adapters.StrategyFail:
			return fmt.Errorf("%w: %s", adapters.ErrTableExists, tableName)
		case adapters.StrategyReplace:
			if _, err = tx.ExecContext(ctx, a.Dialect.BuildDropTable(tableName)); err != nil {
				return fmt.Errorf("failed to drop table %s: %w", tableName, err)
			}
		default:
			return fmt.Errorf("unsupported strategy: %s", strategy)
		}
	}

	if _, err = tx.ExecContext(ctx, a.Dialect.BuildCreateTable(tableName, t.Schema)); err != nil {
		return fmt.Errorf("failed to create table %s: %w", tableName, err)
	}

	stmt, err := tx.PrepareContext(ctx, a.Dialect.BuildInsert(tableName, t.Schema))
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	args := make([]any, len(t.Schema.Fields))
	for i, row := range t.Rows {
		for j, cell := range row {
			args[j], err = ConvertValue(cell, t.Schema.Fields[j].Type)
			if err != nil {
				return fmt.Errorf("row %d field '%s': %w", i+1, t.Schema.Fields[j].Name, err)
			}
		}
		if _, err = stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("failed to insert row %d: %w", i+1, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

// ConvertValue переводит ячейку в значение для драйвера: null -> nil, числа по типу поля
func ConvertValue(cell table.Cell, dataType table.DataType) (any, error) {
	if cell.Null {
		return nil, nil
	}
	switch dataType {
	case table.TypeInteger:
		n, err := strconv.ParseInt(cell.Value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid integer '%s': %w", cell.Value, err)
		}
		return n, nil
	case table.TypeReal:
		v, err := strconv.ParseFloat(cell.Value, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid real '%s': %w", cell.Value, err)
		}
		return v, nil
	}
	return cell.Value, nil
}
