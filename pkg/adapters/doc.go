/*
Package adapters записывает очищенную таблицу в реляционную БД.

Пакет реализует двухуровневую схему:

	┌──────────────────────────────────────┐
	│  Level 1: adapters.Adapter           │  ← pkg/adapters/adapter.go
	│    Connect / Close / Ping            │
	│    TableExists / WriteTable          │
	└─────────────────┬────────────────────┘
	                  │
	     ┌────────────┼────────────┬────────────┐
	┌────▼────┐ ┌─────▼────┐ ┌─────▼───┐ ┌──────▼──┐
	│ sqlite  │ │ postgres │ │ mysql   │ │ mssql   │  ← Level 2
	└─────────┘ └──────────┘ └─────────┘ └─────────┘

Все конкретные адаптеры построены на base.SQLAdapter (database/sql) и отличаются
только диалектом: квотирование идентификаторов, плейсхолдеры, типы колонок.

Адаптеры регистрируются в глобальной фабрике через init(), поэтому достаточно
blank-импорта нужного пакета:

	import (
	    "github.com/ruslano69/esgclean/pkg/adapters"
	    _ "github.com/ruslano69/esgclean/pkg/adapters/sqlite"
	)

	adapter, err := adapters.New(ctx, adapters.Config{Type: "sqlite", DSN: "file:esg.db"})
	if err != nil {
	    return err
	}
	defer adapter.Close(ctx)

	err = adapter.WriteTable(ctx, cleaned, "esg_scores", adapters.StrategyReplace)

# Стратегии

  - replace: DROP TABLE (если есть) + CREATE TABLE + INSERT
  - fail:    ошибка ErrTableExists, если таблица уже есть

Все операции выполняются в одной транзакции: при ошибке таблица остается
в исходном состоянии (для СУБД с транзакционным DDL).
*/
package adapters
