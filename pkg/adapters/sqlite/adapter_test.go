package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/ruslano69/esgclean/pkg/adapters"
	"github.com/ruslano69/esgclean/pkg/core/table"
)

func cleanedTable(t *testing.T) *table.Table {
	t.Helper()
	data := table.New("esg", "name", "last_processing_date", "total_score")
	data.Schema.Fields[2].Type = table.TypeInteger
	if err := data.AppendRow(table.StringCell("Acme"), table.StringCell("03/05/2021"), table.StringCell("50")); err != nil {
		t.Fatal(err)
	}
	if err := data.AppendRow(table.StringCell("Globex"), table.NullCell(), table.StringCell("100")); err != nil {
		t.Fatal(err)
	}
	return data
}

func connect(t *testing.T) adapters.Adapter {
	t.Helper()
	ctx := context.Background()
	adapter, err := adapters.New(ctx, adapters.Config{
		Type: AdapterType,
		DSN:  filepath.Join(t.TempDir(), "esg.db"),
	})
	if err != nil {
		t.Fatalf("Failed to create SQLite adapter: %v", err)
	}
	t.Cleanup(func() { adapter.Close(ctx) })
	return adapter
}

func TestAdapter_WriteTable(t *testing.T) {
	ctx := context.Background()
	adapter := connect(t)

	if err := adapter.WriteTable(ctx, cleanedTable(t), "esg_scores", adapters.StrategyReplace); err != nil {
		t.Fatalf("WriteTable() error = %v", err)
	}

	exists, err := adapter.TableExists(ctx, "esg_scores")
	if err != nil || !exists {
		t.Fatalf("TableExists() = %v, %v", exists, err)
	}

	db := adapter.(*Adapter).DB()

	var total int64
	if err := db.QueryRowContext(ctx, `SELECT SUM("total_score") FROM "esg_scores"`).Scan(&total); err != nil {
		t.Fatal(err)
	}
	if total != 150 {
		t.Errorf("SUM(total_score) = %d, want 150", total)
	}

	var nulls int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM "esg_scores" WHERE "last_processing_date" IS NULL`).Scan(&nulls); err != nil {
		t.Fatal(err)
	}
	if nulls != 1 {
		t.Errorf("null dates = %d, want 1", nulls)
	}
}

func TestAdapter_Strategies(t *testing.T) {
	ctx := context.Background()
	adapter := connect(t)
	data := cleanedTable(t)

	if err := adapter.WriteTable(ctx, data, "esg_scores", adapters.StrategyFail); err != nil {
		t.Fatalf("first write: %v", err)
	}

	err := adapter.WriteTable(ctx, data, "esg_scores", adapters.StrategyFail)
	if !errors.Is(err, adapters.ErrTableExists) {
		t.Errorf("expected ErrTableExists, got %v", err)
	}

	// replace не дублирует строки
	if err := adapter.WriteTable(ctx, data, "esg_scores", adapters.StrategyReplace); err != nil {
		t.Fatalf("replace: %v", err)
	}
	var count int
	if err := adapter.(*Adapter).DB().QueryRowContext(ctx, `SELECT COUNT(*) FROM "esg_scores"`).Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Errorf("row count = %d, want 2", count)
	}
}

func TestAdapter_Version(t *testing.T) {
	version, err := connect(t).GetDatabaseVersion(context.Background())
	if err != nil {
		t.Fatalf("GetDatabaseVersion() error = %v", err)
	}
	if version == "" {
		t.Error("Version is empty")
	}
}
