package processors

import (
	"context"
	"errors"
	"testing"

	"github.com/ruslano69/esgclean/pkg/core/table"
)

func TestColumnDropper_Process(t *testing.T) {
	data := buildTable(t, []string{"name", "exchange", "total_score", "currency", "industry"},
		[]string{"Acme", "NYSE", "50", "USD", "Tech"},
		[]string{"Globex", "NASDAQ", "70", "USD", "<null>"},
	)

	dropper := NewColumnDropper([]string{"exchange", "currency", "industry"}, true)
	result, err := dropper.Process(context.Background(), data)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	want := []string{"name", "total_score"}
	if got := result.Columns(); !equalStrings(got, want) {
		t.Errorf("columns = %v, want %v", got, want)
	}
	if result.Len() != 2 {
		t.Errorf("row count = %d, want 2", result.Len())
	}
	if got := columnValues(t, result, "total_score"); !equalStrings(got, []string{"50", "70"}) {
		t.Errorf("total_score = %v", got)
	}
	if len(data.Schema.Fields) != 5 {
		t.Error("input table was mutated")
	}
}

func TestColumnDropper_MissingColumn(t *testing.T) {
	data := buildTable(t, []string{"name", "exchange"}, []string{"Acme", "NYSE"})

	_, err := NewColumnDropper([]string{"exchange", "currency"}, true).Process(context.Background(), data)
	if !errors.Is(err, table.ErrColumnNotFound) {
		t.Errorf("strict: expected ErrColumnNotFound, got %v", err)
	}

	result, err := NewColumnDropper([]string{"exchange", "currency"}, false).Process(context.Background(), data)
	if err != nil {
		t.Fatalf("lenient: unexpected error %v", err)
	}
	if got := result.Columns(); !equalStrings(got, []string{"name"}) {
		t.Errorf("lenient: columns = %v", got)
	}
}
