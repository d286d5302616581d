package table

import (
	"errors"
	"testing"
)

func newTestTable(t *testing.T) *Table {
	t.Helper()
	tbl := New("esg", "name", "industry", "total_score")
	rows := [][]Cell{
		{StringCell("Acme"), StringCell("Tech"), StringCell("500")},
		{StringCell("Globex"), NullCell(), StringCell("700")},
	}
	for _, r := range rows {
		if err := tbl.AppendRow(r...); err != nil {
			t.Fatalf("AppendRow failed: %v", err)
		}
	}
	return tbl
}

func TestAppendRow_WrongWidth(t *testing.T) {
	tbl := New("esg", "a", "b")
	if err := tbl.AppendRow(StringCell("1")); err == nil {
		t.Error("Expected error for short row")
	}
}

func TestColumnIndex(t *testing.T) {
	tbl := newTestTable(t)

	idx, err := tbl.ColumnIndex("industry")
	if err != nil {
		t.Fatalf("ColumnIndex failed: %v", err)
	}
	if idx != 1 {
		t.Errorf("Expected index 1, got %d", idx)
	}

	_, err = tbl.ColumnIndex("exchange")
	if !errors.Is(err, ErrColumnNotFound) {
		t.Errorf("Expected ErrColumnNotFound, got %v", err)
	}
}

func TestClone_IsIndependent(t *testing.T) {
	tbl := newTestTable(t)
	clone := tbl.Clone()

	clone.Rows[0][0] = StringCell("Changed")
	clone.Schema.Fields[0].Name = "renamed"

	if tbl.Rows[0][0].Value != "Acme" {
		t.Errorf("Clone shares rows with original: %q", tbl.Rows[0][0].Value)
	}
	if tbl.Schema.Fields[0].Name != "name" {
		t.Errorf("Clone shares schema with original: %q", tbl.Schema.Fields[0].Name)
	}
}

func TestSelect(t *testing.T) {
	tbl := newTestTable(t)

	sel, err := tbl.Select("total_score", "name")
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if got := sel.Columns(); len(got) != 2 || got[0] != "total_score" || got[1] != "name" {
		t.Errorf("Unexpected columns: %v", got)
	}
	if sel.Rows[1][1].Value != "Globex" {
		t.Errorf("Expected Globex, got %q", sel.Rows[1][1].Value)
	}

	if _, err := tbl.Select("name", "currency"); !errors.Is(err, ErrColumnNotFound) {
		t.Errorf("Expected ErrColumnNotFound, got %v", err)
	}
}

func TestHead(t *testing.T) {
	tbl := newTestTable(t)

	if got := tbl.Head(1).Len(); got != 1 {
		t.Errorf("Head(1) returned %d rows", got)
	}
	if got := tbl.Head(10).Len(); got != 2 {
		t.Errorf("Head(10) returned %d rows", got)
	}
}

func TestValidateHeader(t *testing.T) {
	tests := []struct {
		name    string
		header  []string
		wantErr error
	}{
		{name: "valid", header: []string{"a", "b"}},
		{name: "duplicate", header: []string{"a", "a"}, wantErr: ErrDuplicateColumn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateHeader(tt.header)
			if tt.wantErr == nil && err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}

	if err := ValidateHeader(nil); err == nil {
		t.Error("Expected error for empty header")
	}
	if err := ValidateHeader([]string{"a", ""}); err == nil {
		t.Error("Expected error for empty column name")
	}
}

func TestCellString(t *testing.T) {
	if NullCell().String() != "" {
		t.Error("Null cell must render as empty string")
	}
	if StringCell("x").String() != "x" {
		t.Error("String cell must render its value")
	}
}
