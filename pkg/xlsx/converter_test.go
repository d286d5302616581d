package xlsx

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ruslano69/esgclean/pkg/core/table"
	"github.com/xuri/excelize/v2"
)

func writeFile(t *testing.T, data *table.Table, sheet string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "out.xlsx")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := Write(f, data, sheet); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	return path
}

func TestWrite_TypedCells(t *testing.T) {
	data := table.New("esg", "name", "logo", "total_score")
	data.Schema.Fields[2].Type = table.TypeInteger
	_ = data.AppendRow(table.StringCell("Acme"), table.NullCell(), table.StringCell("42"))

	path := writeFile(t, data, "")

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if got := f.GetSheetName(0); got != "esg" {
		t.Errorf("sheet = %q, want esg", got)
	}
	header, _ := f.GetCellValue("esg", "A1")
	if header != "name" {
		t.Errorf("A1 = %q, want plain field name", header)
	}
	cellType, _ := f.GetCellType("esg", "C2")
	if cellType == excelize.CellTypeSharedString || cellType == excelize.CellTypeInlineString {
		t.Errorf("INTEGER cell stored as string (type %v)", cellType)
	}
	logo, _ := f.GetCellValue("esg", "B2")
	if logo != "" {
		t.Errorf("null cell = %q, want empty", logo)
	}
}

func TestReadFile(t *testing.T) {
	data := table.New("esg", "name", "industry", "total_score")
	_ = data.AppendRow(table.StringCell("Acme"), table.StringCell("N/A"), table.StringCell("10"))
	_ = data.AppendRow(table.StringCell("Globex"), table.StringCell("Energy"), table.NullCell())

	path := writeFile(t, data, "esg")

	got, err := ReadFile(path, "", []string{"N/A", ""})
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}

	if got.Len() != 2 {
		t.Fatalf("rows = %d, want 2", got.Len())
	}
	if !got.Rows[0][1].Null {
		t.Error("N/A must be read as null")
	}
	if !got.Rows[1][2].Null {
		t.Error("trailing empty cell must be read as null")
	}
	if got.Rows[0][2].Value != "10" {
		t.Errorf("total_score = %q, want 10", got.Rows[0][2].Value)
	}
}

func TestReadFile_Missing(t *testing.T) {
	if _, err := ReadFile(filepath.Join(t.TempDir(), "none.xlsx"), "", nil); err == nil {
		t.Error("expected error for missing file")
	}
}
