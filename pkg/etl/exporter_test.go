package etl

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ruslano69/esgclean/pkg/core/table"
	"github.com/ruslano69/esgclean/pkg/csvfile"
	"github.com/ruslano69/esgclean/pkg/processors"
	"github.com/ruslano69/esgclean/pkg/xlsx"
)

func sampleTable(t *testing.T) *table.Table {
	t.Helper()
	data := table.New("esg", "name", "logo", "total_score")
	data.Schema.Fields[2].Type = table.TypeInteger
	if err := data.AppendRow(table.StringCell("Acme"), table.NullCell(), table.StringCell("50")); err != nil {
		t.Fatal(err)
	}
	return data
}

func TestExporter_CSV(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "cleaned.csv")

	res, err := NewExporter(OutputConfig{Type: OutputCSV, Destination: dest, Checksum: true}).
		Export(context.Background(), sampleTable(t))
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	content, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != "name,logo,total_score\nAcme,,50\n" {
		t.Errorf("content = %q", content)
	}
	if res.RowsExported != 1 || res.Bytes != int64(len(content)) {
		t.Errorf("result = %+v", res)
	}

	// Сумма в sidecar совпадает с содержимым файла
	sum, err := ReadChecksumFile(dest + ChecksumExt)
	if err != nil {
		t.Fatal(err)
	}
	if sum != res.Checksum {
		t.Errorf("sidecar = %s, result = %s", sum, res.Checksum)
	}
	if err := processors.ValidateFileChecksum(dest, sum); err != nil {
		t.Errorf("ValidateFileChecksum() error = %v", err)
	}

	// Временных файлов не остается
	entries, _ := os.ReadDir(filepath.Dir(dest))
	for _, e := range entries {
		if strings.Contains(e.Name(), ".tmp-") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}

func TestExporter_CompressedCSV(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "cleaned.csv.zst")

	if _, err := NewExporter(OutputConfig{Type: OutputCSV, Destination: dest, Compression: true, Delimiter: ";"}).
		Export(context.Background(), sampleTable(t)); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	opts := csvfile.DefaultReadOptions()
	opts.Delimiter = ';'
	got, err := csvfile.ReadFile(dest, opts)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if got.Len() != 1 || got.Rows[0][2].Value != "50" || !got.Rows[0][1].Null {
		t.Errorf("rows = %+v", got.Rows)
	}
}

func TestExporter_XLSX(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "cleaned.xlsx")

	if _, err := NewExporter(OutputConfig{Type: OutputXLSX, Destination: dest}).
		Export(context.Background(), sampleTable(t)); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	got, err := xlsx.ReadFile(dest, "", []string{""})
	if err != nil {
		t.Fatalf("xlsx.ReadFile() error = %v", err)
	}
	if got.Len() != 1 || got.Rows[0][0].Value != "Acme" {
		t.Errorf("rows = %+v", got.Rows)
	}
}

func TestExporter_Database(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "esg.db")
	cfg := OutputConfig{
		Type:     OutputDatabase,
		Database: &DatabaseOutputConfig{Type: "sqlite", DSN: dsn, Table: "esg_scores", Strategy: "fail"},
	}

	res, err := NewExporter(cfg).Export(context.Background(), sampleTable(t))
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if res.Destination != "sqlite:esg_scores" {
		t.Errorf("Destination = %s", res.Destination)
	}

	// Повторная запись со стратегией fail
	if _, err := NewExporter(cfg).Export(context.Background(), sampleTable(t)); err == nil {
		t.Error("expected error for existing table with strategy fail")
	}
}

func TestExporter_FailureLeavesNoFile(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "cleaned.csv")
	writeErr := errors.New("boom")

	_, _, err := writeAtomic(dest, func(w io.Writer) error {
		_, _ = w.Write([]byte("partial"))
		return writeErr
	})
	if !errors.Is(err, writeErr) {
		t.Fatalf("expected write error, got %v", err)
	}

	entries, _ := os.ReadDir(filepath.Dir(dest))
	if len(entries) != 0 {
		t.Errorf("directory must be empty, got %d entries", len(entries))
	}
}

func TestExporter_MissingDirectory(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "no", "such", "dir", "out.csv")
	if _, err := NewExporter(OutputConfig{Type: OutputCSV, Destination: dest}).
		Export(context.Background(), sampleTable(t)); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestExporter_ChecksumFailureRemovesOutput(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "cleaned.csv")
	// каталог на месте .xxh3: запись sidecar не удастся
	blocker := dest + ChecksumExt
	if err := os.MkdirAll(filepath.Join(blocker, "keep"), 0755); err != nil {
		t.Fatal(err)
	}

	_, err := NewExporter(OutputConfig{Type: OutputCSV, Destination: dest, Checksum: true}).
		Export(context.Background(), sampleTable(t))
	if err == nil || !strings.Contains(err.Error(), "failed to write checksum file") {
		t.Fatalf("error = %v, want checksum write failure", err)
	}
	if _, err := os.Stat(dest); !os.IsNotExist(err) {
		t.Error("output must be removed when checksum file cannot be written")
	}
}

func TestExporter_Remove(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "cleaned.csv")
	exporter := NewExporter(OutputConfig{Type: OutputCSV, Destination: dest, Checksum: true})
	if _, err := exporter.Export(context.Background(), sampleTable(t)); err != nil {
		t.Fatal(err)
	}

	if err := exporter.Remove(); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	for _, path := range []string{dest, dest + ChecksumExt} {
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Errorf("%s still exists", filepath.Base(path))
		}
	}

	// повторный вызов на отсутствующих файлах - не ошибка
	if err := exporter.Remove(); err != nil {
		t.Errorf("second Remove() error = %v", err)
	}
}
