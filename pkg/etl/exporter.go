package etl

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/ruslano69/esgclean/pkg/adapters"
	_ "github.com/ruslano69/esgclean/pkg/adapters/mssql"    // Register mssql
	_ "github.com/ruslano69/esgclean/pkg/adapters/mysql"    // Register mysql
	_ "github.com/ruslano69/esgclean/pkg/adapters/postgres" // Register postgres
	_ "github.com/ruslano69/esgclean/pkg/adapters/sqlite"   // Register sqlite
	"github.com/ruslano69/esgclean/pkg/core/table"
	"github.com/ruslano69/esgclean/pkg/csvfile"
	"github.com/ruslano69/esgclean/pkg/processors"
	"github.com/ruslano69/esgclean/pkg/xlsx"
	"github.com/zeebo/xxh3"
)

// ExportResult представляет результат экспорта
type ExportResult struct {
	OutputType   string
	Destination  string
	RowsExported int
	Bytes        int64
	Checksum     string // xxh3 записанного файла (только файловые выходы)
}

// Exporter записывает результат в файл или БД
type Exporter struct {
	config OutputConfig
}

// NewExporter создает новый экспортер
func NewExporter(config OutputConfig) *Exporter {
	return &Exporter{config: config}
}

// Export записывает таблицу в сконфигурированный выход.
// Файлы пишутся атомарно: при ошибке файл назначения не создается и не меняется.
func (e *Exporter) Export(ctx context.Context, t *table.Table) (*ExportResult, error) {
	if t == nil {
		return nil, fmt.Errorf("table is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &ExportResult{
		OutputType:   e.config.Type,
		Destination:  e.getDestination(),
		RowsExported: t.Len(),
	}

	var err error
	switch e.config.Type {
	case OutputCSV:
		result.Bytes, result.Checksum, err = writeAtomic(e.config.Destination, func(w io.Writer) error {
			return e.writeCSV(w, t)
		})
	case OutputXLSX:
		result.Bytes, result.Checksum, err = writeAtomic(e.config.Destination, func(w io.Writer) error {
			return xlsx.Write(w, t, e.config.Sheet)
		})
	case OutputDatabase:
		err = e.exportToDatabase(ctx, t)
	default:
		err = fmt.Errorf("unsupported output type: %s", e.config.Type)
	}
	if err != nil {
		return nil, err
	}

	if e.config.Checksum && result.Checksum != "" {
		sidecar := e.config.Destination + ChecksumExt
		line := result.Checksum + "  " + filepath.Base(e.config.Destination) + "\n"
		if err := os.WriteFile(sidecar, []byte(line), 0644); err != nil {
			e.Remove()
			return nil, fmt.Errorf("failed to write checksum file: %w", err)
		}
	}

	return result, nil
}

// Remove удаляет записанный файл и его .xxh3 - откат файлового выхода,
// если пайплайн упал после записи. Для БД ничего не делает.
func (e *Exporter) Remove() error {
	if e.config.Type == OutputDatabase || e.config.Destination == "" {
		return nil
	}
	var firstErr error
	for _, path := range []string{e.config.Destination, e.config.Destination + ChecksumExt} {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) && firstErr == nil {
			firstErr = fmt.Errorf("failed to remove %s: %w", path, err)
		}
	}
	return firstErr
}

func (e *Exporter) writeCSV(w io.Writer, t *table.Table) error {
	delimiter, err := parseDelimiter(e.config.Delimiter)
	if err != nil {
		return err
	}
	opts := csvfile.WriteOptions{Delimiter: delimiter}

	if !e.config.Compression {
		return csvfile.Write(w, t, opts)
	}

	enc, err := processors.NewCompressWriter(w, e.config.CompressionLevel)
	if err != nil {
		return err
	}
	if err := csvfile.Write(enc, t, opts); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}

// exportToDatabase записывает таблицу через адаптер БД
func (e *Exporter) exportToDatabase(ctx context.Context, t *table.Table) error {
	cfg := e.config.Database

	strategy, err := adapters.ParseStrategy(cfg.Strategy)
	if err != nil {
		return err
	}

	adapter, err := adapters.New(ctx, adapters.Config{
		Type:    cfg.Type,
		DSN:     cfg.DSN,
		Timeout: time.Duration(cfg.Timeout) * time.Second,
	})
	if err != nil {
		return err
	}
	defer adapter.Close(ctx)

	return adapter.WriteTable(ctx, t, cfg.Table, strategy)
}

// getDestination возвращает описание назначения для логов и статистики
func (e *Exporter) getDestination() string {
	if e.config.Type == OutputDatabase && e.config.Database != nil {
		return fmt.Sprintf("%s:%s", e.config.Database.Type, e.config.Database.Table)
	}
	return e.config.Destination
}

// writeAtomic пишет во временный файл в каталоге назначения и переименовывает его.
// Возвращает размер и xxh3 записанных байт.
func writeAtomic(dest string, write func(w io.Writer) error) (size int64, checksum string, err error) {
	dir := filepath.Dir(dest)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(dest)+".tmp-*")
	if err != nil {
		return 0, "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	if err = tmp.Chmod(0644); err != nil {
		return 0, "", fmt.Errorf("failed to set file mode: %w", err)
	}

	hasher := xxh3.New()
	counter := &countingWriter{w: io.MultiWriter(tmp, hasher)}

	if err = write(counter); err != nil {
		return 0, "", err
	}
	if err = tmp.Sync(); err != nil {
		return 0, "", fmt.Errorf("failed to sync file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return 0, "", fmt.Errorf("failed to close file: %w", err)
	}
	if err = os.Rename(tmpPath, dest); err != nil {
		return 0, "", fmt.Errorf("failed to move file into place: %w", err)
	}

	return counter.n, fmt.Sprintf("%016x", hasher.Sum64()), nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
