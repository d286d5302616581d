package etl

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ruslano69/esgclean/pkg/core/table"
	"github.com/ruslano69/esgclean/pkg/csvfile"
	"github.com/ruslano69/esgclean/pkg/processors"
	"github.com/ruslano69/esgclean/pkg/xlsx"
)

// ChecksumExt - расширение файла с xxh3 суммой рядом с данными
const ChecksumExt = ".xxh3"

// Loader читает входной файл в таблицу
type Loader struct {
	config SourceConfig
}

// NewLoader создает загрузчик для источника
func NewLoader(config SourceConfig) *Loader {
	return &Loader{config: config}
}

// Load читает источник. Все колонки загружаются как TEXT,
// маркеры пропусков становятся null.
func (l *Loader) Load(ctx context.Context) (*table.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if l.config.VerifyChecksum {
		if err := verifyChecksum(l.config.Path); err != nil {
			return nil, err
		}
	}

	opts := l.readOptions()

	switch l.config.Format {
	case FormatXLSX:
		return xlsx.ReadFile(l.config.Path, l.config.Sheet, opts.NullTokens())
	case FormatCSV, "":
		return csvfile.ReadFile(l.config.Path, opts)
	default:
		return nil, fmt.Errorf("unsupported source format: %s", l.config.Format)
	}
}

func (l *Loader) readOptions() csvfile.ReadOptions {
	opts := csvfile.DefaultReadOptions()
	if l.config.NullValues != nil {
		opts.NullValues = l.config.NullValues
	}
	if l.config.KeepDefaultNA != nil {
		opts.KeepDefaultNA = *l.config.KeepDefaultNA
	}
	// Validate уже проверил разделитель
	if d, err := parseDelimiter(l.config.Delimiter); err == nil {
		opts.Delimiter = d
	}
	return opts
}

// verifyChecksum сверяет файл с суммой из <path>.xxh3
func verifyChecksum(path string) error {
	expected, err := ReadChecksumFile(path + ChecksumExt)
	if err != nil {
		return err
	}
	if err := processors.ValidateFileChecksum(path, expected); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// ReadChecksumFile читает hex-сумму из файла (первое поле первой строки)
func ReadChecksumFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read checksum file: %w", err)
	}
	fields := strings.Fields(string(data))
	if len(fields) == 0 {
		return "", fmt.Errorf("checksum file %s is empty", path)
	}
	return fields[0], nil
}
