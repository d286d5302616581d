// Package csvfile читает и пишет табличные данные в формате CSV.
package csvfile

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/ruslano69/esgclean/pkg/core/table"
	"github.com/ruslano69/esgclean/pkg/processors"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DefaultNullValues - маркеры пропусков, которые всегда считаются null
var DefaultNullValues = []string{"N/A", "n/a", "na", "NA"}

// StandardNAValues - стандартный набор маркеров пропусков табличных ридеров.
// Включает пустую строку.
var StandardNAValues = []string{
	"", "#N/A", "#N/A N/A", "#NA", "-1.#IND", "-1.#QNAN", "-NaN", "-nan",
	"1.#IND", "1.#QNAN", "<NA>", "N/A", "NA", "NULL", "NaN", "None",
	"n/a", "nan", "null",
}

// ReadOptions - параметры чтения CSV
type ReadOptions struct {
	Delimiter     rune
	NullValues    []string
	KeepDefaultNA bool
}

// DefaultReadOptions возвращает параметры чтения по умолчанию
func DefaultReadOptions() ReadOptions {
	return ReadOptions{
		Delimiter:     ',',
		NullValues:    DefaultNullValues,
		KeepDefaultNA: true,
	}
}

// nullSet собирает множество маркеров null
func (o ReadOptions) nullSet() map[string]struct{} {
	set := make(map[string]struct{}, len(o.NullValues)+len(StandardNAValues))
	for _, v := range o.NullValues {
		set[v] = struct{}{}
	}
	if o.KeepDefaultNA {
		for _, v := range StandardNAValues {
			set[v] = struct{}{}
		}
	}
	return set
}

// NullTokens возвращает полный список маркеров null с учетом KeepDefaultNA
func (o ReadOptions) NullTokens() []string {
	set := o.nullSet()
	tokens := make([]string, 0, len(set))
	for v := range set {
		tokens = append(tokens, v)
	}
	return tokens
}

// Read разбирает CSV из r. Первая строка - заголовок.
//
// Разбор и сопоставление маркеров пропусков выполняет gota (dataframe.ReadCSV):
// все колонки читаются как строки, значения из NullTokens становятся NA.
// Литерал "NaN" gota считает NA всегда, даже при KeepDefaultNA = false.
func Read(r io.Reader, name string, opts ReadOptions) (*table.Table, error) {
	br := bufio.NewReader(r)
	if prefix, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(prefix, utf8BOM) {
		if _, err := br.Discard(len(utf8BOM)); err != nil {
			return nil, err
		}
	}
	if _, err := br.Peek(1); errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("csv has no header")
	}

	delimiter := opts.Delimiter
	if delimiter == 0 {
		delimiter = ','
	}

	// Заголовок читаем как обычную строку: gota переименовывает дубликаты
	// и пустые имена, а они должны давать ошибку
	df := dataframe.ReadCSV(br,
		dataframe.HasHeader(false),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.WithDelimiter(delimiter),
		dataframe.NaNValues(opts.NullTokens()),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", df.Err)
	}

	nrows, ncols := df.Dims()
	header := make([]string, ncols)
	for c := 0; c < ncols; c++ {
		cell := df.Elem(0, c)
		if cell.IsNA() {
			return nil, fmt.Errorf("column %d has empty name", c+1)
		}
		header[c] = cell.String()
	}
	if err := table.ValidateHeader(header); err != nil {
		return nil, err
	}

	t := table.New(name, header...)
	t.Rows = make([]table.Row, 0, nrows-1)
	for r := 1; r < nrows; r++ {
		row := make(table.Row, ncols)
		for c := 0; c < ncols; c++ {
			if cell := df.Elem(r, c); cell.IsNA() {
				row[c] = table.NullCell()
			} else {
				row[c] = table.StringCell(cell.String())
			}
		}
		t.Rows = append(t.Rows, row)
	}

	return t, nil
}

// ReadFile читает CSV-файл. Файлы с расширением .zst распаковываются на лету.
func ReadFile(path string, opts ReadOptions) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if processors.IsCompressedPath(path) {
		dec, err := processors.NewDecompressReader(f)
		if err != nil {
			return nil, err
		}
		defer dec.Close()
		r = dec
	}

	return Read(r, TableName(path), opts)
}

// TableName выводит имя таблицы из имени файла: data.csv.zst -> data
func TableName(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, processors.CompressedExt)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
