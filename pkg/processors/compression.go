package processors

import (
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// CompressedExt - расширение файлов, сжатых zstd
const CompressedExt = ".zst"

// DefaultCompressionLevel - уровень 3 является хорошим балансом скорости и степени сжатия
const DefaultCompressionLevel = 3

// IsCompressedPath проверяет, указывает ли путь на zstd-файл
func IsCompressedPath(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), CompressedExt)
}

// NewCompressWriter оборачивает w в потоковый zstd-энкодер.
// level: 1 (самый быстрый) - 22 (лучшее сжатие). Close() обязателен - он дописывает кадр.
func NewCompressWriter(w io.Writer, level int) (io.WriteCloser, error) {
	if level <= 0 {
		level = DefaultCompressionLevel
	}

	encoder, err := zstd.NewWriter(w,
		zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(level)),
		zstd.WithEncoderConcurrency(1),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	return encoder, nil
}

// NewDecompressReader оборачивает r в потоковый zstd-декодер
func NewDecompressReader(r io.Reader) (io.ReadCloser, error) {
	decoder, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}
	return decoder.IOReadCloser(), nil
}
