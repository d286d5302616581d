package processors

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/zeebo/xxh3"
)

// Контрольные суммы выходных файлов.
// Используется xxh3 (64-bit): быстрая проверка целостности, не криптографическая.

// uint64ToBytes конвертирует uint64 в байтовый массив (big-endian).
func uint64ToBytes(v uint64) []byte {
	b := make([]byte, 8)
	for i := 7; i >= 0; i-- {
		b[i] = byte(v)
		v >>= 8
	}
	return b
}

// ComputeChecksum вычисляет xxh3 хеш данных и возвращает hex-encoded строку.
func ComputeChecksum(data []byte) string {
	h := xxh3.Hash(data)
	return hex.EncodeToString(uint64ToBytes(h))
}

// ComputeReaderChecksum вычисляет xxh3 хеш потока.
func ComputeReaderChecksum(r io.Reader) (string, error) {
	hasher := xxh3.New()
	if _, err := io.Copy(hasher, r); err != nil {
		return "", fmt.Errorf("failed to hash data: %w", err)
	}
	return hex.EncodeToString(uint64ToBytes(hasher.Sum64())), nil
}

// ComputeFileChecksum вычисляет xxh3 хеш файла, не загружая его целиком в память.
func ComputeFileChecksum(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	return ComputeReaderChecksum(f)
}

// ValidateFileChecksum проверяет соответствие файла ожидаемому хешу.
// Возвращает ошибку если хеш не совпадает.
func ValidateFileChecksum(path, expectedHash string) error {
	actual, err := ComputeFileChecksum(path)
	if err != nil {
		return err
	}
	if actual != expectedHash {
		return fmt.Errorf(
			"checksum validation failed: expected %s, got %s",
			expectedHash, actual,
		)
	}
	return nil
}
