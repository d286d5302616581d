package audit

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

const (
	defaultMaxSizeMB  = 10
	defaultMaxBackups = 3
)

// FileAppenderConfig - конфигурация file appender
type FileAppenderConfig struct {
	FilePath   string
	MaxSize    int64 // В мегабайтах, 0 = 10 MB
	MaxBackups int   // 0 = 3
	Level      Level
	FormatJSON bool // JSON lines или текст
}

// FileAppender дописывает записи запусков пайплайна в один файл.
// При превышении maxSize файл уходит в audit.log.1, старые сдвигаются
// до audit.log.<MaxBackups>, более старые удаляются.
type FileAppender struct {
	mu         sync.Mutex
	path       string
	file       *os.File
	size       int64
	maxSize    int64
	maxBackups int
	level      Level
	encode     func(*Entry) ([]byte, error)
}

// NewFileAppender открывает (или создает) журнал аудита
func NewFileAppender(config FileAppenderConfig) (*FileAppender, error) {
	if config.FilePath == "" {
		return nil, fmt.Errorf("audit file path is required")
	}
	if err := os.MkdirAll(filepath.Dir(config.FilePath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	maxSizeMB := config.MaxSize
	if maxSizeMB <= 0 {
		maxSizeMB = defaultMaxSizeMB
	}
	maxBackups := config.MaxBackups
	if maxBackups <= 0 {
		maxBackups = defaultMaxBackups
	}

	fa := &FileAppender{
		path:       config.FilePath,
		maxSize:    maxSizeMB * 1024 * 1024,
		maxBackups: maxBackups,
		level:      config.Level,
		encode:     encodeText,
	}
	if config.FormatJSON {
		fa.encode = encodeJSON
	}

	if err := fa.open(); err != nil {
		return nil, err
	}
	return fa, nil
}

func encodeJSON(e *Entry) ([]byte, error) {
	data, err := e.ToJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to marshal entry: %w", err)
	}
	return append(data, '\n'), nil
}

func encodeText(e *Entry) ([]byte, error) {
	return []byte(e.String() + "\n"), nil
}

// open открывает файл на дозапись и запоминает его размер
func (fa *FileAppender) open() error {
	file, err := os.OpenFile(fa.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open audit file: %w", err)
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return fmt.Errorf("failed to stat audit file: %w", err)
	}
	fa.file = file
	fa.size = info.Size()
	return nil
}

// Append пишет запись, урезанную до уровня appender
func (fa *FileAppender) Append(ctx context.Context, entry *Entry) error {
	data, err := fa.encode(entry.FilterByLevel(fa.level))
	if err != nil {
		return err
	}

	fa.mu.Lock()
	defer fa.mu.Unlock()

	if fa.file == nil {
		return fmt.Errorf("audit file %s is closed", fa.path)
	}
	if fa.size > 0 && fa.size+int64(len(data)) > fa.maxSize {
		if err := fa.rotate(); err != nil {
			return fmt.Errorf("failed to rotate audit file: %w", err)
		}
	}

	n, err := fa.file.Write(data)
	fa.size += int64(n)
	if err != nil {
		return fmt.Errorf("failed to write entry: %w", err)
	}
	return nil
}

func (fa *FileAppender) backup(n int) string {
	return fmt.Sprintf("%s.%d", fa.path, n)
}

// rotate: path.N удаляется, path.i -> path.i+1, path -> path.1
func (fa *FileAppender) rotate() error {
	if err := fa.file.Close(); err != nil {
		return err
	}
	fa.file = nil

	if err := os.Remove(fa.backup(fa.maxBackups)); err != nil && !os.IsNotExist(err) {
		return err
	}
	for i := fa.maxBackups - 1; i > 0; i-- {
		if err := os.Rename(fa.backup(i), fa.backup(i+1)); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	if err := os.Rename(fa.path, fa.backup(1)); err != nil {
		return err
	}

	return fa.open()
}

// Close синхронизирует и закрывает файл; повторный вызов - noop
func (fa *FileAppender) Close() error {
	fa.mu.Lock()
	defer fa.mu.Unlock()

	if fa.file == nil {
		return nil
	}
	syncErr := fa.file.Sync()
	closeErr := fa.file.Close()
	fa.file = nil
	if syncErr != nil {
		return syncErr
	}
	return closeErr
}
