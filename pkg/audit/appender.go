package audit

import (
	"context"
	"fmt"
	"io"
	"os"
)

// Appender - интерфейс для записи audit логов
type Appender interface {
	// Append - записать audit entry
	Append(ctx context.Context, entry *Entry) error

	// Close - закрыть appender
	Close() error
}

// ConsoleAppender - текстовые записи в writer (по умолчанию stderr)
type ConsoleAppender struct {
	out   io.Writer
	level Level
}

// NewConsoleAppender - создать console appender; nil означает os.Stderr
func NewConsoleAppender(out io.Writer, level Level) *ConsoleAppender {
	if out == nil {
		out = os.Stderr
	}
	return &ConsoleAppender{out: out, level: level}
}

// Append - записать entry одной строкой
func (ca *ConsoleAppender) Append(ctx context.Context, entry *Entry) error {
	_, err := fmt.Fprintln(ca.out, entry.FilterByLevel(ca.level).String())
	return err
}

// Close - noop
func (ca *ConsoleAppender) Close() error {
	return nil
}
