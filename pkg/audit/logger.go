package audit

import (
	"context"
	"fmt"
	"time"
)

// Logger - интерфейс аудита этапов пайплайна
type Logger interface {
	Log(ctx context.Context, entry *Entry) error
	Close() error
}

// AuditLogger пишет записи синхронно во все appenders
type AuditLogger struct {
	appenders []Appender
	config    LoggerConfig
}

// LoggerConfig - конфигурация логгера
type LoggerConfig struct {
	// Pipeline - имя пайплайна по умолчанию (если не указано в entry)
	Pipeline string

	// OnError - callback при ошибке записи
	OnError func(error)
}

// NewLogger - создать новый audit logger
func NewLogger(config LoggerConfig, appenders ...Appender) *AuditLogger {
	return &AuditLogger{
		appenders: appenders,
		config:    config,
	}
}

// Log - записать audit entry
func (l *AuditLogger) Log(ctx context.Context, entry *Entry) error {
	if entry == nil {
		return fmt.Errorf("entry is nil")
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	if entry.ID == "" {
		entry.ID = generateID()
	}
	if entry.Pipeline == "" {
		entry.Pipeline = l.config.Pipeline
	}

	var firstError error
	for _, appender := range l.appenders {
		if err := appender.Append(ctx, entry); err != nil {
			if firstError == nil {
				firstError = err
			}
			l.handleError(fmt.Errorf("appender failed: %w", err))
		}
	}
	return firstError
}

// Close - закрыть все appenders
func (l *AuditLogger) Close() error {
	var firstError error
	for _, appender := range l.appenders {
		if err := appender.Close(); err != nil {
			if firstError == nil {
				firstError = err
			}
			l.handleError(fmt.Errorf("close failed: %w", err))
		}
	}
	return firstError
}

func (l *AuditLogger) handleError(err error) {
	if l.config.OnError != nil {
		l.config.OnError(err)
	}
}

// NullLogger - пустой logger, используется когда аудит выключен
type NullLogger struct{}

// NewNullLogger - создать null logger
func NewNullLogger() *NullLogger {
	return &NullLogger{}
}

// Log - ничего не делает
func (nl *NullLogger) Log(ctx context.Context, entry *Entry) error {
	return nil
}

// Close - ничего не делает
func (nl *NullLogger) Close() error {
	return nil
}
