package audit

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync/atomic"
	"time"
)

// Level - уровень детализации записей
type Level int

const (
	// LevelMinimal - без метаданных
	LevelMinimal Level = iota

	// LevelStandard - вместе с метаданными
	LevelStandard
)

// String - строковое представление уровня
func (l Level) String() string {
	switch l {
	case LevelMinimal:
		return "minimal"
	case LevelStandard:
		return "standard"
	default:
		return fmt.Sprintf("unknown(%d)", l)
	}
}

// ParseLevel разбирает уровень из конфигурации. Пустая строка - standard.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(s) {
	case "", "standard":
		return LevelStandard, nil
	case "minimal":
		return LevelMinimal, nil
	}
	return 0, fmt.Errorf("unknown audit level '%s' (expected minimal or standard)", s)
}

// Operation - этап пайплайна
type Operation string

const (
	OpLoad      Operation = "load"
	OpTransform Operation = "transform"
	OpPreview   Operation = "preview"
	OpExport    Operation = "export"
	OpUpload    Operation = "upload"
)

// Status - статус выполнения операции
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
)

// Entry - запись в audit логе
type Entry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Operation Operation `json:"operation"`
	Status    Status    `json:"status"`

	// Pipeline - имя пайплайна
	Pipeline string `json:"pipeline,omitempty"`

	// Resource - файл, таблица или имя процессора
	Resource string `json:"resource,omitempty"`

	RecordsAffected int64         `json:"records_affected"`
	Duration        time.Duration `json:"duration,omitempty"`
	ErrorMessage    string        `json:"error_message,omitempty"`

	Metadata map[string]any `json:"metadata,omitempty"`
}

// NewEntry - создать новую audit запись
func NewEntry(operation Operation, status Status) *Entry {
	return &Entry{
		ID:        generateID(),
		Timestamp: time.Now(),
		Operation: operation,
		Status:    status,
	}
}

// WithPipeline - установить имя пайплайна
func (e *Entry) WithPipeline(name string) *Entry {
	e.Pipeline = name
	return e
}

// WithResource - установить ресурс
func (e *Entry) WithResource(resource string) *Entry {
	e.Resource = resource
	return e
}

// WithRecordsAffected - установить количество записей
func (e *Entry) WithRecordsAffected(count int64) *Entry {
	e.RecordsAffected = count
	return e
}

// WithDuration - установить длительность
func (e *Entry) WithDuration(duration time.Duration) *Entry {
	e.Duration = duration
	return e
}

// WithError - установить ошибку. Статус меняется на failure.
func (e *Entry) WithError(err error) *Entry {
	if err != nil {
		e.ErrorMessage = err.Error()
		e.Status = StatusFailure
	}
	return e
}

// WithMetadata - добавить метаданные
func (e *Entry) WithMetadata(key string, value any) *Entry {
	if e.Metadata == nil {
		e.Metadata = make(map[string]any)
	}
	e.Metadata[key] = value
	return e
}

// ToJSON - преобразовать в JSON
func (e *Entry) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// String - строковое представление
func (e *Entry) String() string {
	s := fmt.Sprintf("[%s] %s %s %s (resource=%s, records=%d, duration=%v)",
		e.Timestamp.Format(time.RFC3339),
		e.Pipeline,
		e.Operation,
		e.Status,
		e.Resource,
		e.RecordsAffected,
		e.Duration,
	)
	if e.ErrorMessage != "" {
		s += " error: " + e.ErrorMessage
	}
	return s
}

// FilterByLevel - копия записи с учетом уровня
func (e *Entry) FilterByLevel(level Level) *Entry {
	filtered := *e
	if level == LevelMinimal {
		filtered.Metadata = nil
	} else if e.Metadata != nil {
		filtered.Metadata = make(map[string]any, len(e.Metadata))
		for k, v := range e.Metadata {
			filtered.Metadata[k] = v
		}
	}
	return &filtered
}

var idCounter atomic.Uint64

// generateID - уникальный в пределах процесса ID
func generateID() string {
	return fmt.Sprintf("audit-%d-%d", time.Now().UnixNano(), idCounter.Add(1))
}
