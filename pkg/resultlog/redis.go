package resultlog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/ruslano69/esgclean/pkg/etl"
	"github.com/ruslano69/esgclean/pkg/retry"
)

// KeyPrefix - префикс ключей и каналов результата
const KeyPrefix = "esgclean:pipeline:"

// PipelineResult представляет состояние пайплайна, публикуемое в Redis
// после завершения выполнения (успешного или с ошибкой).
//
// Redis-ключи:
//
//	SET  esgclean:pipeline:<name>:state  <JSON>  EX <ttl>   GET-запросы оркестратора
//	PUB  esgclean:pipeline:<name>                           подписчики событий
type PipelineResult struct {
	PipelineName string    `json:"pipeline_name"`
	ResultName   string    `json:"result_name"`
	Status       string    `json:"status"` // "success" | "failed"
	StartedAt    time.Time `json:"started_at"`
	FinishedAt   time.Time `json:"finished_at"`
	DurationMs   int64     `json:"duration_ms"`
	RowsLoaded   int       `json:"rows_loaded"`
	RowsExported int       `json:"rows_exported"`
	Destination  string    `json:"destination,omitempty"`
	Checksum     string    `json:"checksum,omitempty"`
	Upload       string    `json:"upload,omitempty"`
	FailedStage  string    `json:"failed_stage,omitempty"`
	Error        *string   `json:"error,omitempty"`
}

// RedisPublisher публикует результат выполнения пайплайна в Redis
type RedisPublisher struct {
	client *redis.Client
	config etl.ResultLogConfig
}

// NewRedisPublisher создает новый Redis publisher на основе конфигурации
func NewRedisPublisher(config etl.ResultLogConfig) *RedisPublisher {
	client := redis.NewClient(&redis.Options{
		Addr:     config.Address,
		Password: config.Password,
		DB:       config.DB,
	})
	return NewRedisPublisherWithClient(client, config)
}

// NewRedisPublisherWithClient создает publisher с готовым клиентом
func NewRedisPublisherWithClient(client *redis.Client, config etl.ResultLogConfig) *RedisPublisher {
	return &RedisPublisher{client: client, config: config}
}

// NewResult собирает PipelineResult из статистики выполнения.
// execErr == nil означает успешное выполнение.
func NewResult(pipelineName, resultName string, stats etl.ProcessorStats, execErr error) PipelineResult {
	result := PipelineResult{
		PipelineName: pipelineName,
		ResultName:   resultName,
		Status:       "success",
		StartedAt:    stats.StartTime,
		FinishedAt:   stats.EndTime,
		DurationMs:   stats.Duration.Milliseconds(),
		RowsLoaded:   stats.RowsLoaded,
		RowsExported: stats.RowsExported,
		Destination:  stats.Destination,
		Checksum:     stats.Checksum,
		Upload:       stats.UploadLocation,
	}

	if execErr != nil {
		result.Status = "failed"
		errStr := execErr.Error()
		result.Error = &errStr

		var stageErr *etl.StageError
		if errors.As(execErr, &stageErr) {
			result.FailedStage = stageErr.Stage
		}
	}

	return result
}

// StateKey - ключ последнего состояния
func StateKey(name string) string {
	return KeyPrefix + name + ":state"
}

// Channel - канал событий
func Channel(name string) string {
	return KeyPrefix + name
}

// Publish публикует результат выполнения пайплайна (SET с TTL, затем PUBLISH).
// Вызывается независимо от результата выполнения; при заданной
// config.Retry оба шага повторяются по политике.
func (p *RedisPublisher) Publish(ctx context.Context, pipelineName string, stats etl.ProcessorStats, execErr error) error {
	result := NewResult(pipelineName, p.config.Name, stats, execErr)

	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	ttl := time.Duration(p.config.TTL) * time.Second

	return retry.Do(ctx, p.config.Retry, func(ctx context.Context) error {
		if err := p.client.Set(ctx, StateKey(p.config.Name), payload, ttl).Err(); err != nil {
			return fmt.Errorf("redis SET failed: %w", err)
		}
		if err := p.client.Publish(ctx, Channel(p.config.Name), payload).Err(); err != nil {
			return fmt.Errorf("redis PUBLISH failed: %w", err)
		}
		return nil
	})
}

// Close закрывает соединение с Redis
func (p *RedisPublisher) Close() error {
	return p.client.Close()
}
