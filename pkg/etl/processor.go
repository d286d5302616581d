package etl

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/ruslano69/esgclean/pkg/audit"
	"github.com/ruslano69/esgclean/pkg/core/table"
	"github.com/ruslano69/esgclean/pkg/processors"
	"github.com/ruslano69/esgclean/pkg/retry"
)

// StageStats - статистика одного шага
type StageStats struct {
	Name     string
	Rows     int
	Duration time.Duration
}

// ProcessorStats представляет статистику выполнения пайплайна
type ProcessorStats struct {
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
	RowsLoaded     int
	RowsExported   int
	Stages         []StageStats
	Destination    string
	Checksum       string
	UploadLocation string
	FailedStage    string
}

// Processor выполняет пайплайн: загрузка, цепочка процессоров, предпросмотр, запись
type Processor struct {
	config   *PipelineConfig
	loader   *Loader
	exporter *Exporter
	uploader *Uploader
	logger   zerolog.Logger
	audit    audit.Logger
	preview  io.Writer
	stats    ProcessorStats
}

// NewProcessor создает процессор пайплайна
func NewProcessor(config *PipelineConfig) *Processor {
	return &Processor{
		config:   config,
		loader:   NewLoader(config.Source),
		exporter: NewExporter(config.Output),
		logger:   zerolog.Nop(),
		audit:    audit.NewNullLogger(),
		preview:  os.Stdout,
	}
}

// WithLogger задает логгер
func (p *Processor) WithLogger(logger zerolog.Logger) *Processor {
	p.logger = logger.With().Str("pipeline", p.config.Name).Logger()
	return p
}

// WithAudit задает audit logger
func (p *Processor) WithAudit(logger audit.Logger) *Processor {
	p.audit = logger
	return p
}

// WithPreviewOutput задает вывод предпросмотра (по умолчанию stdout)
func (p *Processor) WithPreviewOutput(w io.Writer) *Processor {
	p.preview = w
	return p
}

// WithUploader задает загрузчик; без него он создается из output.upload
func (p *Processor) WithUploader(u *Uploader) *Processor {
	p.uploader = u
	return p
}

// Execute выполняет весь пайплайн. Любая ошибка прерывает выполнение
// и возвращается как *StageError.
func (p *Processor) Execute(ctx context.Context) error {
	p.stats = ProcessorStats{StartTime: time.Now()}
	defer func() {
		p.stats.EndTime = time.Now()
		p.stats.Duration = p.stats.EndTime.Sub(p.stats.StartTime)
	}()

	// 1. Загрузка
	data, err := p.load(ctx)
	if err != nil {
		return p.fail(StageLoad, err)
	}

	// 2. Очистка и нормализация
	result, err := p.transform(ctx, data)
	if err != nil {
		return p.fail(StageTransform, err)
	}

	// 3. Предпросмотр
	if err := p.showPreview(ctx, result); err != nil {
		return p.fail(StagePreview, err)
	}

	// 4. Запись
	if err := p.export(ctx, result); err != nil {
		return p.fail(StageExport, err)
	}

	// 5. Загрузка в хранилище
	if err := p.upload(ctx); err != nil {
		if rmErr := p.exporter.Remove(); rmErr != nil {
			p.logger.Warn().Err(rmErr).Msg("failed to remove output after upload error")
		}
		return p.fail(StageUpload, err)
	}

	p.logger.Info().
		Int("rows", p.stats.RowsExported).
		Str("destination", p.stats.Destination).
		Dur("duration", time.Since(p.stats.StartTime)).
		Msg("pipeline completed")

	return nil
}

func (p *Processor) fail(stage string, err error) error {
	p.stats.FailedStage = stage
	return &StageError{Stage: stage, Err: err}
}

// load загружает источник
func (p *Processor) load(ctx context.Context) (*table.Table, error) {
	start := time.Now()
	p.logger.Info().Str("path", p.config.Source.Path).Str("format", p.config.Source.Format).Msg("loading source")

	data, err := p.loader.Load(ctx)
	p.record(ctx, audit.NewEntry(audit.OpLoad, audit.StatusSuccess).
		WithResource(p.config.Source.Path).
		WithDuration(time.Since(start)).
		WithMetadata("format", p.config.Source.Format).
		WithError(err), data)
	if err != nil {
		return nil, err
	}

	p.stats.RowsLoaded = data.Len()
	p.addStage(StageLoad, data.Len(), time.Since(start))
	p.logger.Info().Int("rows", data.Len()).Int("columns", len(data.Schema.Fields)).Msg("source loaded")
	return data, nil
}

// transform строит цепочку из конфигурации и прогоняет через нее таблицу
func (p *Processor) transform(ctx context.Context, data *table.Table) (*table.Table, error) {
	chain, err := processors.CreateChainFromConfigs(p.config.Processors)
	if err != nil {
		return nil, err
	}

	stepStart := time.Now()
	chain.OnStep(func(index int, proc processors.Processor, result *table.Table) {
		elapsed := time.Since(stepStart)
		p.addStage(proc.Name(), result.Len(), elapsed)
		p.logger.Debug().
			Int("step", index).
			Str("processor", proc.Name()).
			Int("rows", result.Len()).
			Dur("duration", elapsed).
			Msg("processor finished")
		p.record(ctx, audit.NewEntry(audit.OpTransform, audit.StatusSuccess).
			WithResource(proc.Name()).
			WithDuration(elapsed), result)
		stepStart = time.Now()
	})

	result, err := chain.Process(ctx, data)
	if err != nil {
		p.record(ctx, audit.NewEntry(audit.OpTransform, audit.StatusFailure).WithError(err), nil)
		return nil, err
	}

	p.logger.Info().Int("steps", chain.Len()).Strs("processors", chain.Names()).Int("rows", result.Len()).Msg("transform completed")
	return result, nil
}

// showPreview печатает первые строки результата
func (p *Processor) showPreview(ctx context.Context, result *table.Table) error {
	rows := 0
	if p.config.Preview.Rows != nil {
		rows = *p.config.Preview.Rows
	}
	if rows == 0 || p.preview == nil {
		return nil
	}

	err := WritePreview(p.preview, result, p.config.Preview.Columns, rows)
	if err != nil {
		p.record(ctx, audit.NewEntry(audit.OpPreview, audit.StatusFailure).WithError(err), nil)
	}
	return err
}

// export записывает результат
func (p *Processor) export(ctx context.Context, result *table.Table) error {
	start := time.Now()
	p.logger.Info().Str("type", p.config.Output.Type).Msg("exporting result")

	res, err := p.exporter.Export(ctx, result)
	entry := audit.NewEntry(audit.OpExport, audit.StatusSuccess).
		WithResource(p.exporter.getDestination()).
		WithDuration(time.Since(start)).
		WithError(err)
	if err != nil {
		p.record(ctx, entry, nil)
		return err
	}
	if res.Checksum != "" {
		entry.WithMetadata("xxh3", res.Checksum).WithMetadata("bytes", res.Bytes)
	}
	p.record(ctx, entry, result)

	p.stats.RowsExported = res.RowsExported
	p.stats.Destination = res.Destination
	p.stats.Checksum = res.Checksum
	p.addStage(StageExport, res.RowsExported, time.Since(start))

	p.logger.Info().
		Str("destination", res.Destination).
		Int("rows", res.RowsExported).
		Int64("bytes", res.Bytes).
		Str("xxh3", res.Checksum).
		Msg("result written")
	return nil
}

// upload загружает выходной файл в S3, если настроено
func (p *Processor) upload(ctx context.Context) error {
	cfg := p.config.Output.Upload
	if cfg == nil {
		return nil
	}

	start := time.Now()
	if p.uploader == nil {
		u, err := NewUploader(ctx, *cfg)
		if err != nil {
			return err
		}
		p.uploader = u
	}

	var location string
	err := retry.Do(ctx, p.retryPolicy(cfg.Retry, "upload"), func(ctx context.Context) error {
		var uploadErr error
		location, uploadErr = p.uploader.UploadFile(ctx, p.config.Output.Destination)
		return uploadErr
	})
	p.record(ctx, audit.NewEntry(audit.OpUpload, audit.StatusSuccess).
		WithResource(location).
		WithDuration(time.Since(start)).
		WithError(err), nil)
	if err != nil {
		return err
	}

	p.stats.UploadLocation = location
	p.addStage(StageUpload, 0, time.Since(start))
	p.logger.Info().Str("location", location).Msg("result uploaded")
	return nil
}

// retryPolicy копирует политику и добавляет логирование повторов
func (p *Processor) retryPolicy(policy *retry.Config, operation string) *retry.Config {
	if policy == nil {
		return nil
	}
	c := *policy
	c.OnRetry = func(attempt int, err error, delay time.Duration) {
		p.logger.Warn().Err(err).
			Str("operation", operation).
			Int("attempt", attempt).
			Dur("delay", delay).
			Msg("retrying")
	}
	return &c
}

// record пишет audit запись; ошибки аудита не прерывают пайплайн
func (p *Processor) record(ctx context.Context, entry *audit.Entry, t *table.Table) {
	if t != nil {
		entry.WithRecordsAffected(int64(t.Len()))
	}
	if err := p.audit.Log(ctx, entry); err != nil {
		p.logger.Warn().Err(err).Str("operation", string(entry.Operation)).Msg("audit write failed")
	}
}

func (p *Processor) addStage(name string, rows int, d time.Duration) {
	p.stats.Stages = append(p.stats.Stages, StageStats{Name: name, Rows: rows, Duration: d})
}

// GetStats возвращает статистику выполнения
func (p *Processor) GetStats() ProcessorStats {
	return p.stats
}

// Validate проверяет конфигурацию и цепочку процессоров до выполнения
func (p *Processor) Validate() error {
	if p.config == nil {
		return fmt.Errorf("config is nil")
	}
	if err := p.config.Validate(); err != nil {
		return err
	}
	if _, err := processors.CreateChainFromConfigs(p.config.Processors); err != nil {
		return fmt.Errorf("processors: %w", err)
	}
	return nil
}
