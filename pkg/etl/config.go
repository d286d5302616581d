package etl

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ruslano69/esgclean/pkg/adapters"
	"github.com/ruslano69/esgclean/pkg/processors"
	"github.com/ruslano69/esgclean/pkg/retry"
	"gopkg.in/yaml.v3"
)

// Значения по умолчанию для пайплайна очистки ESG-данных
const (
	DefaultPipelineName = "esg_cleaning"
	DefaultSourcePath   = "data.csv"
	DefaultDestination  = "cleaned_esg.csv"
	DefaultPreviewRows  = 10
	DefaultAuditOutput  = "esgclean_audit.log"
	DefaultResultLogTTL = 3600
)

// Форматы источника и типы выхода
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"

	OutputCSV      = "csv"
	OutputXLSX     = "xlsx"
	OutputDatabase = "database"
)

// ScoreColumns - колонки оценок, нормализуемые в [0, 100]
var ScoreColumns = []string{"total_score", "governance_score", "social_score", "environment_score"}

// DroppedColumns - колонки, исключаемые из результата
var DroppedColumns = []string{"exchange", "currency", "industry"}

// DefaultPreviewColumns - проекция для предпросмотра
var DefaultPreviewColumns = []string{
	"name", "environment_score", "environment_grade", "social_score",
	"social_grade", "governance_grade", "governance_score", "total_score",
}

// PipelineConfig содержит полную конфигурацию пайплайна
type PipelineConfig struct {
	Name        string              `yaml:"name"`
	Version     string              `yaml:"version,omitempty"`
	Description string              `yaml:"description,omitempty"`
	Source      SourceConfig        `yaml:"source"`
	Processors  []processors.Config `yaml:"processors"`
	Preview     PreviewConfig       `yaml:"preview"`
	Output      OutputConfig        `yaml:"output"`
	Audit       AuditConfig         `yaml:"audit"`
	ResultLog   ResultLogConfig     `yaml:"result_log"`
}

// SourceConfig определяет входной файл
type SourceConfig struct {
	Path           string   `yaml:"path"`                      // Путь к файлу (.csv, .csv.zst, .xlsx)
	Format         string   `yaml:"format,omitempty"`          // csv, xlsx (пустое = по расширению)
	Delimiter      string   `yaml:"delimiter,omitempty"`       // Разделитель CSV (по умолчанию ",")
	Sheet          string   `yaml:"sheet,omitempty"`           // Лист XLSX (пустое = первый)
	NullValues     []string `yaml:"null_values"`               // Маркеры пропусков
	KeepDefaultNA  *bool    `yaml:"keep_default_na,omitempty"` // Стандартные маркеры NA (по умолчанию true)
	VerifyChecksum bool     `yaml:"verify_checksum,omitempty"` // Сверить файл с <path>.xxh3
}

// PreviewConfig определяет печать первых строк перед записью
type PreviewConfig struct {
	Rows    *int     `yaml:"rows,omitempty"` // 0 = выключено, по умолчанию 10
	Columns []string `yaml:"columns"`
}

// OutputConfig определяет назначение для результата
type OutputConfig struct {
	Type             string                `yaml:"type"`                        // csv, xlsx, database
	Destination      string                `yaml:"destination,omitempty"`       // Путь к выходному файлу
	Delimiter        string                `yaml:"delimiter,omitempty"`         // Разделитель CSV
	Compression      bool                  `yaml:"compression,omitempty"`       // zstd для CSV
	CompressionLevel int                   `yaml:"compression_level,omitempty"` // 1-22
	Checksum         bool                  `yaml:"checksum,omitempty"`          // Писать <destination>.xxh3
	Sheet            string                `yaml:"sheet,omitempty"`             // Имя листа XLSX
	Database         *DatabaseOutputConfig `yaml:"database,omitempty"`
	Upload           *UploadConfig         `yaml:"upload,omitempty"`
}

// DatabaseOutputConfig определяет запись результата в БД
type DatabaseOutputConfig struct {
	Type     string `yaml:"type"`     // sqlite, postgres, mysql, mssql
	DSN      string `yaml:"dsn"`      // Строка подключения
	Table    string `yaml:"table"`    // Целевая таблица
	Strategy string `yaml:"strategy"` // replace, fail
	Timeout  int    `yaml:"timeout"`  // Таймаут в секундах (0 = без таймаута)
}

// UploadConfig определяет загрузку выходного файла в S3-совместимое хранилище
type UploadConfig struct {
	Bucket          string `yaml:"bucket"`
	Key             string `yaml:"key,omitempty"` // Пустое = имя файла
	Region          string `yaml:"region,omitempty"`
	Endpoint        string `yaml:"endpoint,omitempty"` // MinIO и т.п.
	AccessKeyID     string `yaml:"access_key_id,omitempty"`
	SecretAccessKey string `yaml:"secret_access_key,omitempty"`
	UsePathStyle    bool   `yaml:"use_path_style,omitempty"`

	Retry *retry.Config `yaml:"retry,omitempty"` // nil = одна попытка
}

// AuditConfig определяет параметры аудита
type AuditConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Level      string `yaml:"level,omitempty"`  // minimal, standard
	Output     string `yaml:"output,omitempty"` // Путь к файлу лога
	Format     string `yaml:"format,omitempty"` // json, text
	MaxSizeMB  int    `yaml:"max_size_mb,omitempty"`
	MaxBackups int    `yaml:"max_backups,omitempty"`
	Console    bool   `yaml:"console,omitempty"` // Дублировать записи в stderr
}

// ResultLogConfig определяет публикацию результата выполнения в Redis
type ResultLogConfig struct {
	Type     string `yaml:"type,omitempty"`     // Тип: redis (пустое = отключено)
	Address  string `yaml:"address,omitempty"`  // Адрес Redis, например "127.0.0.1:6379"
	Name     string `yaml:"name,omitempty"`     // Имя результата (ключ/канал)
	Password string `yaml:"password,omitempty"` // Пароль Redis (опционально)
	DB       int    `yaml:"db,omitempty"`       // Индекс базы данных Redis
	TTL      int    `yaml:"ttl,omitempty"`      // TTL ключа в секундах (по умолчанию 3600)

	Retry *retry.Config `yaml:"retry,omitempty"`
}

// DefaultProcessors возвращает цепочку очистки ESG-данных:
// заполнение пропусков, даты, нормализация оценок, удаление колонок
func DefaultProcessors() []processors.Config {
	return []processors.Config{
		{
			Type: processors.TypeNullFiller,
			Params: map[string]any{"fields": map[string]any{
				"industry": "Industry Not Available",
				"logo":     "Logo Not Provided",
				"weburl":   "Url Not Provided",
			}},
		},
		{
			Type: processors.TypeDateNormalizer,
			Params: map[string]any{
				"field":         "last_processing_date",
				"input_format":  processors.DefaultDateInputFormat,
				"output_format": processors.DefaultDateOutputFormat,
			},
		},
		{
			Type: processors.TypeMinMaxScaler,
			Params: map[string]any{
				"fields":           toAnySlice(ScoreColumns),
				"scale":            processors.DefaultScale,
				"rounding":         string(processors.RoundHalfEven),
				"on_zero_variance": string(processors.ZeroVarianceError),
			},
		},
		{
			Type:   processors.TypeColumnDropper,
			Params: map[string]any{"fields": toAnySlice(DroppedColumns), "strict": true},
		},
	}
}

func toAnySlice(values []string) []any {
	result := make([]any, len(values))
	for i, v := range values {
		result[i] = v
	}
	return result
}

// DefaultConfig возвращает конфигурацию, эквивалентную запуску без файла конфигурации
func DefaultConfig() *PipelineConfig {
	cfg := &PipelineConfig{
		Name:        DefaultPipelineName,
		Version:     "1.0",
		Description: "Fill missing fields, normalize dates and scores, drop unused columns",
		Source: SourceConfig{
			Path:       DefaultSourcePath,
			NullValues: append([]string(nil), defaultNullValues...),
		},
		Processors: DefaultProcessors(),
		Output: OutputConfig{
			Type:        OutputCSV,
			Destination: DefaultDestination,
		},
	}
	cfg.SetDefaults()
	return cfg
}

var defaultNullValues = []string{"N/A", "n/a", "na", "NA"}

// LoadConfig загружает конфигурацию из YAML файла
func LoadConfig(path string) (*PipelineConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig разбирает YAML, применяет значения по умолчанию и проверяет результат
func ParseConfig(data []byte) (*PipelineConfig, error) {
	var config PipelineConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	config.SetDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// SaveConfig записывает конфигурацию в YAML файл
func SaveConfig(config *PipelineConfig, path string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := "# esgclean pipeline configuration\n"
	if err := os.WriteFile(path, append([]byte(header), data...), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// SetDefaults устанавливает значения по умолчанию для необязательных полей
func (c *PipelineConfig) SetDefaults() {
	if c.Name == "" {
		c.Name = DefaultPipelineName
	}
	if c.Version == "" {
		c.Version = "1.0"
	}

	// Source
	if c.Source.Path == "" {
		c.Source.Path = DefaultSourcePath
	}
	if c.Source.Format == "" {
		c.Source.Format = detectFormat(c.Source.Path)
	}
	c.Source.Format = strings.ToLower(c.Source.Format)
	if c.Source.Delimiter == "" && isTSV(c.Source.Path) {
		c.Source.Delimiter = `\t`
	}
	if c.Source.NullValues == nil {
		c.Source.NullValues = append([]string(nil), defaultNullValues...)
	}
	if c.Source.KeepDefaultNA == nil {
		keep := true
		c.Source.KeepDefaultNA = &keep
	}

	// Processors: отсутствие секции означает стандартную цепочку
	if c.Processors == nil {
		c.Processors = DefaultProcessors()
	}

	// Preview
	if c.Preview.Rows == nil {
		rows := DefaultPreviewRows
		c.Preview.Rows = &rows
	}
	if len(c.Preview.Columns) == 0 {
		c.Preview.Columns = append([]string(nil), DefaultPreviewColumns...)
	}

	// Output
	if c.Output.Type == "" {
		switch {
		case c.Output.Database != nil:
			c.Output.Type = OutputDatabase
		case detectFormat(c.Output.Destination) == FormatXLSX:
			c.Output.Type = OutputXLSX
		default:
			c.Output.Type = OutputCSV
		}
	}
	c.Output.Type = strings.ToLower(c.Output.Type)
	if c.Output.Type != OutputDatabase && c.Output.Destination == "" {
		c.Output.Destination = DefaultDestination
	}
	if c.Output.Type == OutputCSV && c.Output.Compression && !processors.IsCompressedPath(c.Output.Destination) {
		c.Output.Destination += processors.CompressedExt
	}
	if c.Output.Database != nil {
		c.Output.Database.Type = adapters.ResolveType(c.Output.Database.Type)
		if c.Output.Database.Strategy == "" {
			c.Output.Database.Strategy = "replace"
		}
	}
	if c.Output.Upload != nil && c.Output.Upload.Retry != nil {
		c.Output.Upload.Retry.SetDefaults()
	}

	// Audit
	if c.Audit.Level == "" {
		c.Audit.Level = "standard"
	}
	if c.Audit.Format == "" {
		c.Audit.Format = "json"
	}
	if c.Audit.Enabled && c.Audit.Output == "" {
		c.Audit.Output = DefaultAuditOutput
	}

	// Result log
	if c.ResultLog.Type == "redis" {
		if c.ResultLog.TTL == 0 {
			c.ResultLog.TTL = DefaultResultLogTTL
		}
		if c.ResultLog.Name == "" {
			c.ResultLog.Name = c.Name
		}
		if c.ResultLog.Retry != nil {
			c.ResultLog.Retry.SetDefaults()
		}
	}
}

// detectFormat определяет формат файла по расширению (с учетом .zst)
func detectFormat(path string) string {
	p := strings.TrimSuffix(strings.ToLower(path), processors.CompressedExt)
	if filepath.Ext(p) == ".xlsx" {
		return FormatXLSX
	}
	return FormatCSV
}

func isTSV(path string) bool {
	p := strings.TrimSuffix(strings.ToLower(path), processors.CompressedExt)
	return filepath.Ext(p) == ".tsv"
}

// Validate проверяет корректность конфигурации
func (c *PipelineConfig) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("pipeline name is required")
	}

	if err := c.Source.Validate(); err != nil {
		return fmt.Errorf("source: %w", err)
	}

	for i, pc := range c.Processors {
		if pc.Type == "" {
			return fmt.Errorf("processors[%d]: type is required", i)
		}
	}

	if err := c.Preview.Validate(); err != nil {
		return fmt.Errorf("preview: %w", err)
	}

	if err := c.Output.Validate(); err != nil {
		return fmt.Errorf("output: %w", err)
	}

	if err := c.Audit.Validate(); err != nil {
		return fmt.Errorf("audit: %w", err)
	}

	if err := c.ResultLog.Validate(); err != nil {
		return fmt.Errorf("result_log: %w", err)
	}

	return nil
}

// Validate проверяет корректность SourceConfig
func (s *SourceConfig) Validate() error {
	if s.Path == "" {
		return fmt.Errorf("path is required")
	}
	switch s.Format {
	case FormatCSV:
	case FormatXLSX:
		if processors.IsCompressedPath(s.Path) {
			return fmt.Errorf("compressed xlsx is not supported")
		}
	default:
		return fmt.Errorf("unsupported format '%s', must be one of: csv, xlsx", s.Format)
	}
	if _, err := parseDelimiter(s.Delimiter); err != nil {
		return err
	}
	return nil
}

// Validate проверяет корректность PreviewConfig
func (p *PreviewConfig) Validate() error {
	if p.Rows != nil && *p.Rows < 0 {
		return fmt.Errorf("rows must not be negative")
	}
	return nil
}

// Validate проверяет корректность OutputConfig
func (o *OutputConfig) Validate() error {
	switch o.Type {
	case OutputCSV:
		if o.Destination == "" {
			return fmt.Errorf("destination is required")
		}
		if _, err := parseDelimiter(o.Delimiter); err != nil {
			return err
		}
		if o.CompressionLevel < 0 || o.CompressionLevel > 22 {
			return fmt.Errorf("compression_level must be between 1 and 22")
		}

	case OutputXLSX:
		if o.Destination == "" {
			return fmt.Errorf("destination is required")
		}
		if o.Compression {
			return fmt.Errorf("compression is only supported for csv output")
		}

	case OutputDatabase:
		if o.Database == nil {
			return fmt.Errorf("database configuration is required when type is 'database'")
		}
		if err := o.Database.Validate(); err != nil {
			return fmt.Errorf("database: %w", err)
		}
		if o.Upload != nil {
			return fmt.Errorf("upload is only supported for file outputs")
		}
		if o.Checksum {
			return fmt.Errorf("checksum is only supported for file outputs")
		}

	default:
		return fmt.Errorf("unsupported output type '%s', must be one of: csv, xlsx, database", o.Type)
	}

	if o.Upload != nil {
		if o.Upload.Bucket == "" {
			return fmt.Errorf("upload.bucket is required")
		}
		if o.Upload.Retry != nil {
			if err := o.Upload.Retry.Validate(); err != nil {
				return fmt.Errorf("upload.retry: %w", err)
			}
		}
	}

	return nil
}

// Validate проверяет корректность DatabaseOutputConfig
func (d *DatabaseOutputConfig) Validate() error {
	if !adapters.IsRegistered(d.Type) {
		return fmt.Errorf("unsupported type '%s', must be one of: %s",
			d.Type, strings.Join(adapters.GetRegisteredTypes(), ", "))
	}
	if d.DSN == "" {
		return fmt.Errorf("dsn is required")
	}
	if d.Table == "" {
		return fmt.Errorf("table is required")
	}
	if d.Strategy != "replace" && d.Strategy != "fail" {
		return fmt.Errorf("strategy must be 'replace' or 'fail'")
	}
	if d.Timeout < 0 {
		return fmt.Errorf("timeout must be positive")
	}
	return nil
}

// Validate проверяет корректность AuditConfig
func (a *AuditConfig) Validate() error {
	if !a.Enabled {
		return nil
	}
	if a.Level != "minimal" && a.Level != "standard" {
		return fmt.Errorf("level must be 'minimal' or 'standard'")
	}
	if a.Format != "json" && a.Format != "text" {
		return fmt.Errorf("format must be 'json' or 'text'")
	}
	return nil
}

// Validate проверяет корректность ResultLogConfig
func (r *ResultLogConfig) Validate() error {
	if r.Type == "" || r.Type == "none" {
		return nil
	}
	if r.Type != "redis" {
		return fmt.Errorf("unsupported type '%s', must be 'redis'", r.Type)
	}
	if r.Address == "" {
		return fmt.Errorf("address is required when type is 'redis'")
	}
	if r.Retry != nil {
		if err := r.Retry.Validate(); err != nil {
			return fmt.Errorf("retry: %w", err)
		}
	}
	return nil
}

// parseDelimiter разбирает разделитель: один символ или "\t"
func parseDelimiter(s string) (rune, error) {
	switch s {
	case "":
		return ',', nil
	case `\t`, "\t", "tab":
		return '\t', nil
	}
	r := []rune(s)
	if len(r) != 1 {
		return 0, fmt.Errorf("delimiter must be a single character, got '%s'", s)
	}
	if r[0] == '"' || r[0] == '\r' || r[0] == '\n' {
		return 0, fmt.Errorf("invalid delimiter '%s'", s)
	}
	return r[0], nil
}
