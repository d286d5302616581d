package retry

import (
	"fmt"
	"time"
)

// BackoffStrategy определяет стратегию задержки между повторами
type BackoffStrategy string

const (
	// BackoffConstant - постоянная задержка
	BackoffConstant BackoffStrategy = "constant"
	// BackoffLinear - линейное увеличение задержки
	BackoffLinear BackoffStrategy = "linear"
	// BackoffExponential - экспоненциальное увеличение задержки
	BackoffExponential BackoffStrategy = "exponential"
)

// Config - политика повторов для внешних вызовов (S3, Redis).
// В YAML задержки пишутся строками: "500ms", "2s".
type Config struct {
	// MaxAttempts - количество попыток включая первую, 0 = 3
	MaxAttempts int `yaml:"max_attempts,omitempty"`

	InitialDelay time.Duration `yaml:"initial_delay,omitempty"`
	MaxDelay     time.Duration `yaml:"max_delay,omitempty"`

	Backoff BackoffStrategy `yaml:"backoff,omitempty"`

	// Multiplier - множитель для exponential, 0 = 2.0
	Multiplier float64 `yaml:"multiplier,omitempty"`

	// Jitter - доля случайного отклонения задержки (0.0 - 1.0)
	Jitter float64 `yaml:"jitter,omitempty"`

	// Retryable решает, повторять ли ошибку. nil = повторять все,
	// кроме отмены контекста.
	Retryable func(error) bool `yaml:"-"`

	// OnRetry вызывается перед каждой паузой
	OnRetry func(attempt int, err error, delay time.Duration) `yaml:"-"`
}

// SetDefaults заполняет незаданные поля
func (c *Config) SetDefaults() {
	if c.MaxAttempts == 0 {
		c.MaxAttempts = 3
	}
	if c.InitialDelay == 0 {
		c.InitialDelay = 500 * time.Millisecond
	}
	if c.MaxDelay == 0 {
		c.MaxDelay = 10 * time.Second
	}
	if c.Backoff == "" {
		c.Backoff = BackoffExponential
	}
	if c.Multiplier == 0 {
		c.Multiplier = 2.0
	}
}

// Validate проверяет корректность конфигурации
func (c *Config) Validate() error {
	if c.MaxAttempts < 1 {
		return fmt.Errorf("max_attempts must be >= 1, got %d", c.MaxAttempts)
	}

	if c.InitialDelay < 0 {
		return fmt.Errorf("initial_delay must be >= 0")
	}

	if c.MaxDelay < c.InitialDelay {
		return fmt.Errorf("max_delay (%v) must be >= initial_delay (%v)", c.MaxDelay, c.InitialDelay)
	}

	switch c.Backoff {
	case BackoffConstant, BackoffLinear, BackoffExponential:
	default:
		return fmt.Errorf("invalid backoff strategy: %s", c.Backoff)
	}

	if c.Multiplier <= 0 {
		return fmt.Errorf("multiplier must be > 0, got %f", c.Multiplier)
	}

	if c.Jitter < 0 || c.Jitter > 1.0 {
		return fmt.Errorf("jitter must be between 0.0 and 1.0, got %f", c.Jitter)
	}

	return nil
}

// DefaultConfig возвращает политику по умолчанию: 3 попытки, exponential от 500ms
func DefaultConfig() Config {
	var c Config
	c.SetDefaults()
	c.Jitter = 0.1
	return c
}
