package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/ruslano69/esgclean/pkg/audit"
	"github.com/ruslano69/esgclean/pkg/etl"
	"github.com/ruslano69/esgclean/pkg/resultlog"
)

const sampleConfigFile = "pipeline.yaml"

func main() {
	flags := ParseFlags()

	if *flags.Version {
		PrintVersion()
		os.Exit(0)
	}

	if *flags.Help {
		PrintHelp()
		os.Exit(0)
	}

	if *flags.CreateConfig {
		createConfigTemplate(sampleConfigFile)
		return
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	config, err := loadConfig(*flags.Config, *flags.Input, *flags.Output)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, config, logger); err != nil {
		var stageErr *etl.StageError
		if errors.As(err, &stageErr) {
			logger.Error().Err(stageErr.Err).Str("stage", stageErr.Stage).Msg("pipeline failed")
		} else {
			logger.Error().Err(err).Msg("pipeline failed")
		}
		stop()
		os.Exit(1)
	}
}

// run выполняет пайплайн и публикует результат
func run(ctx context.Context, config *etl.PipelineConfig, logger zerolog.Logger) error {
	auditLogger, err := buildAuditLogger(config)
	if err != nil {
		return fmt.Errorf("failed to init audit: %w", err)
	}
	defer auditLogger.Close()

	processor := etl.NewProcessor(config).
		WithLogger(logger).
		WithAudit(auditLogger)

	execErr := processor.Execute(ctx)

	if config.ResultLog.Type == "redis" {
		publishResult(config, processor.GetStats(), execErr, logger)
	}

	return execErr
}

// loadConfig загружает конфигурацию (или встроенную) и применяет флаги
func loadConfig(path, input, output string) (*etl.PipelineConfig, error) {
	var config *etl.PipelineConfig
	if path == "" {
		config = etl.DefaultConfig()
	} else {
		loaded, err := etl.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		config = loaded
	}

	if input != "" {
		config.Source.Path = input
		config.Source.Format = ""
		config.Source.Delimiter = ""
	}
	if output != "" {
		config.Output.Destination = output
		if config.Output.Database == nil {
			config.Output.Type = ""
		}
	}

	config.SetDefaults()
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return config, nil
}

// buildAuditLogger собирает audit logger из секции audit
func buildAuditLogger(config *etl.PipelineConfig) (audit.Logger, error) {
	if !config.Audit.Enabled {
		return audit.NewNullLogger(), nil
	}

	level, err := audit.ParseLevel(config.Audit.Level)
	if err != nil {
		return nil, err
	}

	fileAppender, err := audit.NewFileAppender(audit.FileAppenderConfig{
		FilePath:   config.Audit.Output,
		MaxSize:    int64(config.Audit.MaxSizeMB),
		MaxBackups: config.Audit.MaxBackups,
		Level:      level,
		FormatJSON: config.Audit.Format == "json",
	})
	if err != nil {
		return nil, err
	}

	appenders := []audit.Appender{fileAppender}
	if config.Audit.Console {
		appenders = append(appenders, audit.NewConsoleAppender(os.Stderr, level))
	}

	return audit.NewLogger(audit.LoggerConfig{
		Pipeline: config.Name,
		OnError: func(err error) {
			fmt.Fprintf(os.Stderr, "audit: %v\n", err)
		},
	}, appenders...), nil
}

// publishResult пишет результат в Redis; сбой публикации не меняет код выхода
func publishResult(config *etl.PipelineConfig, stats etl.ProcessorStats, execErr error, logger zerolog.Logger) {
	publisher := resultlog.NewRedisPublisher(config.ResultLog)
	defer publisher.Close()

	// после SIGINT исходный контекст уже отменен
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := publisher.Publish(ctx, config.Name, stats, execErr); err != nil {
		logger.Warn().Err(err).Str("address", config.ResultLog.Address).Msg("result publish failed")
		return
	}
	logger.Debug().Str("key", resultlog.StateKey(config.ResultLog.Name)).Msg("result published")
}

// createConfigTemplate создает пример конфигурации
func createConfigTemplate(path string) {
	if err := etl.SaveConfig(etl.DefaultConfig(), path); err != nil {
		fatal("Failed to save config: %v", err)
	}

	fmt.Printf("✓ Created sample config: %s\n", path)
	fmt.Println("Edit source/output paths and run:")
	fmt.Printf("  esgclean --config %s\n", path)
}

// fatal prints error and exits
func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
