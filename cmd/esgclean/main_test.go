package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"
	"github.com/ruslano69/esgclean/pkg/audit"
	"github.com/ruslano69/esgclean/pkg/etl"
	"github.com/ruslano69/esgclean/pkg/resultlog"
)

const esgCSV = `ticker,name,currency,exchange,industry,logo,weburl,environment_grade,social_grade,governance_grade,environment_score,social_score,governance_score,total_score,last_processing_date
dis,Walt Disney Co,USD,NYSE,Media,https://static.finnhub.io/logo/dis.png,https://thewaltdisneycompany.com/,A,BB,BB,510,316,321,1147,19-04-2022
gm,General Motors Co,USD,NYSE,Automobiles,N/A,n/a,A,BB,BB,510,303,255,1068,05-03-2021
gww,WW Grainger Inc,USD,NYSE,NA,https://static.finnhub.io/logo/gww.png,,B,BB,B,255,385,240,880,24-04-2022
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseFlags(t *testing.T) {
	fs := flag.NewFlagSet("esgclean", flag.ContinueOnError)
	f := parseFlags(fs, []string{"-config", "p.yaml", "-input", "in.csv", "-output", "out.csv"})

	if *f.Config != "p.yaml" || *f.Input != "in.csv" || *f.Output != "out.csv" {
		t.Errorf("flags = %s %s %s", *f.Config, *f.Input, *f.Output)
	}
	if *f.CreateConfig || *f.Version || *f.Help {
		t.Error("bool flags should default to false")
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name       string
		path       string
		input      string
		output     string
		wantSource string
		wantDelim  string
		wantType   string
		wantDest   string
		wantErr    string
	}{
		{
			name:       "built-in defaults",
			wantSource: etl.DefaultSourcePath,
			wantType:   etl.OutputCSV,
			wantDest:   etl.DefaultDestination,
		},
		{
			name:       "tsv input and xlsx output",
			input:      "esg.tsv",
			output:     "cleaned.xlsx",
			wantSource: "esg.tsv",
			wantDelim:  `\t`,
			wantType:   etl.OutputXLSX,
			wantDest:   "cleaned.xlsx",
		},
		{
			name: "config file with compression",
			path: writeFile(t, dir, "pipeline.yaml", `
name: esg_daily
source:
  path: esg.csv
output:
  destination: cleaned.csv
  compression: true
`),
			output:     "daily.csv",
			wantSource: "esg.csv",
			wantType:   etl.OutputCSV,
			wantDest:   "daily.csv.zst",
		},
		{
			name: "tsv config overridden by csv input",
			path: writeFile(t, dir, "tsv.yaml", `
source:
  path: esg.tsv
`),
			input:      "esg.csv",
			wantSource: "esg.csv",
			wantType:   etl.OutputCSV,
			wantDest:   etl.DefaultDestination,
		},
		{
			name:    "missing config file",
			path:    filepath.Join(dir, "missing.yaml"),
			wantErr: "failed to read config file",
		},
		{
			name: "invalid config",
			path: writeFile(t, dir, "bad.yaml", `
output:
  type: parquet
`),
			wantErr: "unsupported output type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := loadConfig(tt.path, tt.input, tt.output)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("error = %v, want containing %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("loadConfig() error = %v", err)
			}
			if cfg.Source.Path != tt.wantSource {
				t.Errorf("Source.Path = %s, want %s", cfg.Source.Path, tt.wantSource)
			}
			if cfg.Source.Delimiter != tt.wantDelim {
				t.Errorf("Source.Delimiter = %q, want %q", cfg.Source.Delimiter, tt.wantDelim)
			}
			if cfg.Output.Type != tt.wantType {
				t.Errorf("Output.Type = %s, want %s", cfg.Output.Type, tt.wantType)
			}
			if cfg.Output.Destination != tt.wantDest {
				t.Errorf("Output.Destination = %s, want %s", cfg.Output.Destination, tt.wantDest)
			}
		})
	}
}

func TestBuildAuditLogger(t *testing.T) {
	cfg := etl.DefaultConfig()
	logger, err := buildAuditLogger(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := logger.(*audit.NullLogger); !ok {
		t.Errorf("disabled audit should give NullLogger, got %T", logger)
	}

	cfg.Audit.Enabled = true
	cfg.Audit.Output = filepath.Join(t.TempDir(), "logs", "audit.log")
	logger, err = buildAuditLogger(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := logger.(*audit.AuditLogger); !ok {
		t.Errorf("enabled audit should give AuditLogger, got %T", logger)
	}
	logger.Close()

	cfg.Audit.Level = "verbose"
	if _, err := buildAuditLogger(cfg); err == nil {
		t.Error("expected error for unknown audit level")
	}
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	mr := miniredis.RunT(t)

	cfg := etl.DefaultConfig()
	cfg.Source.Path = writeFile(t, dir, "data.csv", esgCSV)
	cfg.Output.Destination = filepath.Join(dir, "cleaned_esg.csv")
	cfg.Audit = etl.AuditConfig{Enabled: true, Output: filepath.Join(dir, "audit.log")}
	cfg.ResultLog = etl.ResultLogConfig{Type: "redis", Address: mr.Addr()}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}

	if err := run(context.Background(), cfg, zerolog.Nop()); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	data, err := os.ReadFile(cfg.Output.Destination)
	if err != nil {
		t.Fatal(err)
	}
	header := strings.SplitN(string(data), "\n", 2)[0]
	if strings.Contains(header, "industry") || strings.Contains(header, "exchange") {
		t.Errorf("dropped columns in header: %s", header)
	}

	auditData, err := os.ReadFile(cfg.Audit.Output)
	if err != nil {
		t.Fatal(err)
	}
	if lines := strings.Count(string(auditData), "\n"); lines == 0 {
		t.Error("audit log is empty")
	}

	raw, err := mr.Get(resultlog.StateKey(etl.DefaultPipelineName))
	if err != nil {
		t.Fatalf("result not published: %v", err)
	}
	var result resultlog.PipelineResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		t.Fatal(err)
	}
	if result.Status != "success" || result.RowsExported != 3 {
		t.Errorf("result = %+v", result)
	}
}

func TestRun_Failure(t *testing.T) {
	dir := t.TempDir()
	mr := miniredis.RunT(t)

	cfg := etl.DefaultConfig()
	cfg.Source.Path = writeFile(t, dir, "data.csv", strings.Replace(esgCSV, "19-04-2022", "2022-04-19", 1))
	cfg.Output.Destination = filepath.Join(dir, "cleaned_esg.csv")
	cfg.ResultLog = etl.ResultLogConfig{Type: "redis", Address: mr.Addr()}
	cfg.SetDefaults()

	err := run(context.Background(), cfg, zerolog.Nop())
	var stageErr *etl.StageError
	if !errors.As(err, &stageErr) || stageErr.Stage != etl.StageTransform {
		t.Fatalf("error = %v, want transform stage error", err)
	}

	if _, err := os.Stat(cfg.Output.Destination); !os.IsNotExist(err) {
		t.Error("output must not exist after failed run")
	}

	raw, err := mr.Get(resultlog.StateKey(etl.DefaultPipelineName))
	if err != nil {
		t.Fatalf("result not published: %v", err)
	}
	var result resultlog.PipelineResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		t.Fatal(err)
	}
	if result.Status != "failed" || result.FailedStage != etl.StageTransform {
		t.Errorf("result = %+v", result)
	}
}

func TestCreateConfigTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pipeline.yaml")
	createConfigTemplate(path)

	cfg, err := etl.LoadConfig(path)
	if err != nil {
		t.Fatalf("sample config does not load: %v", err)
	}
	if len(cfg.Processors) != 4 {
		t.Errorf("processors = %d, want 4", len(cfg.Processors))
	}
}
