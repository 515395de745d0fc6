// Package config loads the pipeline configuration from YAML, .env files,
// environment variables and command line overrides.
package config

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"github.com/rxtech-lab/argo-pipeline/internal/enricher"
	"github.com/rxtech-lab/argo-pipeline/internal/ingest"
	"github.com/rxtech-lab/argo-pipeline/internal/resample"
	pipelinevalidator "github.com/rxtech-lab/argo-pipeline/internal/validator"
	"github.com/rxtech-lab/argo-pipeline/pkg/errors"
	"github.com/rxtech-lab/argo-pipeline/pkg/store"
)

// EnvPrefix prefixes every environment variable, e.g. PIPELINE_INPUT_PATH.
const EnvPrefix = "PIPELINE"

// Config is the complete pipeline configuration.
type Config struct {
	Input     InputConfig              `yaml:"input" json:"input" split_words:"true"`
	Resample  ResampleConfig           `yaml:"resample" json:"resample" split_words:"true"`
	Output    OutputConfig             `yaml:"output" json:"output" split_words:"true"`
	Validator pipelinevalidator.Config `yaml:"validator" json:"validator" split_words:"true"`
	Enricher  enricher.Config          `yaml:"enricher" json:"enricher" split_words:"true"`
	Log       LogConfig                `yaml:"log" json:"log" split_words:"true"`
}

// InputConfig selects the file to ingest.
type InputConfig struct {
	Path string `yaml:"path" json:"path" split_words:"true" jsonschema:"description=Path of the raw OHLCV file" validate:"required"`
	// Format is inferred from the file extension when empty.
	Format ingest.Format `yaml:"format" json:"format,omitempty" split_words:"true" jsonschema:"enum=csv,enum=json" validate:"omitempty,oneof=csv json"`
}

// ResampleConfig sets the output grid.
type ResampleConfig struct {
	Frequency string `yaml:"frequency" json:"frequency" split_words:"true" jsonschema:"description=Bucket width such as D or 1h or 1 day" validate:"required"`
	// Rules overrides the aggregation of indicator columns.
	Rules resample.Rules `yaml:"rules" json:"rules,omitempty" split_words:"true"`
}

// OutputConfig selects where the result is persisted.
type OutputConfig struct {
	Writer        store.WriterType `yaml:"writer" json:"writer" split_words:"true" jsonschema:"enum=duckdb,enum=sqlite" validate:"required,oneof=duckdb sqlite"`
	Path          string           `yaml:"path" json:"path" split_words:"true" validate:"required"`
	Table         string           `yaml:"table" json:"table" split_words:"true" validate:"required"`
	ExportParquet bool             `yaml:"export_parquet" json:"exportParquet" split_words:"true"`
	ParquetPath   string           `yaml:"parquet_path" json:"parquetPath,omitempty" split_words:"true"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level       string `yaml:"level" json:"level" split_words:"true" jsonschema:"enum=debug,enum=info,enum=warn,enum=error" validate:"required,oneof=debug info warn error"`
	Development bool   `yaml:"development" json:"development" split_words:"true"`
}

// Default returns the configuration of a plain run: daily buckets written to
// the OHLC table of OHLC_data.db.
func Default() Config {
	return Config{
		Input: InputConfig{
			Path:   "",
			Format: "",
		},
		Resample: ResampleConfig{
			Frequency: "D",
			Rules:     nil,
		},
		Output: OutputConfig{
			Writer:        store.WriterSQLite,
			Path:          "OHLC_data.db",
			Table:         store.DefaultTable,
			ExportParquet: false,
			ParquetPath:   "",
		},
		Validator: pipelinevalidator.DefaultConfig(),
		Enricher:  enricher.DefaultConfig(),
		Log: LogConfig{
			Level:       "info",
			Development: false,
		},
	}
}

// Validate validates the Config fields and the values that need parsing.
func (c Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid configuration", err)
	}

	if _, err := resample.ParseBucketWidth(c.Resample.Frequency); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid resample frequency", err)
	}

	if err := c.Resample.Rules.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid resample rules", err)
	}

	if c.Output.ExportParquet && c.Output.Writer != store.WriterDuckDB {
		return errors.New(errors.ErrCodeInvalidConfiguration, "export_parquet requires the duckdb writer")
	}

	return nil
}

// InputFormat returns the configured format or the one implied by the input path.
func (c Config) InputFormat() (ingest.Format, error) {
	if c.Input.Format != "" {
		return ingest.ParseFormat(string(c.Input.Format))
	}

	return ingest.FormatFromPath(c.Input.Path)
}

// BucketWidth returns the parsed resample frequency.
func (c Config) BucketWidth() (resample.BucketWidth, error) {
	return resample.ParseBucketWidth(c.Resample.Frequency)
}

// WriterConfig converts the output section for store.NewWriter.
func (c Config) WriterConfig(onProgress store.OnProgress) store.WriterConfig {
	return store.WriterConfig{
		Type:          c.Output.Writer,
		Path:          c.Output.Path,
		Table:         c.Output.Table,
		ExportParquet: c.Output.ExportParquet,
		ParquetPath:   c.Output.ParquetPath,
		OnProgress:    onProgress,
	}
}

// Schema returns the JSON schema of Config.
func Schema() (string, error) {
	r := new(jsonschema.Reflector)
	r.DoNotReference = true
	schema := r.Reflect(Config{})
	schema.Title = "pipeline-config"
	schema.Description = "Configuration schema for the OHLCV pipeline"

	jsonSchemaBytes, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal schema: %w", err)
	}

	return string(jsonSchemaBytes), nil
}
