package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rxtech-lab/argo-pipeline/internal/enricher"
	"github.com/rxtech-lab/argo-pipeline/internal/ingest"
	"github.com/rxtech-lab/argo-pipeline/internal/resample"
	pipelinevalidator "github.com/rxtech-lab/argo-pipeline/internal/validator"
	"github.com/rxtech-lab/argo-pipeline/pkg/errors"
	"github.com/rxtech-lab/argo-pipeline/pkg/store"
	"github.com/stretchr/testify/suite"
)

type ConfigTestSuite struct {
	suite.Suite
	dir string
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

func (suite *ConfigTestSuite) SetupTest() {
	suite.dir = suite.T().TempDir()
}

func (suite *ConfigTestSuite) writeFile(name, content string) string {
	path := filepath.Join(suite.dir, name)
	suite.Require().NoError(os.WriteFile(path, []byte(content), 0o600))

	return path
}

// noEnvFile points Load at a .env file that does not exist.
func (suite *ConfigTestSuite) noEnvFile() string {
	return filepath.Join(suite.dir, "missing.env")
}

func (suite *ConfigTestSuite) TestDefaultNeedsInputPath() {
	_, err := Load(LoadOptions{EnvFile: suite.noEnvFile()})
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
}

func (suite *ConfigTestSuite) TestLoadYAML() {
	path := suite.writeFile("pipeline.yaml", `
input:
  path: data/test.csv
resample:
  frequency: 1h
  rules:
    rsi_14: mean
output:
  writer: duckdb
  path: out/pipeline.duckdb
  table: prices
  export_parquet: true
validator:
  missing_value_strategy: median
  all_null_policy: zero
  outlier_contamination: 0.05
  min_rows_for_outlier_detection: 30
  trees: 50
  sample_size: 128
  seed: 7
enricher:
  min_rows: 15
  partial_failure: skip_failed
  catalog_version: 1.0.0
log:
  level: debug
  development: true
`)

	cfg, err := Load(LoadOptions{ConfigFile: path, EnvFile: suite.noEnvFile()})
	suite.Require().NoError(err)

	suite.Equal("data/test.csv", cfg.Input.Path)
	suite.Equal("1h", cfg.Resample.Frequency)
	suite.Equal(store.WriterDuckDB, cfg.Output.Writer)
	suite.True(cfg.Output.ExportParquet)
	suite.Equal(pipelinevalidator.MissingValueMedian, cfg.Validator.MissingValueStrategy)
	suite.Equal(pipelinevalidator.AllNullZero, cfg.Validator.AllNullPolicy)
	suite.Equal(0.05, cfg.Validator.OutlierContamination)
	suite.Equal(int64(7), cfg.Validator.Seed)
	suite.Equal(enricher.PartialFailureSkipFailed, cfg.Enricher.PartialFailure)
	suite.Equal("1.0.0", cfg.Enricher.CatalogVersion)
	suite.Equal("debug", cfg.Log.Level)

	width, err := cfg.BucketWidth()
	suite.Require().NoError(err)
	suite.Equal(time.Hour, width.Duration)

	format, err := cfg.InputFormat()
	suite.Require().NoError(err)
	suite.Equal(ingest.FormatCSV, format)
}

func (suite *ConfigTestSuite) TestPartialYAMLKeepsDefaults() {
	path := suite.writeFile("partial.yaml", "input:\n  path: prices.json\n")

	cfg, err := Load(LoadOptions{ConfigFile: path, EnvFile: suite.noEnvFile()})
	suite.Require().NoError(err)

	suite.Equal("D", cfg.Resample.Frequency)
	suite.Equal(store.WriterSQLite, cfg.Output.Writer)
	suite.Equal("OHLC_data.db", cfg.Output.Path)
	suite.Equal(store.DefaultTable, cfg.Output.Table)
	suite.Equal(pipelinevalidator.DefaultConfig(), cfg.Validator)
	suite.Equal(enricher.DefaultConfig(), cfg.Enricher)

	format, err := cfg.InputFormat()
	suite.Require().NoError(err)
	suite.Equal(ingest.FormatJSON, format)
}

func (suite *ConfigTestSuite) TestEnvironmentOverridesFile() {
	path := suite.writeFile("pipeline.yaml", "input:\n  path: a.csv\noutput:\n  table: from_file\n")

	suite.T().Setenv("PIPELINE_OUTPUT_TABLE", "from_env")
	suite.T().Setenv("PIPELINE_VALIDATOR_MISSING_VALUE_STRATEGY", "drop")
	suite.T().Setenv("PIPELINE_ENRICHER_MIN_ROWS", "25")

	cfg, err := Load(LoadOptions{ConfigFile: path, EnvFile: suite.noEnvFile()})
	suite.Require().NoError(err)

	suite.Equal("from_env", cfg.Output.Table)
	suite.Equal(pipelinevalidator.MissingValueDrop, cfg.Validator.MissingValueStrategy)
	suite.Equal(25, cfg.Enricher.MinRows)
}

func (suite *ConfigTestSuite) TestUnprefixedEnvironmentIsIgnored() {
	path := suite.writeFile("pipeline.yaml", `
input:
  path: data/test.csv
output:
  path: out.db
  table: prices
validator:
  seed: 7
  trees: 50
log:
  level: warn
`)

	suite.T().Setenv("PATH", "/usr/bin:/bin")
	suite.T().Setenv("TABLE", "other")
	suite.T().Setenv("LEVEL", "debug")
	suite.T().Setenv("SEED", "99")
	suite.T().Setenv("TREES", "3")

	cfg, err := Load(LoadOptions{ConfigFile: path, EnvFile: suite.noEnvFile()})
	suite.Require().NoError(err)

	suite.Equal("data/test.csv", cfg.Input.Path)
	suite.Equal("out.db", cfg.Output.Path)
	suite.Equal("prices", cfg.Output.Table)
	suite.Equal("warn", cfg.Log.Level)
	suite.Equal(int64(7), cfg.Validator.Seed)
	suite.Equal(50, cfg.Validator.Trees)
}

func (suite *ConfigTestSuite) TestMultiWordEnvironmentKeys() {
	path := suite.writeFile("pipeline.yaml", "input:\n  path: a.csv\n")

	suite.T().Setenv("PIPELINE_OUTPUT_WRITER", "duckdb")
	suite.T().Setenv("PIPELINE_OUTPUT_EXPORT_PARQUET", "true")
	suite.T().Setenv("PIPELINE_VALIDATOR_MIN_ROWS_FOR_OUTLIER_DETECTION", "50")
	suite.T().Setenv("PIPELINE_ENRICHER_PARTIAL_FAILURE", "skip_failed")

	cfg, err := Load(LoadOptions{ConfigFile: path, EnvFile: suite.noEnvFile()})
	suite.Require().NoError(err)

	suite.Equal(store.WriterDuckDB, cfg.Output.Writer)
	suite.True(cfg.Output.ExportParquet)
	suite.Equal(50, cfg.Validator.MinRowsForOutlierDetection)
	suite.Equal(enricher.PartialFailureSkipFailed, cfg.Enricher.PartialFailure)
}

func (suite *ConfigTestSuite) TestDotEnvFile() {
	envFile := suite.writeFile("test.env", "PIPELINE_INPUT_PATH=from_dotenv.csv\nPIPELINE_RESAMPLE_FREQUENCY=4h\n")
	suite.T().Cleanup(func() {
		os.Unsetenv("PIPELINE_INPUT_PATH")
		os.Unsetenv("PIPELINE_RESAMPLE_FREQUENCY")
	})

	cfg, err := Load(LoadOptions{EnvFile: envFile})
	suite.Require().NoError(err)

	suite.Equal("from_dotenv.csv", cfg.Input.Path)
	suite.Equal("4h", cfg.Resample.Frequency)
}

func (suite *ConfigTestSuite) TestOverridesWin() {
	suite.T().Setenv("PIPELINE_INPUT_PATH", "env.csv")

	cfg, err := Load(LoadOptions{
		EnvFile: suite.noEnvFile(),
		Overrides: func(c *Config) {
			c.Input.Path = "flag.csv"
			c.Resample.Frequency = "1w"
		},
	})
	suite.Require().NoError(err)

	suite.Equal("flag.csv", cfg.Input.Path)
	suite.Equal("1w", cfg.Resample.Frequency)
}

func (suite *ConfigTestSuite) TestInvalidValues() {
	testCases := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "unknown frequency", mutate: func(c *Config) { c.Resample.Frequency = "fortnight" }},
		{name: "unknown writer", mutate: func(c *Config) { c.Output.Writer = "postgres" }},
		{name: "parquet with sqlite", mutate: func(c *Config) { c.Output.ExportParquet = true }},
		{name: "bad strategy", mutate: func(c *Config) { c.Validator.MissingValueStrategy = "mode" }},
		{name: "contamination too high", mutate: func(c *Config) { c.Validator.OutlierContamination = 0.9 }},
		{name: "bad log level", mutate: func(c *Config) { c.Log.Level = "verbose" }},
		{name: "bad format", mutate: func(c *Config) { c.Input.Format = "xml" }},
		{name: "rule on Close", mutate: func(c *Config) { c.Resample.Rules = resample.Rules{"Close": resample.AggregationFirst} }},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			_, err := Load(LoadOptions{
				EnvFile: suite.noEnvFile(),
				Overrides: func(c *Config) {
					c.Input.Path = "prices.csv"
					tc.mutate(c)
				},
			})
			suite.Error(err)
			suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
		})
	}
}

func (suite *ConfigTestSuite) TestMissingConfigFile() {
	_, err := Load(LoadOptions{ConfigFile: filepath.Join(suite.dir, "nope.yaml"), EnvFile: suite.noEnvFile()})
	suite.Error(err)
}

func (suite *ConfigTestSuite) TestWriterConfig() {
	cfg := Default()
	cfg.Output.Path = "x.db"

	called := false
	wc := cfg.WriterConfig(func(int, int) { called = true })
	suite.Equal(store.WriterSQLite, wc.Type)
	suite.Equal("x.db", wc.Path)
	suite.Equal(store.DefaultTable, wc.Table)

	wc.OnProgress(1, 1)
	suite.True(called)
}

func (suite *ConfigTestSuite) TestSchema() {
	schema, err := Schema()
	suite.Require().NoError(err)

	suite.Contains(schema, `"missingValueStrategy"`)
	suite.Contains(schema, `"partialFailure"`)
	suite.Contains(schema, `"frequency"`)
	suite.Contains(schema, `"skip_failed"`)
	suite.Contains(schema, `"pipeline-config"`)
}
