package config

import (
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rxtech-lab/argo-pipeline/pkg/errors"
	"gopkg.in/yaml.v3"
)

// LoadOptions controls where Load looks for configuration.
type LoadOptions struct {
	// ConfigFile is an optional YAML file. When set it must exist.
	ConfigFile string
	// EnvFile is loaded into the environment if present. Defaults to ".env".
	EnvFile string
	// Overrides is applied after the environment, typically from CLI flags.
	Overrides func(*Config)
}

// Load builds the configuration: defaults, then the YAML file, then the .env
// file and PIPELINE_* environment variables, then overrides. The result is validated.
func Load(opts LoadOptions) (Config, error) {
	cfg := Default()

	if opts.ConfigFile != "" {
		data, err := os.ReadFile(opts.ConfigFile)
		if err != nil {
			return Config{}, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to read config file %s", opts.ConfigFile)
		}

		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to parse config file %s", opts.ConfigFile)
		}
	}

	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}

	// existing environment variables win over the .env file
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to load %s", envFile)
	}

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to load config from env", err)
	}

	if opts.Overrides != nil {
		opts.Overrides(&cfg)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}
