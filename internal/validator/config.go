package validator

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// MissingValueStrategy selects how null numeric cells are repaired.
type MissingValueStrategy string

const (
	MissingValueMean   MissingValueStrategy = "mean"
	MissingValueMedian MissingValueStrategy = "median"
	MissingValueDrop   MissingValueStrategy = "drop"
)

// AllNullPolicy decides what happens to a numeric column without a single value,
// for which neither a mean nor a median exists.
type AllNullPolicy string

const (
	AllNullKeep AllNullPolicy = "keep"
	AllNullZero AllNullPolicy = "zero"
	AllNullFail AllNullPolicy = "fail"
)

const (
	DefaultOutlierContamination       = 0.1
	DefaultMinRowsForOutlierDetection = 20
	DefaultTrees                      = 100
	DefaultSampleSize                 = 256
	DefaultSeed                       = 42
)

// Config holds the cleaning parameters.
type Config struct {
	MissingValueStrategy       MissingValueStrategy `yaml:"missing_value_strategy" json:"missingValueStrategy" split_words:"true" jsonschema:"enum=mean,enum=median,enum=drop" validate:"required,oneof=mean median drop"`
	AllNullPolicy              AllNullPolicy        `yaml:"all_null_policy" json:"allNullPolicy" split_words:"true" jsonschema:"enum=keep,enum=zero,enum=fail" validate:"required,oneof=keep zero fail"`
	OutlierContamination       float64              `yaml:"outlier_contamination" json:"outlierContamination" split_words:"true" validate:"gt=0,lte=0.5"`
	MinRowsForOutlierDetection int                  `yaml:"min_rows_for_outlier_detection" json:"minRowsForOutlierDetection" split_words:"true" validate:"min=1"`
	Trees                      int                  `yaml:"trees" json:"trees" split_words:"true" validate:"min=1"`
	SampleSize                 int                  `yaml:"sample_size" json:"sampleSize" split_words:"true" validate:"min=2"`
	Seed                       int64                `yaml:"seed" json:"seed" split_words:"true"`
}

// DefaultConfig returns the configuration matching the reference pipeline:
// mean imputation and a 10% contamination isolation forest.
func DefaultConfig() Config {
	return Config{
		MissingValueStrategy:       MissingValueMean,
		AllNullPolicy:              AllNullKeep,
		OutlierContamination:       DefaultOutlierContamination,
		MinRowsForOutlierDetection: DefaultMinRowsForOutlierDetection,
		Trees:                      DefaultTrees,
		SampleSize:                 DefaultSampleSize,
		Seed:                       DefaultSeed,
	}
}

// Validate validates the Config fields.
func (c Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid validator config: %w", err)
	}

	return nil
}
