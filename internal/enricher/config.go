package enricher

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// PartialFailure decides what happens to the indicators that did compute
// when another indicator fails.
type PartialFailure string

const (
	// PartialFailureAllOrNothing discards every indicator column on any failure.
	PartialFailureAllOrNothing PartialFailure = "all_or_nothing"
	// PartialFailureSkipFailed keeps the columns of the indicators that succeeded.
	PartialFailureSkipFailed PartialFailure = "skip_failed"
)

// DefaultMinRows is the smallest record-set the enricher attempts to annotate.
const DefaultMinRows = 10

// Config holds the enrichment parameters.
type Config struct {
	MinRows        int            `yaml:"min_rows" json:"minRows" split_words:"true" validate:"min=1"`
	PartialFailure PartialFailure `yaml:"partial_failure" json:"partialFailure" split_words:"true" jsonschema:"enum=all_or_nothing,enum=skip_failed" validate:"required,oneof=all_or_nothing skip_failed"`
	// CatalogVersion pins the indicator catalog. Empty accepts any catalog.
	CatalogVersion string `yaml:"catalog_version" json:"catalogVersion,omitempty" split_words:"true"`
}

// DefaultConfig returns the default enrichment configuration.
func DefaultConfig() Config {
	return Config{
		MinRows:        DefaultMinRows,
		PartialFailure: PartialFailureAllOrNothing,
		CatalogVersion: "",
	}
}

// Validate validates the Config fields.
func (c Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid enricher config: %w", err)
	}

	return nil
}
