// Package store persists the final record-set into a relational table.
package store

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/rxtech-lab/argo-pipeline/internal/logger"
	"github.com/rxtech-lab/argo-pipeline/internal/types"
	"github.com/rxtech-lab/argo-pipeline/pkg/errors"
)

// OnProgress is called after each inserted batch.
type OnProgress = func(current int, total int)

// RecordSetWriter defines the interface for writing a record-set to a destination.
type RecordSetWriter interface {
	// Initialize opens the destination and starts a transaction.
	Initialize(ctx context.Context) error
	// Write replaces the destination table with the contents of rs.
	Write(ctx context.Context, rs *types.RecordSet) error
	// Finalize commits the transaction and runs any export step.
	Finalize() (outputPath string, err error)
	// Close releases any resources held by the writer, rolling back uncommitted work.
	Close() error
	// GetOutputPath returns the configured output file path.
	GetOutputPath() string
}

// WriterType defines the storage engine.
type WriterType string

const (
	WriterDuckDB WriterType = "duckdb"
	WriterSQLite WriterType = "sqlite"
)

// DefaultTable is the table name used when none is configured.
const DefaultTable = "OHLC"

// WriterConfig holds the configuration for a RecordSetWriter.
type WriterConfig struct {
	Type  WriterType `validate:"required,oneof=duckdb sqlite"`
	Path  string     `validate:"required"`
	Table string     `validate:"required"`
	// ExportParquet additionally copies the table to ParquetPath (DuckDB only).
	ExportParquet bool
	// ParquetPath defaults to Path with a .parquet extension.
	ParquetPath string
	OnProgress  OnProgress
}

// NewWriter creates the writer selected by config.Type.
func NewWriter(config WriterConfig, log *logger.Logger) (RecordSetWriter, error) {
	validate := validator.New()
	if err := validate.Struct(config); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid writer configuration", err)
	}

	switch config.Type {
	case WriterDuckDB:
		return NewDuckDBWriter(config, log), nil
	case WriterSQLite:
		if config.ExportParquet {
			return nil, errors.New(errors.ErrCodeInvalidConfiguration, "parquet export requires the duckdb writer")
		}

		return NewSQLiteWriter(config, log), nil
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidWriterType, "unsupported writer type: %s", config.Type)
	}
}

// Persist runs the full writer lifecycle for one record-set and returns the output path.
// The writer is always closed.
func Persist(ctx context.Context, w RecordSetWriter, rs *types.RecordSet) (outputPath string, err error) {
	defer func() {
		if closeErr := w.Close(); closeErr != nil && err == nil {
			err = errors.Wrap(errors.ErrCodeStorageFailed, "failed to close writer", closeErr)
		}
	}()

	if err := w.Initialize(ctx); err != nil {
		return "", err
	}

	if err := w.Write(ctx, rs); err != nil {
		return "", err
	}

	outputPath, err = w.Finalize()
	if err != nil {
		return "", err
	}

	return outputPath, nil
}
