package store

import (
	"fmt"
	"path/filepath"
	"strings"

	_ "github.com/marcboeker/go-duckdb"
	"github.com/rxtech-lab/argo-pipeline/internal/logger"
	"github.com/rxtech-lab/argo-pipeline/pkg/errors"
	"go.uber.org/zap"
)

// DuckDBWriter writes the record-set into a DuckDB database file and can
// export the table to Parquet.
type DuckDBWriter struct {
	sqlWriter
}

// NewDuckDBWriter creates a new DuckDBWriter.
func NewDuckDBWriter(config WriterConfig, log *logger.Logger) *DuckDBWriter {
	return &DuckDBWriter{
		sqlWriter: newSQLWriter(config, dialect{driver: "duckdb", timestampType: "TIMESTAMP", doubleType: "DOUBLE"}, log),
	}
}

// Finalize commits the transaction and, when configured, exports the table to Parquet.
func (w *DuckDBWriter) Finalize() (string, error) {
	outputPath, err := w.sqlWriter.Finalize()
	if err != nil {
		return "", err
	}

	if !w.config.ExportParquet {
		return outputPath, nil
	}

	parquetPath := w.ParquetPath()

	_, err = w.db.Exec(fmt.Sprintf(`COPY %s TO '%s' (FORMAT PARQUET)`,
		quoteIdentifier(w.config.Table), strings.ReplaceAll(parquetPath, "'", "''")))
	if err != nil {
		return "", errors.Wrapf(errors.ErrCodeStorageFailed, err, "failed to export to Parquet at %s", parquetPath)
	}

	w.logger.Info("Exported table to Parquet", zap.String("path", parquetPath))

	return outputPath, nil
}

// ParquetPath returns the Parquet export destination.
func (w *DuckDBWriter) ParquetPath() string {
	if w.config.ParquetPath != "" {
		return w.config.ParquetPath
	}

	return strings.TrimSuffix(w.config.Path, filepath.Ext(w.config.Path)) + ".parquet"
}
