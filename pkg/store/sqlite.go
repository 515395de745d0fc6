package store

import (
	_ "github.com/mattn/go-sqlite3"
	"github.com/rxtech-lab/argo-pipeline/internal/logger"
)

// SQLiteWriter writes the record-set into a SQLite database file.
type SQLiteWriter struct {
	sqlWriter
}

// NewSQLiteWriter creates a new SQLiteWriter.
func NewSQLiteWriter(config WriterConfig, log *logger.Logger) *SQLiteWriter {
	return &SQLiteWriter{
		sqlWriter: newSQLWriter(config, dialect{driver: "sqlite3", timestampType: "TIMESTAMP", doubleType: "REAL"}, log),
	}
}
