package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"

	"github.com/Masterminds/squirrel"
	"github.com/guregu/null/v6"
	"github.com/rxtech-lab/argo-pipeline/internal/logger"
	"github.com/rxtech-lab/argo-pipeline/internal/types"
	"github.com/rxtech-lab/argo-pipeline/pkg/errors"
	"go.uber.org/zap"
)

// maxParamsPerStatement keeps batched inserts under SQLite's host parameter limit.
const maxParamsPerStatement = 900

// dialect holds the engine specific parts of the table definition.
type dialect struct {
	driver        string
	timestampType string
	doubleType    string
}

// sqlWriter implements the transactional table replacement shared by the
// database/sql backed writers.
type sqlWriter struct {
	config  WriterConfig
	dialect dialect
	logger  *logger.Logger
	db      *sql.DB
	tx      *sql.Tx
	sq      squirrel.StatementBuilderType
}

func newSQLWriter(config WriterConfig, d dialect, log *logger.Logger) sqlWriter {
	return sqlWriter{
		config:  config,
		dialect: d,
		logger:  log,
		db:      nil,
		tx:      nil,
		sq:      squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}
}

// Initialize opens the database file and begins a transaction.
func (w *sqlWriter) Initialize(ctx context.Context) (err error) {
	if dir := filepath.Dir(w.config.Path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(errors.ErrCodeStorageFailed, err, "failed to create output directory %s", dir)
		}
	}

	w.db, err = sql.Open(w.dialect.driver, w.config.Path)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeStorageFailed, err, "failed to open %s database", w.dialect.driver)
	}

	w.tx, err = w.db.BeginTx(ctx, nil)
	if err != nil {
		w.db.Close()
		w.db = nil

		return errors.Wrap(errors.ErrCodeStorageFailed, "failed to begin transaction", err)
	}

	return nil
}

// Write drops and recreates the table, then inserts every row in batches.
func (w *sqlWriter) Write(ctx context.Context, rs *types.RecordSet) error {
	if w.tx == nil {
		return errors.New(errors.ErrCodeStorageFailed, "writer not initialized or transaction is nil")
	}

	table := quoteIdentifier(w.config.Table)
	columns := tableSchema(rs)

	if _, err := w.tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+table); err != nil {
		return errors.Wrapf(errors.ErrCodeStorageFailed, err, "failed to drop table %s", w.config.Table)
	}

	if _, err := w.tx.ExecContext(ctx, createTableSQL(w.config.Table, columns, w.dialect)); err != nil {
		return errors.Wrapf(errors.ErrCodeStorageFailed, err, "failed to create table %s", w.config.Table)
	}

	identifiers := make([]string, 0, len(columns)+1)
	identifiers = append(identifiers, quoteIdentifier(timeColumn))

	for _, column := range columns {
		identifiers = append(identifiers, quoteIdentifier(column.identifier))
	}

	batchSize := max(1, maxParamsPerStatement/len(identifiers))
	total := rs.Len()

	for start := 0; start < total; start += batchSize {
		end := min(start+batchSize, total)
		insert := w.sq.Insert(table).Columns(identifiers...)

		for _, row := range rs.Rows[start:end] {
			values := make([]any, 0, len(identifiers))
			values = append(values, row.Time.UTC())

			for _, column := range columns {
				v, _ := row.Get(column.source)
				values = append(values, cellValue(v))
			}

			insert = insert.Values(values...)
		}

		query, args, err := insert.ToSql()
		if err != nil {
			return errors.Wrap(errors.ErrCodeStorageFailed, "failed to build insert statement", err)
		}

		if _, err := w.tx.ExecContext(ctx, query, args...); err != nil {
			return errors.Wrapf(errors.ErrCodeStorageFailed, err, "failed to insert rows %d-%d", start, end-1)
		}

		if w.config.OnProgress != nil {
			w.config.OnProgress(end, total)
		}
	}

	w.logger.Debug("Wrote record-set",
		zap.String("table", w.config.Table),
		zap.Int("rows", total),
		zap.Int("columns", len(identifiers)),
	)

	return nil
}

// Finalize commits the transaction.
func (w *sqlWriter) Finalize() (string, error) {
	if w.tx == nil {
		return "", errors.New(errors.ErrCodeStorageFailed, "writer not initialized or transaction is nil")
	}

	if err := w.tx.Commit(); err != nil {
		w.tx.Rollback()
		w.tx = nil

		return "", errors.Wrap(errors.ErrCodeStorageFailed, "failed to commit transaction", err)
	}

	w.tx = nil

	w.logger.Info("Persisted table", zap.String("path", w.config.Path), zap.String("table", w.config.Table))

	return w.config.Path, nil
}

// Close rolls back an uncommitted transaction and closes the database.
func (w *sqlWriter) Close() error {
	var closeErrors []error

	if w.tx != nil {
		if err := w.tx.Rollback(); err != nil {
			w.logger.Warn("Failed to rollback transaction during close", zap.Error(err))
		}

		w.tx = nil
	}

	if w.db != nil {
		if err := w.db.Close(); err != nil {
			closeErrors = append(closeErrors, errors.Wrap(errors.ErrCodeStorageFailed, "failed to close db connection", err))
		}

		w.db = nil
	}

	return errors.Join(closeErrors...)
}

// GetOutputPath returns the database file path.
func (w *sqlWriter) GetOutputPath() string {
	return w.config.Path
}

func cellValue(v null.Float) any {
	if !v.Valid {
		return nil
	}

	return v.Float64
}
