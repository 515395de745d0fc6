// Package ingest reads raw OHLCV files into record-sets.
package ingest

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	"github.com/guregu/null/v6"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/rxtech-lab/argo-pipeline/internal/logger"
	"github.com/rxtech-lab/argo-pipeline/internal/types"
	"github.com/rxtech-lab/argo-pipeline/pkg/errors"
	"go.uber.org/zap"
)

// Reader loads an input file into a record-set.
type Reader interface {
	// Read parses the file at path. The Date column is kept as read; numeric
	// columns are converted to nullable floats.
	Read(ctx context.Context, path string, format Format) (*types.RecordSet, error)
	// Close releases the underlying engine.
	Close() error
}

// DuckDBReader reads CSV and JSON files through an in-memory DuckDB instance.
type DuckDBReader struct {
	db     *sql.DB
	logger *logger.Logger
}

// NewDuckDBReader opens an in-memory DuckDB database for reading input files.
func NewDuckDBReader(log *logger.Logger) (*DuckDBReader, error) {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDataSourceUnavailable, "failed to open duckdb", err)
	}

	return &DuckDBReader{
		db:     db,
		logger: log,
	}, nil
}

// Close implements Reader.
func (r *DuckDBReader) Close() error {
	return r.db.Close()
}

// Read implements Reader.
func (r *DuckDBReader) Read(ctx context.Context, path string, format Format) (*types.RecordSet, error) {
	format, err := ParseFormat(string(format))
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(errors.ErrCodeDataNotFound, err, "input file %s does not exist", path)
		}

		return nil, errors.Wrapf(errors.ErrCodeReadFailed, err, "cannot access input file %s", path)
	}

	r.logger.Debug("Reading input file", zap.String("path", path), zap.String("format", string(format)))

	columns, raw, err := r.scan(ctx, path, format)
	if err != nil {
		return nil, err
	}

	layout, err := resolveColumns(columns)
	if err != nil {
		return nil, err
	}

	rs, err := r.buildRecordSet(layout, raw)
	if err != nil {
		return nil, err
	}

	r.logger.Info("Read input file",
		zap.String("path", path),
		zap.Int("rows", rs.Len()),
		zap.Strings("columns", rs.Columns),
	)

	return rs, nil
}

// scan returns the column names and raw cells of the input. JSON may be a record
// array, NDJSON, or a column-oriented object; the latter is reshaped in memory.
func (r *DuckDBReader) scan(ctx context.Context, path string, format Format) ([]string, [][]any, error) {
	if format == FormatJSON {
		columns, raw, ok, err := readColumnOrientedJSON(path)
		if err != nil {
			return nil, nil, err
		}

		if ok {
			r.logger.Debug("Read column-oriented JSON", zap.String("path", path), zap.Int("columns", len(columns)))

			return columns, raw, nil
		}
	}

	rows, err := r.db.QueryContext(ctx, sourceQuery(path, format))
	if err != nil {
		return nil, nil, errors.Wrapf(errors.ErrCodeQueryFailed, err, "failed to read %s file %s", format, path)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeReadFailed, "failed to get columns", err)
	}

	raw := make([][]any, 0, 1024)

	for rows.Next() {
		values := make([]any, len(columns))
		valuePtrs := make([]any, len(columns))

		for i := range values {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, nil, errors.Wrap(errors.ErrCodeReadFailed, "failed to scan row", err)
		}

		raw = append(raw, values)
	}

	if err := rows.Err(); err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeReadFailed, "error iterating rows", err)
	}

	return columns, raw, nil
}

func sourceQuery(path string, format Format) string {
	quoted := strings.ReplaceAll(path, "'", "''")

	if format == FormatJSON {
		return fmt.Sprintf("SELECT * FROM read_json_auto('%s')", quoted)
	}

	return fmt.Sprintf("SELECT * FROM read_csv('%s', header = true, all_varchar = true)", quoted)
}

// columnLayout maps canonical column names to their position in the scanned row.
type columnLayout struct {
	required map[string]int
	extra    []extraColumn
}

type extraColumn struct {
	name  string
	index int
}

// resolveColumns matches the required columns case-insensitively and keeps the
// remaining columns as extra candidates.
func resolveColumns(columns []string) (columnLayout, error) {
	layout := columnLayout{required: make(map[string]int), extra: nil}
	required := append([]string{types.ColumnDate}, types.OHLCVColumns...)

	for i, column := range columns {
		matched := false

		for _, name := range required {
			if _, seen := layout.required[name]; !seen && strings.EqualFold(strings.TrimSpace(column), name) {
				layout.required[name] = i
				matched = true

				break
			}
		}

		if !matched {
			layout.extra = append(layout.extra, extraColumn{name: strings.TrimSpace(column), index: i})
		}
	}

	missing := make([]string, 0)

	for _, name := range required {
		if _, ok := layout.required[name]; !ok {
			missing = append(missing, name)
		}
	}

	if len(missing) > 0 {
		return columnLayout{}, errors.Newf(errors.ErrCodeMissingColumn, "input is missing required columns: %s", strings.Join(missing, ", "))
	}

	return layout, nil
}

// buildRecordSet converts scanned rows. Extra columns are kept only when every
// non-null cell is numeric.
func (r *DuckDBReader) buildRecordSet(layout columnLayout, raw [][]any) (*types.RecordSet, error) {
	extras := make(map[string][]null.Float)
	extraNames := make([]string, 0, len(layout.extra))

	for _, column := range layout.extra {
		values, ok := numericColumn(raw, column.index)
		if !ok {
			r.logger.Debug("Dropping non-numeric column", zap.String("column", column.name))

			continue
		}

		if _, duplicate := extras[column.name]; duplicate {
			continue
		}

		extras[column.name] = values
		extraNames = append(extraNames, column.name)
	}

	rs := types.NewRecordSet(extraNames...)

	for i, values := range raw {
		row := types.Row{Date: values[layout.required[types.ColumnDate]]}

		for _, column := range types.OHLCVColumns {
			v, err := parseNumericCell(values[layout.required[column]])
			if err != nil {
				return nil, errors.Wrapf(errors.ErrCodeMarketDataParseFailed, err, "row %d column %s", i, column)
			}

			row.Set(column, v)
		}

		for _, name := range extraNames {
			row.Set(name, extras[name][i])
		}

		rs.Append(row)
	}

	return rs, nil
}

func numericColumn(raw [][]any, index int) ([]null.Float, bool) {
	values := make([]null.Float, len(raw))

	for i, row := range raw {
		v, err := parseNumericCell(row[index])
		if err != nil {
			return nil, false
		}

		values[i] = v
	}

	return values, true
}
