package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/guregu/null/v6"
	"github.com/rxtech-lab/argo-pipeline/internal/logger"
	"github.com/rxtech-lab/argo-pipeline/internal/types"
	"github.com/rxtech-lab/argo-pipeline/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type StoreTestSuite struct {
	suite.Suite
	tempDir string
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}

func (suite *StoreTestSuite) SetupTest() {
	suite.tempDir = suite.T().TempDir()
}

func dailyRecordSet(n int) *types.RecordSet {
	rs := types.NewRecordSet()
	rs.TimeNormalized = true
	rs.TimeIndexed = true
	start := time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)

	for i := 0; i < n; i++ {
		at := start.Add(time.Duration(i) * 24 * time.Hour)
		p := 100 + float64(i)
		rs.Append(types.Row{
			Date:   at,
			Time:   at,
			Open:   null.FloatFrom(p),
			High:   null.FloatFrom(p + 2),
			Low:    null.FloatFrom(p - 2),
			Close:  null.FloatFrom(p + 1),
			Volume: null.FloatFrom(1000),
		})
	}

	values := make([]null.Float, n)
	for i := range values {
		if i > 0 {
			values[i] = null.FloatFrom(float64(i))
		}
	}

	_ = rs.SetColumn("Adj Close", values)

	return rs
}

func (suite *StoreTestSuite) count(driver, path, table string) int {
	db, err := sql.Open(driver, path)
	suite.Require().NoError(err)
	defer db.Close()

	var n int
	suite.Require().NoError(db.QueryRow("SELECT COUNT(*) FROM " + quoteIdentifier(table)).Scan(&n))

	return n
}

func (suite *StoreTestSuite) TestSQLiteWriter() {
	path := filepath.Join(suite.tempDir, "out", "OHLC_data.db")

	var progress []int

	w, err := NewWriter(WriterConfig{
		Type:       WriterSQLite,
		Path:       path,
		Table:      DefaultTable,
		OnProgress: func(current, total int) { progress = append(progress, current) },
	}, logger.NewNop())
	suite.Require().NoError(err)

	outputPath, err := Persist(context.Background(), w, dailyRecordSet(5))
	suite.Require().NoError(err)
	suite.Equal(path, outputPath)
	suite.Equal(path, w.GetOutputPath())
	suite.Equal([]int{5}, progress)
	suite.Equal(5, suite.count("sqlite3", path, DefaultTable))

	db, err := sql.Open("sqlite3", path)
	suite.Require().NoError(err)
	defer db.Close()

	var (
		high     float64
		adjClose sql.NullFloat64
	)

	suite.Require().NoError(db.QueryRow(`SELECT "High", "Adj Close" FROM "OHLC" ORDER BY "Date" LIMIT 1`).Scan(&high, &adjClose))
	suite.Equal(102.0, high)
	suite.False(adjClose.Valid)
}

func (suite *StoreTestSuite) TestColumnNamesKeepSourceCasing() {
	for _, writerType := range []WriterType{WriterSQLite, WriterDuckDB} {
		suite.Run(string(writerType), func() {
			path := filepath.Join(suite.tempDir, "casing_"+string(writerType)+".db")

			w, err := NewWriter(WriterConfig{Type: writerType, Path: path, Table: DefaultTable}, logger.NewNop())
			suite.Require().NoError(err)

			_, err = Persist(context.Background(), w, dailyRecordSet(2))
			suite.Require().NoError(err)

			driver := "sqlite3"
			if writerType == WriterDuckDB {
				driver = "duckdb"
			}

			db, err := sql.Open(driver, path)
			suite.Require().NoError(err)
			defer db.Close()

			rows, err := db.Query(`SELECT * FROM "OHLC" LIMIT 1`)
			suite.Require().NoError(err)
			defer rows.Close()

			columns, err := rows.Columns()
			suite.Require().NoError(err)
			suite.Equal([]string{"Date", "Open", "High", "Low", "Close", "Volume", "Adj Close"}, columns)
		})
	}
}

func (suite *StoreTestSuite) TestDuckDBWriterWithParquet() {
	path := filepath.Join(suite.tempDir, "pipeline.duckdb")

	w, err := NewWriter(WriterConfig{
		Type:          WriterDuckDB,
		Path:          path,
		Table:         "ohlc",
		ExportParquet: true,
	}, logger.NewNop())
	suite.Require().NoError(err)

	_, err = Persist(context.Background(), w, dailyRecordSet(7))
	suite.Require().NoError(err)
	suite.Equal(7, suite.count("duckdb", path, "ohlc"))

	parquetPath := filepath.Join(suite.tempDir, "pipeline.parquet")
	suite.Equal(parquetPath, w.(*DuckDBWriter).ParquetPath())
	suite.FileExists(parquetPath)

	db, err := sql.Open("duckdb", "")
	suite.Require().NoError(err)
	defer db.Close()

	var n int
	suite.Require().NoError(db.QueryRow("SELECT COUNT(*) FROM read_parquet('" + parquetPath + "')").Scan(&n))
	suite.Equal(7, n)
}

func (suite *StoreTestSuite) TestTableIsReplaced() {
	path := filepath.Join(suite.tempDir, "replace.db")
	config := WriterConfig{Type: WriterSQLite, Path: path, Table: DefaultTable}

	for _, rows := range []int{8, 3} {
		w, err := NewWriter(config, logger.NewNop())
		suite.Require().NoError(err)

		_, err = Persist(context.Background(), w, dailyRecordSet(rows))
		suite.Require().NoError(err)
	}

	suite.Equal(3, suite.count("sqlite3", path, DefaultTable))
}

func (suite *StoreTestSuite) TestCloseWithoutFinalizeRollsBack() {
	path := filepath.Join(suite.tempDir, "rollback.db")
	w := NewSQLiteWriter(WriterConfig{Type: WriterSQLite, Path: path, Table: DefaultTable}, logger.NewNop())

	suite.Require().NoError(w.Initialize(context.Background()))
	suite.Require().NoError(w.Write(context.Background(), dailyRecordSet(4)))
	suite.Require().NoError(w.Close())

	db, err := sql.Open("sqlite3", path)
	suite.Require().NoError(err)
	defer db.Close()

	var n int
	err = db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'OHLC'`).Scan(&n)
	suite.Require().NoError(err)
	suite.Equal(0, n)
}

func (suite *StoreTestSuite) TestWriteWithoutInitialize() {
	w := NewDuckDBWriter(WriterConfig{Type: WriterDuckDB, Path: filepath.Join(suite.tempDir, "x.duckdb"), Table: "t"}, logger.NewNop())

	err := w.Write(context.Background(), dailyRecordSet(1))
	suite.Error(err)
	suite.Contains(err.Error(), "not initialized")
	suite.True(errors.HasCode(err, errors.ErrCodeStorageFailed))

	_, err = w.Finalize()
	suite.Error(err)
	suite.NoError(w.Close())
}

func (suite *StoreTestSuite) TestNewWriterValidation() {
	_, err := NewWriter(WriterConfig{Type: "postgres", Path: "x", Table: "t"}, logger.NewNop())
	suite.Error(err)

	_, err = NewWriter(WriterConfig{Type: WriterSQLite, Path: "", Table: "t"}, logger.NewNop())
	suite.Error(err)

	_, err = NewWriter(WriterConfig{Type: WriterSQLite, Path: "x.db", Table: "t", ExportParquet: true}, logger.NewNop())
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
}

func (suite *StoreTestSuite) TestOutputDirectoryIsCreated() {
	path := filepath.Join(suite.tempDir, "a", "b", "c.db")
	w, err := NewWriter(WriterConfig{Type: WriterSQLite, Path: path, Table: DefaultTable}, logger.NewNop())
	suite.Require().NoError(err)

	_, err = Persist(context.Background(), w, dailyRecordSet(1))
	suite.Require().NoError(err)

	_, err = os.Stat(path)
	suite.NoError(err)
}

func (suite *StoreTestSuite) TestTableSchema() {
	rs := types.NewRecordSet("Adj Close", "adj close", "50d ma", "rsi_14", "date", " ")

	columns := tableSchema(rs)

	identifiers := make([]string, len(columns))
	for i, column := range columns {
		identifiers[i] = column.identifier
	}

	suite.Equal([]string{"Open", "High", "Low", "Close", "Volume", "Adj Close", "adj close_2", "50d ma", "rsi_14", "date_2", "column"}, identifiers)
	suite.Equal(`CREATE TABLE "OHLC" ("Date" TIMESTAMP, "Open" REAL)`,
		createTableSQL(DefaultTable, columns[:1], dialect{driver: "sqlite3", timestampType: "TIMESTAMP", doubleType: "REAL"}))
}
