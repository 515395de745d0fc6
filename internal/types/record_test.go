package types

import (
	"testing"
	"time"

	"github.com/guregu/null/v6"
	"github.com/stretchr/testify/suite"
)

type RecordSetTestSuite struct {
	suite.Suite
}

func TestRecordSetSuite(t *testing.T) {
	suite.Run(t, new(RecordSetTestSuite))
}

func (suite *RecordSetTestSuite) newRow(day int, o, h, l, c, v float64) Row {
	return Row{
		Date:   time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC).Format("2006-01-02"),
		Open:   null.FloatFrom(o),
		High:   null.FloatFrom(h),
		Low:    null.FloatFrom(l),
		Close:  null.FloatFrom(c),
		Volume: null.FloatFrom(v),
	}
}

func (suite *RecordSetTestSuite) TestNewRecordSetSchema() {
	rs := NewRecordSet("Adj Close", ColumnOpen)
	suite.Equal([]string{"Date", "Open", "High", "Low", "Close", "Volume", "Adj Close"}, rs.Columns)
	suite.Equal([]string{"Open", "High", "Low", "Close", "Volume", "Adj Close"}, rs.NumericColumns())
	suite.Equal([]string{"Adj Close"}, rs.ExtraColumns())
	suite.Equal(0, rs.Len())
}

func (suite *RecordSetTestSuite) TestAppendFillsMissingExtraColumns() {
	rs := NewRecordSet("Adj Close")
	rs.Append(suite.newRow(1, 1, 2, 0.5, 1.5, 10))

	v, ok := rs.Rows[0].Get("Adj Close")
	suite.True(ok)
	suite.False(v.Valid)
}

func (suite *RecordSetTestSuite) TestRowGetSet() {
	row := suite.newRow(1, 1, 2, 0.5, 1.5, 10)
	row.Set(ColumnHigh, null.FloatFrom(3))
	row.Set("rsi_14", null.FloatFrom(55))

	high, ok := row.Get(ColumnHigh)
	suite.True(ok)
	suite.Equal(3.0, high.Float64)

	rsi, ok := row.Get("rsi_14")
	suite.True(ok)
	suite.Equal(55.0, rsi.Float64)

	_, ok = row.Get("missing")
	suite.False(ok)
}

func (suite *RecordSetTestSuite) TestCloneIsDeep() {
	rs := NewRecordSet()
	rs.Append(suite.newRow(1, 1, 2, 0.5, 1.5, 10))
	suite.Require().NoError(rs.SetColumn("obv", []null.Float{null.FloatFrom(0)}))

	clone := rs.Clone()
	clone.Rows[0].Set("obv", null.FloatFrom(99))
	clone.Rows[0].Open = null.FloatFrom(42)
	clone.Columns[0] = "changed"

	obv, _ := rs.Rows[0].Get("obv")
	suite.Equal(0.0, obv.Float64)
	suite.Equal(1.0, rs.Rows[0].Open.Float64)
	suite.Equal(ColumnDate, rs.Columns[0])
}

func (suite *RecordSetTestSuite) TestColumnAndSetColumn() {
	rs := NewRecordSet()
	rs.Append(suite.newRow(1, 1, 2, 0.5, 1.5, 10))
	rs.Append(suite.newRow(2, 2, 3, 1.5, 2.5, 20))

	closes, err := rs.Column(ColumnClose)
	suite.Require().NoError(err)
	suite.Equal([]null.Float{null.FloatFrom(1.5), null.FloatFrom(2.5)}, closes)

	suite.Require().NoError(rs.SetColumn("ma_2", []null.Float{{}, null.FloatFrom(2)}))
	suite.True(rs.HasColumn("ma_2"))
	suite.Equal([]string{"ma_2"}, rs.ExtraColumns())

	suite.Error(rs.SetColumn("ma_3", []null.Float{null.FloatFrom(1)}))
	suite.Error(rs.SetColumn(ColumnDate, []null.Float{{}, {}}))

	_, err = rs.Column(ColumnDate)
	suite.Error(err)
	_, err = rs.Column("unknown")
	suite.Error(err)
}

func (suite *RecordSetTestSuite) TestNullCount() {
	rs := NewRecordSet()
	rs.Append(suite.newRow(1, 1, 2, 0.5, 1.5, 10))
	row := suite.newRow(2, 2, 3, 1.5, 2.5, 20)
	row.Close = null.Float{}
	row.Volume = null.Float{}
	rs.Append(row)

	counts := rs.NullCount()
	suite.Equal(1, counts[ColumnClose])
	suite.Equal(1, counts[ColumnVolume])
	suite.Equal(0, counts[ColumnOpen])
	suite.Equal(2, rs.TotalNulls())
}

func (suite *RecordSetTestSuite) TestFilterPreservesOrder() {
	rs := NewRecordSet()
	for day := 1; day <= 5; day++ {
		rs.Append(suite.newRow(day, float64(day), float64(day)+1, float64(day)-1, float64(day), 1))
	}

	out := rs.Filter(func(i int, _ Row) bool { return i%2 == 0 })
	suite.Equal(3, out.Len())
	suite.Equal(1.0, out.Rows[0].Open.Float64)
	suite.Equal(3.0, out.Rows[1].Open.Float64)
	suite.Equal(5.0, out.Rows[2].Open.Float64)
	suite.Equal(5, rs.Len())
}

func (suite *RecordSetTestSuite) TestNilLen() {
	var rs *RecordSet
	suite.Equal(0, rs.Len())
}
