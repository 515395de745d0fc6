package types

import (
	"fmt"
	"slices"
	"time"

	"github.com/guregu/null/v6"
)

// Required input columns.
const (
	ColumnDate   = "Date"
	ColumnOpen   = "Open"
	ColumnHigh   = "High"
	ColumnLow    = "Low"
	ColumnClose  = "Close"
	ColumnVolume = "Volume"
)

// OHLCVColumns lists the fixed numeric columns in schema order.
var OHLCVColumns = []string{ColumnOpen, ColumnHigh, ColumnLow, ColumnClose, ColumnVolume}

// PriceColumns are the columns the outlier model is fitted on.
var PriceColumns = []string{ColumnOpen, ColumnHigh, ColumnLow, ColumnClose}

// Row is one observation. Date holds the raw value as read from the source
// until the time column is normalized, after which Time is authoritative and
// Date carries the same time.Time.
type Row struct {
	Date   any
	Time   time.Time
	Open   null.Float
	High   null.Float
	Low    null.Float
	Close  null.Float
	Volume null.Float
	// Extra holds every numeric column that is not part of OHLCV,
	// such as indicator columns.
	Extra map[string]null.Float
}

// Get returns the value of a numeric column.
func (r Row) Get(column string) (null.Float, bool) {
	switch column {
	case ColumnOpen:
		return r.Open, true
	case ColumnHigh:
		return r.High, true
	case ColumnLow:
		return r.Low, true
	case ColumnClose:
		return r.Close, true
	case ColumnVolume:
		return r.Volume, true
	}

	v, ok := r.Extra[column]

	return v, ok
}

// Set assigns a numeric column.
func (r *Row) Set(column string, v null.Float) {
	switch column {
	case ColumnOpen:
		r.Open = v
	case ColumnHigh:
		r.High = v
	case ColumnLow:
		r.Low = v
	case ColumnClose:
		r.Close = v
	case ColumnVolume:
		r.Volume = v
	default:
		if r.Extra == nil {
			r.Extra = make(map[string]null.Float)
		}

		r.Extra[column] = v
	}
}

// Clone returns a deep copy of the row.
func (r Row) Clone() Row {
	c := r
	if r.Extra != nil {
		c.Extra = make(map[string]null.Float, len(r.Extra))
		for k, v := range r.Extra {
			c.Extra[k] = v
		}
	}

	return c
}

// RecordSet is an ordered, schema-stable collection of rows.
type RecordSet struct {
	// Columns is the ordered schema. The first column is always Date.
	Columns []string
	Rows    []Row
	// TimeNormalized is set once every Row.Time has been parsed from Date.
	TimeNormalized bool
	// TimeIndexed is set by the resampler: rows are one per bucket, keyed by bucket start.
	TimeIndexed bool
}

// NewRecordSet creates an empty record-set with the required columns
// followed by the given extra numeric columns.
func NewRecordSet(extra ...string) *RecordSet {
	columns := make([]string, 0, 1+len(OHLCVColumns)+len(extra))
	columns = append(columns, ColumnDate)
	columns = append(columns, OHLCVColumns...)

	for _, name := range extra {
		if !slices.Contains(columns, name) {
			columns = append(columns, name)
		}
	}

	return &RecordSet{
		Columns:        columns,
		Rows:           nil,
		TimeNormalized: false,
		TimeIndexed:    false,
	}
}

// Len returns the number of rows.
func (rs *RecordSet) Len() int {
	if rs == nil {
		return 0
	}

	return len(rs.Rows)
}

// Append adds a row, filling any extra column the row lacks with null
// so that every row carries the same column set.
func (rs *RecordSet) Append(r Row) {
	for _, name := range rs.ExtraColumns() {
		if _, ok := r.Extra[name]; !ok {
			r.Set(name, null.Float{})
		}
	}

	rs.Rows = append(rs.Rows, r)
}

// Clone returns a deep copy of the record-set.
func (rs *RecordSet) Clone() *RecordSet {
	c := &RecordSet{
		Columns:        slices.Clone(rs.Columns),
		Rows:           make([]Row, len(rs.Rows)),
		TimeNormalized: rs.TimeNormalized,
		TimeIndexed:    rs.TimeIndexed,
	}

	for i, r := range rs.Rows {
		c.Rows[i] = r.Clone()
	}

	return c
}

// NumericColumns returns every column except Date, in schema order.
func (rs *RecordSet) NumericColumns() []string {
	out := make([]string, 0, len(rs.Columns))
	for _, name := range rs.Columns {
		if name != ColumnDate {
			out = append(out, name)
		}
	}

	return out
}

// ExtraColumns returns the numeric columns outside OHLCV, in schema order.
func (rs *RecordSet) ExtraColumns() []string {
	out := make([]string, 0)
	for _, name := range rs.Columns {
		if name != ColumnDate && !slices.Contains(OHLCVColumns, name) {
			out = append(out, name)
		}
	}

	return out
}

// HasColumn reports whether the schema contains the column.
func (rs *RecordSet) HasColumn(name string) bool {
	return slices.Contains(rs.Columns, name)
}

// Column returns a copy of the values of a numeric column.
func (rs *RecordSet) Column(name string) ([]null.Float, error) {
	if name == ColumnDate || !rs.HasColumn(name) {
		return nil, fmt.Errorf("column %s is not a numeric column of the record-set", name)
	}

	values := make([]null.Float, len(rs.Rows))
	for i, r := range rs.Rows {
		values[i], _ = r.Get(name)
	}

	return values, nil
}

// SetColumn writes values into a numeric column, adding it to the schema if needed.
func (rs *RecordSet) SetColumn(name string, values []null.Float) error {
	if name == ColumnDate {
		return fmt.Errorf("SetColumn cannot overwrite the %s column", ColumnDate)
	}

	if len(values) != len(rs.Rows) {
		return fmt.Errorf("SetColumn %s: got %d values for %d rows", name, len(values), len(rs.Rows))
	}

	if !rs.HasColumn(name) {
		rs.Columns = append(rs.Columns, name)
	}

	for i := range rs.Rows {
		rs.Rows[i].Set(name, values[i])
	}

	return nil
}

// NullCount returns the number of null cells per numeric column.
func (rs *RecordSet) NullCount() map[string]int {
	counts := make(map[string]int)
	for _, name := range rs.NumericColumns() {
		counts[name] = 0
	}

	for _, r := range rs.Rows {
		for name := range counts {
			if v, _ := r.Get(name); !v.Valid {
				counts[name]++
			}
		}
	}

	return counts
}

// TotalNulls sums NullCount over all numeric columns.
func (rs *RecordSet) TotalNulls() int {
	total := 0
	for _, n := range rs.NullCount() {
		total += n
	}

	return total
}

// Filter returns a new record-set with the rows for which keep returns true,
// in their original order. Kept rows are deep copies.
func (rs *RecordSet) Filter(keep func(i int, r Row) bool) *RecordSet {
	out := &RecordSet{
		Columns:        slices.Clone(rs.Columns),
		Rows:           make([]Row, 0, len(rs.Rows)),
		TimeNormalized: rs.TimeNormalized,
		TimeIndexed:    rs.TimeIndexed,
	}

	for i, r := range rs.Rows {
		if keep(i, r) {
			out.Rows = append(out.Rows, r.Clone())
		}
	}

	return out
}
