package resample

import (
	"github.com/guregu/null/v6"
	"github.com/rxtech-lab/argo-pipeline/internal/types"
	"github.com/rxtech-lab/argo-pipeline/pkg/errors"
)

// Aggregation reduces the values of one column inside a bucket.
type Aggregation string

const (
	AggregationFirst Aggregation = "first"
	AggregationLast  Aggregation = "last"
	AggregationMax   Aggregation = "max"
	AggregationMin   Aggregation = "min"
	AggregationSum   Aggregation = "sum"
	AggregationMean  Aggregation = "mean"
)

// Rules maps extra column names to their aggregation. Columns without a rule use last.
type Rules map[string]Aggregation

// ohlcvRules are fixed and cannot be overridden.
var ohlcvRules = map[string]Aggregation{
	types.ColumnOpen:   AggregationFirst,
	types.ColumnHigh:   AggregationMax,
	types.ColumnLow:    AggregationMin,
	types.ColumnClose:  AggregationLast,
	types.ColumnVolume: AggregationSum,
}

// Validate checks that every rule names a known aggregation and no OHLCV column.
func (r Rules) Validate() error {
	for column, aggregation := range r {
		if _, fixed := ohlcvRules[column]; fixed || column == types.ColumnDate {
			return errors.Newf(errors.ErrCodeInvalidAggregation, "aggregation of column %s cannot be overridden", column)
		}

		switch aggregation {
		case AggregationFirst, AggregationLast, AggregationMax, AggregationMin, AggregationSum, AggregationMean:
		default:
			return errors.Newf(errors.ErrCodeInvalidAggregation, "unknown aggregation %q for column %s", aggregation, column)
		}
	}

	return nil
}

func (r Rules) forColumn(column string) Aggregation {
	if aggregation, ok := ohlcvRules[column]; ok {
		return aggregation
	}

	if aggregation, ok := r[column]; ok {
		return aggregation
	}

	return AggregationLast
}

// reduce applies the aggregation to values in chronological order. Nulls are skipped;
// a bucket without any value reduces to null, except for sum which reduces to 0.
func reduce(aggregation Aggregation, values []null.Float) null.Float {
	var (
		result null.Float
		count  int
		sum    float64
	)

	for _, v := range values {
		if !v.Valid {
			continue
		}

		count++
		sum += v.Float64

		switch aggregation {
		case AggregationFirst:
			if !result.Valid {
				result = v
			}
		case AggregationLast:
			result = v
		case AggregationMax:
			if !result.Valid || v.Float64 > result.Float64 {
				result = v
			}
		case AggregationMin:
			if !result.Valid || v.Float64 < result.Float64 {
				result = v
			}
		case AggregationSum, AggregationMean:
		}
	}

	switch aggregation {
	case AggregationSum:
		return null.FloatFrom(sum)
	case AggregationMean:
		if count == 0 {
			return null.Float{}
		}

		return null.FloatFrom(sum / float64(count))
	case AggregationFirst, AggregationLast, AggregationMax, AggregationMin:
	}

	return result
}
