package indicator

import (
	"math"

	"github.com/guregu/null/v6"
	"github.com/rxtech-lab/argo-pipeline/internal/types"
	"github.com/rxtech-lab/argo-pipeline/pkg/errors"
)

// Indicator computes one or more named columns from the OHLCV columns of a record-set.
// Values inside the warm-up window of the indicator are null.
type Indicator interface {
	// Name returns the name of the indicator
	Name() types.IndicatorType
	// Columns returns the names of the columns Compute produces, in order
	Columns() []string
	// Compute returns one value slice per column, each as long as the record-set
	Compute(rs *types.RecordSet) (map[string][]null.Float, error)
	Config(params ...any) error
}

// series extracts a numeric column as plain floats. Indicators do not accept gaps.
func series(rs *types.RecordSet, column string) ([]float64, error) {
	values, err := rs.Column(column)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeMissingColumn, "indicator input is missing", err)
	}

	out := make([]float64, len(values))
	for i, v := range values {
		if !v.Valid {
			return nil, errors.Newf(errors.ErrCodeIndicatorCalculation, "column %s has a null value at row %d", column, i)
		}

		out[i] = v.Float64
	}

	return out, nil
}

// periodParam reads a positive period from params[idx], accepting int or float64.
func periodParam(params []any, idx int, name string) (int, error) {
	var period int

	switch p := params[idx].(type) {
	case int:
		period = p
	case float64:
		period = int(p)
	default:
		return 0, errors.Newf(errors.ErrCodeInvalidType, "invalid type for %s parameter, expected int or float", name)
	}

	if period <= 0 {
		return 0, errors.Newf(errors.ErrCodeInvalidPeriod, "%s must be a positive integer, got %d", name, period)
	}

	return period, nil
}

// nulls returns a slice of n null values.
func nulls(n int) []null.Float {
	return make([]null.Float, n)
}

// finite wraps v, mapping NaN and infinities to null.
func finite(v float64) null.Float {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return null.Float{}
	}

	return null.FloatFrom(v)
}
