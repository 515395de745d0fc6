package validator

import (
	"github.com/guregu/null/v6"
	"github.com/montanaflynn/stats"
	"github.com/rxtech-lab/argo-pipeline/internal/types"
	"github.com/rxtech-lab/argo-pipeline/pkg/errors"
	"go.uber.org/zap"
)

// RepairMissing replaces null numeric cells according to the configured strategy.
// Every column is handled independently and non-null values are never changed.
// A record-set without nulls is returned as is.
func (v *Validator) RepairMissing(rs *types.RecordSet) (*types.RecordSet, error) {
	nulls := rs.TotalNulls()
	if nulls == 0 {
		return rs, nil
	}

	if v.config.MissingValueStrategy == MissingValueDrop {
		out := rs.Filter(func(_ int, r types.Row) bool { return !hasNull(rs, r) })
		v.logger.Info("Dropped rows with missing values",
			zap.Int("nulls", nulls),
			zap.Int("rows_before", rs.Len()),
			zap.Int("rows_after", out.Len()),
		)

		return out, nil
	}

	out := rs.Clone()
	counts := rs.NullCount()

	for _, column := range rs.NumericColumns() {
		count := counts[column]
		if count == 0 {
			continue
		}

		values, err := out.Column(column)
		if err != nil {
			return nil, err
		}

		fill, ok, err := v.fillValue(column, values)
		if err != nil {
			return nil, err
		}

		if !ok {
			continue
		}

		for i := range values {
			if !values[i].Valid {
				values[i] = null.FloatFrom(fill)
			}
		}

		if err := out.SetColumn(column, values); err != nil {
			return nil, err
		}

		v.logger.Debug("Imputed column",
			zap.String("column", column),
			zap.Int("nulls", count),
			zap.Float64("value", fill),
		)
	}

	v.logger.Info("Repaired missing values",
		zap.Int("nulls", nulls),
		zap.String("strategy", string(v.config.MissingValueStrategy)),
	)

	return out, nil
}

// fillValue computes the substitute for a column. ok is false when the column
// must be left untouched.
func (v *Validator) fillValue(column string, values []null.Float) (fill float64, ok bool, err error) {
	present := make(stats.Float64Data, 0, len(values))
	for _, value := range values {
		if value.Valid {
			present = append(present, value.Float64)
		}
	}

	if len(present) == 0 {
		switch v.config.AllNullPolicy {
		case AllNullZero:
			return 0, true, nil
		case AllNullFail:
			return 0, false, errors.Newf(errors.ErrCodeAllNullColumn, "column %s has no values to impute from", column)
		default:
			v.logger.Warn("Column is entirely null, leaving it unrepaired", zap.String("column", column))

			return 0, false, nil
		}
	}

	switch v.config.MissingValueStrategy {
	case MissingValueMedian:
		fill, err = stats.Median(present)
	default:
		fill, err = stats.Mean(present)
	}

	if err != nil {
		return 0, false, errors.Wrapf(errors.ErrCodeInvalidParameter, err, "failed to impute column %s", column)
	}

	return fill, true, nil
}

func hasNull(rs *types.RecordSet, r types.Row) bool {
	for _, column := range rs.NumericColumns() {
		if value, _ := r.Get(column); !value.Valid {
			return true
		}
	}

	return false
}
