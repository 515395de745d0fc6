// Package resample re-buckets a time-normalized record-set onto a regular grid.
package resample

import (
	"slices"
	"time"

	"github.com/guregu/null/v6"
	"github.com/rxtech-lab/argo-pipeline/internal/logger"
	"github.com/rxtech-lab/argo-pipeline/internal/types"
	"github.com/rxtech-lab/argo-pipeline/pkg/errors"
	"go.uber.org/zap"
)

// Resampler aggregates rows into fixed-width time buckets.
type Resampler struct {
	rules  Rules
	logger *logger.Logger
}

// NewResampler creates a Resampler. rules may be nil.
func NewResampler(rules Rules, log *logger.Logger) (*Resampler, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}

	return &Resampler{
		rules:  rules,
		logger: log,
	}, nil
}

type bucket struct {
	start time.Time
	rows  []types.Row
}

// Resample returns one row per non-empty bucket, in ascending bucket order.
// Open is the first value of the bucket, High the max, Low the min, Close the
// last and Volume the sum; other columns follow the configured rules. Buckets
// without a complete Open/High/Low/Close are dropped.
func (r *Resampler) Resample(rs *types.RecordSet, width BucketWidth) (*types.RecordSet, error) {
	if !rs.TimeNormalized {
		return nil, errors.New(errors.ErrCodeTimeNotNormalized, "record-set time column must be normalized before resampling")
	}

	if width.Duration <= 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidBucketWidth, "bucket width %s must be positive", width.Duration)
	}

	rows := slices.Clone(rs.Rows)
	slices.SortStableFunc(rows, func(a, b types.Row) int {
		return a.Time.Compare(b.Time)
	})

	buckets := make([]*bucket, 0)

	for _, row := range rows {
		start := row.Time.UTC().Truncate(width.Duration)
		if len(buckets) == 0 || !buckets[len(buckets)-1].start.Equal(start) {
			buckets = append(buckets, &bucket{start: start, rows: nil})
		}

		current := buckets[len(buckets)-1]
		current.rows = append(current.rows, row)
	}

	out := &types.RecordSet{
		Columns:        slices.Clone(rs.Columns),
		Rows:           make([]types.Row, 0, len(buckets)),
		TimeNormalized: true,
		TimeIndexed:    true,
	}

	columns := rs.NumericColumns()
	dropped := 0

	for _, b := range buckets {
		row := types.Row{Date: b.start, Time: b.start}

		for _, column := range columns {
			values := make([]null.Float, len(b.rows))
			for i, source := range b.rows {
				values[i], _ = source.Get(column)
			}

			row.Set(column, reduce(r.rules.forColumn(column), values))
		}

		if !row.Open.Valid || !row.High.Valid || !row.Low.Valid || !row.Close.Valid {
			dropped++

			continue
		}

		out.Rows = append(out.Rows, row)
	}

	r.logger.Info("Resampled record-set",
		zap.String("width", width.Label),
		zap.Int("input_rows", rs.Len()),
		zap.Int("buckets", out.Len()),
		zap.Int("dropped_buckets", dropped),
	)

	return out, nil
}
