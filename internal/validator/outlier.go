package validator

import (
	"math/rand"

	"github.com/montanaflynn/stats"
	"github.com/rxtech-lab/argo-pipeline/internal/types"
	"github.com/rxtech-lab/argo-pipeline/pkg/errors"
	"go.uber.org/zap"
)

// RejectOutliers fits an isolation forest on Open, High, Low and Close and drops
// the rows labelled anomalous. Surviving rows keep their order and values.
// Record-sets shorter than MinRowsForOutlierDetection are returned unchanged.
// Rows with a null price are not scored and always kept.
func (v *Validator) RejectOutliers(rs *types.RecordSet) (*types.RecordSet, error) {
	if rs.Len() < v.config.MinRowsForOutlierDetection {
		v.logger.Info("Skipping outlier rejection, not enough rows",
			zap.Int("rows", rs.Len()),
			zap.Int("min_rows", v.config.MinRowsForOutlierDetection),
		)

		return rs, nil
	}

	features := make([][]float64, 0, rs.Len())
	positions := make([]int, 0, rs.Len())

	for i, row := range rs.Rows {
		point, ok := priceFeatures(row)
		if !ok {
			continue
		}

		features = append(features, point)
		positions = append(positions, i)
	}

	if len(features) < v.config.MinRowsForOutlierDetection {
		v.logger.Info("Skipping outlier rejection, not enough complete rows", zap.Int("complete_rows", len(features)))

		return rs, nil
	}

	rng := rand.New(rand.NewSource(v.config.Seed))
	forest := fitIsolationForest(features, v.config.Trees, v.config.SampleSize, rng)

	scores := make(stats.Float64Data, len(features))
	for i, point := range features {
		scores[i] = forest.score(point)
	}

	threshold, err := stats.Percentile(scores, 100*(1-v.config.OutlierContamination))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeOutlierModelFailed, "failed to compute the outlier threshold", err)
	}

	anomalous := make(map[int]bool)
	for i, score := range scores {
		if score > threshold {
			anomalous[positions[i]] = true
		}
	}

	out := rs.Filter(func(i int, _ types.Row) bool { return !anomalous[i] })

	v.logger.Info("Rejected outliers",
		zap.Int("rows_before", rs.Len()),
		zap.Int("rows_after", out.Len()),
		zap.Float64("contamination", v.config.OutlierContamination),
		zap.Float64("threshold", threshold),
	)

	return out, nil
}

func priceFeatures(row types.Row) ([]float64, bool) {
	point := make([]float64, 0, len(types.PriceColumns))
	for _, column := range types.PriceColumns {
		value, _ := row.Get(column)
		if !value.Valid {
			return nil, false
		}

		point = append(point, value.Float64)
	}

	return point, true
}
