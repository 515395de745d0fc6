package indicator

import (
	"math"

	"github.com/guregu/null/v6"
	"github.com/rxtech-lab/argo-pipeline/internal/types"
	"github.com/rxtech-lab/argo-pipeline/pkg/errors"
)

// BollingerBands indicator implements Bollinger Bands technical indicator.
type BollingerBands struct {
	period int     // Number of periods for moving average
	stdDev float64 // Number of standard deviations for bands
}

// NewBollingerBands creates a new Bollinger Bands indicator with default configuration.
func NewBollingerBands() Indicator {
	return &BollingerBands{
		period: 20,  // Default period
		stdDev: 2.0, // Default standard deviation multiplier
	}
}

// Name returns the name of the indicator.
func (bb *BollingerBands) Name() types.IndicatorType {
	return types.IndicatorTypeBollingerBands
}

// Columns implements Indicator.
func (bb *BollingerBands) Columns() []string {
	return []string{"bb_upper", "bb_middle", "bb_lower"}
}

// Config configures the Bollinger Bands indicator. Expected parameters: period (int), stdDev (float64).
func (bb *BollingerBands) Config(params ...any) error {
	if len(params) != 2 {
		return errors.New(errors.ErrCodeMissingParameter, "Config expects 2 parameters: period (int), stdDev (float64)")
	}

	period, err := periodParam(params, 0, "period")
	if err != nil {
		return err
	}

	stdDev, ok := params[1].(float64)
	if !ok {
		return errors.New(errors.ErrCodeInvalidType, "invalid type for stdDev parameter, expected float64")
	}

	if stdDev <= 0 {
		return errors.Newf(errors.ErrCodeInvalidMultiplier, "stdDev must be a positive number, got %f", stdDev)
	}

	bb.period = period
	bb.stdDev = stdDev

	return nil
}

// Compute calculates the bands over Close with the population standard deviation of each window.
func (bb *BollingerBands) Compute(rs *types.RecordSet) (map[string][]null.Float, error) {
	closes, err := series(rs, types.ColumnClose)
	if err != nil {
		return nil, err
	}

	middle := simpleMovingAverage(closes, bb.period)
	upper := nulls(len(closes))
	lower := nulls(len(closes))

	for i := bb.period - 1; i < len(closes); i++ {
		if !middle[i].Valid {
			continue
		}

		squaredDiffSum := 0.0
		for j := i - bb.period + 1; j <= i; j++ {
			diff := closes[j] - middle[i].Float64
			squaredDiffSum += diff * diff
		}

		sd := math.Sqrt(squaredDiffSum / float64(bb.period))
		upper[i] = finite(middle[i].Float64 + bb.stdDev*sd)
		lower[i] = finite(middle[i].Float64 - bb.stdDev*sd)
	}

	return map[string][]null.Float{"bb_upper": upper, "bb_middle": middle, "bb_lower": lower}, nil
}
