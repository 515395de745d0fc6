package indicator

import (
	"fmt"

	"github.com/guregu/null/v6"
	"github.com/rxtech-lab/argo-pipeline/internal/types"
	"github.com/rxtech-lab/argo-pipeline/pkg/errors"
)

// RSI represents the Relative Strength Index indicator.
type RSI struct {
	period int
}

// NewRSI creates a new RSI indicator with default configuration.
func NewRSI() Indicator {
	return &RSI{
		period: 14, // Default period
	}
}

// Name returns the name of the indicator.
func (r *RSI) Name() types.IndicatorType {
	return types.IndicatorTypeRSI
}

// Columns implements Indicator.
func (r *RSI) Columns() []string {
	return []string{fmt.Sprintf("rsi_%d", r.period)}
}

// Config configures the RSI indicator. Expected parameters: period (int).
func (r *RSI) Config(params ...any) error {
	if len(params) < 1 {
		return errors.New(errors.ErrCodeMissingParameter, "Config expects at least 1 parameter: period (int)")
	}

	period, err := periodParam(params, 0, "period")
	if err != nil {
		return err
	}

	r.period = period

	return nil
}

// Compute calculates the RSI of Close using Wilder's smoothing. The first value
// is available once period price changes have been observed.
func (r *RSI) Compute(rs *types.RecordSet) (map[string][]null.Float, error) {
	closes, err := series(rs, types.ColumnClose)
	if err != nil {
		return nil, err
	}

	out := nulls(len(closes))
	if len(closes) < r.period+1 {
		return map[string][]null.Float{r.Columns()[0]: out}, nil
	}

	// First average
	avgGain, avgLoss := 0.0, 0.0

	for i := 1; i <= r.period; i++ {
		gain, loss := priceChange(closes[i] - closes[i-1])
		avgGain += gain
		avgLoss += loss
	}

	avgGain /= float64(r.period)
	avgLoss /= float64(r.period)
	out[r.period] = rsiValue(avgGain, avgLoss)

	// Subsequent averages using Wilder's smoothing method
	for i := r.period + 1; i < len(closes); i++ {
		gain, loss := priceChange(closes[i] - closes[i-1])
		avgGain = (avgGain*float64(r.period-1) + gain) / float64(r.period)
		avgLoss = (avgLoss*float64(r.period-1) + loss) / float64(r.period)
		out[i] = rsiValue(avgGain, avgLoss)
	}

	return map[string][]null.Float{r.Columns()[0]: out}, nil
}

func priceChange(change float64) (gain, loss float64) {
	if change > 0 {
		return change, 0
	}

	return 0, -change
}

func rsiValue(avgGain, avgLoss float64) null.Float {
	if avgLoss == 0 {
		if avgGain == 0 {
			return null.FloatFrom(50) // flat series
		}

		return null.FloatFrom(100) // Perfect uptrend
	}

	rs := avgGain / avgLoss

	return finite(100 - (100 / (1 + rs)))
}
