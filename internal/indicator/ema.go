package indicator

import (
	"fmt"

	"github.com/guregu/null/v6"
	"github.com/rxtech-lab/argo-pipeline/internal/types"
	"github.com/rxtech-lab/argo-pipeline/pkg/errors"
)

// EMA represents the Exponential Moving Average indicator.
type EMA struct {
	period int
}

// NewEMA creates a new EMA indicator with default configuration.
func NewEMA() Indicator {
	return &EMA{
		period: 20, // Default period
	}
}

// Name returns the name of the indicator.
func (e *EMA) Name() types.IndicatorType {
	return types.IndicatorTypeEMA
}

// Columns implements Indicator.
func (e *EMA) Columns() []string {
	return []string{fmt.Sprintf("ema_%d", e.period)}
}

// Config configures the EMA indicator. Expected parameters: period (int).
func (e *EMA) Config(params ...any) error {
	if len(params) != 1 {
		return errors.New(errors.ErrCodeMissingParameter, "Config expects 1 parameter: period (int)")
	}

	period, err := periodParam(params, 0, "period")
	if err != nil {
		return err
	}

	e.period = period

	return nil
}

// Compute calculates the EMA of Close.
func (e *EMA) Compute(rs *types.RecordSet) (map[string][]null.Float, error) {
	closes, err := series(rs, types.ColumnClose)
	if err != nil {
		return nil, err
	}

	return map[string][]null.Float{
		e.Columns()[0]: exponentialMovingAverage(closes, e.period),
	}, nil
}

// exponentialMovingAverage seeds with the SMA of the first period values and then applies
// EMA = (Close - EMA_prev) * Multiplier + EMA_prev, where Multiplier = 2 / (Period + 1).
func exponentialMovingAverage(values []float64, period int) []null.Float {
	out := nulls(len(values))
	if len(values) < period {
		return out
	}

	sma := 0.0
	for i := 0; i < period; i++ {
		sma += values[i]
	}

	prev := sma / float64(period)
	out[period-1] = finite(prev)
	alpha := 2.0 / float64(period+1)

	for i := period; i < len(values); i++ {
		prev = (values[i]-prev)*alpha + prev
		out[i] = finite(prev)
	}

	return out
}
