package indicator

import (
	"fmt"

	"github.com/guregu/null/v6"
	"github.com/rxtech-lab/argo-pipeline/internal/types"
	"github.com/rxtech-lab/argo-pipeline/pkg/errors"
)

// MA indicator implements Simple Moving Average calculation.
type MA struct {
	period int
}

// NewMA creates a new MA indicator with default configuration.
func NewMA() Indicator {
	return &MA{
		period: 20, // Default period
	}
}

// Name returns the name of the indicator.
func (m *MA) Name() types.IndicatorType {
	return types.IndicatorTypeMA
}

// Columns implements Indicator.
func (m *MA) Columns() []string {
	return []string{fmt.Sprintf("ma_%d", m.period)}
}

// Expected parameters: period (int).
func (m *MA) Config(params ...any) error {
	if len(params) != 1 {
		return errors.New(errors.ErrCodeMissingParameter, "Config expects 1 parameter: period (int)")
	}

	period, err := periodParam(params, 0, "period")
	if err != nil {
		return err
	}

	m.period = period

	return nil
}

// Compute calculates the simple moving average of Close.
func (m *MA) Compute(rs *types.RecordSet) (map[string][]null.Float, error) {
	closes, err := series(rs, types.ColumnClose)
	if err != nil {
		return nil, err
	}

	return map[string][]null.Float{
		m.Columns()[0]: simpleMovingAverage(closes, m.period),
	}, nil
}

// simpleMovingAverage returns the rolling mean; positions before the first full window are null.
func simpleMovingAverage(values []float64, period int) []null.Float {
	out := nulls(len(values))
	sum := 0.0

	for i, v := range values {
		sum += v
		if i >= period {
			sum -= values[i-period]
		}

		if i >= period-1 {
			out[i] = finite(sum / float64(period))
		}
	}

	return out
}
