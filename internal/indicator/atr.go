package indicator

import (
	"fmt"
	"math"

	"github.com/guregu/null/v6"
	"github.com/rxtech-lab/argo-pipeline/internal/types"
	"github.com/rxtech-lab/argo-pipeline/pkg/errors"
)

// ATR represents the Average True Range indicator.
type ATR struct {
	period int
}

// NewATR creates a new ATR indicator with default configuration.
func NewATR() Indicator {
	return &ATR{
		period: 14, // Default period
	}
}

// Name returns the name of the indicator.
func (a *ATR) Name() types.IndicatorType {
	return types.IndicatorTypeATR
}

// Columns implements Indicator.
func (a *ATR) Columns() []string {
	return []string{fmt.Sprintf("atr_%d", a.period)}
}

// Config configures the ATR indicator. Expected parameters: period (int).
func (a *ATR) Config(params ...any) error {
	if len(params) != 1 {
		return errors.New(errors.ErrCodeMissingParameter, "Config expects 1 parameter: period (int)")
	}

	period, err := periodParam(params, 0, "period")
	if err != nil {
		return err
	}

	a.period = period

	return nil
}

// Compute calculates the ATR with Wilder's smoothing. The first true range is
// High - Low since there is no previous close.
func (a *ATR) Compute(rs *types.RecordSet) (map[string][]null.Float, error) {
	highs, err := series(rs, types.ColumnHigh)
	if err != nil {
		return nil, err
	}

	lows, err := series(rs, types.ColumnLow)
	if err != nil {
		return nil, err
	}

	closes, err := series(rs, types.ColumnClose)
	if err != nil {
		return nil, err
	}

	out := nulls(len(closes))
	if len(closes) < a.period {
		return map[string][]null.Float{a.Columns()[0]: out}, nil
	}

	trueRanges := make([]float64, len(closes))
	for i := range closes {
		trueRanges[i] = highs[i] - lows[i]
		if i > 0 {
			trueRanges[i] = math.Max(trueRanges[i], math.Max(
				math.Abs(highs[i]-closes[i-1]),
				math.Abs(lows[i]-closes[i-1]),
			))
		}
	}

	atr := 0.0
	for i := 0; i < a.period; i++ {
		atr += trueRanges[i]
	}

	atr /= float64(a.period)
	out[a.period-1] = finite(atr)

	for i := a.period; i < len(trueRanges); i++ {
		atr = (atr*float64(a.period-1) + trueRanges[i]) / float64(a.period)
		out[i] = finite(atr)
	}

	return map[string][]null.Float{a.Columns()[0]: out}, nil
}
