package indicator

import (
	"github.com/guregu/null/v6"
	"github.com/rxtech-lab/argo-pipeline/internal/types"
	"github.com/rxtech-lab/argo-pipeline/pkg/errors"
)

// MACD represents the Moving Average Convergence Divergence indicator.
type MACD struct {
	fastPeriod   int
	slowPeriod   int
	signalPeriod int
}

// NewMACD creates a new MACD indicator with default configuration.
func NewMACD() Indicator {
	return &MACD{
		fastPeriod:   12,
		slowPeriod:   26,
		signalPeriod: 9,
	}
}

// Name returns the name of the indicator.
func (m *MACD) Name() types.IndicatorType {
	return types.IndicatorTypeMACD
}

// Columns implements Indicator.
func (m *MACD) Columns() []string {
	return []string{"macd", "macd_signal", "macd_hist"}
}

// Config configures the MACD indicator. Expected parameters: fastPeriod (int), slowPeriod (int), signalPeriod (int).
func (m *MACD) Config(params ...any) error {
	if len(params) != 3 {
		return errors.New(errors.ErrCodeMissingParameter, "Config expects 3 parameters: fastPeriod (int), slowPeriod (int), signalPeriod (int)")
	}

	fastPeriod, err := periodParam(params, 0, "fastPeriod")
	if err != nil {
		return err
	}

	slowPeriod, err := periodParam(params, 1, "slowPeriod")
	if err != nil {
		return err
	}

	signalPeriod, err := periodParam(params, 2, "signalPeriod")
	if err != nil {
		return err
	}

	if fastPeriod >= slowPeriod {
		return errors.Newf(errors.ErrCodeInvalidPeriod, "fastPeriod (%d) must be smaller than slowPeriod (%d)", fastPeriod, slowPeriod)
	}

	m.fastPeriod = fastPeriod
	m.slowPeriod = slowPeriod
	m.signalPeriod = signalPeriod

	return nil
}

// Compute calculates the MACD line (fast EMA - slow EMA), its signal line
// (EMA of the MACD line) and the histogram (MACD - signal).
func (m *MACD) Compute(rs *types.RecordSet) (map[string][]null.Float, error) {
	closes, err := series(rs, types.ColumnClose)
	if err != nil {
		return nil, err
	}

	n := len(closes)
	line := nulls(n)
	signal := nulls(n)
	hist := nulls(n)

	fast := exponentialMovingAverage(closes, m.fastPeriod)
	slow := exponentialMovingAverage(closes, m.slowPeriod)

	start := m.slowPeriod - 1
	if n <= start {
		return map[string][]null.Float{"macd": line, "macd_signal": signal, "macd_hist": hist}, nil
	}

	macdValues := make([]float64, 0, n-start)

	for i := start; i < n; i++ {
		line[i] = finite(fast[i].Float64 - slow[i].Float64)
		macdValues = append(macdValues, line[i].Float64)
	}

	signalValues := exponentialMovingAverage(macdValues, m.signalPeriod)
	for j, value := range signalValues {
		if !value.Valid {
			continue
		}

		signal[start+j] = value
		hist[start+j] = finite(line[start+j].Float64 - value.Float64)
	}

	return map[string][]null.Float{"macd": line, "macd_signal": signal, "macd_hist": hist}, nil
}
