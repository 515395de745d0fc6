package indicator

import (
	"github.com/guregu/null/v6"
	"github.com/rxtech-lab/argo-pipeline/internal/types"
)

// OBV is the On-Balance Volume: the running sum of volume, subtracted on down closes.
type OBV struct{}

func NewOBV() Indicator {
	return &OBV{}
}

func (o *OBV) Name() types.IndicatorType {
	return types.IndicatorTypeOBV
}

func (o *OBV) Columns() []string {
	return []string{"obv"}
}

// Config accepts no parameters.
func (o *OBV) Config(params ...any) error {
	return nil
}

func (o *OBV) Compute(rs *types.RecordSet) (map[string][]null.Float, error) {
	closes, err := series(rs, types.ColumnClose)
	if err != nil {
		return nil, err
	}

	volumes, err := series(rs, types.ColumnVolume)
	if err != nil {
		return nil, err
	}

	out := nulls(len(closes))
	total := 0.0

	for i := range closes {
		if i > 0 && closes[i] < closes[i-1] {
			total -= volumes[i]
		} else {
			total += volumes[i]
		}

		out[i] = finite(total)
	}

	return map[string][]null.Float{"obv": out}, nil
}
