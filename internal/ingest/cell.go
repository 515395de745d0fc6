package ingest

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/guregu/null/v6"
)

// parseNumericCell converts a scanned cell into a nullable float. SQL NULL,
// empty strings and NaN-like text are null.
func parseNumericCell(value any) (null.Float, error) {
	switch v := value.(type) {
	case nil:
		return null.Float{}, nil
	case float64:
		return finiteOrNull(v), nil
	case float32:
		return finiteOrNull(float64(v)), nil
	case int:
		return null.FloatFrom(float64(v)), nil
	case int8:
		return null.FloatFrom(float64(v)), nil
	case int16:
		return null.FloatFrom(float64(v)), nil
	case int32:
		return null.FloatFrom(float64(v)), nil
	case int64:
		return null.FloatFrom(float64(v)), nil
	case uint8:
		return null.FloatFrom(float64(v)), nil
	case uint16:
		return null.FloatFrom(float64(v)), nil
	case uint32:
		return null.FloatFrom(float64(v)), nil
	case uint64:
		return null.FloatFrom(float64(v)), nil
	case string:
		return parseNumericText(v)
	case []byte:
		return parseNumericText(string(v))
	case interface{ Float64() float64 }:
		return finiteOrNull(v.Float64()), nil
	default:
		return null.Float{}, fmt.Errorf("unsupported numeric type %T", value)
	}
}

func parseNumericText(s string) (null.Float, error) {
	s = strings.TrimSpace(s)

	switch strings.ToLower(s) {
	case "", "nan", "null", "none", "na", "n/a":
		return null.Float{}, nil
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return null.Float{}, fmt.Errorf("cannot parse %q as a number", s)
	}

	return finiteOrNull(f), nil
}

func finiteOrNull(f float64) null.Float {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return null.Float{}
	}

	return null.FloatFrom(f)
}
