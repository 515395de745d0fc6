package validator

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/rxtech-lab/argo-pipeline/internal/types"
	"github.com/rxtech-lab/argo-pipeline/pkg/errors"
	"go.uber.org/zap"
)

// NormalizeTime parses every Date value into a UTC timestamp and stores it in
// both Row.Time and Row.Date. Applying it twice yields the same result.
func (v *Validator) NormalizeTime(rs *types.RecordSet) (*types.RecordSet, error) {
	out := rs.Clone()

	for i := range out.Rows {
		parsed, err := ParseTimestamp(out.Rows[i].Date)
		if err != nil {
			return nil, errors.NewParseError(i, out.Rows[i].Date, err)
		}

		out.Rows[i].Time = parsed
		out.Rows[i].Date = parsed
	}

	out.TimeNormalized = true

	v.logger.Debug("Normalized time column", zap.Int("rows", out.Len()))

	return out, nil
}

// ParseTimestamp interprets a raw Date cell. Strings go through dateparse,
// numbers are treated as Unix epochs whose unit is inferred from magnitude.
func ParseTimestamp(value any) (time.Time, error) {
	switch v := value.(type) {
	case time.Time:
		return v.UTC(), nil
	case *time.Time:
		if v == nil {
			return time.Time{}, fmt.Errorf("date is null")
		}

		return v.UTC(), nil
	case string:
		return parseTimestampString(v)
	case []byte:
		return parseTimestampString(string(v))
	case int:
		return fromEpoch(float64(v))
	case int32:
		return fromEpoch(float64(v))
	case int64:
		return fromEpoch(float64(v))
	case uint64:
		return fromEpoch(float64(v))
	case float32:
		return fromEpoch(float64(v))
	case float64:
		return fromEpoch(v)
	case nil:
		return time.Time{}, fmt.Errorf("date is null")
	default:
		return time.Time{}, fmt.Errorf("unsupported date type %T", value)
	}
}

func parseTimestampString(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("date is empty")
	}

	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}, err
	}

	return t.UTC(), nil
}

func fromEpoch(value float64) (time.Time, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return time.Time{}, fmt.Errorf("epoch %v is not finite", value)
	}

	magnitude := math.Abs(value)

	var nanos float64

	switch {
	case magnitude < 1e11:
		nanos = value * 1e9
	case magnitude < 1e14:
		nanos = value * 1e6
	case magnitude < 1e17:
		nanos = value * 1e3
	default:
		nanos = value
	}

	// float64(math.MaxInt64) rounds up to 2^63, which int64 cannot hold
	if nanos >= float64(math.MaxInt64) || nanos < float64(math.MinInt64) {
		return time.Time{}, fmt.Errorf("epoch %v is outside the representable time range", value)
	}

	return time.Unix(0, int64(nanos)).UTC(), nil
}
