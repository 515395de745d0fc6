package resample

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rxtech-lab/argo-pipeline/pkg/errors"
)

const (
	Day  = 24 * time.Hour
	Week = 7 * Day
)

// BucketWidth is a fixed resampling interval.
type BucketWidth struct {
	Duration time.Duration
	// Label is the compact form of Duration, e.g. "1d" or "15m".
	Label string
}

func (b BucketWidth) String() string {
	return b.Label
}

var bucketPattern = regexp.MustCompile(`^(\d+)?\s*([A-Za-z]+)$`)

var bucketUnits = map[string]time.Duration{
	"s": time.Second, "sec": time.Second, "secs": time.Second, "second": time.Second, "seconds": time.Second,
	"t": time.Minute, "m": time.Minute, "min": time.Minute, "mins": time.Minute, "minute": time.Minute, "minutes": time.Minute,
	"h": time.Hour, "hr": time.Hour, "hrs": time.Hour, "hour": time.Hour, "hours": time.Hour,
	"d": Day, "day": Day, "days": Day,
	"w": Week, "wk": Week, "week": Week, "weeks": Week,
}

// ParseBucketWidth parses a bucket width. Accepted forms:
//   - interval tags: 1m, 5m, 15m, 30m, 1h, 4h, 12h, 1d, 1w
//   - frequency aliases: D, H, T, min, W (optionally prefixed by a count, e.g. 2D)
//   - English: "1 day", "2 hours", "15 minutes"
//   - Go durations: 90m, 1h30m
//
// Calendar units (months, years) have no fixed width and are rejected.
func ParseBucketWidth(s string) (BucketWidth, error) {
	text := strings.TrimSpace(s)
	if text == "" {
		return BucketWidth{}, errors.New(errors.ErrCodeInvalidBucketWidth, "bucket width is empty")
	}

	width, err := parseBucketDuration(text)
	if err != nil {
		return BucketWidth{}, err
	}

	if width <= 0 {
		return BucketWidth{}, errors.Newf(errors.ErrCodeInvalidBucketWidth, "bucket width %q must be positive", s)
	}

	return BucketWidth{Duration: width, Label: formatBucketWidth(width)}, nil
}

// MustParseBucketWidth is ParseBucketWidth for constants; it panics on error.
func MustParseBucketWidth(s string) BucketWidth {
	width, err := ParseBucketWidth(s)
	if err != nil {
		panic(err)
	}

	return width
}

func parseBucketDuration(text string) (time.Duration, error) {
	if match := bucketPattern.FindStringSubmatch(text); match != nil {
		count := 1

		if match[1] != "" {
			n, err := strconv.Atoi(match[1])
			if err != nil {
				return 0, errors.Wrapf(errors.ErrCodeInvalidBucketWidth, err, "invalid bucket count in %q", text)
			}

			count = n
		}

		// "M" is a month in frequency notation
		if match[2] == "M" || strings.HasPrefix(strings.ToLower(match[2]), "month") || strings.HasPrefix(strings.ToLower(match[2]), "year") {
			return 0, errors.Newf(errors.ErrCodeInvalidBucketWidth, "bucket width %q is a calendar unit without a fixed length", text)
		}

		if unit, ok := bucketUnits[strings.ToLower(match[2])]; ok {
			return time.Duration(count) * unit, nil
		}

		return 0, errors.Newf(errors.ErrCodeInvalidBucketWidth, "unknown bucket unit %q", match[2])
	}

	width, err := time.ParseDuration(text)
	if err != nil {
		return 0, errors.Wrapf(errors.ErrCodeInvalidBucketWidth, err, "invalid bucket width %q", text)
	}

	return width, nil
}

func formatBucketWidth(d time.Duration) string {
	switch {
	case d%Week == 0:
		return fmt.Sprintf("%dw", d/Week)
	case d%Day == 0:
		return fmt.Sprintf("%dd", d/Day)
	case d%time.Hour == 0:
		return fmt.Sprintf("%dh", d/time.Hour)
	case d%time.Minute == 0:
		return fmt.Sprintf("%dm", d/time.Minute)
	default:
		return d.String()
	}
}
