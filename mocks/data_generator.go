package mocks

import (
	"encoding/csv"
	"math"
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/guregu/null/v6"
	"github.com/rxtech-lab/argo-pipeline/internal/types"
)

// DataGenerator generates realistic OHLCV record-sets for testing and benchmarking.
type DataGenerator struct {
	rng *rand.Rand
}

// NewDataGenerator creates a new DataGenerator with the given seed.
// Use a fixed seed for reproducible results in tests.
func NewDataGenerator(seed int64) *DataGenerator {
	return &DataGenerator{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// GeneratorConfig configures how market data is generated.
type GeneratorConfig struct {
	// StartTime is the beginning of the data series
	StartTime time.Time
	// Interval is the duration between each bar
	Interval time.Duration
	// Count is the number of data points to generate
	Count int
	// InitialPrice is the starting price
	InitialPrice float64
	// Volatility controls price movement (0.01 = 1% typical daily volatility)
	Volatility float64
	// Trend is the drift factor (-0.01 to 0.01 for bearish to bullish)
	Trend float64
	// VolumeBase is the average volume per bar
	VolumeBase float64
	// VolumeVariance is the variance in volume (0.0 to 1.0)
	VolumeVariance float64
	// DateLayout formats the raw Date column. Empty keeps time.Time values.
	DateLayout string
	// NullRate is the probability of each numeric cell being null (0.0 to 1.0)
	NullRate float64
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		StartTime:      time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC),
		Interval:       time.Minute,
		Count:          10000,
		InitialPrice:   100.0,
		Volatility:     0.002, // 0.2% per bar
		Trend:          0.0,   // neutral
		VolumeBase:     10000,
		VolumeVariance: 0.3,
		DateLayout:     "2006-01-02 15:04:05",
		NullRate:       0,
	}
}

// Generate creates a raw record-set based on the configuration, as the ingestor would
// produce it: Date holds the formatted timestamp and time is not normalized yet.
// The generated data follows a geometric Brownian motion model for realistic price movements.
func (g *DataGenerator) Generate(config GeneratorConfig) *types.RecordSet {
	rs := types.NewRecordSet()
	currentPrice := config.InitialPrice
	currentTime := config.StartTime

	for i := 0; i < config.Count; i++ {
		open := currentPrice

		// Using Box-Muller transform for normal distribution
		u1 := g.rng.Float64()
		u2 := g.rng.Float64()
		z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)

		priceChange := config.Volatility * z
		drift := config.Trend / float64(config.Count) // Distribute trend across bars

		close := open * (1 + priceChange + drift)
		if close <= 0 {
			close = open * 0.99 // Prevent negative prices
		}

		highExtension := math.Abs(g.rng.Float64() * config.Volatility * open * 0.5)
		lowExtension := math.Abs(g.rng.Float64() * config.Volatility * open * 0.5)

		high := math.Max(open, close) + highExtension
		low := math.Min(open, close) - lowExtension
		if low <= 0 {
			low = math.Min(open, close) * 0.99
		}

		volumeVariation := 1.0 + (g.rng.Float64()*2-1)*config.VolumeVariance
		volume := config.VolumeBase * volumeVariation
		if volume < 0 {
			volume = config.VolumeBase * 0.1
		}

		var date any = currentTime
		if config.DateLayout != "" {
			date = currentTime.Format(config.DateLayout)
		}

		rs.Append(types.Row{
			Date:   date,
			Open:   g.cell(roundToDecimals(open, 4), config.NullRate),
			High:   g.cell(roundToDecimals(high, 4), config.NullRate),
			Low:    g.cell(roundToDecimals(low, 4), config.NullRate),
			Close:  g.cell(roundToDecimals(close, 4), config.NullRate),
			Volume: g.cell(roundToDecimals(volume, 2), config.NullRate),
		})

		currentPrice = close
		currentTime = currentTime.Add(config.Interval)
	}

	return rs
}

func (g *DataGenerator) cell(v float64, nullRate float64) null.Float {
	if nullRate > 0 && g.rng.Float64() < nullRate {
		return null.Float{}
	}

	return null.FloatFrom(v)
}

// Generate10K is a convenience function to generate 10,000 data points
// with default settings for benchmarking.
func Generate10K() *types.RecordSet {
	gen := NewDataGenerator(42) // Fixed seed for reproducibility
	config := DefaultConfig()
	config.Count = 10000
	return gen.Generate(config)
}

// WriteCSV writes a raw record-set as a CSV file with a header row.
// Null cells are written as empty fields.
func WriteCSV(path string, rs *types.RecordSet) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(rs.Columns); err != nil {
		return err
	}

	for _, row := range rs.Rows {
		record := make([]string, 0, len(rs.Columns))
		record = append(record, formatDate(row.Date))

		for _, column := range rs.NumericColumns() {
			v, _ := row.Get(column)
			if v.Valid {
				record = append(record, strconv.FormatFloat(v.Float64, 'f', -1, 64))
			} else {
				record = append(record, "")
			}
		}

		if err := w.Write(record); err != nil {
			return err
		}
	}

	w.Flush()

	return w.Error()
}

func formatDate(date any) string {
	switch d := date.(type) {
	case string:
		return d
	case time.Time:
		return d.Format(time.RFC3339)
	default:
		return ""
	}
}

// roundToDecimals rounds a float64 to the specified number of decimal places.
func roundToDecimals(val float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Round(val*pow) / pow
}
