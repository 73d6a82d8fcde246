package indicators

import (
	"math"
	"reflect"
	"testing"
	"time"

	"candlegraph/internal/models"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// candleGen generates valid candle data with realistic OHLCV values
func candleGen() gopter.Gen {
	return gen.Struct(reflect.TypeOf(models.Candle{}), map[string]gopter.Gen{
		"Timestamp": gen.TimeRange(time.Now().Add(-365*24*time.Hour), time.Hour),
		"Open":      gen.Float64Range(100.0, 1000.0),
		"High":      gen.Float64Range(100.0, 1000.0),
		"Low":       gen.Float64Range(100.0, 1000.0),
		"Close":     gen.Float64Range(100.0, 1000.0),
		"Volume":    gen.Int64Range(1000, 10000000),
	}).Map(func(c models.Candle) models.Candle {
		if c.Open <= 0 {
			c.Open = 100.0
		}
		if c.High <= 0 {
			c.High = 100.0
		}
		if c.Low <= 0 {
			c.Low = 100.0
		}
		if c.Close <= 0 {
			c.Close = 100.0
		}
		// High >= max(Open, Close) and Low <= min(Open, Close)
		c.High = math.Max(c.High, math.Max(c.Open, c.Close))
		c.Low = math.Min(c.Low, math.Min(c.Open, c.Close))
		if c.Low > c.High {
			c.Low, c.High = c.High, c.Low
		}
		if c.High <= c.Low {
			c.High = c.Low + 1.0
		}
		return c
	})
}

// candleSliceGen generates a slice of valid candles
func candleSliceGen(minLen, maxLen int) gopter.Gen {
	return gen.SliceOfN(maxLen, candleGen()).Map(func(candles []models.Candle) []models.Candle {
		if len(candles) < minLen {
			for len(candles) < minLen {
				candles = append(candles, candles[len(candles)-1])
			}
		}
		for i := range candles {
			candles[i].Timestamp = time.Now().Add(time.Duration(i) * time.Hour)
			// Re-validate each candle after shrinking
			if candles[i].Open <= 0 {
				candles[i].Open = 100.0
			}
			if candles[i].High <= 0 {
				candles[i].High = 100.0
			}
			if candles[i].Low <= 0 {
				candles[i].Low = 100.0
			}
			if candles[i].Close <= 0 {
				candles[i].Close = 100.0
			}
			candles[i].High = math.Max(candles[i].High, math.Max(candles[i].Open, candles[i].Close))
			candles[i].Low = math.Min(candles[i].Low, math.Min(candles[i].Open, candles[i].Close))
			if candles[i].Low > candles[i].High {
				candles[i].Low, candles[i].High = candles[i].High, candles[i].Low
			}
			if candles[i].High <= candles[i].Low {
				candles[i].High = candles[i].Low + 1.0
			}
		}
		return candles
	})
}

func TestProperty_RSIWithinBounds(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("RSI values are within [0, 100] once warm", prop.ForAll(
		func(candles []models.Candle) bool {
			rsi := NewRSI(14)
			values, err := rsi.Calculate(candles)
			if err != nil {
				// Insufficient data is acceptable
				return true
			}

			for i := rsi.Period(); i < len(values); i++ {
				if values[i] < 0 || values[i] > 100 {
					return false
				}
			}
			return true
		},
		candleSliceGen(20, 100),
	))

	properties.TestingRun(t)
}

func TestProperty_RSIWarmupIsNaN(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("RSI rows before the first full period are NaN", prop.ForAll(
		func(candles []models.Candle) bool {
			rsi := NewRSI(14)
			values, err := rsi.Calculate(candles)
			if err != nil {
				return true
			}

			for i := 0; i < rsi.Period() && i < len(values); i++ {
				if !math.IsNaN(values[i]) {
					return false
				}
			}
			return true
		},
		candleSliceGen(20, 100),
	))

	properties.TestingRun(t)
}

func TestProperty_ADXWithinBounds(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("ADX, +DI, -DI values are within [0, 100]", prop.ForAll(
		func(candles []models.Candle) bool {
			adx := NewADX(14)
			values, err := adx.Calculate(candles)
			if err != nil {
				return true
			}

			adxValues := values["adx"]
			plusDI := values["plus_di"]
			minusDI := values["minus_di"]

			for i := adx.Period(); i < len(adxValues); i++ {
				if adxValues[i] < 0 || adxValues[i] > 100 {
					return false
				}
				if plusDI[i] < 0 || plusDI[i] > 100 {
					return false
				}
				if minusDI[i] < 0 || minusDI[i] > 100 {
					return false
				}
			}
			return true
		},
		candleSliceGen(35, 100),
	))

	properties.TestingRun(t)
}

func TestProperty_BollingerBandsOrdering(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("Bollinger Bands: Lower <= Middle <= Upper", prop.ForAll(
		func(candles []models.Candle) bool {
			bb := NewBollingerBands(20, 2.0)
			values, err := bb.Calculate(candles)
			if err != nil {
				return true
			}

			upper := values["upper"]
			middle := values["middle"]
			lower := values["lower"]

			for i := bb.Period() - 1; i < len(upper); i++ {
				if lower[i] > middle[i] || middle[i] > upper[i] {
					return false
				}
			}
			return true
		},
		candleSliceGen(25, 100),
	))

	properties.TestingRun(t)
}

func TestProperty_ATRIsNonNegative(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("ATR values are non-negative", prop.ForAll(
		func(candles []models.Candle) bool {
			atr := NewATR(14)
			values, err := atr.Calculate(candles)
			if err != nil {
				return true
			}

			for i := atr.Period() - 1; i < len(values); i++ {
				if values[i] < 0 {
					return false
				}
			}
			return true
		},
		candleSliceGen(20, 100),
	))

	properties.TestingRun(t)
}

func TestProperty_SARStaysOutsideTrendRange(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("SAR sits below the prior low in uptrends and above the prior high in downtrends", prop.ForAll(
		func(candles []models.Candle) bool {
			sar := NewParabolicSAR(0.02, 0.02, 0.2)
			values, err := sar.Calculate(candles)
			if err != nil {
				return true
			}

			stops := values["sar"]
			direction := values["direction"]

			for i := 1; i < len(stops); i++ {
				// A reversal bar carries the old extreme, skip it
				if direction[i] != direction[i-1] {
					continue
				}
				if direction[i] == 1 && stops[i] > candles[i-1].Low {
					return false
				}
				if direction[i] == -1 && stops[i] < candles[i-1].High {
					return false
				}
			}
			return true
		},
		candleSliceGen(10, 60),
	))

	properties.TestingRun(t)
}

func TestProperty_PivotPointsOrdering(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("Pivot points: S3 < S2 < S1 < Pivot < R1 < R2 < R3", prop.ForAll(
		func(candle models.Candle) bool {
			pp := NewStandardPivotPoints()
			levels, err := pp.Calculate([]models.Candle{candle})
			if err != nil {
				return true
			}

			return levels.S3 < levels.S2 &&
				levels.S2 < levels.S1 &&
				levels.S1 < levels.Pivot &&
				levels.Pivot < levels.R1 &&
				levels.R1 < levels.R2 &&
				levels.R2 < levels.R3
		},
		candleGen(),
	))

	properties.TestingRun(t)
}

func TestProperty_HawkeyeColorsAreValid(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	valid := map[string]bool{
		VolumeColorGreen: true,
		VolumeColorRed:   true,
		VolumeColorGray:  true,
		VolumeColorBlue:  true,
	}

	properties.Property("every bar gets exactly one known color class", prop.ForAll(
		func(candles []models.Candle) bool {
			hv := NewHawkeyeVolume(200, 20, 3.6)
			result, err := hv.Calculate(candles)
			if err != nil {
				return true
			}

			if len(result.Colors) != len(candles) || len(result.VolumeAvg) != len(candles) {
				return false
			}
			for _, c := range result.Colors {
				if !valid[c] {
					return false
				}
			}
			return true
		},
		candleSliceGen(25, 100),
	))

	properties.TestingRun(t)
}

func TestProperty_PivotScanMarksTrueExtremes(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("a marked pivot high is the window maximum", prop.ForAll(
		func(candles []models.Candle) bool {
			ph := NewPivotHigh(3, 2)
			values, err := ph.Calculate(candles)
			if err != nil {
				return true
			}

			highs := highPrices(candles)
			for i, v := range values {
				if math.IsNaN(v) {
					continue
				}
				if v != highs[i] {
					return false
				}
				for j := i - 3; j <= i+2; j++ {
					if j != i && highs[j] > v {
						return false
					}
				}
			}
			return true
		},
		candleSliceGen(15, 80),
	))

	properties.TestingRun(t)
}
