package indicators

import (
	"math"

	"candlegraph/internal/errors"
	"candlegraph/internal/models"
)

// Errors shared by all indicator calculations.
var (
	ErrInsufficientData = errors.ErrInsufficientData
	ErrInvalidPeriod    = errors.ErrInvalidPeriod
)

// nanSlice returns a slice of the given length filled with NaN. Warmup rows
// stay NaN so downstream rule comparisons are false, matching the NaN
// propagation of a column-oriented series.
func nanSlice(n int) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = math.NaN()
	}
	return s
}

// max returns the maximum of two float64 values.
func max(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// min returns the minimum of two float64 values.
func min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

// abs returns the absolute value of a float64.
func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

// sum calculates the sum of a slice of float64.
func sum(values []float64) float64 {
	var total float64
	for _, v := range values {
		total += v
	}
	return total
}

// mean calculates the arithmetic mean of a slice of float64.
func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return sum(values) / float64(len(values))
}

// stdDev calculates the population standard deviation of a slice of float64.
func stdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := mean(values)
	var variance float64
	for _, v := range values {
		diff := v - m
		variance += diff * diff
	}
	variance /= float64(len(values))
	return math.Sqrt(variance)
}

// rollingMean computes a simple moving average over values; rows before the
// window has filled are NaN.
func rollingMean(values []float64, window int) []float64 {
	result := nanSlice(len(values))
	if window <= 0 || len(values) < window {
		return result
	}
	var acc float64
	for i, v := range values {
		acc += v
		if i >= window {
			acc -= values[i-window]
		}
		if i >= window-1 {
			result[i] = acc / float64(window)
		}
	}
	return result
}

// trueRange calculates the true range for a candle.
func trueRange(current, previous models.Candle) float64 {
	highLow := current.High - current.Low
	highClose := abs(current.High - previous.Close)
	lowClose := abs(current.Low - previous.Close)
	return max(highLow, max(highClose, lowClose))
}

// typicalPrice calculates the typical price (HLC/3) for a candle.
func typicalPrice(c models.Candle) float64 {
	return (c.High + c.Low + c.Close) / 3
}

// closePrices extracts close prices from candles.
func closePrices(candles []models.Candle) []float64 {
	prices := make([]float64, len(candles))
	for i, c := range candles {
		prices[i] = c.Close
	}
	return prices
}

// highPrices extracts high prices from candles.
func highPrices(candles []models.Candle) []float64 {
	prices := make([]float64, len(candles))
	for i, c := range candles {
		prices[i] = c.High
	}
	return prices
}

// lowPrices extracts low prices from candles.
func lowPrices(candles []models.Candle) []float64 {
	prices := make([]float64, len(candles))
	for i, c := range candles {
		prices[i] = c.Low
	}
	return prices
}

// volumes extracts volumes from candles as float64.
func volumes(candles []models.Candle) []float64 {
	vols := make([]float64, len(candles))
	for i, c := range candles {
		vols[i] = float64(c.Volume)
	}
	return vols
}

// wilderSmooth applies Wilder smoothing (used in RSI, ADX).
// Rows before the first full period are NaN.
func wilderSmooth(values []float64, period int) []float64 {
	result := nanSlice(len(values))
	if len(values) < period {
		return result
	}

	// First value is SMA
	result[period-1] = mean(values[:period])

	multiplier := 1.0 / float64(period)
	for i := period; i < len(values); i++ {
		result[i] = result[i-1] + multiplier*(values[i]-result[i-1])
	}

	return result
}
