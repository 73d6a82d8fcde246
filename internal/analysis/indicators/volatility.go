package indicators

import (
	"fmt"
	"math"

	"candlegraph/internal/models"
)

// BollingerBands calculates Bollinger Bands over the typical price (HLC/3).
// %B and band width are derived against the close.
type BollingerBands struct {
	window    int
	stdDevMul float64
}

// NewBollingerBands creates a new Bollinger Bands indicator.
func NewBollingerBands(window int, stdDevMul float64) *BollingerBands {
	return &BollingerBands{
		window:    window,
		stdDevMul: stdDevMul,
	}
}

func (b *BollingerBands) Name() string {
	return fmt.Sprintf("BollingerBands_%d_%.1f", b.window, b.stdDevMul)
}

func (b *BollingerBands) Period() int {
	return b.window
}

func (b *BollingerBands) Calculate(candles []models.Candle) (map[string][]float64, error) {
	if b.window <= 1 || b.stdDevMul <= 0 {
		return nil, ErrInvalidPeriod
	}
	if len(candles) < b.window {
		return nil, ErrInsufficientData
	}

	n := len(candles)
	tp := make([]float64, n)
	for i := 0; i < n; i++ {
		tp[i] = typicalPrice(candles[i])
	}
	closes := closePrices(candles)

	middle := nanSlice(n)
	upper := nanSlice(n)
	lower := nanSlice(n)
	width := nanSlice(n)
	percentB := nanSlice(n)

	for i := b.window - 1; i < n; i++ {
		slice := tp[i-b.window+1 : i+1]
		sma := mean(slice)
		sd := stdDev(slice)

		middle[i] = sma
		upper[i] = sma + b.stdDevMul*sd
		lower[i] = sma - b.stdDevMul*sd

		if middle[i] != 0 {
			width[i] = (upper[i] - lower[i]) / middle[i]
		}

		bandWidth := upper[i] - lower[i]
		if bandWidth != 0 {
			percentB[i] = (closes[i] - lower[i]) / bandWidth
		}
	}

	return map[string][]float64{
		"lower":     lower,
		"middle":    middle,
		"upper":     upper,
		"percent_b": percentB,
		"width":     width,
	}, nil
}

// ATR calculates the Average True Range. Kept as a building block for range
// analysis alongside the Hawkeye oscillator.
type ATR struct {
	period int
}

// NewATR creates a new ATR indicator.
func NewATR(period int) *ATR {
	return &ATR{period: period}
}

func (a *ATR) Name() string {
	return fmt.Sprintf("ATR_%d", a.period)
}

func (a *ATR) Period() int {
	return a.period
}

func (a *ATR) Calculate(candles []models.Candle) ([]float64, error) {
	if a.period <= 0 {
		return nil, ErrInvalidPeriod
	}
	if len(candles) < a.period+1 {
		return nil, ErrInsufficientData
	}

	n := len(candles)
	result := nanSlice(n)
	tr := make([]float64, n)

	tr[0] = candles[0].High - candles[0].Low
	for i := 1; i < n; i++ {
		tr[i] = trueRange(candles[i], candles[i-1])
	}

	// First ATR is SMA of TR, then Wilder smoothing
	result[a.period-1] = mean(tr[:a.period])
	for i := a.period; i < n; i++ {
		result[i] = (result[i-1]*float64(a.period-1) + tr[i]) / float64(a.period)
	}

	return result, nil
}

// IsWarm reports whether a series value is usable (finite, past warmup).
func IsWarm(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
