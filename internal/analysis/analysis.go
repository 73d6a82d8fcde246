// Package analysis provides the indicator, pattern, and signal stages that
// populate a frame before rendering.
package analysis

import (
	"math"

	"candlegraph/internal/analysis/indicators"
	"candlegraph/internal/analysis/patterns"
	"candlegraph/internal/dataset"
)

// Column names appended to the frame, in derivation order. Indicator columns
// depend only on OHLCV, signal columns only on indicator columns.
const (
	ColRSI        = "rsi"
	ColADX        = "adx"
	ColPlusDI     = "plus_di"
	ColMinusDI    = "minus_di"
	ColSAR        = "sar"
	ColVolumeAvg  = "volume_avg"
	ColPivotHighs = "pivot_highs"
	ColPivotLows  = "pivot_lows"
	ColEMA34      = "ema34"
	ColEMA89      = "ema89"
	ColEMA200     = "ema200"
	ColBBLower    = "bb_lowerband"
	ColBBMiddle   = "bb_middleband"
	ColBBUpper    = "bb_upperband"
	ColBBPercent  = "bb_percent"
	ColBBWidth    = "bb_width"

	ColBullishCandle = "bullish_candle"
	ColBearishCandle = "bearish_candle"
	ColVolumeColor   = "volume_color"

	ColEnterLong  = "enter_long"
	ColEnterShort = "enter_short"
	ColExitLong   = "exit_long"
	ColExitShort  = "exit_short"
	ColExitTag    = "exit_tag"
)

// Indicator and MultiValueIndicator are re-exported so pipeline callers do
// not need to import the indicators package directly.
type (
	Indicator           = indicators.Indicator
	MultiValueIndicator = indicators.MultiValueIndicator
)

// Pattern and PatternDirection are re-exported for pipeline callers.
type (
	Pattern          = patterns.Pattern
	PatternDirection = patterns.Direction
)

// FrameStage is one step of the pipeline: it appends columns to the frame.
type FrameStage interface {
	Name() string
	Apply(frame *dataset.Frame) error
}

// nanColumn returns a column of NaN values for overlays that never warmed up.
func nanColumn(n int) []float64 {
	col := make([]float64, n)
	for i := range col {
		col[i] = math.NaN()
	}
	return col
}
