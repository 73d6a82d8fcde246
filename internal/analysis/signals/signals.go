// Package signals evaluates entry and exit rules over indicator series.
package signals

import (
	"candlegraph/internal/errors"
	"candlegraph/internal/models"
)

// Exit tags attached to the bars where a stop rule fired.
const (
	TagExitLongSAR  = "Exit Long - SAR"
	TagExitShortSAR = "Exit Short - SAR"
)

// Rules holds the thresholds for the entry rules.
type Rules struct {
	ADXThreshold  float64 // minimum trend strength for entries
	RSIShortEntry float64 // RSI must exceed this for short entries
	RSILongEntry  float64 // RSI must not exceed this for long entries
}

// DefaultRules returns the default rule thresholds.
func DefaultRules() Rules {
	return Rules{
		ADXThreshold:  25,
		RSIShortEntry: 60,
		RSILongEntry:  40,
	}
}

// Inputs carries the per-bar series the rules read. All slices must have the
// same length as Candles. Unwarmed indicator rows are NaN, which makes every
// comparison against them false.
type Inputs struct {
	Candles    []models.Candle
	RSI        []float64
	ADX        []float64
	SAR        []float64
	PivotHighs []float64
	PivotLows  []float64
	Bullish    []bool
	Bearish    []bool
}

// Result holds the per-bar rule outcomes. ExitTags is empty on bars where no
// exit fired; when both exits fire on one bar the short exit tag wins.
type Result struct {
	EnterLong  []bool
	EnterShort []bool
	ExitLong   []bool
	ExitShort  []bool
	ExitTags   []string
}

func (in Inputs) validate() error {
	n := len(in.Candles)
	if n == 0 {
		return errors.ErrEmptyDataset
	}
	series := map[string]int{
		"rsi":         len(in.RSI),
		"adx":         len(in.ADX),
		"sar":         len(in.SAR),
		"pivot_highs": len(in.PivotHighs),
		"pivot_lows":  len(in.PivotLows),
		"bullish":     len(in.Bullish),
		"bearish":     len(in.Bearish),
	}
	for name, length := range series {
		if length != n {
			return errors.NewValidationError(name, length, "series length does not match candle count")
		}
	}
	return nil
}

// Evaluate applies the entry and exit rules bar by bar.
//
// Entries require a pivot level break with a confirming candlestick pattern
// and trend and momentum filters. Exits fire when the bar range crosses to
// the wrong side of the SAR stop after sitting cleanly on the right side of
// it the bar before.
func (r Rules) Evaluate(in Inputs) (*Result, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	n := len(in.Candles)
	result := &Result{
		EnterLong:  make([]bool, n),
		EnterShort: make([]bool, n),
		ExitLong:   make([]bool, n),
		ExitShort:  make([]bool, n),
		ExitTags:   make([]string, n),
	}

	for i := 0; i < n; i++ {
		c := in.Candles[i]

		result.EnterShort[i] = c.High > in.PivotHighs[i] &&
			in.Bearish[i] &&
			c.Open < in.PivotHighs[i] &&
			in.ADX[i] > r.ADXThreshold &&
			in.RSI[i] > r.RSIShortEntry

		result.EnterLong[i] = c.Low < in.PivotLows[i] &&
			in.Bullish[i] &&
			c.Open > in.PivotLows[i] &&
			in.ADX[i] > r.ADXThreshold &&
			in.RSI[i] <= r.RSILongEntry

		if i == 0 {
			continue
		}
		prev := in.Candles[i-1]

		if c.High <= in.SAR[i] && prev.Low > in.SAR[i-1] && c.Volume > 0 {
			result.ExitLong[i] = true
			result.ExitTags[i] = TagExitLongSAR
		}
		if c.Low >= in.SAR[i] && prev.High < in.SAR[i-1] && c.Volume > 0 {
			result.ExitShort[i] = true
			result.ExitTags[i] = TagExitShortSAR
		}
	}

	return result, nil
}
