package signals

import (
	"math"
	"testing"
	"time"

	"candlegraph/internal/models"
)

func testCandle(open, high, low, close float64, volume int64) models.Candle {
	return models.Candle{
		Timestamp: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Open:      open,
		High:      high,
		Low:       low,
		Close:     close,
		Volume:    volume,
	}
}

func nanSeries(n int) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = math.NaN()
	}
	return s
}

func emptyInputs(candles []models.Candle) Inputs {
	n := len(candles)
	return Inputs{
		Candles:    candles,
		RSI:        nanSeries(n),
		ADX:        nanSeries(n),
		SAR:        nanSeries(n),
		PivotHighs: nanSeries(n),
		PivotLows:  nanSeries(n),
		Bullish:    make([]bool, n),
		Bearish:    make([]bool, n),
	}
}

func TestEnterLong(t *testing.T) {
	candles := []models.Candle{
		testCandle(100, 101, 99, 100.5, 1000),
		testCandle(99.5, 100, 97.5, 99.8, 1000),
	}

	in := emptyInputs(candles)
	in.PivotLows = []float64{98, 98}
	in.ADX = []float64{30, 30}
	in.RSI = []float64{35, 35}
	in.Bullish[1] = true

	result, err := DefaultRules().Evaluate(in)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}

	if result.EnterLong[0] {
		t.Error("bar 0 breaks no pivot, should not enter")
	}
	if !result.EnterLong[1] {
		t.Error("bar 1 sweeps the pivot low with a bullish candle, should enter")
	}
	if result.EnterShort[1] {
		t.Error("unexpected short entry on bar 1")
	}
}

func TestEnterShort(t *testing.T) {
	candles := []models.Candle{
		testCandle(100, 101, 99, 100.5, 1000),
		testCandle(101.5, 103, 101, 101.2, 1000),
	}

	in := emptyInputs(candles)
	in.PivotHighs = []float64{102, 102}
	in.ADX = []float64{30, 30}
	in.RSI = []float64{65, 65}
	in.Bearish[1] = true

	result, err := DefaultRules().Evaluate(in)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}

	if !result.EnterShort[1] {
		t.Error("bar 1 sweeps the pivot high with a bearish candle, should enter short")
	}
}

func TestEntryThresholds(t *testing.T) {
	candles := []models.Candle{
		testCandle(100, 101, 99, 100.5, 1000),
		testCandle(99.5, 100, 97.5, 99.8, 1000),
	}

	base := emptyInputs(candles)
	base.PivotLows = []float64{98, 98}
	base.Bullish[1] = true

	tests := []struct {
		name string
		adx  float64
		rsi  float64
		want bool
	}{
		{"adx and rsi pass", 30, 35, true},
		{"rsi exactly at long bound", 30, 40, true},
		{"adx too weak", 25, 35, false},
		{"rsi too strong", 30, 41, false},
		{"rsi not warm", 30, math.NaN(), false},
		{"adx not warm", math.NaN(), 35, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := base
			in.ADX = []float64{tt.adx, tt.adx}
			in.RSI = []float64{tt.rsi, tt.rsi}

			result, err := DefaultRules().Evaluate(in)
			if err != nil {
				t.Fatalf("Evaluate: %v", err)
			}
			if result.EnterLong[1] != tt.want {
				t.Errorf("EnterLong[1] = %v, want %v", result.EnterLong[1], tt.want)
			}
		})
	}
}

func TestExitLongOnSARCross(t *testing.T) {
	candles := []models.Candle{
		testCandle(100, 101, 99, 100.5, 1000),
		testCandle(97, 97.5, 96, 96.5, 1000),
	}

	in := emptyInputs(candles)
	// Price sat above the stop, then the whole bar fell below it
	in.SAR = []float64{98, 98.5}

	result, err := DefaultRules().Evaluate(in)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}

	if !result.ExitLong[1] {
		t.Error("expected long exit when the bar falls through the stop")
	}
	if result.ExitTags[1] != TagExitLongSAR {
		t.Errorf("ExitTags[1] = %q, want %q", result.ExitTags[1], TagExitLongSAR)
	}
}

func TestExitShortOnSARCross(t *testing.T) {
	candles := []models.Candle{
		testCandle(100, 101, 99, 100.5, 1000),
		testCandle(103, 104, 102.5, 103.5, 1000),
	}

	in := emptyInputs(candles)
	// Price sat below the stop, then the whole bar rose above it
	in.SAR = []float64{102, 102.2}

	result, err := DefaultRules().Evaluate(in)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}

	if !result.ExitShort[1] {
		t.Error("expected short exit when the bar rises through the stop")
	}
	if result.ExitTags[1] != TagExitShortSAR {
		t.Errorf("ExitTags[1] = %q, want %q", result.ExitTags[1], TagExitShortSAR)
	}
}

func TestExitRequiresVolume(t *testing.T) {
	candles := []models.Candle{
		testCandle(100, 101, 99, 100.5, 1000),
		testCandle(97, 97.5, 96, 96.5, 0),
	}

	in := emptyInputs(candles)
	in.SAR = []float64{98, 98.5}

	result, err := DefaultRules().Evaluate(in)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}

	if result.ExitLong[1] {
		t.Error("zero volume bars should not trigger exits")
	}
}

func TestExitNeverFiresOnFirstBar(t *testing.T) {
	candles := []models.Candle{
		testCandle(97, 97.5, 96, 96.5, 1000),
	}

	in := emptyInputs(candles)
	in.SAR = []float64{98}

	result, err := DefaultRules().Evaluate(in)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}

	if result.ExitLong[0] || result.ExitShort[0] {
		t.Error("exits need a prior bar")
	}
}

func TestInputLengthMismatch(t *testing.T) {
	candles := []models.Candle{testCandle(100, 101, 99, 100.5, 1000)}
	in := emptyInputs(candles)
	in.RSI = nanSeries(2)

	if _, err := DefaultRules().Evaluate(in); err == nil {
		t.Error("expected validation error for mismatched series length")
	}
}

func TestEmptyInputs(t *testing.T) {
	if _, err := DefaultRules().Evaluate(Inputs{}); err == nil {
		t.Error("expected error for empty inputs")
	}
}
