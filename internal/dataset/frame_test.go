package dataset

import (
	"math"
	"testing"
	"time"

	"candlegraph/internal/models"
)

func hourlyCandles(n int) []models.Candle {
	base := time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC)
	candles := make([]models.Candle, n)
	for i := range candles {
		candles[i] = models.Candle{
			Timestamp: base.Add(time.Duration(i) * time.Hour),
			Open:      100,
			High:      101,
			Low:       99,
			Close:     100.5,
			Volume:    1000,
		}
	}
	return candles
}

func TestAddColumnLengthMismatch(t *testing.T) {
	frame := NewFrame(hourlyCandles(5))

	if err := frame.AddColumn("rsi", make([]float64, 3)); err == nil {
		t.Error("expected error for mismatched column length")
	}
	if err := frame.AddFlags("enter_long", make([]bool, 3)); err == nil {
		t.Error("expected error for mismatched flag length")
	}
	if err := frame.AddTags("exit_tag", make([]string, 3)); err == nil {
		t.Error("expected error for mismatched tag length")
	}
}

func TestColumnNamesKeepOrder(t *testing.T) {
	frame := NewFrame(hourlyCandles(2))

	_ = frame.AddColumn("rsi", make([]float64, 2))
	_ = frame.AddFlags("enter_long", make([]bool, 2))
	_ = frame.AddColumn("adx", make([]float64, 2))

	names := frame.ColumnNames()
	want := []string{"rsi", "enter_long", "adx"}
	if len(names) != len(want) {
		t.Fatalf("ColumnNames = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("ColumnNames[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestForwardFill(t *testing.T) {
	frame := NewFrame(hourlyCandles(5))
	nan := math.NaN()
	_ = frame.AddColumn("pivot_highs", []float64{nan, 105, nan, nan, 110})

	frame.ForwardFill("pivot_highs")

	col, _ := frame.Column("pivot_highs")
	if !math.IsNaN(col[0]) {
		t.Errorf("col[0] = %v, leading NaN should stay", col[0])
	}
	for i, want := range []float64{105, 105, 105, 110} {
		if col[i+1] != want {
			t.Errorf("col[%d] = %v, want %v", i+1, col[i+1], want)
		}
	}
}

func TestSlice(t *testing.T) {
	frame := NewFrame(hourlyCandles(24))
	base := time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC)

	sliced := frame.Slice(base.Add(10*time.Hour), base.Add(15*time.Hour), 0)
	if sliced.Len() != 6 {
		t.Errorf("Len = %d, want 6", sliced.Len())
	}
	if !sliced.Candles[0].Timestamp.Equal(base.Add(10 * time.Hour)) {
		t.Errorf("first row at %v", sliced.Candles[0].Timestamp)
	}
}

func TestSliceWithWarmup(t *testing.T) {
	frame := NewFrame(hourlyCandles(24))
	base := time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC)

	sliced := frame.Slice(base.Add(10*time.Hour), time.Time{}, 5)
	if sliced.Len() != 19 {
		t.Errorf("Len = %d, want 19 (14 rows plus 5 warmup)", sliced.Len())
	}

	// Warmup cannot reach before the first row
	sliced = frame.Slice(base.Add(2*time.Hour), time.Time{}, 10)
	if sliced.Len() != 24 {
		t.Errorf("Len = %d, want 24", sliced.Len())
	}
}

func TestSliceOpenBounds(t *testing.T) {
	frame := NewFrame(hourlyCandles(24))

	if got := frame.Slice(time.Time{}, time.Time{}, 0).Len(); got != 24 {
		t.Errorf("open slice Len = %d, want 24", got)
	}
}

func TestSignals(t *testing.T) {
	frame := NewFrame(hourlyCandles(4))

	enterLong := []bool{false, true, false, false}
	exitLong := []bool{false, false, false, true}
	tags := []string{"", "", "", "Exit Long - SAR"}

	_ = frame.AddFlags(string(models.SignalEnterLong), enterLong)
	_ = frame.AddFlags(string(models.SignalExitLong), exitLong)
	_ = frame.AddTags("exit_tag", tags)

	signals := frame.Signals()
	if len(signals) != 2 {
		t.Fatalf("got %d signals, want 2", len(signals))
	}

	if signals[0].Side != models.SignalEnterLong || signals[0].Index != 1 {
		t.Errorf("signals[0] = %+v", signals[0])
	}
	if signals[0].Tag != "" {
		t.Errorf("entry signal should carry no tag, got %q", signals[0].Tag)
	}

	if signals[1].Side != models.SignalExitLong || signals[1].Index != 3 {
		t.Errorf("signals[1] = %+v", signals[1])
	}
	if signals[1].Tag != "Exit Long - SAR" {
		t.Errorf("Tag = %q, want exit tag", signals[1].Tag)
	}
}
