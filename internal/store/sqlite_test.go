package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"candlegraph/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func storeCandles(n int) []models.Candle {
	base := time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC)
	candles := make([]models.Candle, n)
	for i := range candles {
		candles[i] = models.Candle{
			Timestamp: base.Add(time.Duration(i) * time.Hour),
			Open:      100 + float64(i),
			High:      101 + float64(i),
			Low:       99 + float64(i),
			Close:     100.5 + float64(i),
			Volume:    1000 + int64(i),
		}
	}
	return candles
}

func TestSaveAndGetCandles(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	candles := storeCandles(5)

	if err := s.SaveCandles(ctx, "BTCUSDT", models.Timeframe1h, candles); err != nil {
		t.Fatalf("SaveCandles: %v", err)
	}

	got, err := s.GetCandles(ctx, "BTCUSDT", models.Timeframe1h,
		candles[0].Timestamp, candles[len(candles)-1].Timestamp)
	if err != nil {
		t.Fatalf("GetCandles: %v", err)
	}

	if len(got) != len(candles) {
		t.Fatalf("got %d candles, want %d", len(got), len(candles))
	}
	for i := range got {
		if !got[i].Timestamp.Equal(candles[i].Timestamp) {
			t.Errorf("candle %d timestamp %v, want %v", i, got[i].Timestamp, candles[i].Timestamp)
		}
		if got[i].Close != candles[i].Close {
			t.Errorf("candle %d close %v, want %v", i, got[i].Close, candles[i].Close)
		}
	}
}

func TestSaveCandlesReplacesDuplicates(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	candles := storeCandles(3)

	if err := s.SaveCandles(ctx, "BTCUSDT", models.Timeframe1h, candles); err != nil {
		t.Fatalf("SaveCandles: %v", err)
	}

	candles[1].Close = 999
	if err := s.SaveCandles(ctx, "BTCUSDT", models.Timeframe1h, candles); err != nil {
		t.Fatalf("SaveCandles: %v", err)
	}

	got, err := s.GetCandles(ctx, "BTCUSDT", models.Timeframe1h,
		candles[0].Timestamp, candles[2].Timestamp)
	if err != nil {
		t.Fatalf("GetCandles: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d candles, want 3 after replace", len(got))
	}
	if got[1].Close != 999 {
		t.Errorf("Close = %v, want replaced value 999", got[1].Close)
	}
}

func TestGetCandlesScopedByTimeframe(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	candles := storeCandles(3)

	if err := s.SaveCandles(ctx, "BTCUSDT", models.Timeframe1h, candles); err != nil {
		t.Fatalf("SaveCandles: %v", err)
	}

	got, err := s.GetCandles(ctx, "BTCUSDT", models.Timeframe4h,
		candles[0].Timestamp, candles[2].Timestamp)
	if err != nil {
		t.Fatalf("GetCandles: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d candles for a different timeframe, want 0", len(got))
	}
}

func TestGetCandlesFreshness(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	ts, err := s.GetCandlesFreshness(ctx, "BTCUSDT", models.Timeframe1h)
	if err != nil {
		t.Fatalf("GetCandlesFreshness: %v", err)
	}
	if !ts.IsZero() {
		t.Errorf("freshness = %v, want zero for empty store", ts)
	}

	candles := storeCandles(3)
	if err := s.SaveCandles(ctx, "BTCUSDT", models.Timeframe1h, candles); err != nil {
		t.Fatalf("SaveCandles: %v", err)
	}

	ts, err = s.GetCandlesFreshness(ctx, "BTCUSDT", models.Timeframe1h)
	if err != nil {
		t.Fatalf("GetCandlesFreshness: %v", err)
	}
	if !ts.Equal(candles[2].Timestamp) {
		t.Errorf("freshness = %v, want %v", ts, candles[2].Timestamp)
	}
}

func TestSaveAndGetRuns(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	run := &models.AnalysisRun{
		Symbol:      "BTCUSDT",
		Timeframe:   models.Timeframe1h,
		Rows:        744,
		EnterLongs:  3,
		EnterShorts: 2,
		ExitLongs:   5,
		ExitShorts:  4,
		ChartPath:   "/tmp/BTCUSDT-1h-candlestick.html",
		CreatedAt:   time.Date(2024, 9, 1, 12, 0, 0, 0, time.UTC),
	}

	id, err := s.SaveRun(ctx, run)
	if err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	if id == 0 || run.ID != id {
		t.Errorf("id = %d, run.ID = %d", id, run.ID)
	}

	runs, err := s.GetRuns(ctx, RunFilter{Symbol: "BTCUSDT"})
	if err != nil {
		t.Fatalf("GetRuns: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("got %d runs, want 1", len(runs))
	}
	if runs[0].Rows != 744 || runs[0].EnterLongs != 3 || runs[0].ChartPath != run.ChartPath {
		t.Errorf("run = %+v", runs[0])
	}
	if runs[0].Timeframe != models.Timeframe1h {
		t.Errorf("Timeframe = %q, want 1h", runs[0].Timeframe)
	}
}

func TestGetRunsFilterAndLimit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		run := &models.AnalysisRun{
			Symbol:    "BTCUSDT",
			Timeframe: models.Timeframe1h,
			Rows:      100 + i,
			CreatedAt: time.Date(2024, 9, 1, i, 0, 0, 0, time.UTC),
		}
		if _, err := s.SaveRun(ctx, run); err != nil {
			t.Fatalf("SaveRun: %v", err)
		}
	}
	other := &models.AnalysisRun{Symbol: "ETHUSDT", Timeframe: models.Timeframe1h, Rows: 50}
	if _, err := s.SaveRun(ctx, other); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	runs, err := s.GetRuns(ctx, RunFilter{Symbol: "BTCUSDT", Limit: 2})
	if err != nil {
		t.Fatalf("GetRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("got %d runs, want 2", len(runs))
	}
	// Newest first
	if runs[0].Rows != 102 {
		t.Errorf("first run Rows = %d, want 102", runs[0].Rows)
	}
}

func TestSaveAndGetSignals(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	run := &models.AnalysisRun{Symbol: "BTCUSDT", Timeframe: models.Timeframe1h, Rows: 100}
	runID, err := s.SaveRun(ctx, run)
	if err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	signals := []models.Signal{
		{Side: models.SignalEnterLong, Index: 10, Timestamp: time.Date(2024, 8, 1, 10, 0, 0, 0, time.UTC), Price: 101.5},
		{Side: models.SignalExitLong, Index: 25, Timestamp: time.Date(2024, 8, 2, 1, 0, 0, 0, time.UTC), Price: 105.2, Tag: "Exit Long - SAR"},
	}
	if err := s.SaveSignals(ctx, runID, signals); err != nil {
		t.Fatalf("SaveSignals: %v", err)
	}

	got, err := s.GetSignals(ctx, runID)
	if err != nil {
		t.Fatalf("GetSignals: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d signals, want 2", len(got))
	}
	if got[0].Side != models.SignalEnterLong || got[0].Index != 10 {
		t.Errorf("signals[0] = %+v", got[0])
	}
	if got[1].Tag != "Exit Long - SAR" {
		t.Errorf("Tag = %q, want exit tag", got[1].Tag)
	}
}
