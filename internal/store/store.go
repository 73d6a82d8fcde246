// Package store provides local persistence for candles and analysis runs.
package store

import (
	"context"
	"time"

	"candlegraph/internal/models"
)

// DataStore defines the interface for the local cache.
type DataStore interface {
	// Candles
	SaveCandles(ctx context.Context, symbol string, timeframe models.Timeframe, candles []models.Candle) error
	GetCandles(ctx context.Context, symbol string, timeframe models.Timeframe, from, to time.Time) ([]models.Candle, error)
	GetCandlesFreshness(ctx context.Context, symbol string, timeframe models.Timeframe) (time.Time, error)

	// Analysis runs
	SaveRun(ctx context.Context, run *models.AnalysisRun) (int64, error)
	GetRuns(ctx context.Context, filter RunFilter) ([]models.AnalysisRun, error)

	// Signals per run
	SaveSignals(ctx context.Context, runID int64, signals []models.Signal) error
	GetSignals(ctx context.Context, runID int64) ([]models.Signal, error)

	// Lifecycle
	Close() error
}

// RunFilter represents filters for querying analysis runs.
type RunFilter struct {
	Symbol    string
	Timeframe models.Timeframe
	Limit     int
}
