// Package models provides domain models for the charting pipeline.
package models

import (
	"time"
)

// Timeframe represents the interval of a candle series.
type Timeframe string

const (
	Timeframe1m  Timeframe = "1m"
	Timeframe5m  Timeframe = "5m"
	Timeframe15m Timeframe = "15m"
	Timeframe1h  Timeframe = "1h"
	Timeframe4h  Timeframe = "4h"
	Timeframe1d  Timeframe = "1d"
)

// Duration returns the candle interval as a time.Duration.
// Unknown timeframes default to one hour.
func (t Timeframe) Duration() time.Duration {
	switch t {
	case Timeframe1m:
		return time.Minute
	case Timeframe5m:
		return 5 * time.Minute
	case Timeframe15m:
		return 15 * time.Minute
	case Timeframe1h:
		return time.Hour
	case Timeframe4h:
		return 4 * time.Hour
	case Timeframe1d:
		return 24 * time.Hour
	default:
		return time.Hour
	}
}

// Candle represents OHLCV data for a time period.
type Candle struct {
	Timestamp time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    int64
}

// IsBullish reports whether the candle closed above its open.
func (c Candle) IsBullish() bool {
	return c.Close > c.Open
}

// IsBearish reports whether the candle closed below its open.
func (c Candle) IsBearish() bool {
	return c.Close < c.Open
}

// Body returns the absolute body size of the candle.
func (c Candle) Body() float64 {
	if c.Close > c.Open {
		return c.Close - c.Open
	}
	return c.Open - c.Close
}

// Range returns the high-low range of the candle.
func (c Candle) Range() float64 {
	return c.High - c.Low
}

// Mid returns the midpoint of the candle range.
func (c Candle) Mid() float64 {
	return (c.High + c.Low) / 2
}

// UpperShadow returns the distance from the body top to the high.
func (c Candle) UpperShadow() float64 {
	if c.Close > c.Open {
		return c.High - c.Close
	}
	return c.High - c.Open
}

// LowerShadow returns the distance from the body bottom to the low.
func (c Candle) LowerShadow() float64 {
	if c.Close > c.Open {
		return c.Open - c.Low
	}
	return c.Close - c.Low
}

// SignalSide identifies the side of a trade signal.
type SignalSide string

const (
	SignalEnterLong  SignalSide = "enter_long"
	SignalEnterShort SignalSide = "enter_short"
	SignalExitLong   SignalSide = "exit_long"
	SignalExitShort  SignalSide = "exit_short"
)

// Signal represents a single triggered entry or exit condition.
type Signal struct {
	Side      SignalSide
	Index     int
	Timestamp time.Time
	Price     float64
	Tag       string
}

// AnalysisRun summarizes one pipeline invocation for the local cache.
type AnalysisRun struct {
	ID          int64
	Symbol      string
	Timeframe   Timeframe
	Rows        int
	EnterLongs  int
	EnterShorts int
	ExitLongs   int
	ExitShorts  int
	ChartPath   string
	CreatedAt   time.Time
}
