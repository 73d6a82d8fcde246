package patterns

import (
	"sort"

	"candlegraph/internal/models"
)

// ScannerConfig holds configuration for the pattern scanner.
type ScannerConfig struct {
	MinStrength float64 // patterns below this strength are dropped
}

// DefaultScannerConfig returns the default scanner configuration.
func DefaultScannerConfig() ScannerConfig {
	return ScannerConfig{MinStrength: 0.6}
}

// Scanner detects candlestick patterns across a candle series.
type Scanner struct {
	config ScannerConfig
}

// NewScanner creates a new pattern scanner.
func NewScanner(config ScannerConfig) *Scanner {
	return &Scanner{config: config}
}

// Scan returns every detected pattern, ordered by bar index.
// Candles must be in time order, oldest first.
func (s *Scanner) Scan(candles []models.Candle) []Pattern {
	if len(candles) < 2 {
		return nil
	}

	found := append(libraryScan(candles), customScan(candles)...)

	filtered := found[:0]
	for _, p := range found {
		if p.Strength >= s.config.MinStrength {
			filtered = append(filtered, p)
		}
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Index < filtered[j].Index
	})
	return filtered
}

// Flags reduces the detected patterns to per-bar bullish and bearish flags.
// A bar carrying both a bullish and a bearish pattern raises both flags.
func (s *Scanner) Flags(candles []models.Candle) (bullish, bearish []bool) {
	bullish = make([]bool, len(candles))
	bearish = make([]bool, len(candles))

	for _, p := range s.Scan(candles) {
		if contextPatterns[p.Type] {
			continue
		}
		switch p.Direction {
		case DirectionBullish:
			bullish[p.Index] = true
		case DirectionBearish:
			bearish[p.Index] = true
		}
	}
	return bullish, bearish
}
