package patterns

import (
	talibcdl "github.com/iwat/talib-cdl-go"

	"candlegraph/internal/models"
)

// starPenetration is the body penetration factor for star patterns.
const starPenetration = 0.3

// toSeries converts candles to the talib-cdl-go series format.
// Candles must be in time order, oldest first.
func toSeries(candles []models.Candle) talibcdl.SimpleSeries {
	n := len(candles)
	series := talibcdl.SimpleSeries{
		Opens:  make([]float64, n),
		Highs:  make([]float64, n),
		Lows:   make([]float64, n),
		Closes: make([]float64, n),
	}
	for i, c := range candles {
		series.Opens[i] = c.Open
		series.Highs[i] = c.High
		series.Lows[i] = c.Low
		series.Closes[i] = c.Close
	}
	return series
}

// libraryScan runs the library-backed pattern detectors over the whole series.
func libraryScan(candles []models.Candle) []Pattern {
	if len(candles) < 3 {
		return nil
	}

	series := toSeries(candles)
	var found []Pattern

	// DojiStar carries the direction in its sign
	for i, r := range talibcdl.DojiStar(series) {
		if r == 0 {
			continue
		}
		dir := DirectionBearish
		if r > 0 {
			dir = DirectionBullish
		}
		found = append(found, Pattern{
			Type:      PatternDojiStar,
			Direction: dir,
			Index:     i,
			Strength:  float64(absInt(r)) / 100,
		})
	}

	for i, r := range talibcdl.EveningStar(series, starPenetration) {
		if r == 0 {
			continue
		}
		found = append(found, Pattern{
			Type:      PatternEveningStar,
			Direction: DirectionBearish,
			Index:     i,
			Strength:  float64(absInt(r)) / 100,
		})
	}

	for i, r := range talibcdl.AdvanceBlock(series) {
		if r == 0 {
			continue
		}
		found = append(found, Pattern{
			Type:      PatternAdvanceBlock,
			Direction: DirectionBearish,
			Index:     i,
			Strength:  float64(absInt(r)) / 100,
		})
	}

	for i, r := range talibcdl.ThreeWhiteSoldiers(series) {
		if r == 0 {
			continue
		}
		found = append(found, Pattern{
			Type:      PatternThreeWhiteSoldiers,
			Direction: DirectionBullish,
			Index:     i,
			Strength:  float64(absInt(r)) / 100,
		})
	}

	for i, r := range talibcdl.ThreeBlackCrows(series) {
		if r == 0 {
			continue
		}
		found = append(found, Pattern{
			Type:      PatternThreeBlackCrows,
			Direction: DirectionBearish,
			Index:     i,
			Strength:  float64(absInt(r)) / 100,
		})
	}

	return found
}

// absInt returns the absolute value of an integer.
func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
