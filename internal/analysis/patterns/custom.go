package patterns

import (
	"math"

	"candlegraph/internal/models"
)

// Custom detectors cover the patterns the library does not implement. Each
// detector examines the bar at index i and reports whether the pattern
// completed there.

// isDowntrend checks if the candles show a downtrend.
// Condition: closing prices decreasing OR at least 2/3 bearish.
func isDowntrend(candles []models.Candle) bool {
	if len(candles) < 2 {
		return false
	}

	decreasing := true
	for i := 1; i < len(candles); i++ {
		if candles[i].Close >= candles[i-1].Close {
			decreasing = false
			break
		}
	}
	if decreasing {
		return true
	}

	bearishCount := 0
	for _, c := range candles {
		if c.IsBearish() {
			bearishCount++
		}
	}
	return bearishCount >= (len(candles)*2)/3
}

// isUptrend checks if the candles show an uptrend.
func isUptrend(candles []models.Candle) bool {
	if len(candles) < 2 {
		return false
	}

	increasing := true
	for i := 1; i < len(candles); i++ {
		if candles[i].Close <= candles[i-1].Close {
			increasing = false
			break
		}
	}
	if increasing {
		return true
	}

	bullishCount := 0
	for _, c := range candles {
		if c.IsBullish() {
			bullishCount++
		}
	}
	return bullishCount >= (len(candles)*2)/3
}

// isDoji checks if a candle has a very small body relative to its range.
// Zero-range candles are excluded to avoid false positives in thin data.
func isDoji(c models.Candle) bool {
	if c.Range() == 0 {
		return false
	}
	return c.Body()/c.Range() < 0.1
}

// isLongBody checks that the body dominates the range.
func isLongBody(c models.Candle) bool {
	return c.Range() > 0 && c.Body() >= c.Range()*0.6
}

// hammerShape checks for a long lower shadow with a small upper shadow.
func hammerShape(c models.Candle) (bool, float64) {
	body := c.Body()
	if body == 0 || c.Range() == 0 {
		return false, 0
	}
	if c.LowerShadow() < body*2 {
		return false, 0
	}
	if c.UpperShadow() > body*0.3 {
		return false, 0
	}
	strength := 0.7
	if c.LowerShadow() >= body*3 {
		strength = 0.85
	}
	return true, strength
}

// invertedHammerShape is the mirror of hammerShape.
func invertedHammerShape(c models.Candle) (bool, float64) {
	body := c.Body()
	if body == 0 || c.Range() == 0 {
		return false, 0
	}
	if c.UpperShadow() < body*2 {
		return false, 0
	}
	if c.LowerShadow() > body*0.3 {
		return false, 0
	}
	strength := 0.7
	if c.UpperShadow() >= body*3 {
		strength = 0.85
	}
	return true, strength
}

func detectHammer(candles []models.Candle, i int) (Pattern, bool) {
	if i < 3 {
		return Pattern{}, false
	}
	ok, strength := hammerShape(candles[i])
	if !ok || !isDowntrend(candles[i-3:i]) {
		return Pattern{}, false
	}
	return Pattern{Type: PatternHammer, Direction: DirectionBullish, Index: i, Strength: strength}, true
}

func detectInvertedHammer(candles []models.Candle, i int) (Pattern, bool) {
	if i < 3 {
		return Pattern{}, false
	}
	ok, strength := invertedHammerShape(candles[i])
	if !ok || !isDowntrend(candles[i-3:i]) {
		return Pattern{}, false
	}
	return Pattern{Type: PatternInvertedHammer, Direction: DirectionBullish, Index: i, Strength: strength}, true
}

func detectHangingMan(candles []models.Candle, i int) (Pattern, bool) {
	if i < 3 {
		return Pattern{}, false
	}
	ok, strength := hammerShape(candles[i])
	if !ok || !isUptrend(candles[i-3:i]) {
		return Pattern{}, false
	}
	return Pattern{Type: PatternHangingMan, Direction: DirectionBearish, Index: i, Strength: strength}, true
}

func detectShootingStar(candles []models.Candle, i int) (Pattern, bool) {
	if i < 3 {
		return Pattern{}, false
	}
	ok, strength := invertedHammerShape(candles[i])
	if !ok || !isUptrend(candles[i-3:i]) {
		return Pattern{}, false
	}
	return Pattern{Type: PatternShootingStar, Direction: DirectionBearish, Index: i, Strength: strength}, true
}

func detectDragonflyDoji(candles []models.Candle, i int) (Pattern, bool) {
	c := candles[i]
	if !isDoji(c) {
		return Pattern{}, false
	}
	if c.LowerShadow() < c.Range()*0.6 || c.UpperShadow() > c.Range()*0.1 {
		return Pattern{}, false
	}
	return Pattern{Type: PatternDragonflyDoji, Direction: DirectionBullish, Index: i, Strength: 0.65}, true
}

func detectGravestoneDoji(candles []models.Candle, i int) (Pattern, bool) {
	c := candles[i]
	if !isDoji(c) {
		return Pattern{}, false
	}
	if c.UpperShadow() < c.Range()*0.6 || c.LowerShadow() > c.Range()*0.1 {
		return Pattern{}, false
	}
	return Pattern{Type: PatternGravestoneDoji, Direction: DirectionBearish, Index: i, Strength: 0.65}, true
}

// bodyBounds returns the top and bottom of a candle body.
func bodyBounds(c models.Candle) (float64, float64) {
	if c.Open > c.Close {
		return c.Open, c.Close
	}
	return c.Close, c.Open
}

func detectHarami(candles []models.Candle, i int) (Pattern, bool) {
	if i < 1 {
		return Pattern{}, false
	}
	prev, curr := candles[i-1], candles[i]

	if prev.Range() == 0 || prev.Body() < prev.Range()*0.5 {
		return Pattern{}, false
	}

	prevHigh, prevLow := bodyBounds(prev)
	currHigh, currLow := bodyBounds(curr)
	if currHigh > prevHigh || currLow < prevLow {
		return Pattern{}, false
	}
	if curr.Body() > prev.Body()*0.5 {
		return Pattern{}, false
	}

	dir := DirectionBearish
	if prev.IsBearish() {
		dir = DirectionBullish
	}
	return Pattern{Type: PatternHarami, Direction: dir, Index: i, Strength: 0.65}, true
}

func detectHaramiCross(candles []models.Candle, i int) (Pattern, bool) {
	if i < 1 {
		return Pattern{}, false
	}
	prev, curr := candles[i-1], candles[i]

	if prev.Range() == 0 || prev.Body() < prev.Range()*0.5 {
		return Pattern{}, false
	}
	if !isDoji(curr) {
		return Pattern{}, false
	}

	// Only the doji body must sit inside the previous body, shadows may
	// extend beyond it
	prevHigh, prevLow := bodyBounds(prev)
	currHigh, currLow := bodyBounds(curr)
	if currHigh > prevHigh || currLow < prevLow {
		return Pattern{}, false
	}

	dir := DirectionBearish
	if prev.IsBearish() {
		dir = DirectionBullish
	}
	return Pattern{Type: PatternHaramiCross, Direction: dir, Index: i, Strength: 0.7}, true
}

// starPattern checks the three-bar star shape shared by the morning and
// evening variants. bullish selects the morning form.
func starPattern(first, second, third models.Candle, bullish, dojiStar bool) bool {
	if bullish {
		if !first.IsBearish() || !isLongBody(first) {
			return false
		}
	} else {
		if !first.IsBullish() || !isLongBody(first) {
			return false
		}
	}

	if dojiStar {
		if !isDoji(second) {
			return false
		}
	} else if second.Body() > first.Body()*0.3 {
		return false
	}

	midFirst := (first.Open + first.Close) / 2
	if bullish {
		if !third.IsBullish() || !isLongBody(third) {
			return false
		}
		return third.Close >= midFirst
	}
	if !third.IsBearish() || !isLongBody(third) {
		return false
	}
	return third.Close <= midFirst
}

func detectMorningStar(candles []models.Candle, i int) (Pattern, bool) {
	if i < 2 {
		return Pattern{}, false
	}
	if !starPattern(candles[i-2], candles[i-1], candles[i], true, false) {
		return Pattern{}, false
	}
	return Pattern{Type: PatternMorningStar, Direction: DirectionBullish, Index: i, Strength: 0.8}, true
}

func detectMorningDojiStar(candles []models.Candle, i int) (Pattern, bool) {
	if i < 2 {
		return Pattern{}, false
	}
	if !starPattern(candles[i-2], candles[i-1], candles[i], true, true) {
		return Pattern{}, false
	}
	return Pattern{Type: PatternMorningDojiStar, Direction: DirectionBullish, Index: i, Strength: 0.78}, true
}

func detectEveningDojiStar(candles []models.Candle, i int) (Pattern, bool) {
	if i < 2 {
		return Pattern{}, false
	}
	if !starPattern(candles[i-2], candles[i-1], candles[i], false, true) {
		return Pattern{}, false
	}
	return Pattern{Type: PatternEveningDojiStar, Direction: DirectionBearish, Index: i, Strength: 0.78}, true
}

// detectSeparatingLines detects the two-bar continuation where opposite
// colored candles share the same open.
func detectSeparatingLines(candles []models.Candle, i int) (Pattern, bool) {
	if i < 1 {
		return Pattern{}, false
	}
	prev, curr := candles[i-1], candles[i]

	if !isLongBody(prev) || !isLongBody(curr) {
		return Pattern{}, false
	}

	tolerance := prev.Open * 0.001
	if math.Abs(curr.Open-prev.Open) > tolerance {
		return Pattern{}, false
	}

	if prev.IsBearish() && curr.IsBullish() {
		return Pattern{Type: PatternSeparatingLines, Direction: DirectionBullish, Index: i, Strength: 0.6}, true
	}
	if prev.IsBullish() && curr.IsBearish() {
		return Pattern{Type: PatternSeparatingLines, Direction: DirectionBearish, Index: i, Strength: 0.6}, true
	}
	return Pattern{}, false
}

// detectStalledPattern detects three advancing white candles where the third
// stalls with a short body riding the second candle's close.
func detectStalledPattern(candles []models.Candle, i int) (Pattern, bool) {
	if i < 2 {
		return Pattern{}, false
	}
	first, second, third := candles[i-2], candles[i-1], candles[i]

	if !first.IsBullish() || !second.IsBullish() || !third.IsBullish() {
		return Pattern{}, false
	}
	if !isLongBody(first) || !isLongBody(second) {
		return Pattern{}, false
	}
	if second.Close <= first.Close || third.Close <= second.Close {
		return Pattern{}, false
	}
	if third.Body() > second.Body()*0.5 {
		return Pattern{}, false
	}
	// Third opens on the shoulder of the second candle
	if third.Open < second.Close-second.Body()*0.2 {
		return Pattern{}, false
	}

	return Pattern{Type: PatternStalledPattern, Direction: DirectionBearish, Index: i, Strength: 0.7}, true
}

// detectRiseFallThreeMethods detects the five-bar continuation: a long
// candle, three small counter-trend candles held inside its range, and a
// final long candle closing beyond the first.
func detectRiseFallThreeMethods(candles []models.Candle, i int) (Pattern, bool) {
	if i < 4 {
		return Pattern{}, false
	}
	first, last := candles[i-4], candles[i]

	inside := func() bool {
		for j := i - 3; j < i; j++ {
			if candles[j].Body() >= first.Body() {
				return false
			}
			if candles[j].Low < first.Low || candles[j].High > first.High {
				return false
			}
		}
		return true
	}

	// Rising form
	if first.IsBullish() && isLongBody(first) && last.IsBullish() && last.Close > first.Close {
		counter := true
		for j := i - 3; j < i; j++ {
			if !candles[j].IsBearish() {
				counter = false
				break
			}
		}
		if counter && inside() {
			return Pattern{Type: PatternRiseFallMethods, Direction: DirectionBullish, Index: i, Strength: 0.75}, true
		}
	}

	// Falling form
	if first.IsBearish() && isLongBody(first) && last.IsBearish() && last.Close < first.Close {
		counter := true
		for j := i - 3; j < i; j++ {
			if !candles[j].IsBullish() {
				counter = false
				break
			}
		}
		if counter && inside() {
			return Pattern{Type: PatternRiseFallMethods, Direction: DirectionBearish, Index: i, Strength: 0.75}, true
		}
	}

	return Pattern{}, false
}

// customScan runs every custom detector over the whole series.
func customScan(candles []models.Candle) []Pattern {
	detectors := []func([]models.Candle, int) (Pattern, bool){
		detectHammer,
		detectInvertedHammer,
		detectHangingMan,
		detectShootingStar,
		detectDragonflyDoji,
		detectGravestoneDoji,
		detectHarami,
		detectHaramiCross,
		detectMorningStar,
		detectMorningDojiStar,
		detectEveningDojiStar,
		detectSeparatingLines,
		detectStalledPattern,
		detectRiseFallThreeMethods,
	}

	var found []Pattern
	for i := range candles {
		for _, detect := range detectors {
			if p, ok := detect(candles, i); ok {
				found = append(found, p)
			}
		}
	}
	return found
}
