// Package patterns detects candlestick patterns over a candle series.
package patterns

// Direction represents the expected direction of a pattern.
type Direction string

const (
	DirectionBullish Direction = "bullish"
	DirectionBearish Direction = "bearish"
	DirectionNeutral Direction = "neutral"
)

// PatternType identifies a candlestick pattern.
type PatternType string

const (
	PatternHammer           PatternType = "hammer"
	PatternInvertedHammer   PatternType = "inverted_hammer"
	PatternHangingMan       PatternType = "hanging_man"
	PatternShootingStar     PatternType = "shooting_star"
	PatternDragonflyDoji    PatternType = "dragonfly_doji"
	PatternGravestoneDoji   PatternType = "gravestone_doji"
	PatternHarami           PatternType = "harami"
	PatternHaramiCross      PatternType = "harami_cross"
	PatternMorningStar      PatternType = "morning_star"
	PatternMorningDojiStar  PatternType = "morning_doji_star"
	PatternEveningStar      PatternType = "evening_star"
	PatternEveningDojiStar  PatternType = "evening_doji_star"
	PatternDojiStar         PatternType = "doji_star"
	PatternSeparatingLines  PatternType = "separating_lines"
	PatternStalledPattern   PatternType = "stalled_pattern"
	PatternRiseFallMethods  PatternType = "rise_fall_three_methods"
	PatternAdvanceBlock     PatternType = "advance_block"

	// Context patterns: listed by Scan but excluded from the flag reduction.
	PatternThreeWhiteSoldiers PatternType = "three_white_soldiers"
	PatternThreeBlackCrows    PatternType = "three_black_crows"
)

// contextPatterns are reported for context only and never raise the
// bullish_candle / bearish_candle flags.
var contextPatterns = map[PatternType]bool{
	PatternThreeWhiteSoldiers: true,
	PatternThreeBlackCrows:    true,
}

// Pattern represents a detected candlestick pattern at one bar.
type Pattern struct {
	Type      PatternType
	Direction Direction
	Index     int
	Strength  float64
}
