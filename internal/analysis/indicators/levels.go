package indicators

import (
	"fmt"

	"candlegraph/internal/models"
)

// PivotHigh marks bars whose high strictly exceeds every high in the left
// window and is at least as high as every high in the right window. All
// other bars are NaN; callers typically forward fill the column to carry the
// last confirmed level.
type PivotHigh struct {
	left  int
	right int
}

// NewPivotHigh creates a new pivot high scanner.
func NewPivotHigh(left, right int) *PivotHigh {
	return &PivotHigh{left: left, right: right}
}

func (p *PivotHigh) Name() string {
	return fmt.Sprintf("PivotHigh_%d_%d", p.left, p.right)
}

func (p *PivotHigh) Period() int {
	return p.left + p.right + 1
}

func (p *PivotHigh) Calculate(candles []models.Candle) ([]float64, error) {
	if p.left <= 0 || p.right <= 0 {
		return nil, ErrInvalidPeriod
	}
	if len(candles) < p.Period() {
		return nil, ErrInsufficientData
	}
	return scanPivots(highPrices(candles), p.left, p.right, true), nil
}

// PivotLow is the mirror of PivotHigh for swing lows.
type PivotLow struct {
	left  int
	right int
}

// NewPivotLow creates a new pivot low scanner.
func NewPivotLow(left, right int) *PivotLow {
	return &PivotLow{left: left, right: right}
}

func (p *PivotLow) Name() string {
	return fmt.Sprintf("PivotLow_%d_%d", p.left, p.right)
}

func (p *PivotLow) Period() int {
	return p.left + p.right + 1
}

func (p *PivotLow) Calculate(candles []models.Candle) ([]float64, error) {
	if p.left <= 0 || p.right <= 0 {
		return nil, ErrInvalidPeriod
	}
	if len(candles) < p.Period() {
		return nil, ErrInsufficientData
	}
	return scanPivots(lowPrices(candles), p.left, p.right, false), nil
}

// scanPivots marks confirmed swing points. The left window requires a strict
// extreme, the right window allows ties, so a flat top still confirms at its
// first bar. The pivot value lands on the bar where it occurred, not where it
// was confirmed.
func scanPivots(values []float64, left, right int, high bool) []float64 {
	n := len(values)
	result := nanSlice(n)

	for i := left; i < n-right; i++ {
		v := values[i]
		ok := true
		for j := i - left; j < i && ok; j++ {
			if high {
				ok = v > values[j]
			} else {
				ok = v < values[j]
			}
		}
		for j := i + 1; j <= i+right && ok; j++ {
			if high {
				ok = v >= values[j]
			} else {
				ok = v <= values[j]
			}
		}
		if ok {
			result[i] = v
		}
	}

	return result
}

// PivotLevels holds classic floor-trader pivot levels computed from a single
// reference candle, usually the prior session.
type PivotLevels struct {
	Pivot float64
	R1    float64
	R2    float64
	R3    float64
	S1    float64
	S2    float64
	S3    float64
}

// StandardPivotPoints computes floor-trader pivot levels from the last candle
// of the series.
type StandardPivotPoints struct{}

// NewStandardPivotPoints creates a new pivot level calculator.
func NewStandardPivotPoints() *StandardPivotPoints {
	return &StandardPivotPoints{}
}

func (s *StandardPivotPoints) Name() string {
	return "StandardPivotPoints"
}

func (s *StandardPivotPoints) Period() int {
	return 1
}

func (s *StandardPivotPoints) Calculate(candles []models.Candle) (*PivotLevels, error) {
	if len(candles) == 0 {
		return nil, ErrInsufficientData
	}

	ref := candles[len(candles)-1]
	pivot := (ref.High + ref.Low + ref.Close) / 3

	return &PivotLevels{
		Pivot: pivot,
		R1:    2*pivot - ref.Low,
		R2:    pivot + (ref.High - ref.Low),
		R3:    ref.High + 2*(pivot-ref.Low),
		S1:    2*pivot - ref.High,
		S2:    pivot - (ref.High - ref.Low),
		S3:    ref.Low - 2*(ref.High-pivot),
	}, nil
}
