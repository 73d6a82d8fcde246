package indicators

import (
	"fmt"
	"math"

	"candlegraph/internal/models"
)

// EMA calculates Exponential Moving Average of close prices.
type EMA struct {
	period int
}

// NewEMA creates a new EMA indicator.
func NewEMA(period int) *EMA {
	return &EMA{period: period}
}

func (e *EMA) Name() string {
	return fmt.Sprintf("EMA_%d", e.period)
}

func (e *EMA) Period() int {
	return e.period
}

func (e *EMA) Calculate(candles []models.Candle) ([]float64, error) {
	if e.period <= 0 {
		return nil, ErrInvalidPeriod
	}
	if len(candles) < e.period {
		return nil, ErrInsufficientData
	}

	return CalculateEMA(closePrices(candles), e.period), nil
}

// CalculateEMA calculates EMA on raw values (helper for other indicators).
// Rows before the first full period are NaN.
func CalculateEMA(values []float64, period int) []float64 {
	if len(values) < period || period <= 0 {
		return nil
	}

	result := nanSlice(len(values))
	multiplier := 2.0 / float64(period+1)

	// First EMA is SMA
	result[period-1] = mean(values[:period])

	for i := period; i < len(values); i++ {
		result[i] = (values[i]-result[i-1])*multiplier + result[i-1]
	}

	return result
}

// ADX calculates Average Directional Index with +DI and -DI.
type ADX struct {
	period int
}

// NewADX creates a new ADX indicator.
func NewADX(period int) *ADX {
	return &ADX{period: period}
}

func (a *ADX) Name() string {
	return fmt.Sprintf("ADX_%d", a.period)
}

func (a *ADX) Period() int {
	return a.period * 2
}

func (a *ADX) Calculate(candles []models.Candle) (map[string][]float64, error) {
	if a.period <= 0 {
		return nil, ErrInvalidPeriod
	}
	if len(candles) < a.Period() {
		return nil, ErrInsufficientData
	}

	n := len(candles)
	plusDM := make([]float64, n)
	minusDM := make([]float64, n)
	tr := make([]float64, n)

	for i := 1; i < n; i++ {
		upMove := candles[i].High - candles[i-1].High
		downMove := candles[i-1].Low - candles[i].Low

		if upMove > downMove && upMove > 0 {
			plusDM[i] = upMove
		}
		if downMove > upMove && downMove > 0 {
			minusDM[i] = downMove
		}
		tr[i] = trueRange(candles[i], candles[i-1])
	}

	// Smooth using Wilder's method
	smoothPlusDM := wilderSmooth(plusDM, a.period)
	smoothMinusDM := wilderSmooth(minusDM, a.period)
	smoothTR := wilderSmooth(tr, a.period)

	plusDI := nanSlice(n)
	minusDI := nanSlice(n)
	dx := make([]float64, n)

	for i := a.period; i < n; i++ {
		if smoothTR[i] != 0 {
			plusDI[i] = 100 * smoothPlusDM[i] / smoothTR[i]
			minusDI[i] = 100 * smoothMinusDM[i] / smoothTR[i]
		}
		diSum := plusDI[i] + minusDI[i]
		if !math.IsNaN(diSum) && diSum != 0 {
			dx[i] = 100 * abs(plusDI[i]-minusDI[i]) / diSum
		}
	}

	// ADX is the smoothed DX
	adx := wilderSmooth(dx[a.period:], a.period)
	adxResult := nanSlice(n)
	for i := 0; i < len(adx); i++ {
		adxResult[a.period+i] = adx[i]
	}

	return map[string][]float64{
		"adx":      adxResult,
		"plus_di":  plusDI,
		"minus_di": minusDI,
	}, nil
}

// ParabolicSAR calculates the Parabolic Stop and Reverse indicator.
type ParabolicSAR struct {
	afStart float64
	afStep  float64
	afMax   float64
}

// NewParabolicSAR creates a new Parabolic SAR indicator. afStart is also the
// per-extreme acceleration step when afStep matches it, the classic 0.02/0.2
// parameterization.
func NewParabolicSAR(afStart, afStep, afMax float64) *ParabolicSAR {
	return &ParabolicSAR{
		afStart: afStart,
		afStep:  afStep,
		afMax:   afMax,
	}
}

func (p *ParabolicSAR) Name() string {
	return "ParabolicSAR"
}

func (p *ParabolicSAR) Period() int {
	return 2
}

func (p *ParabolicSAR) Calculate(candles []models.Candle) (map[string][]float64, error) {
	if p.afStart <= 0 || p.afStep <= 0 || p.afMax < p.afStart {
		return nil, ErrInvalidPeriod
	}
	if len(candles) < 2 {
		return nil, ErrInsufficientData
	}

	n := len(candles)
	sar := make([]float64, n)
	direction := make([]float64, n) // 1 = bullish, -1 = bearish

	isUpTrend := candles[1].Close > candles[0].Close
	af := p.afStart
	var ep float64

	if isUpTrend {
		sar[0] = candles[0].Low
		ep = candles[0].High
		direction[0] = 1
	} else {
		sar[0] = candles[0].High
		ep = candles[0].Low
		direction[0] = -1
	}

	for i := 1; i < n; i++ {
		if isUpTrend {
			sar[i] = sar[i-1] + af*(ep-sar[i-1])
			sar[i] = min(sar[i], candles[i-1].Low)
			if i >= 2 {
				sar[i] = min(sar[i], candles[i-2].Low)
			}

			if candles[i].Low < sar[i] {
				isUpTrend = false
				sar[i] = ep
				ep = candles[i].Low
				af = p.afStart
			} else if candles[i].High > ep {
				ep = candles[i].High
				af = min(af+p.afStep, p.afMax)
			}
		} else {
			sar[i] = sar[i-1] + af*(ep-sar[i-1])
			sar[i] = max(sar[i], candles[i-1].High)
			if i >= 2 {
				sar[i] = max(sar[i], candles[i-2].High)
			}

			if candles[i].High > sar[i] {
				isUpTrend = true
				sar[i] = ep
				ep = candles[i].High
				af = p.afStart
			} else if candles[i].Low < ep {
				ep = candles[i].Low
				af = min(af+p.afStep, p.afMax)
			}
		}

		if isUpTrend {
			direction[i] = 1
		} else {
			direction[i] = -1
		}
	}

	return map[string][]float64{
		"sar":       sar,
		"direction": direction,
	}, nil
}
