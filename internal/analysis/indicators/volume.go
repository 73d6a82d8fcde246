package indicators

import (
	"fmt"

	"candlegraph/internal/models"
)

// Volume bar color classes assigned by the Hawkeye oscillator. Green and red
// use the chart's up/down palette, gray marks indecision, blue is the
// fallback for bars with no enabled rule.
const (
	VolumeColorGreen = "#3D9970"
	VolumeColorRed   = "#FF4136"
	VolumeColorGray  = "gray"
	VolumeColorBlue  = "blue"
)

// HawkeyeResult holds the Hawkeye volume oscillator output.
type HawkeyeResult struct {
	VolumeAvg []float64 // short moving average of volume
	Colors    []string  // per-bar color class
}

// HawkeyeVolume classifies volume bars into red, green, gray, and blue based
// on the bar's range versus its long-run average and the close versus the
// prior bar's mid-price bounds.
type HawkeyeVolume struct {
	length  int     // long moving average window for range and volume
	maLen   int     // short moving average window for the volume line
	divisor float64 // divides the bar range to form the upper/lower bounds
}

// NewHawkeyeVolume creates a new Hawkeye volume oscillator.
func NewHawkeyeVolume(length, maLen int, divisor float64) *HawkeyeVolume {
	return &HawkeyeVolume{
		length:  length,
		maLen:   maLen,
		divisor: divisor,
	}
}

func (h *HawkeyeVolume) Name() string {
	return fmt.Sprintf("HawkeyeVolume_%d_%d", h.length, h.maLen)
}

func (h *HawkeyeVolume) Period() int {
	return h.length
}

// Calculate computes the volume moving average and the per-bar color class.
// Bars inside the long warmup window still get a color from the rules that
// only need the prior bar; bound comparisons against unwarmed averages are
// simply false.
func (h *HawkeyeVolume) Calculate(candles []models.Candle) (*HawkeyeResult, error) {
	if h.length <= 0 || h.maLen <= 0 || h.divisor <= 0 {
		return nil, ErrInvalidPeriod
	}
	if len(candles) < h.maLen {
		return nil, ErrInsufficientData
	}

	n := len(candles)
	vols := volumes(candles)

	rng := make([]float64, n)
	mid := make([]float64, n)
	upper := make([]float64, n)
	lower := make([]float64, n)
	for i, c := range candles {
		rng[i] = c.High - c.Low
		mid[i] = c.Mid()
		upper[i] = mid[i] + rng[i]/h.divisor
		lower[i] = mid[i] - rng[i]/h.divisor
	}

	rangeAvg := rollingMean(rng, h.length)
	volAvg := rollingMean(vols, h.maLen)
	volLongAvg := rollingMean(vols, h.length)

	colors := make([]string, n)
	for i := range candles {
		if i == 0 {
			colors[i] = VolumeColorBlue
			continue
		}

		c := candles[i].Close
		wide := rng[i] > rangeAvg[i]
		narrow := rng[i] < rangeAvg[i]/1.5
		heavy := vols[i] > volLongAvg[i]
		light := vols[i] < volLongAvg[i]

		rEnabled := (wide && c < lower[i-1] && heavy) ||
			c < mid[i-1]

		gEnabled := c > mid[i-1] ||
			(wide && c > upper[i-1] && heavy) ||
			(candles[i].High > candles[i-1].High && narrow && light) ||
			(candles[i].Low < candles[i-1].Low && narrow && heavy)

		grEnabled := (wide && c > lower[i-1] && c < upper[i-1] && heavy &&
			vols[i] < volLongAvg[i]*1.5 && vols[i] > vols[i-1]) ||
			(narrow && vols[i] < volLongAvg[i]/1.5) ||
			(c > lower[i-1] && c < upper[i-1])

		switch {
		case grEnabled:
			colors[i] = VolumeColorGray
		case gEnabled:
			colors[i] = VolumeColorGreen
		case rEnabled:
			colors[i] = VolumeColorRed
		default:
			colors[i] = VolumeColorBlue
		}
	}

	return &HawkeyeResult{
		VolumeAvg: volAvg,
		Colors:    colors,
	}, nil
}

// OBV calculates On-Balance Volume.
type OBV struct{}

// NewOBV creates a new OBV indicator.
func NewOBV() *OBV {
	return &OBV{}
}

func (o *OBV) Name() string {
	return "OBV"
}

func (o *OBV) Period() int {
	return 1
}

func (o *OBV) Calculate(candles []models.Candle) ([]float64, error) {
	if len(candles) == 0 {
		return nil, ErrInsufficientData
	}

	n := len(candles)
	result := make([]float64, n)
	result[0] = float64(candles[0].Volume)

	for i := 1; i < n; i++ {
		switch {
		case candles[i].Close > candles[i-1].Close:
			result[i] = result[i-1] + float64(candles[i].Volume)
		case candles[i].Close < candles[i-1].Close:
			result[i] = result[i-1] - float64(candles[i].Volume)
		default:
			result[i] = result[i-1]
		}
	}

	return result, nil
}
