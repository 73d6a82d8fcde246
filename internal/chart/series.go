package chart

import (
	"math"

	"github.com/go-echarts/go-echarts/v2/opts"

	"candlegraph/internal/analysis"
	"candlegraph/internal/dataset"
	"candlegraph/internal/models"
)

// Echarts cannot serialize NaN, so missing points are rendered as "-", which
// the renderer treats as a gap.
const gap = "-"

// axisLabels formats the row timestamps for the category axis.
func axisLabels(frame *dataset.Frame) []string {
	labels := make([]string, frame.Len())
	for i, ts := range frame.Timestamps() {
		labels[i] = ts.Format("2006-01-02 15:04")
	}
	return labels
}

// klineSeries converts candles to kline points. The value order is open,
// close, low, high.
func klineSeries(frame *dataset.Frame) []opts.KlineData {
	data := make([]opts.KlineData, frame.Len())
	for i, c := range frame.Candles {
		data[i] = opts.KlineData{Value: [4]float64{c.Open, c.Close, c.Low, c.High}}
	}
	return data
}

// lineSeries converts a float column to line points with gaps for NaN rows.
func lineSeries(values []float64) []opts.LineData {
	data := make([]opts.LineData, len(values))
	for i, v := range values {
		if math.IsNaN(v) {
			data[i] = opts.LineData{Value: gap}
		} else {
			data[i] = opts.LineData{Value: v}
		}
	}
	return data
}

// scatterSeries converts a float column to scatter points with gaps for NaN
// rows.
func scatterSeries(values []float64, symbolSize int) []opts.ScatterData {
	data := make([]opts.ScatterData, len(values))
	for i, v := range values {
		if math.IsNaN(v) {
			data[i] = opts.ScatterData{Value: gap}
		} else {
			data[i] = opts.ScatterData{Value: v, SymbolSize: symbolSize}
		}
	}
	return data
}

// signalSeries places a marker on every bar where the given signal fired.
// Entries render as triangles, shorts point down, exits render as diamonds.
func signalSeries(frame *dataset.Frame, side models.SignalSide) []opts.ScatterData {
	data := make([]opts.ScatterData, frame.Len())
	for i := range data {
		data[i] = opts.ScatterData{Value: gap}
	}

	flags, ok := frame.Flags(string(side))
	if !ok {
		return data
	}

	symbol := "triangle"
	rotate := 0
	switch side {
	case models.SignalEnterShort:
		rotate = 180
	case models.SignalExitLong, models.SignalExitShort:
		symbol = "diamond"
	}

	for i, fired := range flags {
		if !fired {
			continue
		}
		value := frame.Candles[i].Low
		if side == models.SignalEnterShort || side == models.SignalExitShort {
			value = frame.Candles[i].High
		}
		data[i] = opts.ScatterData{
			Value:        value,
			Symbol:       symbol,
			SymbolSize:   12,
			SymbolRotate: rotate,
		}
	}
	return data
}

// volumeSeries builds the volume bars colored by the Hawkeye classes.
func volumeSeries(frame *dataset.Frame, fallback string) []opts.BarData {
	colors, _ := frame.Tags(analysis.ColVolumeColor)

	data := make([]opts.BarData, frame.Len())
	for i, c := range frame.Candles {
		color := fallback
		if colors != nil && colors[i] != "" {
			color = colors[i]
		}
		data[i] = opts.BarData{
			Value:     c.Volume,
			ItemStyle: &opts.ItemStyle{Color: color},
		}
	}
	return data
}
