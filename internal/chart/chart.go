// Package chart renders the analyzed frame as an HTML candlestick page.
package chart

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
	"github.com/rs/zerolog"

	"candlegraph/internal/analysis"
	"candlegraph/internal/config"
	"candlegraph/internal/dataset"
	"candlegraph/internal/errors"
	"candlegraph/internal/models"
)

// Overlay palette, matching the plot the rules were tuned against.
const (
	colorSAR        = "DarkSlateGrey"
	colorPivotHighs = "#ff5733"
	colorPivotLows  = "#40A677"
	colorBBMiddle   = "#DCD743"
	colorBBOuter    = "rgba(0,176,246,0.8)"
	colorRSI        = "#55CE82"
	colorVolumeAvg  = "orange"
	colorEnterLong  = "#40A677"
	colorEnterShort = "#ff5733"
	colorExit       = "#C0C0C0"
)

// Renderer builds candlestick pages from analyzed frames.
type Renderer struct {
	cfg    config.ChartConfig
	logger zerolog.Logger
}

// NewRenderer creates a renderer with the given chart configuration.
func NewRenderer(cfg config.ChartConfig, logger zerolog.Logger) *Renderer {
	return &Renderer{cfg: cfg, logger: logger}
}

func (r *Renderer) theme() string {
	// echarts ships no theme literally named "dark", chalk is the dark one
	switch r.cfg.Theme {
	case "", "dark":
		return types.ThemeChalk
	case "light", "white":
		return "white"
	default:
		return r.cfg.Theme
	}
}

func (r *Renderer) initOpts(title string) charts.GlobalOpts {
	return charts.WithInitializationOpts(opts.Initialization{
		PageTitle: title,
		Theme:     r.theme(),
		Width:     r.cfg.Width,
		Height:    r.cfg.Height,
	})
}

// Build assembles the chart page: the candlestick row with its overlays, an
// RSI subplot, and the Hawkeye volume subplot.
func (r *Renderer) Build(title string, frame *dataset.Frame) (*components.Page, error) {
	if frame.Len() == 0 {
		return nil, errors.NewChartError("build", "", errors.ErrEmptyDataset)
	}

	labels := axisLabels(frame)

	page := components.NewPage()
	page.PageTitle = title
	page.AddCharts(
		r.buildMain(title, labels, frame),
		r.buildRSI(labels, frame),
		r.buildVolume(labels, frame),
	)
	return page, nil
}

// Render builds the page and writes it to w.
func (r *Renderer) Render(w io.Writer, title string, frame *dataset.Frame) error {
	page, err := r.Build(title, frame)
	if err != nil {
		return err
	}
	if err := page.Render(w); err != nil {
		return errors.NewChartError("render", "", err)
	}
	return nil
}

// Store builds the page and writes it under the configured output directory,
// returning the full path.
func (r *Renderer) Store(title, filename string, frame *dataset.Frame) (string, error) {
	if err := os.MkdirAll(r.cfg.OutputDir, 0o755); err != nil {
		return "", errors.NewChartError("store", r.cfg.OutputDir, err)
	}

	path := filepath.Join(r.cfg.OutputDir, filename)
	f, err := os.Create(path)
	if err != nil {
		return "", errors.NewChartError("store", path, err)
	}
	defer f.Close()

	if err := r.Render(f, title, frame); err != nil {
		return "", err
	}

	r.logger.Info().Str("path", path).Int("rows", frame.Len()).Msg("chart stored")
	return path, nil
}

func (r *Renderer) buildMain(title string, labels []string, frame *dataset.Frame) *charts.Kline {
	kline := charts.NewKLine()
	kline.SetGlobalOptions(
		r.initOpts(title),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithXAxisOpts(opts.XAxis{Show: true}),
		charts.WithYAxisOpts(opts.YAxis{Scale: true}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true, Trigger: "axis"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider", Start: 0, End: 100}),
		charts.WithLegendOpts(opts.Legend{Show: true}),
	)

	kline.SetXAxis(labels).AddSeries("candles", klineSeries(frame),
		charts.WithItemStyleOpts(opts.ItemStyle{
			Color:        r.cfg.UpColor,
			Color0:       r.cfg.DownColor,
			BorderColor:  r.cfg.UpColor,
			BorderColor0: r.cfg.DownColor,
		}),
	)

	for _, overlay := range []struct {
		name  string
		col   string
		color string
	}{
		{"bb_upper", analysis.ColBBUpper, colorBBOuter},
		{"bb_middle", analysis.ColBBMiddle, colorBBMiddle},
		{"bb_lower", analysis.ColBBLower, colorBBOuter},
	} {
		if values, ok := frame.Column(overlay.col); ok {
			kline.Overlap(r.overlayLine(labels, overlay.name, values, overlay.color))
		}
	}
	for _, col := range frame.ColumnNames() {
		if len(col) > 3 && col[:3] == "ema" {
			if values, ok := frame.Column(col); ok {
				kline.Overlap(r.overlayLine(labels, col, values, ""))
			}
		}
	}

	for _, overlay := range []struct {
		name  string
		col   string
		color string
	}{
		{"sar", analysis.ColSAR, colorSAR},
		{"pivot_highs", analysis.ColPivotHighs, colorPivotHighs},
		{"pivot_lows", analysis.ColPivotLows, colorPivotLows},
	} {
		if values, ok := frame.Column(overlay.col); ok {
			kline.Overlap(r.overlayScatter(labels, overlay.name, scatterSeries(values, 4), overlay.color))
		}
	}

	for _, marker := range []struct {
		side  models.SignalSide
		color string
	}{
		{models.SignalEnterLong, colorEnterLong},
		{models.SignalEnterShort, colorEnterShort},
		{models.SignalExitLong, colorExit},
		{models.SignalExitShort, colorExit},
	} {
		kline.Overlap(r.overlayScatter(labels, string(marker.side), signalSeries(frame, marker.side), marker.color))
	}

	return kline
}

func (r *Renderer) overlayLine(labels []string, name string, values []float64, color string) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(r.initOpts(name))

	series := lineSeries(values)
	if color != "" {
		line.SetXAxis(labels).AddSeries(name, series,
			charts.WithLineChartOpts(opts.LineChart{ShowSymbol: false}),
			charts.WithLineStyleOpts(opts.LineStyle{Color: color}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: color}),
		)
	} else {
		line.SetXAxis(labels).AddSeries(name, series,
			charts.WithLineChartOpts(opts.LineChart{ShowSymbol: false}),
		)
	}
	return line
}

func (r *Renderer) overlayScatter(labels []string, name string, data []opts.ScatterData, color string) *charts.Scatter {
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(r.initOpts(name))
	scatter.SetXAxis(labels).AddSeries(name, data,
		charts.WithItemStyleOpts(opts.ItemStyle{Color: color}),
	)
	return scatter
}

func (r *Renderer) buildRSI(labels []string, frame *dataset.Frame) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		r.initOpts("RSI"),
		charts.WithTitleOpts(opts.Title{Title: "RSI"}),
		charts.WithYAxisOpts(opts.YAxis{Max: 100, Min: 0}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true, Trigger: "axis"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider", Start: 0, End: 100}),
	)

	values, _ := frame.Column(analysis.ColRSI)
	line.SetXAxis(labels).AddSeries("rsi", lineSeries(values),
		charts.WithLineChartOpts(opts.LineChart{ShowSymbol: false}),
		charts.WithLineStyleOpts(opts.LineStyle{Color: colorRSI}),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: colorRSI}),
	)
	return line
}

func (r *Renderer) buildVolume(labels []string, frame *dataset.Frame) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		r.initOpts("Hawkeye Volume"),
		charts.WithTitleOpts(opts.Title{Title: "Hawkeye Volume"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true, Trigger: "axis"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider", Start: 0, End: 100}),
	)

	bar.SetXAxis(labels).AddSeries("volume", volumeSeries(frame, r.cfg.UpColor))

	if values, ok := frame.Column(analysis.ColVolumeAvg); ok {
		avg := charts.NewLine()
		avg.SetGlobalOptions(r.initOpts("volume_avg"))
		avg.SetXAxis(labels).AddSeries("volume_avg", lineSeries(values),
			charts.WithLineChartOpts(opts.LineChart{ShowSymbol: false}),
			charts.WithLineStyleOpts(opts.LineStyle{Color: colorVolumeAvg}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: colorVolumeAvg}),
		)
		bar.Overlap(avg)
	}

	return bar
}

// Filename builds the conventional chart file name for a symbol/timeframe
// pair.
func Filename(symbol string, timeframe models.Timeframe) string {
	return fmt.Sprintf("%s-%s-candlestick.html", symbol, timeframe)
}
