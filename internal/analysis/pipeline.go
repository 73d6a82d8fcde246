package analysis

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"candlegraph/internal/analysis/indicators"
	"candlegraph/internal/analysis/patterns"
	"candlegraph/internal/analysis/signals"
	"candlegraph/internal/config"
	"candlegraph/internal/dataset"
	"candlegraph/internal/errors"
)

// Pipeline runs the full analysis over a frame: indicators, pattern flags,
// and entry/exit rules, appending one column per output.
type Pipeline struct {
	indicators config.IndicatorConfig
	rules      signals.Rules
	scanner    *patterns.Scanner
	engine     *indicators.Engine
	logger     zerolog.Logger
}

// NewPipeline creates a pipeline with the given parameters.
func NewPipeline(ind config.IndicatorConfig, sig config.SignalConfig, logger zerolog.Logger) *Pipeline {
	return &Pipeline{
		indicators: ind,
		rules: signals.Rules{
			ADXThreshold:  sig.ADXThreshold,
			RSIShortEntry: sig.RSIShortEntry,
			RSILongEntry:  sig.RSILongEntry,
		},
		scanner: patterns.NewScanner(patterns.DefaultScannerConfig()),
		engine:  indicators.NewEngine(4),
		logger:  logger,
	}
}

// Run populates the frame in three stages. Indicator columns the rules read
// must compute, overlay columns that miss their warmup are filled with NaN
// so short datasets still chart.
func (p *Pipeline) Run(ctx context.Context, frame *dataset.Frame) error {
	if frame.Len() == 0 {
		return errors.ErrEmptyDataset
	}

	if err := p.populateIndicators(ctx, frame); err != nil {
		return err
	}
	if err := p.populatePatterns(frame); err != nil {
		return err
	}
	return p.populateSignals(frame)
}

func (p *Pipeline) populateIndicators(ctx context.Context, frame *dataset.Frame) error {
	cfg := p.indicators
	candles := frame.Candles

	rsi := indicators.NewRSI(cfg.RSIPeriod)
	adx := indicators.NewADX(cfg.ADXPeriod)
	sar := indicators.NewParabolicSAR(cfg.SARAcceleration, cfg.SARAcceleration, cfg.SARMaximum)
	pivotHigh := indicators.NewPivotHigh(cfg.PivotLeft, cfg.PivotRight)
	pivotLow := indicators.NewPivotLow(cfg.PivotLeft, cfg.PivotRight)
	bb := indicators.NewBollingerBands(cfg.BBWindow, cfg.BBStdDev)

	p.engine.RegisterIndicator(rsi)
	p.engine.RegisterIndicator(pivotHigh)
	p.engine.RegisterIndicator(pivotLow)
	p.engine.RegisterMultiIndicator(adx)
	p.engine.RegisterMultiIndicator(sar)
	p.engine.RegisterMultiIndicator(bb)

	emas := make([]*indicators.EMA, 0, len(cfg.EMAPeriods))
	for _, period := range cfg.EMAPeriods {
		ema := indicators.NewEMA(period)
		p.engine.RegisterIndicator(ema)
		emas = append(emas, ema)
	}

	single, multi, err := p.engine.CalculateAll(ctx, candles)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	// Rule inputs must be present
	required := map[string][]float64{
		ColRSI:        single[rsi.Name()],
		ColPivotHighs: single[pivotHigh.Name()],
		ColPivotLows:  single[pivotLow.Name()],
		ColADX:        multi[adx.Name()]["adx"],
		ColSAR:        multi[sar.Name()]["sar"],
	}
	for col, values := range required {
		if values == nil {
			return errors.Wrapf(errors.ErrInsufficientData, "indicator column %s", col)
		}
		if err := frame.AddColumn(col, values); err != nil {
			return err
		}
	}
	if di := multi[adx.Name()]; di != nil {
		if err := frame.AddColumn(ColPlusDI, di["plus_di"]); err != nil {
			return err
		}
		if err := frame.AddColumn(ColMinusDI, di["minus_di"]); err != nil {
			return err
		}
	}

	// Confirmed pivots carry forward until the next one prints
	frame.ForwardFill(ColPivotHighs)
	frame.ForwardFill(ColPivotLows)

	// Overlays degrade to NaN when the series is too short
	for i, ema := range emas {
		values := single[ema.Name()]
		if values == nil {
			p.logger.Warn().Str("indicator", ema.Name()).Msg("insufficient data, column left unwarmed")
			values = nanColumn(frame.Len())
		}
		col := fmt.Sprintf("ema%d", cfg.EMAPeriods[i])
		if err := frame.AddColumn(col, values); err != nil {
			return err
		}
	}

	bbCols := map[string]string{
		"lower":     ColBBLower,
		"middle":    ColBBMiddle,
		"upper":     ColBBUpper,
		"percent_b": ColBBPercent,
		"width":     ColBBWidth,
	}
	bands := multi[bb.Name()]
	for key, col := range bbCols {
		values := bands[key]
		if values == nil {
			values = nanColumn(frame.Len())
		}
		if err := frame.AddColumn(col, values); err != nil {
			return err
		}
	}

	hawkeye := indicators.NewHawkeyeVolume(cfg.HawkeyeLength, cfg.HawkeyeMALength, cfg.HawkeyeDivisor)
	hv, err := hawkeye.Calculate(candles)
	if err != nil {
		return errors.Wrap(err, "hawkeye volume")
	}
	if err := frame.AddColumn(ColVolumeAvg, hv.VolumeAvg); err != nil {
		return err
	}
	if err := frame.AddTags(ColVolumeColor, hv.Colors); err != nil {
		return err
	}

	p.logger.Debug().
		Int("rows", frame.Len()).
		Int("columns", len(frame.ColumnNames())).
		Msg("indicator columns populated")
	return nil
}

func (p *Pipeline) populatePatterns(frame *dataset.Frame) error {
	bullish, bearish := p.scanner.Flags(frame.Candles)
	if err := frame.AddFlags(ColBullishCandle, bullish); err != nil {
		return err
	}
	return frame.AddFlags(ColBearishCandle, bearish)
}

func (p *Pipeline) populateSignals(frame *dataset.Frame) error {
	column := func(name string) []float64 {
		values, _ := frame.Column(name)
		return values
	}
	flags := func(name string) []bool {
		values, _ := frame.Flags(name)
		return values
	}

	result, err := p.rules.Evaluate(signals.Inputs{
		Candles:    frame.Candles,
		RSI:        column(ColRSI),
		ADX:        column(ColADX),
		SAR:        column(ColSAR),
		PivotHighs: column(ColPivotHighs),
		PivotLows:  column(ColPivotLows),
		Bullish:    flags(ColBullishCandle),
		Bearish:    flags(ColBearishCandle),
	})
	if err != nil {
		return err
	}

	outputs := map[string][]bool{
		ColEnterLong:  result.EnterLong,
		ColEnterShort: result.EnterShort,
		ColExitLong:   result.ExitLong,
		ColExitShort:  result.ExitShort,
	}
	for col, values := range outputs {
		if err := frame.AddFlags(col, values); err != nil {
			return err
		}
	}
	if err := frame.AddTags(ColExitTag, result.ExitTags); err != nil {
		return err
	}

	count := func(values []bool) int {
		n := 0
		for _, v := range values {
			if v {
				n++
			}
		}
		return n
	}
	p.logger.Info().
		Int("enter_long", count(result.EnterLong)).
		Int("enter_short", count(result.EnterShort)).
		Int("exit_long", count(result.ExitLong)).
		Int("exit_short", count(result.ExitShort)).
		Msg("signals evaluated")
	return nil
}
