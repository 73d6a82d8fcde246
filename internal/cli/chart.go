package cli

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"candlegraph/internal/analysis"
	"candlegraph/internal/chart"
	"candlegraph/internal/dataset"
	"candlegraph/internal/logging"
	"candlegraph/internal/models"
)

// newChartCmd creates the chart command: the full pipeline from file to HTML.
func newChartCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chart <file>",
		Short: "Render a candlestick chart with indicators and signals",
		Long: `Loads OHLCV data from a CSV or JSON file, runs the full analysis
pipeline, and writes an interactive HTML candlestick chart with indicator
overlays, an RSI subplot, and the Hawkeye volume subplot.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			symbol, _ := cmd.Flags().GetString("symbol")
			if symbol == "" {
				symbol = symbolFromPath(args[0])
			}
			timeframe := timeframeFlag(cmd, app)
			title, _ := cmd.Flags().GetString("title")
			if title == "" {
				title = fmt.Sprintf("%s %s", symbol, timeframe)
			}
			noOpen, _ := cmd.Flags().GetBool("no-open")

			frame, err := loadSlicedFrame(cmd, app, args[0])
			if err != nil {
				return err
			}

			logger := logging.WithSymbol(app.Logger, symbol)
			pipeline := analysis.NewPipeline(app.Config.Indicators, app.Config.Signals, logger)
			if err := pipeline.Run(cmd.Context(), frame); err != nil {
				return err
			}

			chartCfg := app.Config.Chart
			filename := chart.Filename(symbol, timeframe)
			if out, _ := cmd.Flags().GetString("out"); out != "" {
				chartCfg.OutputDir = filepath.Dir(out)
				filename = filepath.Base(out)
			}
			renderer := chart.NewRenderer(chartCfg, logger)

			path, err := renderer.Store(title, filename, frame)
			if err != nil {
				return err
			}

			signals := frame.Signals()
			recordRun(cmd.Context(), app, symbol, timeframe, frame, signals, path)

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"path":    path,
					"rows":    frame.Len(),
					"signals": len(signals),
				})
			}

			output.Success("✓ Chart written to %s", path)
			output.Printf("  %d rows, %d signals\n", frame.Len(), len(signals))

			if !noOpen {
				if err := openBrowser(path); err != nil {
					output.Dim("Could not open browser: %v", err)
				}
			}
			return nil
		},
	}

	cmd.Flags().String("from", "", "start date (inclusive)")
	cmd.Flags().String("to", "", "end date (inclusive)")
	cmd.Flags().String("title", "", "chart title (default: symbol and timeframe)")
	cmd.Flags().String("out", "", "output file path (default: <output_dir>/<symbol>-<timeframe>-candlestick.html)")
	cmd.Flags().String("timeframe", "", "candle timeframe label (default from config)")
	cmd.Flags().String("symbol", "", "symbol label (default: file name)")
	cmd.Flags().Bool("no-open", false, "do not open the chart in a browser")

	return cmd
}

// loadSlicedFrame loads the file and applies the --from/--to range, keeping
// warmup history before the start so indicators are warm at the first
// requested row.
func loadSlicedFrame(cmd *cobra.Command, app *App, path string) (*dataset.Frame, error) {
	frame, err := dataset.Load(path)
	if err != nil {
		return nil, err
	}

	from, err := dateFlag(cmd, "from")
	if err != nil {
		return nil, err
	}
	to, err := dateFlag(cmd, "to")
	if err != nil {
		return nil, err
	}
	if from.IsZero() && to.IsZero() {
		return frame, nil
	}
	return frame.Slice(from, to, warmupRows(app)), nil
}

func dateFlag(cmd *cobra.Command, name string) (time.Time, error) {
	value, _ := cmd.Flags().GetString(name)
	if value == "" {
		return time.Time{}, nil
	}
	t, err := dataset.ParseDate(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --%s: %w", name, err)
	}
	return t, nil
}

// warmupRows returns the longest lookback any configured indicator needs.
func warmupRows(app *App) int {
	longest := app.Config.Indicators.HawkeyeLength
	for _, p := range app.Config.Indicators.EMAPeriods {
		if p > longest {
			longest = p
		}
	}
	return longest
}

func timeframeFlag(cmd *cobra.Command, app *App) models.Timeframe {
	value, _ := cmd.Flags().GetString("timeframe")
	if value == "" {
		value = app.Config.Data.DefaultTimeframe
	}
	return models.Timeframe(value)
}

// symbolFromPath derives a symbol label from the input file name.
func symbolFromPath(path string) string {
	base := filepath.Base(path)
	return strings.ToUpper(strings.TrimSuffix(base, filepath.Ext(base)))
}

// recordRun caches the run summary and its signals. Cache failures are
// logged, not fatal.
func recordRun(ctx context.Context, app *App, symbol string, timeframe models.Timeframe, frame *dataset.Frame, signals []models.Signal, chartPath string) {
	if app.Store == nil {
		return
	}

	run := &models.AnalysisRun{
		Symbol:      symbol,
		Timeframe:   timeframe,
		Rows:        frame.Len(),
		EnterLongs:  countFlags(frame, analysis.ColEnterLong),
		EnterShorts: countFlags(frame, analysis.ColEnterShort),
		ExitLongs:   countFlags(frame, analysis.ColExitLong),
		ExitShorts:  countFlags(frame, analysis.ColExitShort),
		ChartPath:   chartPath,
	}

	runID, err := app.Store.SaveRun(ctx, run)
	if err != nil {
		app.Logger.Warn().Err(err).Msg("Failed to cache analysis run")
		return
	}
	if err := app.Store.SaveSignals(ctx, runID, signals); err != nil {
		app.Logger.Warn().Err(err).Msg("Failed to cache signals")
	}
}

func countFlags(frame *dataset.Frame, name string) int {
	values, ok := frame.Flags(name)
	if !ok {
		return 0
	}
	n := 0
	for _, v := range values {
		if v {
			n++
		}
	}
	return n
}

// openBrowser opens the rendered chart with the platform's default opener.
func openBrowser(path string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", path).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", path).Start()
	default:
		return exec.Command("xdg-open", path).Start()
	}
}
