package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"candlegraph/internal/analysis"
	"candlegraph/internal/analysis/indicators"
	"candlegraph/internal/analysis/patterns"
	"candlegraph/internal/dataset"
	"candlegraph/internal/logging"
)

// addAnalysisCommands adds the signals, indicators, and patterns commands.
func addAnalysisCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newSignalsCmd(app))
	rootCmd.AddCommand(newIndicatorsCmd(app))
	rootCmd.AddCommand(newPatternsCmd(app))
}

func newSignalsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "signals <file>",
		Short: "Compute and print the triggered entry/exit signals",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			frame, err := analyzeFile(cmd, app, args[0])
			if err != nil {
				return err
			}

			signals := frame.Signals()
			if output.IsJSON() {
				return output.JSON(signals)
			}

			if len(signals) == 0 {
				output.Dim("No signals triggered over %d rows", frame.Len())
				return nil
			}

			table := NewTable(output, "#", "TIME", "SIDE", "PRICE", "TAG")
			for _, sig := range signals {
				table.AddRow(
					fmt.Sprintf("%d", sig.Index),
					FormatTimestamp(sig.Timestamp),
					output.Side(string(sig.Side)),
					FormatPrice(sig.Price),
					sig.Tag,
				)
			}
			table.Render()
			output.Println()
			output.Dim("%d signals over %d rows", len(signals), frame.Len())
			return nil
		},
	}

	addRangeFlags(cmd)
	return cmd
}

func newIndicatorsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "indicators <file>",
		Short: "Print the latest indicator snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			frame, err := analyzeFile(cmd, app, args[0])
			if err != nil {
				return err
			}

			last := frame.Len() - 1
			candle := frame.Candles[last]
			levels, levelsErr := indicators.NewStandardPivotPoints().Calculate(frame.Candles)

			if output.IsJSON() {
				snapshot := map[string]interface{}{
					"timestamp": candle.Timestamp,
					"close":     candle.Close,
				}
				for _, name := range frame.ColumnNames() {
					if values, ok := frame.Column(name); ok {
						snapshot[name] = values[last]
					}
				}
				if levelsErr == nil {
					snapshot["pivot_levels"] = levels
				}
				return output.JSON(snapshot)
			}

			output.Bold("%s", FormatTimestamp(candle.Timestamp))
			output.Println(FormatOHLC(candle.Open, candle.High, candle.Low, candle.Close))
			output.Printf("Volume: %s\n\n", FormatVolume(candle.Volume))

			table := NewTable(output, "INDICATOR", "VALUE")
			for _, name := range frame.ColumnNames() {
				if values, ok := frame.Column(name); ok {
					table.AddRow(name, FormatValue(values[last]))
				}
			}
			table.Render()

			if levelsErr == nil {
				output.Println()
				output.Bold("Pivot levels")
				output.Printf("  R3 %s  R2 %s  R1 %s\n",
					FormatPrice(levels.R3), FormatPrice(levels.R2), FormatPrice(levels.R1))
				output.Printf("  P  %s\n", FormatPrice(levels.Pivot))
				output.Printf("  S1 %s  S2 %s  S3 %s\n",
					FormatPrice(levels.S1), FormatPrice(levels.S2), FormatPrice(levels.S3))
			}
			return nil
		},
	}

	addRangeFlags(cmd)
	return cmd
}

func newPatternsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patterns <file>",
		Short: "List detected candlestick patterns",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			frame, err := loadSlicedFrame(cmd, app, args[0])
			if err != nil {
				return err
			}

			minStrength, _ := cmd.Flags().GetFloat64("min-strength")
			scanner := patterns.NewScanner(patterns.ScannerConfig{MinStrength: minStrength})
			found := scanner.Scan(frame.Candles)

			if output.IsJSON() {
				return output.JSON(found)
			}

			if len(found) == 0 {
				output.Dim("No patterns detected over %d rows", frame.Len())
				return nil
			}

			table := NewTable(output, "#", "TIME", "PATTERN", "DIRECTION", "STRENGTH")
			for _, p := range found {
				direction := string(p.Direction)
				switch p.Direction {
				case patterns.DirectionBullish:
					direction = output.Green(direction)
				case patterns.DirectionBearish:
					direction = output.Red(direction)
				}
				table.AddRow(
					fmt.Sprintf("%d", p.Index),
					FormatTimestamp(frame.Candles[p.Index].Timestamp),
					string(p.Type),
					direction,
					fmt.Sprintf("%.2f", p.Strength),
				)
			}
			table.Render()
			output.Println()
			output.Dim("%d patterns over %d rows", len(found), frame.Len())
			return nil
		},
	}

	addRangeFlags(cmd)
	cmd.Flags().Float64("min-strength", patterns.DefaultScannerConfig().MinStrength, "minimum pattern strength")
	return cmd
}

// analyzeFile loads a data file and runs the full pipeline over it.
func analyzeFile(cmd *cobra.Command, app *App, path string) (*dataset.Frame, error) {
	frame, err := loadSlicedFrame(cmd, app, path)
	if err != nil {
		return nil, err
	}

	logger := logging.WithSymbol(app.Logger, symbolFromPath(path))
	pipeline := analysis.NewPipeline(app.Config.Indicators, app.Config.Signals, logger)
	if err := pipeline.Run(cmd.Context(), frame); err != nil {
		return nil, err
	}
	return frame, nil
}

func addRangeFlags(cmd *cobra.Command) {
	cmd.Flags().String("from", "", "start date (inclusive)")
	cmd.Flags().String("to", "", "end date (inclusive)")
}
