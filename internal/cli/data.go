package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"candlegraph/internal/dataset"
	"candlegraph/internal/errors"
	"candlegraph/internal/store"
)

// addDataCommands adds the SQLite cache commands.
func addDataCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "data",
		Short: "Local candle cache operations",
		Long:  "Import, inspect, and list cached candle data and analysis runs.",
	}

	cmd.AddCommand(newDataImportCmd(app))
	cmd.AddCommand(newDataShowCmd(app))
	cmd.AddCommand(newDataRunsCmd(app))

	rootCmd.AddCommand(cmd)
}

func requireStore(app *App) error {
	if app.Store == nil {
		return errors.Wrap(errors.ErrDatabaseError, "store unavailable")
	}
	return nil
}

func newDataImportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a CSV or JSON file into the candle cache",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := requireStore(app); err != nil {
				return err
			}

			symbol, _ := cmd.Flags().GetString("symbol")
			if symbol == "" {
				symbol = symbolFromPath(args[0])
			}
			timeframe := timeframeFlag(cmd, app)

			frame, err := dataset.Load(args[0])
			if err != nil {
				return err
			}

			if err := app.Store.SaveCandles(cmd.Context(), symbol, timeframe, frame.Candles); err != nil {
				return err
			}

			fresh, err := app.Store.GetCandlesFreshness(cmd.Context(), symbol, timeframe)
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"symbol":    symbol,
					"timeframe": timeframe,
					"rows":      frame.Len(),
					"freshness": fresh,
				})
			}

			output.Success("✓ Imported %d candles for %s %s", frame.Len(), symbol, timeframe)
			output.Dim("Latest candle: %s", FormatTimestamp(fresh))
			return nil
		},
	}

	cmd.Flags().String("symbol", "", "symbol label (default: file name)")
	cmd.Flags().String("timeframe", "", "candle timeframe label (default from config)")
	return cmd
}

func newDataShowCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <symbol>",
		Short: "Show cached candles for a symbol",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := requireStore(app); err != nil {
				return err
			}

			symbol := args[0]
			timeframe := timeframeFlag(cmd, app)
			limit, _ := cmd.Flags().GetInt("limit")

			from, err := dateFlag(cmd, "from")
			if err != nil {
				return err
			}
			to, err := dateFlag(cmd, "to")
			if err != nil {
				return err
			}
			if from.IsZero() {
				from = time.Unix(0, 0)
			}
			if to.IsZero() {
				to = time.Now().Add(24 * time.Hour)
			}

			candles, err := app.Store.GetCandles(cmd.Context(), symbol, timeframe, from, to)
			if err != nil {
				return err
			}
			if len(candles) == 0 {
				return errors.Wrapf(errors.ErrDataNotFound, "no cached candles for %s %s", symbol, timeframe)
			}
			if limit > 0 && len(candles) > limit {
				candles = candles[len(candles)-limit:]
			}

			if output.IsJSON() {
				return output.JSON(candles)
			}

			table := NewTable(output, "TIME", "OPEN", "HIGH", "LOW", "CLOSE", "VOLUME")
			for _, c := range candles {
				table.AddRow(
					FormatTimestamp(c.Timestamp),
					FormatPrice(c.Open),
					FormatPrice(c.High),
					FormatPrice(c.Low),
					FormatPrice(c.Close),
					FormatVolume(c.Volume),
				)
			}
			table.Render()
			output.Println()
			output.Dim("%d candles for %s %s", len(candles), symbol, timeframe)
			return nil
		},
	}

	addRangeFlags(cmd)
	cmd.Flags().String("timeframe", "", "candle timeframe label (default from config)")
	cmd.Flags().Int("limit", 20, "show at most the newest N candles (0 for all)")
	return cmd
}

func newDataRunsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs [run-id]",
		Short: "List cached analysis runs, or the signals of one run",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := requireStore(app); err != nil {
				return err
			}

			if len(args) == 1 {
				runID, err := strconv.ParseInt(args[0], 10, 64)
				if err != nil {
					return fmt.Errorf("invalid run id %q: %w", args[0], err)
				}
				return showRunSignals(cmd, output, app.Store, runID)
			}

			symbol, _ := cmd.Flags().GetString("symbol")
			limit, _ := cmd.Flags().GetInt("limit")
			runs, err := app.Store.GetRuns(cmd.Context(), store.RunFilter{
				Symbol: symbol,
				Limit:  limit,
			})
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(runs)
			}
			if len(runs) == 0 {
				output.Dim("No cached analysis runs")
				return nil
			}

			table := NewTable(output, "ID", "SYMBOL", "TF", "ROWS", "LONG", "SHORT", "EXITS", "WHEN", "CHART")
			for _, run := range runs {
				table.AddRow(
					fmt.Sprintf("%d", run.ID),
					run.Symbol,
					string(run.Timeframe),
					fmt.Sprintf("%d", run.Rows),
					fmt.Sprintf("%d", run.EnterLongs),
					fmt.Sprintf("%d", run.EnterShorts),
					fmt.Sprintf("%d", run.ExitLongs+run.ExitShorts),
					FormatTimestamp(run.CreatedAt),
					TruncateString(run.ChartPath, 40),
				)
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().String("symbol", "", "filter runs by symbol")
	cmd.Flags().Int("limit", 20, "show at most N runs")
	return cmd
}

func showRunSignals(cmd *cobra.Command, output *Output, dataStore store.DataStore, runID int64) error {
	signals, err := dataStore.GetSignals(cmd.Context(), runID)
	if err != nil {
		return err
	}

	if output.IsJSON() {
		return output.JSON(signals)
	}
	if len(signals) == 0 {
		output.Dim("No signals recorded for run %d", runID)
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
	return nil
}
