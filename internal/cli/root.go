package cli

import (
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"candlegraph/internal/config"
	"candlegraph/internal/logging"
	"candlegraph/internal/store"
)

// Version information
const (
	Version   = "0.1.0"
	BuildDate = "2024-01-01"
)

// App holds the application dependencies.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
	Store  store.DataStore
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	dbPath := filepath.Join(cfg.Data.CacheDir, "candlegraph.db")
	dataStore, err := store.NewSQLiteStore(dbPath)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to initialize store, cache commands unavailable")
	} else {
		app.Store = dataStore
		logger.Debug().Str("path", dbPath).Msg("SQLite store initialized")
	}

	rootCmd := &cobra.Command{
		Use:   "candlegraph",
		Short: "Candlegraph - OHLCV analysis and candlestick charting CLI",
		Long: `Candlegraph loads historical OHLCV data from CSV or JSON files, computes
technical indicators (RSI, ADX, Parabolic SAR, Bollinger Bands, Hawkeye
volume, pivot levels), detects candlestick patterns, derives entry/exit
signals from threshold rules, and renders an interactive HTML candlestick
chart.

Use 'candlegraph help <command>' for more information about a command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/candlegraph)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
	rootCmd.AddCommand(newChartCmd(app))
	addAnalysisCommands(rootCmd, app)
	addDataCommands(rootCmd, app)

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{
					"version":    Version,
					"build_date": BuildDate,
				})
			} else {
				output.Printf("Candlegraph v%s\n", Version)
				output.Dim("Build date: %s", BuildDate)
			}
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and manage application configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			showConfig(output, app.Config)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration directory path",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"path": config.DefaultConfigDir()})
			} else {
				output.Println(config.DefaultConfigDir())
			}
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration files",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.Config.Validate(); err != nil {
				output.Error("Configuration validation failed: %v", err)
				return err
			}
			if output.IsJSON() {
				output.JSON(map[string]bool{"valid": true})
			} else {
				output.Success("✓ Configuration is valid")
			}
			return nil
		},
	})

	return cmd
}

func showConfig(output *Output, cfg *config.Config) {
	output.Bold("Data")
	output.Printf("  Date Column:       %s\n", cfg.Data.DateColumn)
	output.Printf("  Default Timeframe: %s\n", cfg.Data.DefaultTimeframe)
	output.Printf("  Cache Dir:         %s\n", cfg.Data.CacheDir)
	output.Println()

	output.Bold("Indicators")
	output.Printf("  RSI Period:        %d\n", cfg.Indicators.RSIPeriod)
	output.Printf("  ADX Period:        %d\n", cfg.Indicators.ADXPeriod)
	output.Printf("  SAR:               %.3f / %.2f\n", cfg.Indicators.SARAcceleration, cfg.Indicators.SARMaximum)
	output.Printf("  EMA Periods:       %v\n", cfg.Indicators.EMAPeriods)
	output.Printf("  Bollinger:         %d / %.1f\n", cfg.Indicators.BBWindow, cfg.Indicators.BBStdDev)
	output.Printf("  Hawkeye:           %d / %d / %.1f\n", cfg.Indicators.HawkeyeLength, cfg.Indicators.HawkeyeMALength, cfg.Indicators.HawkeyeDivisor)
	output.Printf("  Pivot Window:      %d / %d\n", cfg.Indicators.PivotLeft, cfg.Indicators.PivotRight)
	output.Println()

	output.Bold("Signals")
	output.Printf("  ADX Threshold:     %.0f\n", cfg.Signals.ADXThreshold)
	output.Printf("  RSI Short Entry:   %.0f\n", cfg.Signals.RSIShortEntry)
	output.Printf("  RSI Long Entry:    %.0f\n", cfg.Signals.RSILongEntry)
	output.Println()

	output.Bold("Chart")
	output.Printf("  Theme:             %s\n", cfg.Chart.Theme)
	output.Printf("  Output Dir:        %s\n", cfg.Chart.OutputDir)
	output.Printf("  Size:              %s x %s\n", cfg.Chart.Width, cfg.Chart.Height)
}
