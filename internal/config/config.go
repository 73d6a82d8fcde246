// Package config provides configuration management for the charting pipeline.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Data       DataConfig       `mapstructure:"data"`
	Indicators IndicatorConfig  `mapstructure:"indicators"`
	Signals    SignalConfig     `mapstructure:"signals"`
	Chart      ChartConfig      `mapstructure:"chart"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// DataConfig holds input data configuration.
type DataConfig struct {
	DateColumn       string `mapstructure:"date_column"`
	DefaultTimeframe string `mapstructure:"default_timeframe"`
	CacheDir         string `mapstructure:"cache_dir"`
}

// IndicatorConfig holds indicator parameters.
type IndicatorConfig struct {
	RSIPeriod       int     `mapstructure:"rsi_period"`
	ADXPeriod       int     `mapstructure:"adx_period"`
	SARAcceleration float64 `mapstructure:"sar_acceleration"`
	SARMaximum      float64 `mapstructure:"sar_maximum"`
	EMAPeriods      []int   `mapstructure:"ema_periods"`
	BBWindow        int     `mapstructure:"bb_window"`
	BBStdDev        float64 `mapstructure:"bb_std_dev"`
	HawkeyeLength   int     `mapstructure:"hawkeye_length"`
	HawkeyeMALength int     `mapstructure:"hawkeye_ma_length"`
	HawkeyeDivisor  float64 `mapstructure:"hawkeye_divisor"`
	PivotLeft       int     `mapstructure:"pivot_left"`
	PivotRight      int     `mapstructure:"pivot_right"`
}

// SignalConfig holds entry/exit rule thresholds.
type SignalConfig struct {
	ADXThreshold     float64 `mapstructure:"adx_threshold"`
	RSIShortEntry    float64 `mapstructure:"rsi_short_entry"`
	RSILongEntry     float64 `mapstructure:"rsi_long_entry"`
}

// ChartConfig holds chart rendering configuration.
type ChartConfig struct {
	Theme       string `mapstructure:"theme"`
	OutputDir   string `mapstructure:"output_dir"`
	UpColor     string `mapstructure:"up_color"`
	DownColor   string `mapstructure:"down_color"`
	Width       string `mapstructure:"width"`
	Height      string `mapstructure:"height"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
	File  bool   `mapstructure:"file"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/candlegraph"
	}
	return filepath.Join(home, ".config", "candlegraph")
}

// Default returns the built-in configuration defaults, matching the
// parameters the pipeline was tuned with.
func Default() *Config {
	return &Config{
		Data: DataConfig{
			DateColumn:       "date",
			DefaultTimeframe: "1h",
			CacheDir:         DefaultConfigDir(),
		},
		Indicators: IndicatorConfig{
			RSIPeriod:       14,
			ADXPeriod:       14,
			SARAcceleration: 0.02,
			SARMaximum:      0.2,
			EMAPeriods:      []int{34, 89, 200},
			BBWindow:        20,
			BBStdDev:        2.0,
			HawkeyeLength:   200,
			HawkeyeMALength: 20,
			HawkeyeDivisor:  3.6,
			PivotLeft:       10,
			PivotRight:      2,
		},
		Signals: SignalConfig{
			ADXThreshold:  25,
			RSIShortEntry: 60,
			RSILongEntry:  40,
		},
		Chart: ChartConfig{
			Theme:     "dark",
			OutputDir: "./plot",
			UpColor:   "#3D9970",
			DownColor: "#FF4136",
			Width:     "1400px",
			Height:    "500px",
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  true,
		},
	}
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory.
// A missing config file is replaced with a template and defaults are used.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	cfg := Default()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)
	setDefaults(v, cfg)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			if err := createTemplateConfig(configDir); err != nil {
				return nil, fmt.Errorf("creating config template: %w", err)
			}
		} else {
			return nil, fmt.Errorf("loading config.toml: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config.toml: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("data.date_column", cfg.Data.DateColumn)
	v.SetDefault("data.default_timeframe", cfg.Data.DefaultTimeframe)
	v.SetDefault("data.cache_dir", cfg.Data.CacheDir)
	v.SetDefault("indicators.rsi_period", cfg.Indicators.RSIPeriod)
	v.SetDefault("indicators.adx_period", cfg.Indicators.ADXPeriod)
	v.SetDefault("indicators.sar_acceleration", cfg.Indicators.SARAcceleration)
	v.SetDefault("indicators.sar_maximum", cfg.Indicators.SARMaximum)
	v.SetDefault("indicators.ema_periods", cfg.Indicators.EMAPeriods)
	v.SetDefault("indicators.bb_window", cfg.Indicators.BBWindow)
	v.SetDefault("indicators.bb_std_dev", cfg.Indicators.BBStdDev)
	v.SetDefault("indicators.hawkeye_length", cfg.Indicators.HawkeyeLength)
	v.SetDefault("indicators.hawkeye_ma_length", cfg.Indicators.HawkeyeMALength)
	v.SetDefault("indicators.hawkeye_divisor", cfg.Indicators.HawkeyeDivisor)
	v.SetDefault("indicators.pivot_left", cfg.Indicators.PivotLeft)
	v.SetDefault("indicators.pivot_right", cfg.Indicators.PivotRight)
	v.SetDefault("signals.adx_threshold", cfg.Signals.ADXThreshold)
	v.SetDefault("signals.rsi_short_entry", cfg.Signals.RSIShortEntry)
	v.SetDefault("signals.rsi_long_entry", cfg.Signals.RSILongEntry)
	v.SetDefault("chart.theme", cfg.Chart.Theme)
	v.SetDefault("chart.output_dir", cfg.Chart.OutputDir)
	v.SetDefault("chart.up_color", cfg.Chart.UpColor)
	v.SetDefault("chart.down_color", cfg.Chart.DownColor)
	v.SetDefault("chart.width", cfg.Chart.Width)
	v.SetDefault("chart.height", cfg.Chart.Height)
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.file", cfg.Logging.File)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("CANDLEGRAPH_OUTPUT_DIR"); v != "" {
		cfg.Chart.OutputDir = v
	}
	if v := os.Getenv("CANDLEGRAPH_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("CANDLEGRAPH_CACHE_DIR"); v != "" {
		cfg.Data.CacheDir = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Indicators.RSIPeriod <= 0 {
		return fmt.Errorf("rsi_period must be positive")
	}
	if c.Indicators.ADXPeriod <= 0 {
		return fmt.Errorf("adx_period must be positive")
	}
	if c.Indicators.SARAcceleration <= 0 || c.Indicators.SARAcceleration > c.Indicators.SARMaximum {
		return fmt.Errorf("sar_acceleration must be positive and not exceed sar_maximum")
	}
	if c.Indicators.BBWindow <= 1 {
		return fmt.Errorf("bb_window must be greater than 1")
	}
	if c.Indicators.BBStdDev <= 0 {
		return fmt.Errorf("bb_std_dev must be positive")
	}
	if c.Indicators.HawkeyeDivisor <= 0 {
		return fmt.Errorf("hawkeye_divisor must be positive")
	}
	if c.Indicators.PivotLeft <= 0 || c.Indicators.PivotRight <= 0 {
		return fmt.Errorf("pivot_left and pivot_right must be positive")
	}
	for _, p := range c.Indicators.EMAPeriods {
		if p <= 0 {
			return fmt.Errorf("ema_periods must all be positive")
		}
	}
	if c.Signals.ADXThreshold < 0 || c.Signals.ADXThreshold > 100 {
		return fmt.Errorf("adx_threshold must be between 0 and 100")
	}
	if c.Signals.RSIShortEntry < 0 || c.Signals.RSIShortEntry > 100 {
		return fmt.Errorf("rsi_short_entry must be between 0 and 100")
	}
	if c.Signals.RSILongEntry < 0 || c.Signals.RSILongEntry > 100 {
		return fmt.Errorf("rsi_long_entry must be between 0 and 100")
	}
	switch c.Chart.Theme {
	case "dark", "light":
	default:
		return fmt.Errorf("invalid chart theme: %s (must be 'dark' or 'light')", c.Chart.Theme)
	}
	return nil
}
